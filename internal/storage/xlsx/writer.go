package xlsx

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/factory"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/table"
	"WSNSpectra/internal/tabular"
	"fmt"
	"log"
	"path/filepath"
)

func init() {
	factory.RegisterWriter("xlsx", func(def config.WriterDef, cfg *config.Config) (model.Writer, error) {
		return NewWriter(def.XLSX.FileName, def.XLSX.SheetName), nil
	})
}

// Writer stores a run's counts as a workbook next to its trace.
type Writer struct {
	fileName  string
	sheetName string
}

// NewWriter creates a workbook writer.
func NewWriter(fileName, sheetName string) model.Writer {
	if fileName == "" {
		fileName = "Sensor_Message_Counts.xlsx"
	}
	if sheetName == "" {
		sheetName = "Counts"
	}
	return &Writer{fileName: fileName, sheetName: sheetName}
}

func (w *Writer) Name() string {
	return "xlsx"
}

func (w *Writer) Write(t *model.SensorCountTable, run model.RunInfo) error {
	path := filepath.Join(run.Dir, w.fileName)
	header, rows := table.CountRecords(t)
	if err := tabular.Write(path, w.sheetName, header, rows); err != nil {
		return fmt.Errorf("failed to write workbook for run '%s': %w", run.Label(), err)
	}
	log.Printf("Successfully saved counts workbook to %s", path)
	return nil
}
