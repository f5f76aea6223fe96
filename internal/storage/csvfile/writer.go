package csvfile

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
	factory.RegisterWriter("csv", func(def config.WriterDef, cfg *config.Config) (model.Writer, error) {
		return NewWriter(cfg.Scenarios.CountsFile), nil
	})
}

// Writer stores a run's counts as a CSV file next to its trace.
// It implements the model.Writer interface.
type Writer struct {
	fileName string
}

// NewWriter creates a writer that uses fileName inside each run directory.
func NewWriter(fileName string) model.Writer {
	if fileName == "" {
		fileName = "Sensor_Message_Counts.csv"
	}
	return &Writer{fileName: fileName}
}

// Name returns the writer type.
func (w *Writer) Name() string {
	return "csv"
}

// Write stores the table as <run dir>/<file name>.
func (w *Writer) Write(t *model.SensorCountTable, run model.RunInfo) error {
	path := filepath.Join(run.Dir, w.fileName)
	header, rows := table.CountRecords(t)
	if err := tabular.Write(path, "", header, rows); err != nil {
		return fmt.Errorf("failed to write counts for run '%s': %w", run.Label(), err)
	}
	log.Printf("Successfully saved counts of %d sensors to %s", t.Len(), path)
	return nil
}
