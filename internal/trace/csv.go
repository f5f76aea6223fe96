// Package trace loads simulation packet traces into model.PacketRecord values.
package trace

import (
	"WSNSpectra/internal/model"
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Column names of a NetSim packet trace export.
const (
	ColPacketType = "PACKET_TYPE"
	ColSubtype    = "CONTROL_PACKET_TYPE/APP_NAME"
	ColSourceID   = "SOURCE_ID"
	ColReceiverID = "RECEIVER_ID"
	ColStatus     = "PACKET_STATUS"
)

// RequiredColumns lists the columns a trace must provide.
var RequiredColumns = []string{ColPacketType, ColSubtype, ColSourceID, ColReceiverID, ColStatus}

// ErrMissingColumns is matched by errors.Is when a trace lacks required columns.
var ErrMissingColumns = errors.New("required columns are missing")

// MissingColumnsError names the required columns a trace does not have.
type MissingColumnsError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %v in '%s'", ErrMissingColumns, e.Columns, e.Path)
}

// Is makes errors.Is(err, ErrMissingColumns) true.
func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// ReadCSV loads a trace file. encoding is "latin1" or "utf8" (the default).
func ReadCSV(path, encoding string) ([]model.PacketRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file '%s': %w", path, err)
	}
	defer file.Close()

	var r io.Reader = bufio.NewReader(file)
	if encoding == "latin1" {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}

	records, err := Parse(r)
	if err != nil {
		var mce *MissingColumnsError
		if errors.As(err, &mce) {
			mce.Path = path
		}
		return nil, fmt.Errorf("failed to parse trace '%s': %w", path, err)
	}
	return records, nil
}

// Parse reads trace rows from an already decoded CSV stream.
func Parse(r io.Reader) ([]model.PacketRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &MissingColumnsError{Columns: RequiredColumns}
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := headerIndex(header)
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	field := func(row []string, col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.PacketRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}
		records = append(records, model.PacketRecord{
			PacketType:     model.PacketType(field(row, ColPacketType)),
			ControlSubtype: field(row, ColSubtype),
			SourceID:       field(row, ColSourceID),
			ReceiverID:     field(row, ColReceiverID),
			Status:         field(row, ColStatus),
		})
	}
	return records, nil
}

// headerIndex maps trimmed column names to their position. A UTF-8 BOM on the first column is dropped,
// including its latin1 rendering.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(name, "\ufeff"), "\u00ef\u00bb\u00bf"))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}
