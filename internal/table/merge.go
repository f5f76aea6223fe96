// Package table merges per-run count tables and normalizes their rows.
package table

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/tabular"
	"fmt"
	"strconv"
)

// Default column names of a merged table.
const (
	DefaultLabelColumn = "Run"
	DefaultKeyColumn   = "Sensor"
)

// Labeled is one run's rows waiting to be merged.
type Labeled struct {
	Label   string
	Columns []string
	Rows    []KeyedCells
}

// KeyedCells is a row key (usually a sensor id) and its numeric cells.
type KeyedCells struct {
	Key   string
	Cells []model.Cell
}

// FromCounts lifts a run's count table into mergeable rows.
func FromCounts(label string, t *model.SensorCountTable) Labeled {
	l := Labeled{Label: label, Columns: t.Counters()}
	for _, r := range t.Rows() {
		cells := make([]model.Cell, len(r.Values))
		for i, v := range r.Values {
			cells[i] = model.Cell{Value: float64(v), Valid: true}
		}
		l.Rows = append(l.Rows, KeyedCells{Key: string(r.Sensor), Cells: cells})
	}
	return l
}

// ParseRows builds mergeable rows from a loaded counts file. The first column is the row key;
// every other cell is coerced to a number, and cells that do not parse become missing.
func ParseRows(label string, sheet *tabular.Sheet) (Labeled, error) {
	if len(sheet.Header) < 2 {
		return Labeled{}, fmt.Errorf("counts table needs a key column and at least one counter, got %v", sheet.Header)
	}
	l := Labeled{Label: label, Columns: append([]string(nil), sheet.Header[1:]...)}
	for i := range sheet.Rows {
		cells := make([]model.Cell, len(l.Columns))
		for j := range l.Columns {
			v, ok := tabular.ParseNumber(sheet.Cell(i, j+1))
			cells[j] = model.Cell{Value: v, Valid: ok}
		}
		l.Rows = append(l.Rows, KeyedCells{Key: sheet.Cell(i, 0), Cells: cells})
	}
	return l, nil
}

// Merge concatenates runs in input order, tagging each row with its run label.
// Columns are the union of all runs' columns in first-seen order; a run without a column
// gets missing cells for it.
func Merge(runs []Labeled) *model.MergedTable {
	merged := &model.MergedTable{
		LabelColumn: DefaultLabelColumn,
		KeyColumn:   DefaultKeyColumn,
	}

	pos := make(map[string]int)
	for _, run := range runs {
		for _, c := range run.Columns {
			if _, ok := pos[c]; !ok {
				pos[c] = len(merged.Columns)
				merged.Columns = append(merged.Columns, c)
			}
		}
	}

	for _, run := range runs {
		for _, r := range run.Rows {
			cells := make([]model.Cell, len(merged.Columns))
			for j, c := range run.Columns {
				if j < len(r.Cells) {
					cells[pos[c]] = r.Cells[j]
				}
			}
			merged.Rows = append(merged.Rows, model.MergedRow{Label: run.Label, Key: r.Key, Cells: cells})
		}
	}
	return merged
}

// Records renders a merged table as header and string rows. Missing cells are empty.
func Records(t *model.MergedTable) ([]string, [][]string) {
	header := append([]string{t.LabelColumn, t.KeyColumn}, t.Columns...)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]string, 0, len(header))
		row = append(row, r.Label, r.Key)
		for _, c := range r.Cells {
			if c.Valid {
				row = append(row, tabular.FormatNumber(c.Value))
			} else {
				row = append(row, "")
			}
		}
		rows[i] = row
	}
	return header, rows
}

// CountRecords renders a run's count table with a leading sensor column.
func CountRecords(t *model.SensorCountTable) ([]string, [][]string) {
	header := append([]string{DefaultKeyColumn}, t.Counters()...)
	var rows [][]string
	for _, r := range t.Rows() {
		row := make([]string, 0, len(header))
		row = append(row, string(r.Sensor))
		for _, v := range r.Values {
			row = append(row, strconv.Itoa(v))
		}
		rows = append(rows, row)
	}
	return header, rows
}
