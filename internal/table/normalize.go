package table

import (
	"WSNSpectra/internal/model"
)

// Normalize divides every valid cell of a row by that row's largest valid cell.
// Rows with no valid cells, or whose maximum is 0, are copied unchanged.
// Missing cells stay missing. The input table is not modified.
func Normalize(t *model.MergedTable) *model.MergedTable {
	out := &model.MergedTable{
		LabelColumn: t.LabelColumn,
		KeyColumn:   t.KeyColumn,
		Columns:     append([]string(nil), t.Columns...),
		Rows:        make([]model.MergedRow, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = NormalizeRow(r)
	}
	return out
}

// NormalizeRow normalizes a single row; see Normalize.
func NormalizeRow(r model.MergedRow) model.MergedRow {
	cells := make([]model.Cell, len(r.Cells))
	copy(cells, r.Cells)
	out := model.MergedRow{Label: r.Label, Key: r.Key, Cells: cells}

	max, ok := rowMax(cells)
	if !ok || max == 0 {
		return out
	}
	for j := range cells {
		if cells[j].Valid {
			cells[j].Value /= max
		}
	}
	return out
}

func rowMax(cells []model.Cell) (float64, bool) {
	var max float64
	found := false
	for _, c := range cells {
		if !c.Valid {
			continue
		}
		if !found || c.Value > max {
			max = c.Value
			found = true
		}
	}
	return max, found
}
