package table

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
	"WSNSpectra/internal/tabular"
	"fmt"
	"math"
)

// CountsFromSheet reads back a counts file written by CountRecords.
// Empty cells count as 0; any other non-integer cell is an error.
func CountsFromSheet(sheet *tabular.Sheet) (*model.SensorCountTable, error) {
	if len(sheet.Header) < 2 {
		return nil, fmt.Errorf("counts table needs a key column and at least one counter, got %v", sheet.Header)
	}
	counters := append([]string(nil), sheet.Header[1:]...)
	values := make(map[sensor.ID]map[string]int)

	for i := range sheet.Rows {
		id := sensor.Canonicalize(sheet.Cell(i, 0))
		if id == "" {
			continue
		}
		row := make(map[string]int, len(counters))
		for j, c := range counters {
			raw := sheet.Cell(i, j+1)
			if raw == "" {
				continue
			}
			v, ok := tabular.ParseNumber(raw)
			if !ok || v != math.Trunc(v) {
				return nil, fmt.Errorf("row %d: invalid count %q for %s", i+1, raw, c)
			}
			row[c] = int(v)
		}
		values[id] = row
	}
	return model.NewSensorCountTable(counters, values), nil
}
