package clickhouse

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
)

// CountRow is one long-form count.
type CountRow struct {
	Sensor  string
	Index   int
	Counter string
	Value   int
}

// Flatten turns a count table into long-form rows, sensor-major.
func Flatten(t *model.SensorCountTable) []CountRow {
	counters := t.Counters()
	var rows []CountRow
	for _, r := range t.Rows() {
		idx, _ := sensor.Index(r.Sensor)
		for j, c := range counters {
			rows = append(rows, CountRow{Sensor: string(r.Sensor), Index: idx, Counter: c, Value: r.Values[j]})
		}
	}
	return rows
}

// Unflatten rebuilds a count table from long-form rows. Counter order follows first appearance.
func Unflatten(rows []CountRow) *model.SensorCountTable {
	var counters []string
	seen := make(map[string]bool)
	values := make(map[sensor.ID]map[string]int)
	for _, r := range rows {
		if !seen[r.Counter] {
			seen[r.Counter] = true
			counters = append(counters, r.Counter)
		}
		id := sensor.ID(r.Sensor)
		if values[id] == nil {
			values[id] = make(map[string]int)
		}
		values[id][r.Counter] = r.Value
	}
	return model.NewSensorCountTable(counters, values)
}
