package model

import (
	"WSNSpectra/internal/sensor"
)

// PacketType is the PACKET_TYPE column of a trace.
type PacketType string

const (
	ControlPacket PacketType = "Control_Packet"
	Sensing       PacketType = "Sensing"
)

// StatusSuccessful is the only PACKET_STATUS value counted by the aggregator.
const StatusSuccessful = "Successful"

// PacketRecord is one row of a packet trace.
// ControlSubtype is only meaningful when PacketType is ControlPacket.
type PacketRecord struct {
	PacketType     PacketType
	ControlSubtype string
	SourceID       string
	ReceiverID     string
	Status         string
}

// Successful reports whether the packet was delivered.
func (r PacketRecord) Successful() bool {
	return r.Status == StatusSuccessful
}

// CountRow holds the counters of a single sensor, aligned with SensorCountTable.Counters.
type CountRow struct {
	Sensor sensor.ID
	Values []int
}

// SensorCountTable maps sensors to named, non-negative counters.
// Rows are ordered by ascending sensor index and every row carries a value for every counter.
// A table is not modified after it is built; accessors return copies.
type SensorCountTable struct {
	counters []string
	rows     []CountRow
	index    map[sensor.ID]int
}

// NewSensorCountTable builds a table from per-sensor counter maps.
// Sensors missing a counter get 0 for it.
func NewSensorCountTable(counters []string, values map[sensor.ID]map[string]int) *SensorCountTable {
	ids := make([]sensor.ID, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sensor.Sort(ids)

	t := &SensorCountTable{
		counters: append([]string(nil), counters...),
		rows:     make([]CountRow, len(ids)),
		index:    make(map[sensor.ID]int, len(ids)),
	}
	for i, id := range ids {
		row := CountRow{Sensor: id, Values: make([]int, len(counters))}
		for j, c := range counters {
			row.Values[j] = values[id][c]
		}
		t.rows[i] = row
		t.index[id] = i
	}
	return t
}

// Counters returns the counter names in column order.
func (t *SensorCountTable) Counters() []string {
	return append([]string(nil), t.counters...)
}

// Sensors returns the sensor ids in row order.
func (t *SensorCountTable) Sensors() []sensor.ID {
	ids := make([]sensor.ID, len(t.rows))
	for i, r := range t.rows {
		ids[i] = r.Sensor
	}
	return ids
}

// Rows returns a copy of all rows.
func (t *SensorCountTable) Rows() []CountRow {
	rows := make([]CountRow, len(t.rows))
	for i, r := range t.rows {
		rows[i] = CountRow{Sensor: r.Sensor, Values: append([]int(nil), r.Values...)}
	}
	return rows
}

// Len returns the number of sensors.
func (t *SensorCountTable) Len() int {
	return len(t.rows)
}

// Has reports whether the sensor has a row.
func (t *SensorCountTable) Has(id sensor.ID) bool {
	_, ok := t.index[id]
	return ok
}

// Get returns a counter value; unknown sensors or counters read as 0.
func (t *SensorCountTable) Get(id sensor.ID, counter string) int {
	i, ok := t.index[id]
	if !ok {
		return 0
	}
	for j, c := range t.counters {
		if c == counter {
			return t.rows[i].Values[j]
		}
	}
	return 0
}

// Column returns one counter for every sensor, in row order.
func (t *SensorCountTable) Column(counter string) []int {
	col := make([]int, len(t.rows))
	for j, c := range t.counters {
		if c != counter {
			continue
		}
		for i, r := range t.rows {
			col[i] = r.Values[j]
		}
	}
	return col
}

// Total sums every counter of every sensor.
func (t *SensorCountTable) Total() int {
	total := 0
	for _, r := range t.rows {
		for _, v := range r.Values {
			total += v
		}
	}
	return total
}

// Cell is one numeric value of a merged table. Valid is false for missing values.
type Cell struct {
	Value float64
	Valid bool
}

// MergedRow is one labeled row of a merged table.
type MergedRow struct {
	Label string
	Key   string
	Cells []Cell
}

// MergedTable is the concatenation of several runs' tables, each row tagged with its run label.
type MergedTable struct {
	LabelColumn string
	KeyColumn   string
	Columns     []string
	Rows        []MergedRow
}
