// Package aggregator turns packet traces into per-sensor sent/received counts.
package aggregator

import (
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
)

// Selector picks the records a count is taken over and names the resulting counters.
// An empty Subtype matches any subtype. An empty counter name means that side is
// not emitted, although the sensors on it still get a row.
type Selector struct {
	PacketType      model.PacketType
	Subtype         string
	SentCounter     string
	ReceivedCounter string
}

// Matches reports whether a record is counted by the selector.
func (s Selector) Matches(r *model.PacketRecord) bool {
	if !r.Successful() || r.PacketType != s.PacketType {
		return false
	}
	return s.Subtype == "" || r.ControlSubtype == s.Subtype
}

// Counters returns the emitted counter names, sent first.
func (s Selector) Counters() []string {
	var counters []string
	if s.SentCounter != "" {
		counters = append(counters, s.SentCounter)
	}
	if s.ReceivedCounter != "" {
		counters = append(counters, s.ReceivedCounter)
	}
	return counters
}

// Counter accumulates one selector's counts. It is not safe for concurrent use.
type Counter struct {
	selector Selector
	values   map[sensor.ID]map[string]int
}

// NewCounter creates an empty counter for the selector.
func NewCounter(sel Selector) *Counter {
	return &Counter{selector: sel, values: make(map[sensor.ID]map[string]int)}
}

// Add counts a single record if it matches the selector.
// Infrastructure endpoints are skipped on both sides.
func (c *Counter) Add(r *model.PacketRecord) {
	if !c.selector.Matches(r) {
		return
	}
	if sensor.IsSensor(r.SourceID) {
		c.bump(sensor.Canonicalize(r.SourceID), c.selector.SentCounter)
	}
	if sensor.IsSensor(r.ReceiverID) {
		c.bump(sensor.Canonicalize(r.ReceiverID), c.selector.ReceivedCounter)
	}
}

func (c *Counter) bump(id sensor.ID, counter string) {
	row, ok := c.values[id]
	if !ok {
		row = make(map[string]int)
		c.values[id] = row
	}
	if counter != "" {
		row[counter]++
	}
}

// Table builds the count table accumulated so far.
func (c *Counter) Table() *model.SensorCountTable {
	return model.NewSensorCountTable(c.selector.Counters(), c.values)
}

// Reset discards all counts.
func (c *Counter) Reset() {
	c.values = make(map[sensor.ID]map[string]int)
}

// Aggregate counts the trace for one selector.
func Aggregate(trace []model.PacketRecord, sel Selector) *model.SensorCountTable {
	c := NewCounter(sel)
	for i := range trace {
		c.Add(&trace[i])
	}
	return c.Table()
}

// Combine joins tables on sensor id. Counter columns keep argument order; a sensor
// missing from a table gets 0 for that table's counters.
func Combine(tables ...*model.SensorCountTable) *model.SensorCountTable {
	var counters []string
	seen := make(map[string]bool)
	values := make(map[sensor.ID]map[string]int)

	for _, t := range tables {
		if t == nil {
			continue
		}
		tc := t.Counters()
		for _, c := range tc {
			if !seen[c] {
				seen[c] = true
				counters = append(counters, c)
			}
		}
		for _, row := range t.Rows() {
			dst, ok := values[row.Sensor]
			if !ok {
				dst = make(map[string]int)
				values[row.Sensor] = dst
			}
			for j, c := range tc {
				dst[c] += row.Values[j]
			}
		}
	}
	return model.NewSensorCountTable(counters, values)
}
