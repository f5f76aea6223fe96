package counting

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/engine/aggregator"
	"WSNSpectra/internal/factory"
	"WSNSpectra/internal/model"
	"fmt"
	"log"
)

// --- Factory Registration ---

func init() {
	factory.RegisterTask("control_packet", func(def config.TaskDef) (model.Task, error) {
		if def.Subtype == "" {
			return nil, fmt.Errorf("control_packet task requires a subtype (e.g. DAO, DIO)")
		}
		pt := model.PacketType(def.PacketType)
		if pt == "" {
			pt = model.ControlPacket
		}
		return New(def.Name, selectorFor(def, pt))
	})

	factory.RegisterTask("sensing", func(def config.TaskDef) (model.Task, error) {
		pt := model.PacketType(def.PacketType)
		if pt == "" {
			pt = model.Sensing
		}
		return New(def.Name, selectorFor(def, pt))
	})
}

func selectorFor(def config.TaskDef, pt model.PacketType) aggregator.Selector {
	return aggregator.Selector{
		PacketType:      pt,
		Subtype:         def.Subtype,
		SentCounter:     def.SentCounter,
		ReceivedCounter: def.ReceivedCounter,
	}
}

// --- Task Implementation ---

// Task counts the records of one selector. It implements the model.Task interface.
// Tasks are driven by a single goroutine.
type Task struct {
	name    string
	counter *aggregator.Counter
}

// New creates a new counting task.
func New(name string, sel aggregator.Selector) (model.Task, error) {
	if len(sel.Counters()) == 0 {
		return nil, fmt.Errorf("task '%s' emits no counters, set sent_counter and/or received_counter", name)
	}
	log.Printf("Creating counting task '%s' for %s/%s -> %v", name, sel.PacketType, sel.Subtype, sel.Counters())
	return &Task{name: name, counter: aggregator.NewCounter(sel)}, nil
}

// Name returns the name of the task.
func (t *Task) Name() string {
	return t.name
}

// ProcessRecord counts a single trace record.
func (t *Task) ProcessRecord(record *model.PacketRecord) {
	t.counter.Add(record)
}

// Snapshot returns the counts accumulated since the last reset.
func (t *Task) Snapshot() *model.SensorCountTable {
	return t.counter.Table()
}

// Reset clears the internal state of the task, preparing it for the next run.
func (t *Task) Reset() {
	t.counter.Reset()
}
