package model

// RunInfo identifies one simulation run.
type RunInfo struct {
	Scenario  string
	Seed      string
	Dir       string
	TracePath string
}

// Label returns the run label used in merged tables, e.g. "4/seed2".
func (r RunInfo) Label() string {
	if r.Scenario == "" {
		return r.Seed
	}
	return r.Scenario + "/" + r.Seed
}

// Writer defines a generic interface for persisting a run's count table.
type Writer interface {
	// Write takes the combined table of one run and persists it.
	Write(table *SensorCountTable, run RunInfo) error

	// Name returns the writer type, used in logs.
	Name() string
}

// StoredRun describes a run found in a counts store.
type StoredRun struct {
	Scenario string
	Seed     string
	Sensors  int
}
