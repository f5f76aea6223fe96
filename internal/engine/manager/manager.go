package manager

import (
	"WSNSpectra/internal/batch"
	"WSNSpectra/internal/chart"
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/engine/aggregator"
	_ "WSNSpectra/internal/engine/impl/counting" // Registers control_packet and sensing tasks
	"WSNSpectra/internal/factory"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/publish"
	"WSNSpectra/internal/sensor"
	_ "WSNSpectra/internal/storage/clickhouse" // Registers clickhouse writer
	_ "WSNSpectra/internal/storage/csvfile"    // Registers csv writer
	_ "WSNSpectra/internal/storage/sqlite"     // Registers sqlite writer
	_ "WSNSpectra/internal/storage/xlsx"       // Registers xlsx writer
	"WSNSpectra/internal/table"
	"WSNSpectra/internal/tabular"
	"WSNSpectra/internal/telemetry"
	"WSNSpectra/internal/trace"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/plot/vg"
)

// Publisher receives a summary after every run.
type Publisher interface {
	Publish(s publish.RunSummary) error
}

// RunResult is what ProcessRun produced for one run.
type RunResult struct {
	Run     model.RunInfo
	Records int
	Table   *model.SensorCountTable
	Charts  []string
}

// Manager orchestrates the counting tasks and their writers for each run.
type Manager struct {
	cfg       *config.Config
	group     *factory.TaskGroup
	publisher Publisher
	telemetry *telemetry.Collector
}

// NewManager creates a new Manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	group, err := factory.Create(cfg)
	if err != nil {
		return nil, err
	}
	if len(group.Writers) == 0 {
		log.Println("Warning: no writers enabled, counts will not be persisted.")
	}
	return &Manager{cfg: cfg, group: group}, nil
}

// SetPublisher enables run summaries.
func (m *Manager) SetPublisher(p Publisher) {
	m.publisher = p
}

// SetTelemetry enables metrics collection.
func (m *Manager) SetTelemetry(c *telemetry.Collector) {
	m.telemetry = c
}

// Tasks returns the configured tasks in order.
func (m *Manager) Tasks() []model.Task {
	return m.group.Tasks
}

// ProcessRun loads the run's trace and fans every record out to all tasks. The task
// snapshots are combined in task order, written by every writer and charted. Tasks
// are reset afterwards so no state crosses runs.
func (m *Manager) ProcessRun(ctx context.Context, run model.RunInfo) (*RunResult, error) {
	defer m.resetAllTasks()

	if err := batch.CheckTrace(run); err != nil {
		m.publishOutcome(run, nil, 0, err)
		return nil, err
	}

	records, err := trace.Load(run.TracePath, m.cfg.Scenarios.Encoding, trace.PcapOptions{SinkNodes: m.cfg.Scenarios.Pcap.SinkNodes})
	if err != nil {
		m.publishOutcome(run, nil, 0, err)
		return nil, err
	}
	log.Printf("Loaded %d records from %s", len(records), run.TracePath)

	for i := range records {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		for _, task := range m.group.Tasks {
			task.ProcessRecord(&records[i])
		}
	}

	snapshots := make([]*model.SensorCountTable, len(m.group.Tasks))
	for i, task := range m.group.Tasks {
		snapshots[i] = task.Snapshot()
	}
	combined := aggregator.Combine(snapshots...)
	result := &RunResult{Run: run, Records: len(records), Table: combined}

	for _, writer := range m.group.Writers {
		if err := writer.Write(combined, run); err != nil {
			log.Printf("Error writing counts for run %s with writer %s: %v", run.Label(), writer.Name(), err)
		}
	}

	if m.cfg.Charts.Enabled {
		result.Charts = m.renderCharts(combined, run)
	}

	if m.telemetry != nil {
		m.telemetry.ObserveRun(run.Scenario, run.Seed, len(records), totals(combined))
	}
	m.publishOutcome(run, combined, len(records), nil)

	log.Printf("Processed run '%s': %d records, %d sensors.", run.Label(), len(records), combined.Len())
	return result, nil
}

// PlotRun renders the configured charts from a run's saved counts file.
func (m *Manager) PlotRun(ctx context.Context, run model.RunInfo) ([]string, error) {
	path := filepath.Join(run.Dir, m.cfg.Scenarios.CountsFile)
	sheet, err := tabular.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", batch.ErrCountsNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	counts, err := table.CountsFromSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid counts file %s: %w", path, err)
	}
	return m.renderCharts(counts, run), nil
}

func (m *Manager) renderCharts(t *model.SensorCountTable, run model.RunInfo) []string {
	malicious := sensor.Set(m.cfg.Scenarios.MaliciousSensors[run.Scenario])
	var written []string
	for _, def := range m.cfg.Charts.Bars {
		path := filepath.Join(run.Dir, def.FileName)
		spec := chart.BarSpec{
			Title:    def.Title,
			YLabel:   def.YLabel,
			Counters: def.Counters,
			Legends:  def.Legends,
			Width:    vg.Length(m.cfg.Charts.WidthInches) * vg.Inch,
			Height:   vg.Length(m.cfg.Charts.HeightInches) * vg.Inch,
		}
		if err := chart.BarChart(t, spec, malicious, path); err != nil {
			log.Printf("Warning: chart '%s' for run %s not rendered: %v", def.Name, run.Label(), err)
			continue
		}
		written = append(written, path)
	}
	if len(written) > 0 {
		log.Printf("Successfully rendered %d charts for run '%s'", len(written), run.Label())
	}
	return written
}

func (m *Manager) publishOutcome(run model.RunInfo, t *model.SensorCountTable, records int, runErr error) {
	if m.publisher == nil {
		return
	}
	s := publish.RunSummary{
		Scenario: run.Scenario,
		Seed:     run.Seed,
		Outcome:  string(batch.StatusOK),
		Records:  records,
		Time:     time.Now(),
	}
	if runErr != nil {
		s.Outcome = string(batch.StatusFailed)
		if batch.IsSkippable(runErr) {
			s.Outcome = string(batch.StatusSkipped)
		}
		s.Error = runErr.Error()
	}
	if t != nil {
		s.Sensors = t.Len()
		s.Totals = totals(t)
	}
	if err := m.publisher.Publish(s); err != nil {
		log.Printf("Warning: failed to publish summary for run %s: %v", run.Label(), err)
	}
}

// resetAllTasks clears every task before the next run.
func (m *Manager) resetAllTasks() {
	for _, task := range m.group.Tasks {
		task.Reset()
	}
}

func totals(t *model.SensorCountTable) map[string]int {
	out := make(map[string]int)
	for _, c := range t.Counters() {
		sum := 0
		for _, v := range t.Column(c) {
			sum += v
		}
		out[c] = sum
	}
	return out
}
