package telemetry

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Run outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

type runKey struct {
	scenario string
	seed     string
	counter  string
}

// Collector exposes batch progress and the latest per-run counter totals.
type Collector struct {
	mu       sync.Mutex
	outcomes map[string]uint64
	records  uint64
	totals   map[runKey]int

	runs    *prometheus.Desc
	recs    *prometheus.Desc
	counter *prometheus.Desc

	registry *prometheus.Registry
}

// New creates a collector registered in its own registry.
func New() *Collector {
	c := &Collector{
		outcomes: make(map[string]uint64),
		totals:   make(map[runKey]int),
		runs: prometheus.NewDesc(
			"wsnspectra_runs_total",
			"Simulation runs processed per outcome",
			[]string{"outcome"},
			nil,
		),
		recs: prometheus.NewDesc(
			"wsnspectra_trace_records_total",
			"Trace records read across all runs",
			nil,
			nil,
		),
		counter: prometheus.NewDesc(
			"wsnspectra_run_counter_total",
			"Sum of a counter over all sensors of a run",
			[]string{"scenario", "seed", "counter"},
			nil,
		),
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(c)
	return c
}

// ObserveOutcome counts one run outcome.
func (c *Collector) ObserveOutcome(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes[outcome]++
}

// ObserveRun records the trace size and counter totals of a processed run.
func (c *Collector) ObserveRun(scenario, seed string, records int, totals map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records += uint64(records)
	for counter, v := range totals {
		c.totals[runKey{scenario: scenario, seed: seed, counter: counter}] = v
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.runs
	ch <- c.recs
	ch <- c.counter
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for outcome, n := range c.outcomes {
		ch <- prometheus.MustNewConstMetric(c.runs, prometheus.CounterValue, float64(n), outcome)
	}
	ch <- prometheus.MustNewConstMetric(c.recs, prometheus.CounterValue, float64(c.records))
	for k, v := range c.totals {
		ch <- prometheus.MustNewConstMetric(c.counter, prometheus.GaugeValue, float64(v), k.scenario, k.seed, k.counter)
	}
}

// Handler serves the collector's registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteTextfile writes the current metrics for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
