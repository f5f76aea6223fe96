package telemetry

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCollector(t *testing.T) {
	c := New()
	c.ObserveOutcome(OutcomeOK)
	c.ObserveOutcome(OutcomeOK)
	c.ObserveOutcome(OutcomeSkipped)
	c.ObserveRun("4", "seed1", 120, map[string]int{"DAO_Sent": 17})

	// 1. Textfile export.
	path := filepath.Join(t.TempDir(), "wsnspectra.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		`wsnspectra_runs_total{outcome="ok"} 2`,
		`wsnspectra_runs_total{outcome="skipped"} 1`,
		`wsnspectra_trace_records_total 120`,
		`wsnspectra_run_counter_total{counter="DAO_Sent",scenario="4",seed="seed1"} 17`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Textfile missing %q:\n%s", want, out)
		}
	}

	// 2. HTTP handler.
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "wsnspectra_runs_total") {
		t.Errorf("Handler output missing runs metric")
	}
}
