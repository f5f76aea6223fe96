package query

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
	"WSNSpectra/internal/storage/sqlite"
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRunCountsQuery(t *testing.T) {
	q, args := runCountsQuery("4", "seed2")
	if !strings.Contains(q, "WHERE Scenario = ? AND Seed = ?") {
		t.Errorf("Unexpected query: %s", q)
	}
	if !reflect.DeepEqual(args, []interface{}{"4", "seed2"}) {
		t.Errorf("Unexpected args: %v", args)
	}
}

func TestNew_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counts.db")

	// 1. Store a run through the writer.
	w, err := sqlite.NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	table := model.NewSensorCountTable([]string{"DAO_Sent"}, map[sensor.ID]map[string]int{"S-1": {"DAO_Sent": 3}})
	if err := w.Write(table, model.RunInfo{Scenario: "2", Seed: "seed1"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	w.Close()

	// 2. Query it back through the config.
	cfg := config.Default()
	cfg.Aggregator.Writers = []config.WriterDef{
		{Type: "csv", Enabled: true},
		{Type: "sqlite", Enabled: true, SQLite: config.SQLiteConfig{Path: path}},
	}
	q, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	runs, err := q.ListRuns(context.Background())
	if err != nil || len(runs) != 1 || runs[0].Seed != "seed1" {
		t.Fatalf("ListRuns = %+v, %v", runs, err)
	}
	got, err := q.RunCounts(context.Background(), "2", "seed1")
	if err != nil {
		t.Fatalf("RunCounts failed: %v", err)
	}
	if got.Get("S-1", "DAO_Sent") != 3 {
		t.Errorf("Unexpected counts: %v", got.Rows())
	}
}

func TestNew_NoDatabase(t *testing.T) {
	if _, err := New(config.Default()); err == nil {
		t.Error("Expected an error without a database writer, got nil")
	}
}
