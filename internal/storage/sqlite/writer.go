package sqlite

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/factory"
	"WSNSpectra/internal/model"
	"WSNSpectra/internal/sensor"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sensor_counts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    scenario TEXT,
    seed TEXT,
    sensor TEXT,
    sensor_idx INTEGER,
    counter TEXT,
    value INTEGER,
    timestamp INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sensor_counts_run ON sensor_counts (scenario, seed);
`

func init() {
	factory.RegisterWriter("sqlite", func(def config.WriterDef, cfg *config.Config) (model.Writer, error) {
		return NewWriter(def.SQLite.Path)
	})
}

// Writer stores count tables in an embedded sqlite database.
type Writer struct {
	db *sql.DB
}

// NewWriter opens (or creates) the database at path.
func NewWriter(path string) (*Writer, error) {
	if path == "" {
		path = "data/sensor_counts.db" // fallback
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &Writer{db: db}, nil
}

func (w *Writer) Name() string {
	return "sqlite"
}

// Write replaces the stored counts of the run in a single transaction.
func (w *Writer) Write(t *model.SensorCountTable, run model.RunInfo) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM sensor_counts WHERE scenario = ? AND seed = ?`, run.Scenario, run.Seed); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear previous counts: %w", err)
	}

	stmt, err := tx.Prepare(`
        INSERT INTO sensor_counts (scenario, seed, sensor, sensor_idx, counter, value, timestamp)
        VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	counters := t.Counters()
	for _, r := range t.Rows() {
		idx, _ := sensor.Index(r.Sensor)
		for j, c := range counters {
			if _, err := stmt.Exec(run.Scenario, run.Seed, string(r.Sensor), idx, c, r.Values[j], now); err != nil {
				tx.Rollback()
				return fmt.Errorf("failed to insert count: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Printf("Wrote %d sensors to sqlite for run '%s'", t.Len(), run.Label())
	return nil
}

// Load reads back the counts of one run.
func (w *Writer) Load(scenario, seed string) (*model.SensorCountTable, error) {
	rows, err := w.db.Query(`
        SELECT sensor, counter, value FROM sensor_counts
        WHERE scenario = ? AND seed = ?
        ORDER BY id`, scenario, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counters []string
	seen := make(map[string]bool)
	values := make(map[sensor.ID]map[string]int)
	for rows.Next() {
		var s, c string
		var v int
		if err := rows.Scan(&s, &c, &v); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		if !seen[c] {
			seen[c] = true
			counters = append(counters, c)
		}
		id := sensor.ID(s)
		if values[id] == nil {
			values[id] = make(map[string]int)
		}
		values[id][c] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.NewSensorCountTable(counters, values), nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// ListRuns lists the stored runs ordered by scenario and seed.
func (w *Writer) ListRuns() ([]model.StoredRun, error) {
	rows, err := w.db.Query(`
        SELECT scenario, seed, COUNT(DISTINCT sensor) FROM sensor_counts
        GROUP BY scenario, seed
        ORDER BY scenario, seed`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []model.StoredRun
	for rows.Next() {
		var r model.StoredRun
		if err := rows.Scan(&r.Scenario, &r.Seed, &r.Sensors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
