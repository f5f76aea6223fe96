package query

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/model"
	chstore "WSNSpectra/internal/storage/clickhouse"
	"WSNSpectra/internal/storage/sqlite"
	"context"
	"fmt"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Querier defines the interface for querying stored sensor counts.
type Querier interface {
	ListRuns(ctx context.Context) ([]model.StoredRun, error)
	RunCounts(ctx context.Context, scenario, seed string) (*model.SensorCountTable, error)
}

// New creates a querier for the first enabled database writer of the config.
func New(cfg *config.Config) (Querier, error) {
	for _, w := range cfg.Aggregator.Writers {
		if !w.Enabled {
			continue
		}
		switch w.Type {
		case "clickhouse":
			return NewClickHouseQuerier(w.ClickHouse)
		case "sqlite":
			return NewSQLiteQuerier(w.SQLite.Path)
		}
	}
	return nil, fmt.Errorf("no clickhouse or sqlite writer enabled to query from")
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := chstore.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

func (q *clickhouseQuerier) ListRuns(ctx context.Context) ([]model.StoredRun, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT Scenario, Seed, uniqExact(Sensor) AS Sensors
		FROM sensor_counts
		GROUP BY Scenario, Seed
		ORDER BY Scenario, Seed
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var runs []model.StoredRun
	for rows.Next() {
		var r model.StoredRun
		var sensors uint64
		if err := rows.Scan(&r.Scenario, &r.Seed, &sensors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.Sensors = int(sensors)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunCounts returns the latest written value of every (sensor, counter) of a run.
func (q *clickhouseQuerier) RunCounts(ctx context.Context, scenario, seed string) (*model.SensorCountTable, error) {
	query, args := runCountsQuery(scenario, seed)
	rows, err := q.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var counts []chstore.CountRow
	for rows.Next() {
		var r chstore.CountRow
		var idx int32
		var value uint64
		if err := rows.Scan(&r.Sensor, &idx, &r.Counter, &value); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		r.Index = int(idx)
		r.Value = int(value)
		counts = append(counts, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chstore.Unflatten(counts), nil
}

func runCountsQuery(scenario, seed string) (string, []interface{}) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT
			Sensor,
			any(SensorIdx) AS Idx,
			Counter,
			argMax(Value, Timestamp) AS LatestValue
		FROM sensor_counts
	`)

	whereClauses := []string{"Scenario = ?", "Seed = ?"}
	args := []interface{}{scenario, seed}
	queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	queryBuilder.WriteString(`
		GROUP BY Sensor, Counter
		ORDER BY min(Timestamp), Idx
	`)
	return queryBuilder.String(), args
}

// sqliteQuerier implements the Querier interface on the embedded sqlite store.
type sqliteQuerier struct {
	store *sqlite.Writer
}

// NewSQLiteQuerier opens the sqlite counts database at path.
func NewSQLiteQuerier(path string) (Querier, error) {
	store, err := sqlite.NewWriter(path)
	if err != nil {
		return nil, err
	}
	return &sqliteQuerier{store: store}, nil
}

func (q *sqliteQuerier) ListRuns(ctx context.Context) ([]model.StoredRun, error) {
	return q.store.ListRuns()
}

func (q *sqliteQuerier) RunCounts(ctx context.Context, scenario, seed string) (*model.SensorCountTable, error) {
	return q.store.Load(scenario, seed)
}
