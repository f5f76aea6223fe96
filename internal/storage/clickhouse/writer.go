package clickhouse

import (
	"WSNSpectra/internal/config"
	"WSNSpectra/internal/factory"
	"WSNSpectra/internal/model"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// CreateTableStatement is the schema shared by the writer and the querier.
// Counts are stored long-form so any configured counter fits without a schema change.
const CreateTableStatement = `
CREATE TABLE IF NOT EXISTS sensor_counts (
    Timestamp DateTime,
    Scenario  String,
    Seed      String,
    Sensor    String,
    SensorIdx Int32,
    Counter   String,
    Value     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Scenario, Seed, Counter, SensorIdx);
`

func init() {
	factory.RegisterWriter("clickhouse", func(def config.WriterDef, cfg *config.Config) (model.Writer, error) {
		return NewWriter(def.ClickHouse)
	})
}

// Writer implements the model.Writer interface for ClickHouse.
type Writer struct {
	conn driver.Conn
}

// NewWriter connects to ClickHouse and makes sure the table exists.
func NewWriter(cfg config.ClickHouseConfig) (model.Writer, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), CreateTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	return &Writer{conn: conn}, nil
}

// Connect opens and pings a ClickHouse connection.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

func (w *Writer) Name() string {
	return "clickhouse"
}

// Write inserts one row per (sensor, counter) into sensor_counts.
func (w *Writer) Write(t *model.SensorCountTable, run model.RunInfo) error {
	rows := Flatten(t)
	if len(rows) == 0 {
		return nil // Nothing to write
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO sensor_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	now := time.Now().UTC()
	for _, r := range rows {
		err = batch.Append(now, run.Scenario, run.Seed, r.Sensor, int32(r.Index), r.Counter, uint64(r.Value))
		if err != nil {
			return fmt.Errorf("failed to append count to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d counts to ClickHouse for run '%s'", len(rows), run.Label())
	return nil
}
