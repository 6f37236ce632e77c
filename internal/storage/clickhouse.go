package storage

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"NavTrace/internal/config"
	"NavTrace/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS gnss_dump (
    Timestamp   DateTime64(9),
    Instance    UInt8,
    Flags       UInt8,
    Len         UInt16,
    ReportedLen UInt16,
    Data        String
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Instance, Timestamp);
`

// row is a frame copied into insert-ready form so the caller can reuse the
// frame's Data after Write returns.
type row struct {
	timestamp   time.Time
	instance    uint8
	flags       uint8
	length      uint16
	reportedLen uint16
	data        string
}

// ClickHouseWriter implements the model.Writer interface for ClickHouse,
// batching inserts to keep the part count sane.
type ClickHouseWriter struct {
	conn      driver.Conn
	batchSize int

	mu      sync.Mutex
	pending []row
}

// NewClickHouseWriter connects to ClickHouse and ensures the dump table exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig, batchSize int) (*ClickHouseWriter, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured table exists.")

	if batchSize <= 0 {
		batchSize = 64
	}
	return &ClickHouseWriter{conn: conn, batchSize: batchSize}, nil
}

// Connect opens a ClickHouse connection and verifies it with a ping.
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

// Write buffers a frame and sends a batch once batchSize frames are pending.
func (w *ClickHouseWriter) Write(f *model.DumpFrame) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, row{
		timestamp:   f.Timestamp,
		instance:    f.Instance,
		flags:       f.Flags,
		length:      uint16(f.Len),
		reportedLen: f.ReportedLen(),
		data:        string(f.Data[:f.Len]),
	})

	if len(w.pending) < w.batchSize {
		return nil
	}
	return w.sendLocked()
}

// sendLocked flushes all pending rows in one insert. Called with w.mu held.
func (w *ClickHouseWriter) sendLocked() error {
	if len(w.pending) == 0 {
		return nil
	}

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO gnss_dump")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, r := range w.pending {
		if err := batch.Append(r.timestamp, r.instance, r.flags, r.length, r.reportedLen, r.data); err != nil {
			return fmt.Errorf("failed to append frame to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("Wrote %d dump frames to ClickHouse", len(w.pending))
	w.pending = w.pending[:0]
	return nil
}

// Close sends any pending rows and closes the connection.
func (w *ClickHouseWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.sendLocked(); err != nil {
		return err
	}
	return w.conn.Close()
}
