package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"NavTrace/internal/config"
	"NavTrace/internal/storage"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// FrameRecord is a stored dump frame as returned by a query.
type FrameRecord struct {
	Timestamp   time.Time `json:"timestamp"`
	Instance    uint8     `json:"instance"`
	Flags       uint8     `json:"flags"`
	Len         uint16    `json:"len"`
	ReportedLen uint16    `json:"reported_len"`
	Data        []byte    `json:"data"`
}

// InstanceSummary aggregates the stored volume for one dump source.
type InstanceSummary struct {
	Instance    uint8  `json:"instance"`
	FrameCount  uint64 `json:"frame_count"`
	TotalBytes  uint64 `json:"total_bytes"`
	SolicitedCt uint64 `json:"solicited_count"`
}

// Querier defines the interface for querying stored dump frames.
type Querier interface {
	Frames(ctx context.Context, instance int, from, to time.Time, limit int) ([]FrameRecord, error)
	Summaries(ctx context.Context) ([]InstanceSummary, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := storage.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

// Frames returns stored frames newest first. instance < 0 matches all
// instances; zero from/to leave the time range open on that side.
func (q *clickhouseQuerier) Frames(ctx context.Context, instance int, from, to time.Time, limit int) ([]FrameRecord, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT Timestamp, Instance, Flags, Len, ReportedLen, Data
		FROM gnss_dump
	`)

	var whereClauses []string
	args := []interface{}{}

	if instance >= 0 {
		whereClauses = append(whereClauses, "Instance = ?")
		args = append(args, uint8(instance))
	}
	if !from.IsZero() {
		whereClauses = append(whereClauses, "Timestamp >= ?")
		args = append(args, from)
	}
	if !to.IsZero() {
		whereClauses = append(whereClauses, "Timestamp <= ?")
		args = append(args, to)
	}

	if len(whereClauses) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(whereClauses, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY Timestamp DESC")
	if limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT %d", limit))
	}

	rows, err := q.conn.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var records []FrameRecord
	for rows.Next() {
		var rec FrameRecord
		var data string
		if err := rows.Scan(&rec.Timestamp, &rec.Instance, &rec.Flags, &rec.Len, &rec.ReportedLen, &data); err != nil {
			return nil, fmt.Errorf("failed to scan frame record: %w", err)
		}
		rec.Data = []byte(data)
		records = append(records, rec)
	}

	return records, nil
}

// Summaries returns per-instance totals across all stored frames.
func (q *clickhouseQuerier) Summaries(ctx context.Context) ([]InstanceSummary, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT
			Instance,
			COUNT(*) AS FrameCount,
			SUM(Len) AS TotalBytes,
			countIf(bitAnd(Flags, 128) != 0) AS SolicitedCt
		FROM gnss_dump
		GROUP BY Instance
		ORDER BY Instance
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var summaries []InstanceSummary
	for rows.Next() {
		var s InstanceSummary
		if err := rows.Scan(&s.Instance, &s.FrameCount, &s.TotalBytes, &s.SolicitedCt); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, nil
}
