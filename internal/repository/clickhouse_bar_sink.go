package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"StockAccess/internal/domain/models"
	applogger "StockAccess/pkg/logger"
)

const DefaultBarTable = "stock_bars"

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// ClickHouseBarSink writes bars into a ReplacingMergeTree table keyed by
// (symbol, ts), so re-exporting a range replaces earlier rows.
type ClickHouseBarSink struct {
	db        execer
	table     string
	mode      string
	chunkSize int
	l         *applogger.Logger
}

func NewClickHouseBarSink(db execer, table, mode string) *ClickHouseBarSink {
	if table == "" {
		table = DefaultBarTable
	}
	return &ClickHouseBarSink{db: db, table: table, mode: mode, chunkSize: 2000}
}

// SetLogger injects a structured logger.
func (s *ClickHouseBarSink) SetLogger(l *applogger.Logger) { s.l = l }

func (s *ClickHouseBarSink) Name() string { return "clickhouse" }

// Schema returns the DDL creating the bar table.
func (s *ClickHouseBarSink) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ts         DateTime,
            symbol     LowCardinality(String),
            mode       LowCardinality(String),
            trade_date String,
            open       Float64,
            high       Float64,
            low        Float64,
            close      Float64,
            volume     Float64,
            ingested   DateTime DEFAULT now()
        )
        ENGINE = ReplacingMergeTree(ingested)
        ORDER BY (symbol, mode, ts)
    `, s.table)}
}

// WriteBars inserts bars with multi-row VALUES statements of at most
// chunkSize rows each.
func (s *ClickHouseBarSink) WriteBars(ctx context.Context, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	start := time.Now()
	written := 0
	for lo := 0; lo < len(bars); lo += s.chunkSize {
		hi := lo + s.chunkSize
		if hi > len(bars) {
			hi = len(bars)
		}
		values := make([]string, 0, hi-lo)
		args := make([]interface{}, 0, (hi-lo)*9)
		for _, b := range bars[lo:hi] {
			if b.Symbol == "" || b.Timestamp.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Timestamp, b.Symbol, s.mode, b.TradeDate, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, mode, trade_date, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse write_bars error",
					applogger.String("table", s.table),
					applogger.Int("written", written),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("insert bars: %w", err)
		}
		written += len(values)
	}
	if s.l != nil {
		s.l.Info("clickhouse write_bars ok",
			applogger.String("table", s.table),
			applogger.Int("rows", written),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// Close is a no-op; the pool belongs to the clickhouse client.
func (s *ClickHouseBarSink) Close() error { return nil }
