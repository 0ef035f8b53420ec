package repository

import (
	"context"

	"StockAccess/internal/domain/models"
)

// PriceReader reads OHLCV bars and security reference data.
type PriceReader interface {
	Mode() Mode
	FetchBatch(ctx context.Context, symbols []string, start, end string) (models.Series, error)
	FetchFrame(ctx context.Context, symbols []string, start, end string, opts models.FrameOptions) (*models.Frame, error)
	FetchNames(ctx context.Context, symbols []string) (map[string]string, error)
	ResolveTSCode(ctx context.Context, symbol string) (string, bool, error)
	ResolveMany(ctx context.Context, symbols []string) (map[string]string, error)
	FetchLatestClose(ctx context.Context, symbols []string, date string) (map[string]float64, error)
}

type IndexReader interface {
	LoadRaw(ctx context.Context, tsCode, start, end string) (*models.IndexSeries, error)
	LoadNormalized(ctx context.Context, tsCode, start, end string) (*models.IndexSeries, error)
}

type ScoreReader interface {
	ResolveNearestScoreDate(ctx context.Context, date string) (string, error)
	SelectTop(ctx context.Context, date, dimension string, topN int, autoResolve bool) (*models.ScoreSelection, error)
}

type UserReader interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetWatchlistSymbols(ctx context.Context, userID string) ([]string, error)
}

type FinancialReader interface {
	FetchDocs(ctx context.Context, kind models.FinancialKind, query interface{}, periods int, sortField string) ([]models.FinancialDoc, error)
}

// TradingDaySource lists open trading days (YYYYMMDD) in an inclusive range.
type TradingDaySource interface {
	TradingDays(ctx context.Context, start, end string) ([]string, error)
}

// BarSink receives exported bars.
type BarSink interface {
	Name() string
	WriteBars(ctx context.Context, bars []models.Bar) error
	Close() error
}

type Metrics interface {
	RecordQuery(op, mode string)
	RecordRows(op string, n int)
	RecordError(op, kind string)
	RecordLatency(op string, seconds float64)
}
