package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "StockAccess/internal/domain/repository"
	applogger "StockAccess/pkg/logger"
)

// ExportUseCase copies a fetched batch into a BarSink.
type ExportUseCase struct {
	prices *PricesUseCase
	l      *applogger.Logger
}

func NewExportUseCase(prices *PricesUseCase) *ExportUseCase {
	return &ExportUseCase{prices: prices}
}

// SetLogger injects a structured logger.
func (uc *ExportUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

type ExportResult struct {
	Sink    string `json:"sink"`
	Symbols int    `json:"symbols"`
	Bars    int    `json:"bars"`
}

// Export fetches the range and writes every bar in (symbol, timestamp)
// order. Nothing is written when the fetch fails.
func (uc *ExportUseCase) Export(ctx context.Context, p RangeParams, sink domrepo.BarSink) (*ExportResult, error) {
	start := time.Now()
	res, err := uc.prices.Batch(ctx, p)
	if err != nil {
		return nil, err
	}
	symbols, _ := checkSymbols(p.Symbols)
	bars := res.Series.Flatten(symbols)
	if err := sink.WriteBars(ctx, bars); err != nil {
		return nil, fmt.Errorf("export to %s: %w", sink.Name(), err)
	}
	if uc.l != nil {
		uc.l.Info("export done",
			applogger.String("sink", sink.Name()),
			applogger.String("mode", res.Mode),
			applogger.Int("symbols", len(symbols)),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return &ExportResult{Sink: sink.Name(), Symbols: len(symbols), Bars: len(bars)}, nil
}
