package usecase

import (
	"context"
	"errors"
	"time"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
)

type fakeReader struct {
	mode     domrepo.Mode
	series   models.Series
	names    map[string]string
	closes   map[string]float64
	err      error
	gotSyms  []string
	gotStart string
	gotEnd   string
}

func (f *fakeReader) Mode() domrepo.Mode { return f.mode }

func (f *fakeReader) FetchBatch(_ context.Context, symbols []string, start, end string) (models.Series, error) {
	f.gotSyms, f.gotStart, f.gotEnd = symbols, start, end
	if f.err != nil {
		return nil, f.err
	}
	out := make(models.Series, len(symbols))
	for _, s := range symbols {
		out[s] = append([]models.Bar{}, f.series[s]...)
	}
	return out, nil
}

func (f *fakeReader) FetchFrame(ctx context.Context, symbols []string, start, end string, opts models.FrameOptions) (*models.Frame, error) {
	s, err := f.FetchBatch(ctx, symbols, start, end)
	if err != nil {
		return nil, err
	}
	return models.NewFrame(symbols, s, opts), nil
}

func (f *fakeReader) FetchNames(_ context.Context, symbols []string) (map[string]string, error) {
	f.gotSyms = symbols
	return f.names, f.err
}

func (f *fakeReader) ResolveTSCode(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (f *fakeReader) ResolveMany(context.Context, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (f *fakeReader) FetchLatestClose(_ context.Context, symbols []string, _ string) (map[string]float64, error) {
	f.gotSyms = symbols
	return f.closes, f.err
}

func dayBar(symbol string, day int, close float64) models.Bar {
	ts := time.Date(2025, 11, day, 0, 0, 0, 0, time.UTC)
	return models.Bar{Symbol: symbol, TradeDate: ts.Format("20060102"), Timestamp: ts, Close: close}
}

type fakeDays struct {
	days    []string
	err     error
	enabled bool
	calls   int
}

func (f *fakeDays) TradingDays(context.Context, string, string) ([]string, error) {
	f.calls++
	return f.days, f.err
}

func (f *fakeDays) Enabled() bool { return f.enabled }

type fakeSink struct {
	bars []models.Bar
	err  error
}

func (s *fakeSink) Name() string { return "fake" }

func (s *fakeSink) WriteBars(_ context.Context, bars []models.Bar) error {
	if s.err != nil {
		return s.err
	}
	s.bars = append(s.bars, bars...)
	return nil
}

func (s *fakeSink) Close() error { return nil }

var errUnreachable = errors.New("dial tcp: connection refused")
