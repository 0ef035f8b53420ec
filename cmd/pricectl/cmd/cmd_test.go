package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"StockAccess/internal/di"
	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/internal/usecase"
	applogger "StockAccess/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memReader struct {
	series models.Series
	names  map[string]string
	err    error
}

func (m *memReader) Mode() domrepo.Mode { return domrepo.ModeDaily }

func (m *memReader) FetchBatch(_ context.Context, symbols []string, _, _ string) (models.Series, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make(models.Series, len(symbols))
	for _, s := range symbols {
		out[s] = append([]models.Bar{}, m.series[s]...)
	}
	return out, nil
}

func (m *memReader) FetchFrame(ctx context.Context, symbols []string, start, end string, opts models.FrameOptions) (*models.Frame, error) {
	s, err := m.FetchBatch(ctx, symbols, start, end)
	if err != nil {
		return nil, err
	}
	return models.NewFrame(symbols, s, opts), nil
}

func (m *memReader) FetchNames(context.Context, []string) (map[string]string, error) {
	return m.names, m.err
}

func (m *memReader) ResolveTSCode(context.Context, string) (string, bool, error) {
	return "", false, nil
}

func (m *memReader) ResolveMany(context.Context, []string) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *memReader) FetchLatestClose(context.Context, []string, string) (map[string]float64, error) {
	return map[string]float64{}, nil
}

type memDays []string

func (d memDays) TradingDays(context.Context, string, string) ([]string, error) { return d, nil }

type memSink struct {
	bars   []models.Bar
	closed bool
}

func (s *memSink) Name() string { return "mem" }

func (s *memSink) WriteBars(_ context.Context, bars []models.Bar) error {
	s.bars = append(s.bars, bars...)
	return nil
}

func (s *memSink) Close() error {
	s.closed = true
	return nil
}

func day(symbol string, d int, close float64) models.Bar {
	ts := time.Date(2025, 11, d, 0, 0, 0, 0, time.UTC)
	return models.Bar{Symbol: symbol, TradeDate: ts.Format("20060102"), Timestamp: ts, Close: close}
}

func useReader(t *testing.T, r *memReader) {
	t.Helper()
	prices := usecase.NewPricesUseCase(r, nil)
	tk := &di.Toolkit{
		Logger:   applogger.Nop(),
		Prices:   prices,
		Calendar: usecase.NewCalendarUseCase(nil, memDays{"20251103", "20251104"}),
		Export:   usecase.NewExportUseCase(prices),
	}
	prev := loadToolkit
	loadToolkit = func() (*di.Toolkit, func(), error) { return tk, func() {}, nil }
	t.Cleanup(func() { loadToolkit = prev })
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--env-file", ""))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBatchCommand(t *testing.T) {
	useReader(t, &memReader{series: models.Series{"300722": {day("300722", 3, 10), day("300722", 4, 11)}}})

	out, err := run(t, "batch", "--symbols", "300722", "--start", "20251101", "--end", "20251130", "--mode", "daily")
	require.NoError(t, err)

	var res usecase.BatchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Count)
	assert.Len(t, res.Series["300722"], 2)
}

func TestBatchCommandRejectsUnservedMode(t *testing.T) {
	useReader(t, &memReader{})
	_, err := run(t, "batch", "--symbols", "A", "--start", "202511010930", "--end", "202511011500", "--mode", "minute")
	require.Error(t, err)
	assert.ErrorIs(t, err, domrepo.ErrQuery)
}

func TestFrameCommandCSV(t *testing.T) {
	useReader(t, &memReader{series: models.Series{
		"A": {day("A", 3, 1)},
		"B": {day("B", 3, 2), day("B", 4, 3)},
	}})

	out, err := run(t, "frame", "--symbols", "A,B", "--start", "20251101", "--end", "20251130", "--mode", "daily", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "timestamp,A.open,A.high,A.low,A.close,A.volume,B.open,B.high,B.low,B.close,B.volume", lines[0])
	assert.Equal(t, "20251103,0,0,0,1,0,0,0,0,2,0", lines[1])
	assert.Equal(t, "20251104,,,,,,0,0,0,3,0", lines[2])
}

func TestNamesCommand(t *testing.T) {
	useReader(t, &memReader{names: map[string]string{"300722": "Xinyu"}})
	out, err := run(t, "names", "--symbols", "300722")
	require.NoError(t, err)
	assert.JSONEq(t, `{"300722":"Xinyu"}`, out)
}

func TestCalendarCommand(t *testing.T) {
	useReader(t, &memReader{})
	out, err := run(t, "calendar", "--start", "20251101", "--end", "20251130", "--prefer", "mongo")
	require.NoError(t, err)
	assert.JSONEq(t, `["20251103","20251104"]`, out)
}

func TestExportCommand(t *testing.T) {
	useReader(t, &memReader{series: models.Series{
		"A": {day("A", 3, 1)},
		"B": {day("B", 3, 2), day("B", 4, 3)},
	}})
	sink := &memSink{}
	prev := openSink
	openSink = func(context.Context, *di.Toolkit, string, domrepo.Mode) (domrepo.BarSink, error) { return sink, nil }
	t.Cleanup(func() { openSink = prev })

	out, err := run(t, "export", "--sink", "kafka", "--symbols", "B,A", "--start", "20251101", "--end", "20251130", "--mode", "daily")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sink":"mem","symbols":2,"bars":3}`, out)
	require.Len(t, sink.bars, 3)
	assert.Equal(t, "B", sink.bars[0].Symbol)
	assert.Equal(t, "A", sink.bars[2].Symbol)
	assert.True(t, sink.closed)
}

func TestCommandPropagatesStoreError(t *testing.T) {
	useReader(t, &memReader{err: fmt.Errorf("fetch_batch: %w: dial", domrepo.ErrConnection)})
	_, err := run(t, "batch", "--symbols", "A", "--start", "20251101", "--end", "20251130", "--mode", "daily")
	assert.ErrorIs(t, err, domrepo.ErrConnection)
}
