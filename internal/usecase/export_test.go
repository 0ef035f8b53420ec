package usecase

import (
	"context"
	"errors"
	"testing"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFlattensInSymbolOrder(t *testing.T) {
	daily := &fakeReader{mode: domrepo.ModeDaily, series: models.Series{
		"300722": {dayBar("300722", 3, 10), dayBar("300722", 4, 11)},
		"000001": {dayBar("000001", 3, 5)},
	}}
	sink := &fakeSink{}
	uc := NewExportUseCase(NewPricesUseCase(daily, nil))

	res, err := uc.Export(context.Background(), RangeParams{Symbols: []string{"000001", "300722"}, Start: "20251101", End: "20251130"}, sink)
	require.NoError(t, err)
	assert.Equal(t, &ExportResult{Sink: "fake", Symbols: 2, Bars: 3}, res)
	require.Len(t, sink.bars, 3)
	assert.Equal(t, "000001", sink.bars[0].Symbol)
	assert.Equal(t, 11.0, sink.bars[2].Close)
}

func TestExportSinkError(t *testing.T) {
	daily := &fakeReader{mode: domrepo.ModeDaily, series: models.Series{"300722": {dayBar("300722", 3, 10)}}}
	boom := errors.New("broker down")
	uc := NewExportUseCase(NewPricesUseCase(daily, nil))

	_, err := uc.Export(context.Background(), RangeParams{Symbols: []string{"300722"}, Start: "20251101", End: "20251130"}, &fakeSink{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestExportFetchErrorWritesNothing(t *testing.T) {
	daily := &fakeReader{mode: domrepo.ModeDaily, err: domrepo.ErrQuery}
	sink := &fakeSink{}
	uc := NewExportUseCase(NewPricesUseCase(daily, nil))

	_, err := uc.Export(context.Background(), RangeParams{Symbols: []string{"300722"}}, sink)
	assert.ErrorIs(t, err, domrepo.ErrQuery)
	assert.Empty(t, sink.bars)
}
