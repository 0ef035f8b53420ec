package usecase

import (
	"context"
	"errors"
	"testing"

	domrepo "StockAccess/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarPrefersTushare(t *testing.T) {
	ts := &fakeDays{enabled: true, days: []string{"20251103", "20251104"}}
	store := &fakeDays{days: []string{"20251103"}}
	uc := NewCalendarUseCase(ts, store)

	days, err := uc.TradingDays(context.Background(), "20251101", "20251104", PreferTushare)
	require.NoError(t, err)
	assert.Equal(t, []string{"20251103", "20251104"}, days)
	assert.Zero(t, store.calls)
}

func TestCalendarFallsBackToStore(t *testing.T) {
	ts := &fakeDays{enabled: true, err: errors.New("code 40203")}
	store := &fakeDays{days: []string{"20251103"}}
	uc := NewCalendarUseCase(ts, store)

	days, err := uc.TradingDays(context.Background(), "20251101", "20251104", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"20251103"}, days)
}

func TestCalendarSkipsTushareWithoutToken(t *testing.T) {
	ts := &fakeDays{enabled: false, days: []string{"20251103"}}
	store := &fakeDays{}
	uc := NewCalendarUseCase(ts, store)

	days, err := uc.TradingDays(context.Background(), "20251101", "20251104", PreferMongo)
	require.NoError(t, err)
	assert.Empty(t, days)
	assert.Zero(t, ts.calls)
}

func TestCalendarMongoFirst(t *testing.T) {
	ts := &fakeDays{enabled: true, days: []string{"20251104"}}
	store := &fakeDays{days: []string{}}
	uc := NewCalendarUseCase(ts, store)

	days, err := uc.TradingDays(context.Background(), "20251101", "20251104", PreferMongo)
	require.NoError(t, err)
	assert.Equal(t, []string{"20251104"}, days)
	assert.Equal(t, 1, store.calls)
}

func TestCalendarStoreErrorPropagates(t *testing.T) {
	store := &fakeDays{err: domrepo.ErrConnection}
	uc := NewCalendarUseCase(nil, store)

	_, err := uc.TradingDays(context.Background(), "20251101", "20251104", PreferMongo)
	assert.ErrorIs(t, err, domrepo.ErrConnection)

	_, err = uc.TradingDays(context.Background(), "20251101", "20251104", "exchange")
	assert.ErrorIs(t, err, domrepo.ErrQuery)
}
