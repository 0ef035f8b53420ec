package usecase

import (
	"context"
	"fmt"

	domrepo "StockAccess/internal/domain/repository"
	applogger "StockAccess/pkg/logger"
)

// Calendar sources.
const (
	PreferTushare = "tushare"
	PreferMongo   = "mongo"
)

// CalendarUseCase merges the Tushare exchange calendar with the dates
// present in the price store. Either source may stand in for the other.
type CalendarUseCase struct {
	tushare domrepo.TradingDaySource
	store   domrepo.TradingDaySource
	l       *applogger.Logger
}

func NewCalendarUseCase(tushare, store domrepo.TradingDaySource) *CalendarUseCase {
	return &CalendarUseCase{tushare: tushare, store: store}
}

// SetLogger injects a structured logger.
func (uc *CalendarUseCase) SetLogger(l *applogger.Logger) { uc.l = l }

// TradingDays returns open days in [start, end]. The preferred source is
// asked first; the other one only when the first returns nothing. Tushare
// failures count as nothing, store failures are returned.
func (uc *CalendarUseCase) TradingDays(ctx context.Context, start, end, prefer string) ([]string, error) {
	switch prefer {
	case "", PreferTushare:
		if days := uc.fromTushare(ctx, start, end); len(days) > 0 {
			return days, nil
		}
		return uc.fromStore(ctx, start, end)
	case PreferMongo:
		days, err := uc.fromStore(ctx, start, end)
		if err != nil || len(days) > 0 {
			return days, err
		}
		return uc.fromTushare(ctx, start, end), nil
	default:
		return nil, fmt.Errorf("%w: unknown calendar source %q", domrepo.ErrQuery, prefer)
	}
}

func (uc *CalendarUseCase) fromTushare(ctx context.Context, start, end string) []string {
	if uc.tushare == nil {
		return []string{}
	}
	if e, ok := uc.tushare.(interface{ Enabled() bool }); ok && !e.Enabled() {
		return []string{}
	}
	days, err := uc.tushare.TradingDays(ctx, start, end)
	if err != nil {
		if uc.l != nil {
			uc.l.Warn("tushare calendar unavailable", applogger.Error(err))
		}
		return []string{}
	}
	return days
}

func (uc *CalendarUseCase) fromStore(ctx context.Context, start, end string) ([]string, error) {
	if uc.store == nil {
		return []string{}, nil
	}
	days, err := uc.store.TradingDays(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("store calendar: %w", err)
	}
	return days, nil
}
