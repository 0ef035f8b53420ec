package repository

import (
	"context"
	"errors"
	"fmt"

	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/pkg/util"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// classify wraps a driver error with ErrConnection or ErrQuery while keeping
// the original error in the chain.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domrepo.ErrConnection) || errors.Is(err, domrepo.ErrQuery) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, errorKind(err), err)
}

func errorKind(err error) error {
	var sse topology.ServerSelectionError
	switch {
	case errors.As(err, &sse),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.Canceled),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return domrepo.ErrConnection
	default:
		return domrepo.ErrQuery
	}
}

// kindLabel is the metrics label for a classified error.
func kindLabel(err error) string {
	switch {
	case errors.Is(err, domrepo.ErrConnection):
		return "connection"
	case errors.Is(err, domrepo.ErrQuery):
		return "query"
	default:
		return "other"
	}
}

// dayRange validates a daily start/end pair and converts it to YYYYMMDD
// bounds. Ordering is checked on the bounds as given, so a same-day range
// starting after midnight is valid and simply matches no daily bar.
func dayRange(start, end string) (string, string, error) {
	if err := checkOrder(start, end); err != nil {
		return "", "", err
	}
	lo, err := util.DayStartBound(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	hi, err := util.DayBound(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	return lo, hi, nil
}

func checkOrder(start, end string) error {
	st, err := util.ParseTradeDate(start)
	if err != nil {
		return fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	et, err := util.ParseTradeDate(end)
	if err != nil {
		return fmt.Errorf("%w: %v", domrepo.ErrQuery, err)
	}
	if st.After(et) {
		return fmt.Errorf("%w: start %s after end %s", domrepo.ErrQuery, start, end)
	}
	return nil
}
