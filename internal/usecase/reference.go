package usecase

import (
	"context"
	"fmt"
	"strings"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
)

// ReferenceUseCase serves the non-price reads: index series, score
// rankings, watchlists and financial statements.
type ReferenceUseCase struct {
	index      domrepo.IndexReader
	scores     domrepo.ScoreReader
	users      domrepo.UserReader
	financials domrepo.FinancialReader
}

func NewReferenceUseCase(index domrepo.IndexReader, scores domrepo.ScoreReader, users domrepo.UserReader, financials domrepo.FinancialReader) *ReferenceUseCase {
	return &ReferenceUseCase{index: index, scores: scores, users: users, financials: financials}
}

func (uc *ReferenceUseCase) Index(ctx context.Context, code, start, end string, normalized bool) (*models.IndexSeries, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: index code required", domrepo.ErrQuery)
	}
	if normalized {
		return uc.index.LoadNormalized(ctx, code, start, end)
	}
	return uc.index.LoadRaw(ctx, code, start, end)
}

func (uc *ReferenceUseCase) TopScores(ctx context.Context, date, dimension string, n int, autoResolve bool) (*models.ScoreSelection, error) {
	if dimension == "" {
		dimension = "balanced"
	}
	return uc.scores.SelectTop(ctx, date, dimension, n, autoResolve)
}

type Watchlist struct {
	Username string   `json:"username"`
	UserID   string   `json:"user_id"`
	Email    string   `json:"email,omitempty"`
	Symbols  []string `json:"symbols"`
}

// Watchlist returns ErrNotFound when the user does not exist.
func (uc *ReferenceUseCase) Watchlist(ctx context.Context, username string) (*Watchlist, error) {
	u, err := uc.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", username, domrepo.ErrNotFound)
	}
	symbols, err := uc.users.GetWatchlistSymbols(ctx, u.ID())
	if err != nil {
		return nil, err
	}
	return &Watchlist{Username: username, UserID: u.ID(), Email: u.Email(), Symbols: symbols}, nil
}

// Financials returns the latest periods documents of kind, optionally for
// one ts_code.
func (uc *ReferenceUseCase) Financials(ctx context.Context, kind models.FinancialKind, tsCode string, periods int) ([]models.FinancialDoc, error) {
	query := bson.M{}
	sortField := "end_date"
	if kind == models.FinIndexConstituents {
		sortField = "trade_date"
	}
	if tsCode != "" {
		query["ts_code"] = tsCode
	}
	return uc.financials.FetchDocs(ctx, kind, query, periods, sortField)
}
