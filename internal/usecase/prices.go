package usecase

import (
	"context"
	"fmt"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/pkg/util"
)

// MaxSymbols bounds the symbol list of one request.
const MaxSymbols = 500

// PricesUseCase routes price requests to the reader of the requested mode.
type PricesUseCase struct {
	readers map[domrepo.Mode]domrepo.PriceReader
}

// NewPricesUseCase registers readers by their Mode. minute may be nil when
// minute bars are not served.
func NewPricesUseCase(daily, minute domrepo.PriceReader) *PricesUseCase {
	uc := &PricesUseCase{readers: make(map[domrepo.Mode]domrepo.PriceReader, 2)}
	for _, r := range []domrepo.PriceReader{daily, minute} {
		if r != nil {
			uc.readers[r.Mode()] = r
		}
	}
	return uc
}

type RangeParams struct {
	Symbols []string
	Start   string
	End     string
	Mode    domrepo.Mode
}

type BatchResult struct {
	Mode   string        `json:"mode"`
	Start  string        `json:"start"`
	End    string        `json:"end"`
	Count  int           `json:"count"`
	Series models.Series `json:"series"`
}

// Reader returns the reader for mode, or ErrQuery when none is registered.
func (uc *PricesUseCase) Reader(mode domrepo.Mode) (domrepo.PriceReader, error) {
	if mode == "" {
		mode = domrepo.DefaultMode()
	}
	r, ok := uc.readers[mode]
	if !ok {
		return nil, fmt.Errorf("%w: mode %q not served", domrepo.ErrQuery, mode)
	}
	return r, nil
}

func (uc *PricesUseCase) Batch(ctx context.Context, p RangeParams) (*BatchResult, error) {
	r, symbols, err := uc.prepare(p)
	if err != nil {
		return nil, err
	}
	series, err := r.FetchBatch(ctx, symbols, p.Start, p.End)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	return &BatchResult{
		Mode:   string(r.Mode()),
		Start:  p.Start,
		End:    p.End,
		Count:  series.Len(),
		Series: series,
	}, nil
}

func (uc *PricesUseCase) Frame(ctx context.Context, p RangeParams, opts models.FrameOptions) (*models.Frame, error) {
	r, symbols, err := uc.prepare(p)
	if err != nil {
		return nil, err
	}
	f, err := r.FetchFrame(ctx, symbols, p.Start, p.End, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch frame: %w", err)
	}
	return f, nil
}

func (uc *PricesUseCase) Names(ctx context.Context, symbols []string) (map[string]string, error) {
	r, err := uc.Reader(domrepo.DefaultMode())
	if err != nil {
		return nil, err
	}
	symbols, err = checkSymbols(symbols)
	if err != nil {
		return nil, err
	}
	names, err := r.FetchNames(ctx, symbols)
	if err != nil {
		return nil, fmt.Errorf("fetch names: %w", err)
	}
	return names, nil
}

// LatestClose returns the daily close of each symbol on date (YYYYMMDD).
func (uc *PricesUseCase) LatestClose(ctx context.Context, symbols []string, date string) (map[string]float64, error) {
	r, err := uc.Reader(domrepo.ModeDaily)
	if err != nil {
		return nil, err
	}
	symbols, err = checkSymbols(symbols)
	if err != nil {
		return nil, err
	}
	closes, err := r.FetchLatestClose(ctx, symbols, date)
	if err != nil {
		return nil, fmt.Errorf("fetch latest close: %w", err)
	}
	return closes, nil
}

func (uc *PricesUseCase) prepare(p RangeParams) (domrepo.PriceReader, []string, error) {
	r, err := uc.Reader(p.Mode)
	if err != nil {
		return nil, nil, err
	}
	symbols, err := checkSymbols(p.Symbols)
	if err != nil {
		return nil, nil, err
	}
	return r, symbols, nil
}

func checkSymbols(in []string) ([]string, error) {
	out := util.DedupSymbols(in)
	if len(out) > MaxSymbols {
		return nil, fmt.Errorf("%w: %d symbols, at most %d", domrepo.ErrQuery, len(out), MaxSymbols)
	}
	return out, nil
}
