package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"StockAccess/internal/domain/models"
	domrepo "StockAccess/internal/domain/repository"
	"StockAccess/internal/usecase"
	xhttp "StockAccess/pkg/http"
	xlogger "StockAccess/pkg/logger"
	"StockAccess/pkg/util"

	"github.com/labstack/echo/v4"
)

// HealthFunc reports whether a dependency is reachable.
type HealthFunc func(ctx context.Context) error

// PricesEchoHandler exposes the readers over read-only JSON routes.
type PricesEchoHandler struct {
	logger    *xlogger.Logger
	prices    *usecase.PricesUseCase
	calendar  *usecase.CalendarUseCase
	reference *usecase.ReferenceUseCase
	health    HealthFunc
}

func NewPricesEchoHandler(logger *xlogger.Logger, prices *usecase.PricesUseCase, calendar *usecase.CalendarUseCase, reference *usecase.ReferenceUseCase, health HealthFunc) *PricesEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &PricesEchoHandler{logger: logger, prices: prices, calendar: calendar, reference: reference, health: health}
}

func (h *PricesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.GET("/prices/batch", h.Batch)
	g.GET("/prices/frame", h.Frame)
	g.GET("/prices/names", h.Names)
	g.GET("/prices/latest-close", h.LatestClose)
	g.GET("/calendar", h.Calendar)
	g.GET("/index/:code", h.Index)
	g.GET("/scores/top", h.TopScores)
	g.GET("/users/:username/watchlist", h.Watchlist)
	g.GET("/financials/:kind", h.Financials)
}

func (h *PricesEchoHandler) Health(c echo.Context) error {
	if h.health != nil {
		if err := h.health(c.Request().Context()); err != nil {
			h.logger.Warn("health check failed", xlogger.Error(err))
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"mongo": "down"})
		}
	}
	return xhttp.SuccessResponse(c, map[string]string{"mongo": "up"})
}

func (h *PricesEchoHandler) Batch(c echo.Context) error {
	req := &models.BatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	res, err := h.prices.Batch(c.Request().Context(), usecase.RangeParams{
		Symbols: util.SplitSymbols(req.Symbols),
		Start:   req.Start,
		End:     req.End,
		Mode:    domrepo.NormalizeMode(req.Mode),
	})
	if err != nil {
		return h.fail(c, "batch", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PricesEchoHandler) Frame(c echo.Context) error {
	req := &models.FrameRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	f, err := h.prices.Frame(c.Request().Context(), usecase.RangeParams{
		Symbols: util.SplitSymbols(req.Symbols),
		Start:   req.Start,
		End:     req.End,
		Mode:    domrepo.NormalizeMode(req.Mode),
	}, models.FrameOptions{ForwardFill: req.FFill})
	if err != nil {
		return h.fail(c, "frame", err)
	}
	return xhttp.SuccessResponse(c, f)
}

func (h *PricesEchoHandler) Names(c echo.Context) error {
	req := &models.NamesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	names, err := h.prices.Names(c.Request().Context(), util.SplitSymbols(req.Symbols))
	if err != nil {
		return h.fail(c, "names", err)
	}
	return xhttp.SuccessResponse(c, names)
}

func (h *PricesEchoHandler) LatestClose(c echo.Context) error {
	req := &models.LatestCloseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	closes, err := h.prices.LatestClose(c.Request().Context(), util.SplitSymbols(req.Symbols), req.Date)
	if err != nil {
		return h.fail(c, "latest_close", err)
	}
	return xhttp.SuccessResponse(c, closes)
}

func (h *PricesEchoHandler) Calendar(c echo.Context) error {
	req := &models.CalendarRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	days, err := h.calendar.TradingDays(c.Request().Context(), req.Start, req.End, req.Prefer)
	if err != nil {
		return h.fail(c, "calendar", err)
	}
	return xhttp.SuccessResponse(c, days)
}

func (h *PricesEchoHandler) Index(c echo.Context) error {
	req := &models.IndexRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, err := h.reference.Index(c.Request().Context(), req.Code, req.Start, req.End, req.Normalized)
	if err != nil {
		return h.fail(c, "index", err)
	}
	return xhttp.SuccessResponse(c, s)
}

func (h *PricesEchoHandler) TopScores(c echo.Context) error {
	req := &models.TopScoresRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	autoResolve, _ := strconv.ParseBool(req.AutoResolve)
	sel, err := h.reference.TopScores(c.Request().Context(), req.Date, req.Dimension, req.N, autoResolve)
	if err != nil {
		return h.fail(c, "top_scores", err)
	}
	return xhttp.SuccessResponse(c, sel)
}

func (h *PricesEchoHandler) Watchlist(c echo.Context) error {
	req := &models.WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	wl, err := h.reference.Watchlist(c.Request().Context(), req.Username)
	if err != nil {
		return h.fail(c, "watchlist", err)
	}
	return xhttp.SuccessResponse(c, wl)
}

func (h *PricesEchoHandler) Financials(c echo.Context) error {
	req := &models.FinancialsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	docs, err := h.reference.Financials(c.Request().Context(), models.FinancialKind(req.Kind), req.TSCode, req.Periods)
	if err != nil {
		return h.fail(c, "financials", err)
	}
	return xhttp.SuccessResponse(c, docs)
}

// fail maps domain errors onto HTTP statuses.
func (h *PricesEchoHandler) fail(c echo.Context, op string, err error) error {
	var appErr *xhttp.AppError
	switch {
	case errors.Is(err, domrepo.ErrQuery):
		appErr = xhttp.BadRequestError(err.Error())
	case errors.Is(err, domrepo.ErrNotFound):
		appErr = xhttp.NotFoundError(err.Error())
	case errors.Is(err, domrepo.ErrConnection):
		appErr = xhttp.ServiceUnavailableError("price store unavailable")
	default:
		appErr = xhttp.InternalError("internal error")
	}
	appErr.WithError(err).WithParam("operation", op)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" usecase error", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
