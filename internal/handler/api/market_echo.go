package api

import (
	"context"
	"fmt"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/breadth"
	"MarketLens/internal/services/flow"
	"MarketLens/internal/services/valuation"
	"MarketLens/internal/services/window"
	"MarketLens/internal/usecase"
	xhttp "MarketLens/pkg/http"
	xlogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

type Valuation interface {
	Indicator(ctx context.Context) ([]valuation.Point, error)
	Periodic(ctx context.Context, period int) ([]valuation.PeriodPoint, error)
}

type SectorFlow interface {
	Ranking(ctx context.Context, st domrepo.SectorType) (flow.Ranking, error)
	All(ctx context.Context, st domrepo.SectorType) ([]flow.SectorFlowRow, error)
	Realtime(ctx context.Context, st domrepo.SectorType) (flow.RealtimeSummary, error)
	HeadStocks(ctx context.Context, st domrepo.SectorType, board string) (usecase.HeadStocks, error)
	History(ctx context.Context, st domrepo.SectorType, board string) (models.Table, error)
}

type MarketFlow interface {
	Recent(ctx context.Context) (usecase.MarketFlowReport, error)
}

type Discreteness interface {
	Analyze(ctx context.Context, symbol string) (map[int][]window.Result, error)
}

type Breadth interface {
	Sideways(ctx context.Context) ([]breadth.Candidate, error)
	Statistic(ctx context.Context) (breadth.Statistic, error)
}

type Stock interface {
	History(ctx context.Context, symbol, period, adjust string) (models.Table, error)
	Chips(ctx context.Context, symbol string) (models.Table, error)
}

// MarketEchoHandler serves the market indicator routes.
type MarketEchoHandler struct {
	logger       *xlogger.Logger
	valuation    Valuation
	sectorFlow   SectorFlow
	marketFlow   MarketFlow
	discreteness Discreteness
	breadth      Breadth
	stock        Stock
}

func NewMarketEchoHandler(
	logger *xlogger.Logger,
	v Valuation,
	sf SectorFlow,
	mf MarketFlow,
	d Discreteness,
	b Breadth,
	s Stock,
) *MarketEchoHandler {
	return &MarketEchoHandler{
		logger:       logger.Component("api"),
		valuation:    v,
		sectorFlow:   sf,
		marketFlow:   mf,
		discreteness: d,
		breadth:      b,
		stock:        s,
	}
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/buffett-indicator", h.BuffettIndicator)
	g.GET("/buffett-indicator-p", h.BuffettPeriodic)
	g.GET("/sector-fund-flow", h.SectorRanking)
	g.GET("/sector-fund-flow-rt", h.SectorRealtime)
	g.GET("/sector-fund-flow-all", h.SectorAll)
	g.GET("/sector-fund-flow-his", h.SectorHistory)
	g.GET("/head-stocks", h.SectorHeadStocks)
	g.GET("/market-fund-flow", h.MarketFundFlow)
	g.GET("/stock-sw", h.SidewaysScreen)
	g.GET("/stock-sts", h.StockStatistic)
	g.GET("/stock/sideways", h.Sideways)
	g.GET("/stock/history", h.StockHistory)
	g.GET("/stock/chips", h.StockChips)
}

func (h *MarketEchoHandler) BuffettIndicator(c echo.Context) error {
	res, err := h.valuation.Indicator(c.Request().Context())
	if err != nil {
		return h.fail(c, "buffett indicator", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) BuffettPeriodic(c echo.Context) error {
	req := &models.PeriodicValuationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.valuation.Periodic(c.Request().Context(), req.Periodic)
	if err != nil {
		return h.fail(c, "buffett periodic", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SectorRanking(c echo.Context) error {
	req := &models.SectorFlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sectorFlow.Ranking(c.Request().Context(), domrepo.SectorType(req.SectorType))
	if err != nil {
		return h.fail(c, "sector ranking", err)
	}
	cacheFor(c, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SectorRealtime(c echo.Context) error {
	req := &models.SectorFlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sectorFlow.Realtime(c.Request().Context(), domrepo.SectorType(req.SectorType))
	if err != nil {
		return h.fail(c, "sector realtime", err)
	}
	cacheFor(c, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SectorAll(c echo.Context) error {
	req := &models.SectorFlowRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sectorFlow.All(c.Request().Context(), domrepo.SectorType(req.SectorType))
	if err != nil {
		return h.fail(c, "sector all", err)
	}
	cacheFor(c, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SectorHeadStocks(c echo.Context) error {
	req := &models.SectorBoardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sectorFlow.HeadStocks(c.Request().Context(), domrepo.SectorType(req.SectorType), req.Symbol)
	if err != nil {
		return h.fail(c, "sector head stocks", err)
	}
	cacheFor(c, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SectorHistory(c echo.Context) error {
	req := &models.SectorBoardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.sectorFlow.History(c.Request().Context(), domrepo.SectorType(req.SectorType), req.Symbol)
	if err != nil {
		return h.fail(c, "sector history", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) MarketFundFlow(c echo.Context) error {
	res, err := h.marketFlow.Recent(c.Request().Context())
	if err != nil {
		return h.fail(c, "market fund flow", err)
	}
	cacheFor(c, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) Sideways(c echo.Context) error {
	req := &models.StockRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.discreteness.Analyze(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "sideways", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) SidewaysScreen(c echo.Context) error {
	res, err := h.breadth.Sideways(c.Request().Context())
	if err != nil {
		return h.fail(c, "sideways screen", err)
	}
	cacheFor(c, time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) StockStatistic(c echo.Context) error {
	res, err := h.breadth.Statistic(c.Request().Context())
	if err != nil {
		return h.fail(c, "stock statistic", err)
	}
	cacheFor(c, 15*time.Second)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) StockHistory(c echo.Context) error {
	req := &models.StockHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stock.History(c.Request().Context(), req.Symbol, req.Period, req.Adjust)
	if err != nil {
		return h.fail(c, "stock history", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) StockChips(c echo.Context) error {
	req := &models.StockRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.stock.Chips(c.Request().Context(), req.Symbol)
	if err != nil {
		return h.fail(c, "stock chips", err)
	}
	cacheFor(c, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) fail(c echo.Context, route string, err error) error {
	appErr := toAppError(err)
	h.logger.Error(route+" failed",
		xlogger.Int("status", appErr.Status),
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	)
	return xhttp.AppErrorResponse(c, appErr)
}

func cacheFor(c echo.Context, d time.Duration) {
	c.Response().Header().Set(echo.HeaderCacheControl, fmt.Sprintf("private, max-age=%d", int(d.Seconds())))
}
