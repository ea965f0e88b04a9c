package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/breadth"
	"MarketLens/internal/services/flow"
	"MarketLens/internal/services/valuation"
	"MarketLens/internal/services/window"
	"MarketLens/internal/usecase"
	xlogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValuation struct {
	period int
	err    error
}

func (s *stubValuation) Indicator(context.Context) ([]valuation.Point, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []valuation.Point{{Date: "2024-01-02", Classic: 0.8}}, nil
}

func (s *stubValuation) Periodic(_ context.Context, period int) ([]valuation.PeriodPoint, error) {
	s.period = period
	return []valuation.PeriodPoint{{Date: "2024-01-05"}}, nil
}

type stubSectorFlow struct{ seen domrepo.SectorType }

func (s *stubSectorFlow) Ranking(_ context.Context, st domrepo.SectorType) (flow.Ranking, error) {
	s.seen = st
	return flow.Ranking{Top: []flow.SectorFlowRow{{Name: "银行", NormalizedScore: 10}}}, nil
}

func (s *stubSectorFlow) All(context.Context, domrepo.SectorType) ([]flow.SectorFlowRow, error) {
	return nil, &models.DataShapeError{Source: "stock_sector_fund_flow_rank", Missing: []string{"名称"}}
}

func (s *stubSectorFlow) Realtime(context.Context, domrepo.SectorType) (flow.RealtimeSummary, error) {
	return flow.RealtimeSummary{Total: 1.5}, nil
}

func (s *stubSectorFlow) HeadStocks(_ context.Context, st domrepo.SectorType, board string) (usecase.HeadStocks, error) {
	return usecase.HeadStocks{Top: []flow.Stock{{Code: "600000", Name: board}}}, nil
}

func (s *stubSectorFlow) History(_ context.Context, st domrepo.SectorType, board string) (models.Table, error) {
	s.seen = st
	return models.Table{{"日期": "2024-01-02", "板块": board}}, nil
}

type stubMarketFlow struct{}

func (stubMarketFlow) Recent(context.Context) (usecase.MarketFlowReport, error) {
	return usecase.MarketFlowReport{TotalAmount: 9876.5}, nil
}

type stubDiscreteness struct{ symbol string }

func (s *stubDiscreteness) Analyze(_ context.Context, symbol string) (map[int][]window.Result, error) {
	s.symbol = symbol
	return map[int][]window.Result{5: {{WindowSize: 5, IsStable: true}}}, nil
}

type stubBreadth struct{}

func (stubBreadth) Sideways(context.Context) ([]breadth.Candidate, error) {
	return []breadth.Candidate{{Code: "600000", Name: "浦发银行", ChangePct: 0.5}}, nil
}

func (stubBreadth) Statistic(context.Context) (breadth.Statistic, error) {
	return breadth.Statistic{}, &models.UpstreamError{Op: "stock_zh_a_spot_em", Err: errors.New("reset")}
}

type stubStock struct{ symbol, period, adjust string }

func (s *stubStock) History(_ context.Context, symbol, period, adjust string) (models.Table, error) {
	s.symbol, s.period, s.adjust = symbol, period, adjust
	return models.Table{{"日期": "2024-01-02", "收盘": 10.5}}, nil
}

func (s *stubStock) Chips(_ context.Context, symbol string) (models.Table, error) {
	s.symbol = symbol
	return models.Table{{"日期": "2024-01-02", "90集中度": 0.12}}, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(v *stubValuation, sf *stubSectorFlow, d *stubDiscreteness) *echo.Echo {
	return newTestServerWithStock(v, sf, d, &stubStock{})
}

func newTestServerWithStock(v *stubValuation, sf *stubSectorFlow, d *stubDiscreteness, s *stubStock) *echo.Echo {
	e := echo.New()
	NewMarketEchoHandler(xlogger.NewNop(), v, sf, stubMarketFlow{}, d, stubBreadth{}, s).RegisterRoutes(e)
	return e
}

func get(t *testing.T, e *echo.Echo, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestBuffettIndicator(t *testing.T) {
	e := newTestServer(&stubValuation{}, &stubSectorFlow{}, &stubDiscreteness{})
	rec, env := get(t, e, "/api/buffett-indicator")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Contains(t, rec.Header().Get(echo.HeaderCacheControl), "max-age=300")

	var points []valuation.Point
	require.NoError(t, json.Unmarshal(env.Data, &points))
	assert.Equal(t, 0.8, points[0].Classic)
}

func TestBuffettIndicator_UpstreamIs502(t *testing.T) {
	v := &stubValuation{err: &models.UpstreamError{Op: "stock_buffett_index_lg", Err: errors.New("timeout")}}
	e := newTestServer(v, &stubSectorFlow{}, &stubDiscreteness{})
	rec, env := get(t, e, "/api/buffett-indicator")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, http.StatusBadGateway, env.Status)
	assert.Contains(t, string(env.Data), "ERR_UPSTREAM")
	assert.Contains(t, string(env.Data), "stock_buffett_index_lg")
}

func TestBuffettPeriodic(t *testing.T) {
	v := &stubValuation{}
	e := newTestServer(v, &stubSectorFlow{}, &stubDiscreteness{})

	rec, _ := get(t, e, "/api/buffett-indicator-p")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, v.period, "default period")

	_, _ = get(t, e, "/api/buffett-indicator-p?periodic=20")
	assert.Equal(t, 20, v.period)

	rec, env := get(t, e, "/api/buffett-indicator-p?periodic=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_GTE")
}

func TestSectorRoutes(t *testing.T) {
	sf := &stubSectorFlow{}
	e := newTestServer(&stubValuation{}, sf, &stubDiscreteness{})

	rec, _ := get(t, e, "/api/sector-fund-flow")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domrepo.SectorIndustry, sf.seen)

	_, _ = get(t, e, "/api/sector-fund-flow?sector_type=concept")
	assert.Equal(t, domrepo.SectorConcept, sf.seen)

	rec, env := get(t, e, "/api/sector-fund-flow?sector_type=fund")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "sector_type")

	rec, env = get(t, e, "/api/sector-fund-flow-all")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_DATA_SHAPE")

	rec, env = get(t, e, "/api/sector-fund-flow-rt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"top":null,"bottom":null,"total":1.5}`, string(env.Data))

	rec, _ = get(t, e, "/api/head-stocks?sector_type=region&symbol=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = get(t, e, "/api/head-stocks?symbol=%E9%93%B6%E8%A1%8C")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSectorHistory(t *testing.T) {
	sf := &stubSectorFlow{}
	e := newTestServer(&stubValuation{}, sf, &stubDiscreteness{})

	rec, env := get(t, e, "/api/sector-fund-flow-his?sector_type=concept&symbol=%E8%8A%AF%E7%89%87")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domrepo.SectorConcept, sf.seen)
	assert.JSONEq(t, `[{"日期":"2024-01-02","板块":"芯片"}]`, string(env.Data))

	rec, env = get(t, e, "/api/sector-fund-flow-his?sector_type=concept")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_REQUIRED")

	rec, _ = get(t, e, "/api/sector-fund-flow-his?sector_type=region&symbol=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBreadthRoutes(t *testing.T) {
	e := newTestServer(&stubValuation{}, &stubSectorFlow{}, &stubDiscreteness{})

	rec, env := get(t, e, "/api/stock-sw")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"code":"600000","name":"浦发银行","change_pct":0.5}]`, string(env.Data))

	rec, env = get(t, e, "/api/stock-sts")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, string(env.Data), "ERR_UPSTREAM")
}

func TestStockRoutes(t *testing.T) {
	s := &stubStock{}
	e := newTestServerWithStock(&stubValuation{}, &stubSectorFlow{}, &stubDiscreteness{}, s)

	rec, _ := get(t, e, "/api/stock/history?symbol=600519")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "600519", s.symbol)
	assert.Equal(t, "daily", s.period)
	assert.Equal(t, "", s.adjust)

	rec, _ = get(t, e, "/api/stock/history?symbol=000001&period=weekly&adjust=hfq")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "weekly", s.period)
	assert.Equal(t, "hfq", s.adjust)

	rec, env := get(t, e, "/api/stock/history?symbol=600519&adjust=none")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, string(env.Data), "adjust")
	rec, _ = get(t, e, "/api/stock/history?symbol=600519&period=hourly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = get(t, e, "/api/stock/chips?symbol=300750")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "300750", s.symbol)
	assert.Contains(t, string(env.Data), `"90集中度":0.12`)

	rec, _ = get(t, e, "/api/stock/chips?symbol=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSideways(t *testing.T) {
	d := &stubDiscreteness{}
	e := newTestServer(&stubValuation{}, &stubSectorFlow{}, d)

	rec, env := get(t, e, "/api/stock/sideways?symbol=600519")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "600519", d.symbol)
	var out map[string][]window.Result
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.True(t, out["5"][0].IsStable)

	for _, bad := range []string{"", "60051", "60051x", "6005190"} {
		rec, _ := get(t, e, "/api/stock/sideways?symbol="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestMarketFundFlow(t *testing.T) {
	e := newTestServer(&stubValuation{}, &stubSectorFlow{}, &stubDiscreteness{})
	rec, env := get(t, e, "/api/market-fund-flow")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total_market_amount":9876.5`)
}

func TestToAppError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, toAppError(models.InvalidArgumentf("bad")).Status)
	assert.Equal(t, http.StatusInternalServerError, toAppError(errors.New("x")).Status)
	assert.Equal(t, http.StatusBadGateway, toAppError(&models.UpstreamError{Op: "a", Err: errors.New("b")}).Status)
}
