package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/calendar"
	"MarketLens/internal/services/valuation"
	"MarketLens/pkg/logger"
)

// Provider datasets feeding the valuation indicator.
const (
	opBuffett   = "stock_buffett_index_lg"
	opCPI       = "macro_china_cpi_monthly"
	opLPR       = "macro_china_lpr"
	opLeverage  = "macro_cnbs"
	opMarketPE  = "stock_market_pe_lg"
	opIndexHist = "stock_zh_index_daily_em"
)

type ValuationConfig struct {
	IndexSymbol string
	PESymbol    string
}

// ValuationUseCase builds the market-cap-to-GDP indicator from six datasets
// sampled daily, monthly, on announcement and yearly.
type ValuationUseCase struct {
	data      domrepo.MarketData
	cfg       ValuationConfig
	projector valuation.Projector
	log       *logger.Logger
}

func NewValuationUseCase(data domrepo.MarketData, cfg ValuationConfig, log *logger.Logger) *ValuationUseCase {
	return &ValuationUseCase{
		data:      data,
		cfg:       cfg,
		projector: valuation.NewProjector(),
		log:       log.Component("valuation"),
	}
}

// Indicator returns one point per valuation date, extended along the index
// up to its most recent trading day.
func (uc *ValuationUseCase) Indicator(ctx context.Context) (points []valuation.Point, err error) {
	defer observe(uc.log, "valuation", time.Now(), &err)

	series, err := uc.series(ctx)
	if err != nil {
		return nil, err
	}
	return valuation.ToPoints(series), nil
}

// Periodic aggregates the indicator into blocks of period points.
func (uc *ValuationUseCase) Periodic(ctx context.Context, period int) (out []valuation.PeriodPoint, err error) {
	defer observe(uc.log, "valuation_periodic", time.Now(), &err)

	if period <= 0 {
		return nil, fmt.Errorf("%w, got %d", valuation.ErrInvalidPeriod, period)
	}
	series, err := uc.series(ctx)
	if err != nil {
		return nil, err
	}
	return valuation.Periodic(valuation.ToPoints(series), period)
}

func (uc *ValuationUseCase) series(ctx context.Context) (calendar.Series, error) {
	tables, err := fetchAll(ctx, uc.data,
		request{op: opBuffett},
		request{op: opCPI},
		request{op: opLPR},
		request{op: opLeverage},
		request{op: opMarketPE, params: map[string]string{"symbol": uc.cfg.PESymbol}},
		request{op: opIndexHist, params: map[string]string{"symbol": uc.cfg.IndexSymbol}},
	)
	if err != nil {
		return nil, err
	}

	specs := []struct {
		source  string
		dateCol string
		cols    calendar.Columns
	}{
		{opBuffett, "日期", calendar.Columns{"收盘价": valuation.FieldSHClose, "总市值": valuation.FieldMarketCap, "GDP": valuation.FieldGDP}},
		{opCPI, "日期", calendar.Columns{"今值": valuation.FieldCPI}},
		{opLPR, "TRADE_DATE", calendar.Columns{"LPR1Y": valuation.FieldLPR}},
		{opLeverage, "年份", calendar.Columns{"政府部门": valuation.FieldLeverage}},
		{opMarketPE, "日期", calendar.Columns{"平均市盈率": valuation.FieldPE}},
		{opIndexHist, "date", calendar.Columns{
			"open":   valuation.FieldOpen,
			"high":   valuation.FieldHigh,
			"low":    valuation.FieldLow,
			"close":  valuation.FieldClose,
			"volume": valuation.FieldVolume,
		}},
	}

	series := make([]calendar.Series, len(specs))
	for i, s := range specs {
		if series[i], err = calendar.FromTable(s.source, tables[i], s.dateCol, s.cols); err != nil {
			return nil, err
		}
	}

	base, aux, index := series[0], series[1:], series[len(series)-1]
	merged := calendar.Fill(calendar.Reconcile(base, aux))
	for _, r := range merged {
		valuation.Derive(r.Fields)
	}

	out := uc.projector.Project(merged, index)
	if n := len(out) - len(merged); n > 0 {
		uc.log.Debug("projected valuation rows", logger.Int("rows", n))
	}
	return out, nil
}
