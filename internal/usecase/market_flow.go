package usecase

import (
	"context"
	"time"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/flow"
	"MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

const (
	opMarketFlow = "stock_market_fund_flow"
	opSpot       = "stock_zh_a_spot_em"
)

// MarketFlowReport is recent market-wide fund flow with today's turnover.
type MarketFlowReport struct {
	Days []flow.MarketDay `json:"recent_market_data"`
	// TotalAmount is today's A-share turnover in units of 1e8.
	TotalAmount float64 `json:"total_market_amount"`
}

type MarketFlowUseCase struct {
	data domrepo.MarketData
	days int
	log  *logger.Logger
}

func NewMarketFlowUseCase(data domrepo.MarketData, days int, log *logger.Logger) *MarketFlowUseCase {
	return &MarketFlowUseCase{data: data, days: days, log: log.Component("market_flow")}
}

// Recent scores the most recent trading days and sums spot turnover.
func (uc *MarketFlowUseCase) Recent(ctx context.Context) (rep MarketFlowReport, err error) {
	defer observe(uc.log, "market_flow", time.Now(), &err)

	tables, err := fetchAll(ctx, uc.data, request{op: opMarketFlow}, request{op: opSpot})
	if err != nil {
		return MarketFlowReport{}, err
	}
	flows, spot := tables[0], tables[1]

	if err := flows.Require(opMarketFlow, "日期",
		"上证-收盘价", "上证-涨跌幅", "深证-收盘价", "深证-涨跌幅",
		"主力净流入-净额", "超大单净流入-净额", "大单净流入-净额", "中单净流入-净额", "小单净流入-净额",
	); err != nil {
		return MarketFlowReport{}, err
	}
	if err := spot.Require(opSpot, "成交额"); err != nil {
		return MarketFlowReport{}, err
	}

	days := make([]flow.MarketDay, len(flows))
	for i, rec := range flows {
		date := text(rec, "日期")
		if d, ok := util.ParseDateValue(rec["日期"]); ok {
			date = util.FormatDate(d)
		}
		days[i] = flow.MarketDay{
			Date:       date,
			SHClose:    num(rec, "上证-收盘价"),
			SHChange:   num(rec, "上证-涨跌幅"),
			SZClose:    num(rec, "深证-收盘价"),
			SZChange:   num(rec, "深证-涨跌幅"),
			MainNet:    num(rec, "主力净流入-净额"),
			SuperLarge: num(rec, "超大单净流入-净额"),
			Large:      num(rec, "大单净流入-净额"),
			Medium:     num(rec, "中单净流入-净额"),
			Small:      num(rec, "小单净流入-净额"),
		}
	}

	var amount float64
	for _, rec := range spot {
		amount += num(rec, "成交额")
	}

	return MarketFlowReport{
		Days:        flow.ScoreDays(days, uc.days),
		TotalAmount: util.Round(amount/1e8, 2),
	}, nil
}
