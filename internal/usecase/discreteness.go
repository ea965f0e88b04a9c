package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/calendar"
	"MarketLens/internal/services/window"
	"MarketLens/pkg/logger"
	"MarketLens/pkg/util"
)

const (
	opChips     = "stock_cyq_em"
	opStockHist = "stock_zh_a_hist"
)

type DiscretenessConfig struct {
	HistoryDays int
	Windows     []window.Config
	Keep        int
}

// DiscretenessUseCase looks for sideways price action with tightening chip
// distribution in one stock.
type DiscretenessUseCase struct {
	data  domrepo.MarketData
	clock domrepo.Clock
	cfg   DiscretenessConfig
	log   *logger.Logger
}

func NewDiscretenessUseCase(data domrepo.MarketData, clock domrepo.Clock, cfg DiscretenessConfig, log *logger.Logger) *DiscretenessUseCase {
	if cfg.Keep == 0 {
		cfg.Keep = window.DefaultKeep
	}
	return &DiscretenessUseCase{data: data, clock: clock, cfg: cfg, log: log.Component("discreteness")}
}

// Analyze joins daily history with chip distribution over the configured
// look-back and sweeps every window size.
func (uc *DiscretenessUseCase) Analyze(ctx context.Context, symbol string) (out map[int][]window.Result, err error) {
	defer observe(uc.log, "discreteness", time.Now(), &err)

	if symbol == "" {
		return nil, models.InvalidArgumentf("symbol is required")
	}

	now := uc.clock.Now()
	from := util.Day(now.AddDate(0, 0, -uc.cfg.HistoryDays))
	tables, err := fetchAll(ctx, uc.data,
		request{op: opChips, params: map[string]string{"symbol": symbol, "adjust": ""}},
		request{op: opStockHist, params: map[string]string{
			"symbol":     symbol,
			"period":     "daily",
			"start_date": util.FormatCompact(from),
			"end_date":   util.FormatCompact(now),
			"adjust":     "",
		}},
	)
	if err != nil {
		return nil, err
	}

	chips, err := calendar.FromTable(opChips, tables[0], "日期", calendar.Columns{
		"70集中度": "chip70",
		"90集中度": "chip90",
	})
	if err != nil {
		return nil, err
	}
	hist, err := calendar.FromTable(opStockHist, tables[1], "日期", calendar.Columns{
		"收盘":  "close",
		"成交量": "volume",
		"换手率": "turnover",
	})
	if err != nil {
		return nil, err
	}

	// Chip distribution is not bounded by the history query.
	joined := calendar.Trim(calendar.InnerJoin(hist, chips), from)
	obs := make([]window.Observation, len(joined))
	for i, r := range joined {
		obs[i] = window.Observation{
			Date:     r.Date,
			Close:    r.Fields["close"],
			Volume:   r.Fields["volume"],
			Turnover: r.Fields["turnover"],
			Chip70:   r.Fields["chip70"],
			Chip90:   r.Fields["chip90"],
		}
	}
	uc.log.Debug("discreteness input",
		logger.String("symbol", symbol),
		logger.Int("history_rows", len(hist)),
		logger.Int("joined_rows", len(joined)),
	)

	return window.Analyze(obs, uc.cfg.Windows, uc.cfg.Keep)
}
