package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/breadth"
	"MarketLens/pkg/logger"
)

type BreadthConfig struct {
	Criteria breadth.Criteria
	Movers   int
}

// BreadthUseCase reads the whole-market spot snapshot.
type BreadthUseCase struct {
	data domrepo.MarketData
	cfg  BreadthConfig
	log  *logger.Logger
}

func NewBreadthUseCase(data domrepo.MarketData, cfg BreadthConfig, log *logger.Logger) *BreadthUseCase {
	if cfg.Movers <= 0 {
		cfg.Movers = 60
	}
	return &BreadthUseCase{data: data, cfg: cfg, log: log.Component("breadth")}
}

// Sideways screens today's snapshot for range-bound, liquid, non-ST names.
func (uc *BreadthUseCase) Sideways(ctx context.Context) (out []breadth.Candidate, err error) {
	defer observe(uc.log, "sideways_screen", time.Now(), &err)

	quotes, err := uc.quotes(ctx, "涨跌幅", "成交量", "换手率", "60日涨跌幅")
	if err != nil {
		return nil, err
	}
	out = breadth.Sideways(quotes, uc.cfg.Criteria)
	uc.log.Debug("sideways screen",
		logger.Int("universe", len(quotes)),
		logger.Int("candidates", len(out)),
	)
	return out, nil
}

// Statistic summarizes today's change distribution and movers.
func (uc *BreadthUseCase) Statistic(ctx context.Context) (st breadth.Statistic, err error) {
	defer observe(uc.log, "breadth_statistic", time.Now(), &err)

	quotes, err := uc.quotes(ctx, "涨跌幅")
	if err != nil {
		return breadth.Statistic{}, err
	}
	return breadth.Summarize(quotes, uc.cfg.Movers), nil
}

func (uc *BreadthUseCase) quotes(ctx context.Context, cols ...string) ([]breadth.Quote, error) {
	t, err := uc.data.Fetch(ctx, opSpot, nil)
	if err != nil {
		return nil, err
	}
	if err := t.Require(opSpot, append([]string{"代码", "名称"}, cols...)...); err != nil {
		return nil, err
	}
	return spotQuotes(t), nil
}

func spotQuotes(t models.Table) []breadth.Quote {
	out := make([]breadth.Quote, len(t))
	for i, rec := range t {
		out[i] = breadth.Quote{
			Code:         text(rec, "代码"),
			Name:         text(rec, "名称"),
			Price:        num(rec, "最新价"),
			ChangePct:    numOrNaN(rec, "涨跌幅"),
			Volume:       numOrNaN(rec, "成交量"),
			Amount:       num(rec, "成交额"),
			TurnoverRate: numOrNaN(rec, "换手率"),
			Change60dPct: numOrNaN(rec, "60日涨跌幅"),
		}
	}
	return out
}
