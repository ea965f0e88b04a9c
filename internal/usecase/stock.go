package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/logger"
)

// StockUseCase serves raw per-stock provider tables.
type StockUseCase struct {
	data domrepo.MarketData
	log  *logger.Logger
}

func NewStockUseCase(data domrepo.MarketData, log *logger.Logger) *StockUseCase {
	return &StockUseCase{data: data, log: log.Component("stock")}
}

// History returns the full daily, weekly or monthly bars of symbol,
// optionally forward ("qfq") or backward ("hfq") adjusted.
func (uc *StockUseCase) History(ctx context.Context, symbol, period, adjust string) (t models.Table, err error) {
	defer observe(uc.log, "stock_history", time.Now(), &err)

	if symbol == "" {
		return nil, models.InvalidArgumentf("symbol is required")
	}
	switch period {
	case "daily", "weekly", "monthly":
	default:
		return nil, models.InvalidArgumentf("unknown period %q", period)
	}
	switch adjust {
	case "", "qfq", "hfq":
	default:
		return nil, models.InvalidArgumentf("unknown adjust %q", adjust)
	}

	t, err = uc.data.Fetch(ctx, opStockHist, map[string]string{
		"symbol": symbol,
		"period": period,
		"adjust": adjust,
	})
	if err != nil {
		return nil, err
	}
	return t.Repair(), nil
}

// Chips returns the chip distribution series of symbol.
func (uc *StockUseCase) Chips(ctx context.Context, symbol string) (t models.Table, err error) {
	defer observe(uc.log, "stock_chips", time.Now(), &err)

	if symbol == "" {
		return nil, models.InvalidArgumentf("symbol is required")
	}
	// Same params as the sideways pipeline so both share one cache entry.
	t, err = uc.data.Fetch(ctx, opChips, map[string]string{"symbol": symbol, "adjust": ""})
	if err != nil {
		return nil, err
	}
	return t.Repair(), nil
}
