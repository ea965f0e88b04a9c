package repository

import (
	"context"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/cache"
)

// MarketRepository memoizes provider datasets by operation and parameters.
type MarketRepository struct {
	source domrepo.MarketData
	memo   *cache.Memo[models.Table]
}

// NewMarketRepository wraps source with memo.
func NewMarketRepository(source domrepo.MarketData, memo *cache.Memo[models.Table]) *MarketRepository {
	return &MarketRepository{source: source, memo: memo}
}

// Fetch returns the cached table for (op, params) or asks the source.
// Source errors are returned unchanged and are not cached.
func (r *MarketRepository) Fetch(ctx context.Context, op string, params map[string]string) (models.Table, error) {
	kwargs := make(map[string]any, len(params))
	for k, v := range params {
		kwargs[k] = v
	}
	call := cache.Call{Op: op, Kwargs: kwargs}
	return r.memo.Do(ctx, call, func(ctx context.Context) (models.Table, error) {
		return r.source.Fetch(ctx, op, params)
	})
}

var _ domrepo.MarketData = (*MarketRepository)(nil)
