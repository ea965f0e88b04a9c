package repository

import (
	"context"
	"errors"
	"testing"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spySource struct {
	calls map[string]int
	err   error
}

func (s *spySource) Fetch(_ context.Context, op string, params map[string]string) (models.Table, error) {
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[op]++
	if s.err != nil {
		return nil, s.err
	}
	return models.Table{{"op": op, "symbol": params["symbol"]}}, nil
}

func TestMarketRepository_MemoizesByOpAndParams(t *testing.T) {
	ctx := context.Background()
	src := &spySource{}
	repo := NewMarketRepository(src, cache.NewMemo[models.Table](cache.NewMemoryCache[models.Table]()))

	t1, err := repo.Fetch(ctx, "stock_cyq_em", map[string]string{"symbol": "600519", "adjust": ""})
	require.NoError(t, err)
	t2, err := repo.Fetch(ctx, "stock_cyq_em", map[string]string{"adjust": "", "symbol": "600519"})
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
	assert.Equal(t, 1, src.calls["stock_cyq_em"])

	_, err = repo.Fetch(ctx, "stock_cyq_em", map[string]string{"symbol": "000001", "adjust": ""})
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls["stock_cyq_em"])
}

func TestMarketRepository_PropagatesErrorsUnchanged(t *testing.T) {
	ctx := context.Background()
	upstream := &models.UpstreamError{Op: "macro_cnbs", Err: errors.New("502")}
	src := &spySource{err: upstream}
	repo := NewMarketRepository(src, cache.NewMemo[models.Table](cache.NewMemoryCache[models.Table]()))

	_, err := repo.Fetch(ctx, "macro_cnbs", nil)
	assert.Same(t, upstream, err)
	_, err = repo.Fetch(ctx, "macro_cnbs", nil)
	assert.Same(t, upstream, err)
	assert.Equal(t, 2, src.calls["macro_cnbs"])
}
