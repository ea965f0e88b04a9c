package repository

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
)

// MarketData fetches a named provider dataset. Params are sent as query
// string values and take part in the cache key, so they must already be
// formatted strings.
type MarketData interface {
	Fetch(ctx context.Context, op string, params map[string]string) (models.Table, error)
}

// Clock lets pipelines ask for "today" without reading the wall clock.
type Clock interface {
	Now() time.Time
}
