package usecase

import (
	"context"
	"errors"
	"math"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/service/metrics"
	"MarketLens/pkg/logger"
	"MarketLens/pkg/util"

	"golang.org/x/sync/errgroup"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

var _ domrepo.Clock = SystemClock{}

// observe records latency and, on failure, the error kind of one pipeline run.
func observe(log *logger.Logger, pipeline string, start time.Time, err *error) {
	metrics.PipelineLatency.WithLabelValues(pipeline).Observe(time.Since(start).Seconds())
	if err == nil || *err == nil {
		return
	}
	kind := errorKind(*err)
	metrics.PipelineErrors.WithLabelValues(pipeline, kind).Inc()
	log.Error("pipeline failed",
		logger.String("pipeline", pipeline),
		logger.String("kind", kind),
		logger.Error(*err),
	)
}

func errorKind(err error) string {
	var upstream *models.UpstreamError
	var shape *models.DataShapeError
	switch {
	case errors.As(err, &upstream):
		return "upstream"
	case errors.As(err, &shape):
		return "data_shape"
	case errors.Is(err, models.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

// request names one provider dataset.
type request struct {
	op     string
	params map[string]string
}

// fetchAll loads every request concurrently. Results are in request order;
// the first failure cancels the rest.
func fetchAll(ctx context.Context, data domrepo.MarketData, reqs ...request) ([]models.Table, error) {
	out := make([]models.Table, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	for i, r := range reqs {
		i, r := i, r
		g.Go(func() error {
			t, err := data.Fetch(ctx, r.op, r.params)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// num reads a numeric cell; blanks and text read as 0.
func num(rec models.Record, col string) float64 {
	v, _ := util.ToFloat(rec[col])
	return util.Finite(v)
}

func text(rec models.Record, col string) string {
	switch v := rec[col].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		if f, ok := util.ToFloat(v); ok {
			return util.FormatNumber(f)
		}
		return ""
	}
}

// numOrNaN reads a numeric cell; blanks and text read as NaN so filters can
// tell them from a real 0.
func numOrNaN(rec models.Record, col string) float64 {
	v, ok := util.ToFloat(rec[col])
	if !ok {
		return math.NaN()
	}
	return v
}
