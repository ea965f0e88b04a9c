package aktools

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"MarketLens/internal/domain/models"
	xhttp "MarketLens/pkg/http"
	applogger "MarketLens/pkg/logger"

	"golang.org/x/time/rate"
)

// Metrics receives one observation per provider request.
type Metrics interface {
	RecordUpstream(op string, seconds float64, rows int, err error)
}

// Client calls an AkTools-compatible HTTP API:
// GET {base}/api/public/{op}?k=v returns a JSON array of records.
type Client struct {
	baseURL string
	http    *xhttp.Client
	limiter *rate.Limiter
	metrics Metrics
	logger  *applogger.Logger
}

type Option func(*Client)

// WithRateLimit caps outgoing requests. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithMetrics(m Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *applogger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithHTTPClient(hc *xhttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(60 * time.Second)),
		logger:  applogger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves dataset op. Every failure comes back as *models.UpstreamError.
func (c *Client) Fetch(ctx context.Context, op string, params map[string]string) (models.Table, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &models.UpstreamError{Op: op, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	query := make(map[string][]string, len(params))
	for k, v := range params {
		query[k] = []string{v}
	}

	start := time.Now()
	var table models.Table
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/api/public/" + url.PathEscape(op),
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	}, &table)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordUpstream(op, elapsed.Seconds(), len(table), err)
	}
	if err != nil {
		c.logger.Warn("upstream request failed",
			applogger.String("op", op),
			applogger.Duration("duration_ms", elapsed),
			applogger.Error(err),
		)
		return nil, &models.UpstreamError{Op: op, Err: err}
	}

	c.logger.Debug("upstream request",
		applogger.String("op", op),
		applogger.Int("rows", len(table)),
		applogger.Duration("duration_ms", elapsed),
	)
	return table, nil
}
