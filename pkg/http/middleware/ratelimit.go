package middleware

import (
	"net/http"

	applogger "MarketLens/pkg/logger"

	"github.com/labstack/echo/v4"
)

// KeyedLimiter decides whether a caller identified by key may proceed.
type KeyedLimiter interface {
	Allow(key string) bool
}

// RateLimit rejects requests with 429 once the client address runs out of
// tokens. Paths in skip are never limited.
func RateLimit(lim KeyedLimiter, l *applogger.Logger, skip ...string) echo.MiddlewareFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skipped[c.Path()]; ok {
				return next(c)
			}
			ip := c.RealIP()
			if lim.Allow(ip) {
				return next(c)
			}
			l.Warn("rate limit exceeded",
				applogger.String("remote_ip", ip),
				applogger.String("path", c.Path()),
				applogger.String("request_id", RequestID(c)),
			)
			c.Response().Header().Set("Retry-After", "1")
			return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
				"status":  http.StatusTooManyRequests,
				"message": http.StatusText(http.StatusTooManyRequests),
			})
		}
	}
}
