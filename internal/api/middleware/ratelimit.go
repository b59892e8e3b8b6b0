package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskhub/task-management/internal/api/metrics"
)

// Limiter counts admissions for a key within a fixed window. Backed by
// Redis in production.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitConfig defines one admission-control class.
type RateLimitConfig struct {
	// Class names the route class and namespaces the counter keys.
	Class   string
	Limit   int
	Window  time.Duration
	Message string
}

// RateLimit rejects requests exceeding the class limit per client IP. When
// the counter backend errors the request is admitted: admission control is
// an auxiliary collaborator and its outage must not block authenticated
// traffic.
func RateLimit(limiter Limiter, cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("ratelimit:%s:%s", cfg.Class, c.RealIP())

			allowed, err := limiter.Allow(c.Request().Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("class", cfg.Class).Msg("rate limiter unavailable, admitting request")
				return next(c)
			}
			if !allowed {
				metrics.RateLimitRejectionsTotal.WithLabelValues(cfg.Class).Inc()
				return echo.NewHTTPError(http.StatusTooManyRequests, cfg.Message)
			}
			return next(c)
		}
	}
}
