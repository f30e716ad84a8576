package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"parceltrack/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// RateLimiter counts hits per key within a window.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int64, error)
}

// rateLimit throttles by remote IP. A failing limiter lets the request through.
func rateLimit(limiter RateLimiter, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			ip := c.RealIP()
			allowed, _, err := limiter.Allow(c.Request().Context(), "track:"+ip)
			if err != nil {
				logger.WarnContext(c.Request().Context(), "rate limiter unavailable", "ip", ip, "error", err)
				return next(c)
			}
			if !allowed {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many tracking requests")
			}
			return next(c)
		}
	}
}

// observe records request metrics and an access log line.
func observe(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let the error handler pick the status before it is recorded
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := c.Response().Status
			elapsed := time.Since(start)

			metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Request().Method, path).Observe(elapsed.Seconds())

			logger.InfoContext(c.Request().Context(), "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration", elapsed,
				"ip", c.RealIP(),
			)
			return nil
		}
	}
}
