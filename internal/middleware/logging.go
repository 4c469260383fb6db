package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/octobees/contacts-hub/internal/metrics"
)

// Logging writes one structured line per HTTP request and records request
// metrics.
func Logging(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			metrics.HTTPRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(req.Method).Observe(latency.Seconds())

			event := logger.Info()
			switch {
			case status >= 500:
				event = logger.Error().Err(err)
			case status >= 400:
				event = logger.Warn()
			}
			event.
				Str("request_id", RequestIDFromContext(c)).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", status).
				Dur("latency", latency).
				Msg("request")

			return err
		}
	}
}
