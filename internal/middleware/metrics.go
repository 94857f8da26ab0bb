package middleware

import (
	"time"

	"github.com/Ladybert/web-api-client/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and latency per route
func MetricsMiddleware(m *prometheus.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			m.ObserveHTTPRequest(
				c.Request().Method,
				c.Path(),
				c.Response().Status,
				time.Since(start),
			)

			return nil
		}
	}
}
