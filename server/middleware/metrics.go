package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/internal/observability"
)

// RequestMetrics returns an echo middleware that records per-route request,
// failure and duration counters on metrics, and stashes a request-scoped
// logging context for handlers to pick up.
func RequestMetrics(metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Request().Method + " " + c.Path()
			reqCtx := observability.NewRequestContext(slog.Default(), route, 0)
			ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			metrics.RecordRequest(route)
			metrics.RecordDuration(route, reqCtx.Duration())
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				metrics.RecordFailure(route)
			}
			return err
		}
	}
}
