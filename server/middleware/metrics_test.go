package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jerryjiang063/noteshub/server/internal/observability"
)

func TestRequestMetrics(t *testing.T) {
	metrics := observability.NewMetrics()
	e := echo.New()
	e.Use(RequestMetrics(metrics))
	e.GET("/api/v1/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/api/v1/fail", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadGateway, "upstream")
	})

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ok", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/fail", nil))
	require.Equal(t, http.StatusBadGateway, rec.Code)

	snapshot := metrics.Snapshot()
	require.EqualValues(t, 4, snapshot.RequestTotal)
	require.EqualValues(t, 1, snapshot.RequestFailed)
	require.EqualValues(t, 3, snapshot.Routes["GET /api/v1/ok"].RequestCount)
	require.EqualValues(t, 1, snapshot.Routes["GET /api/v1/fail"].ErrorCount)
	require.InDelta(t, 75.0, snapshot.SuccessRate(), 0.01)
}

func TestRequestMetricsStashesRequestContext(t *testing.T) {
	e := echo.New()
	e.Use(RequestMetrics(observability.NewMetrics()))

	var reqCtx *observability.RequestContext
	e.GET("/api/v1/covers", func(c echo.Context) error {
		stashed, ok := observability.FromContext(c.Request().Context())
		require.True(t, ok)
		reqCtx = stashed
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/covers?title=Dune", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, reqCtx)
	require.Equal(t, "GET /api/v1/covers", reqCtx.Route)
	require.NotEmpty(t, reqCtx.RequestID)
}
