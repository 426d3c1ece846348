package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jerryjiang063/noteshub/server/auth"
	"github.com/jerryjiang063/noteshub/server/internal/observability"
	"github.com/jerryjiang063/noteshub/store"
)

type statsResponse struct {
	TotalUsers     int64 `json:"totalUsers"`
	TotalBooks     int64 `json:"totalBooks"`
	TotalNotes     int64 `json:"totalNotes"`
	PublicNotes    int64 `json:"publicNotes"`
	NotesLastWeek  int64 `json:"notesLastWeek"`
	NotesLastMonth int64 `json:"notesLastMonth"`
	TotalComments  int64 `json:"totalComments"`
	LastUpdated    int64 `json:"lastUpdated"`
}

// GET /api/v1/stats
func (s *APIV1Service) GetStats(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	current := s.StatsCollector.GetStats()
	return c.JSON(http.StatusOK, &statsResponse{
		TotalUsers:     current.TotalUsers,
		TotalBooks:     current.TotalBooks,
		TotalNotes:     current.TotalNotes,
		PublicNotes:    current.PublicNotes,
		NotesLastWeek:  current.NotesLastWeek,
		NotesLastMonth: current.NotesLastMonth,
		TotalComments:  current.TotalComments,
		LastUpdated:    current.LastUpdated.Unix(),
	})
}

type metricsOverviewResponse struct {
	TotalRequests int64   `json:"totalRequests"`
	ErrorCount    int64   `json:"errorCount"`
	SuccessRate   float64 `json:"successRate"`
}

// GET /api/v1/metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	snapshot := observability.GlobalMetrics().Snapshot()
	return c.JSON(http.StatusOK, &metricsOverviewResponse{
		TotalRequests: snapshot.RequestTotal,
		ErrorCount:    snapshot.RequestFailed,
		SuccessRate:   snapshot.SuccessRate(),
	})
}

func requireAdmin(c echo.Context) error {
	user := auth.UserFromContext(c.Request().Context())
	if user == nil || user.Role != store.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "admin role required")
	}
	return nil
}
