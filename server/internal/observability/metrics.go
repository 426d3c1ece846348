package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates per-route request counters for the /api/v1 surface.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	routeMetrics map[string]*RouteMetrics
}

// RouteMetrics holds counters for a single route.
type RouteMetrics struct {
	requestCount  atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	errorCount    atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{routeMetrics: make(map[string]*RouteMetrics)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records a handled request on route.
func (m *Metrics) RecordRequest(route string) {
	m.requestTotal.Add(1)
	m.getRouteMetrics(route).requestCount.Add(1)
}

// RecordFailure records a failed request on route.
func (m *Metrics) RecordFailure(route string) {
	m.requestFailed.Add(1)
	m.getRouteMetrics(route).errorCount.Add(1)
}

// RecordDuration records a request duration on route.
func (m *Metrics) RecordDuration(route string, duration time.Duration) {
	m.getRouteMetrics(route).totalDuration.Add(duration.Milliseconds())
}

// GetRequestTotal returns the total number of requests.
func (m *Metrics) GetRequestTotal() int64 {
	return m.requestTotal.Load()
}

// GetRequestFailed returns the total number of failed requests.
func (m *Metrics) GetRequestFailed() int64 {
	return m.requestFailed.Load()
}

func (m *Metrics) getRouteMetrics(route string) *RouteMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	rm, ok := m.routeMetrics[route]
	if !ok {
		rm = &RouteMetrics{}
		m.routeMetrics[route] = rm
	}
	return rm
}

// Reset clears all counters. Useful for testing.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.mu.Lock()
	m.routeMetrics = make(map[string]*RouteMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make(map[string]*RouteMetricsSnapshot, len(m.routeMetrics))
	for route, rm := range m.routeMetrics {
		count := rm.requestCount.Load()
		snapshot := &RouteMetricsSnapshot{
			RequestCount:  count,
			TotalDuration: rm.totalDuration.Load(),
			ErrorCount:    rm.errorCount.Load(),
		}
		if count > 0 {
			snapshot.AverageDuration = snapshot.TotalDuration / count
		}
		routes[route] = snapshot
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Routes:        routes,
	}
}

// MetricsSnapshot is a point-in-time view of the collector.
type MetricsSnapshot struct {
	RequestTotal  int64
	RequestFailed int64
	Routes        map[string]*RouteMetricsSnapshot
}

// RouteMetricsSnapshot is a point-in-time view of one route's counters.
type RouteMetricsSnapshot struct {
	RequestCount    int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
