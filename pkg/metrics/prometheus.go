// Package metrics provides Prometheus metrics for the poolwatch refresher.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle result label values.
const (
	ResultOK           = "ok"
	ResultFetchError   = "fetch_error"
	ResultExtractError = "extract_error"
)

// Movement direction label values.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Latency buckets in milliseconds, sized for a remote page fetch.
var defaultBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // immutable bucket layout

// Manager manages all Prometheus metrics for the poolwatch service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Refresh cycle metrics
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	windowActive  prometheus.Gauge

	// Fetch metrics
	fetchLatency prometheus.Histogram
	fetchBytes   prometheus.Gauge

	// Standings metrics
	teamsExtracted  prometheus.Gauge
	boardTeams      prometheus.Gauge
	newEntrants     prometheus.Counter
	playerMovements *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// Service state
	trackedPlayers prometheus.Gauge
	trackedTeams   prometheus.Gauge

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "poolwatch",
		subsystem:        "leaderboard",
		histogramBuckets: defaultBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.cycles = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "cycles_total",
			Help:        "Total number of refresh cycles by result",
			ConstLabels: m.constLabels,
		},
		[]string{"result"},
	)

	m.cycleDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "cycle_duration_milliseconds",
		Help:        "Wall time of a refresh cycle in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.windowActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "window_active",
		Help:        "1 when the last cycle ran inside the active window, 0 otherwise",
		ConstLabels: m.constLabels,
	})

	m.fetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_latency_milliseconds",
		Help:        "Leaderboard page fetch latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.fetchBytes = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fetch_bytes",
		Help:        "Size of the last fetched leaderboard page in bytes",
		ConstLabels: m.constLabels,
	})

	m.teamsExtracted = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "teams_extracted",
		Help:        "Number of teams found on the last page",
		ConstLabels: m.constLabels,
	})

	m.boardTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "board_teams",
		Help:        "Number of teams in the published top-N board",
		ConstLabels: m.constLabels,
	})

	m.newEntrants = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "new_entrants_total",
		Help:        "Total number of teams that entered the top N",
		ConstLabels: m.constLabels,
	})

	m.playerMovements = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "player_movements_total",
			Help:        "Total number of player score movements by direction",
			ConstLabels: m.constLabels,
		},
		[]string{"direction"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.trackedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tracked_players",
		Help:        "Number of players with a remembered score",
		ConstLabels: m.constLabels,
	})

	m.trackedTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "tracked_teams",
		Help:        "Number of teams in the remembered top N",
		ConstLabels: m.constLabels,
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated and in use",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of running goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		ConstLabels: m.constLabels,
	})
}

// Manager methods. The package-level functions below forward to the global manager.

// RecordCycle counts a finished cycle and its duration.
func (m *Manager) RecordCycle(result string, durationMs float64) error {
	switch result {
	case ResultOK, ResultFetchError, ResultExtractError:
	default:
		return fmt.Errorf("%q: %w", result, ErrUnknownResult)
	}
	m.cycles.WithLabelValues(result).Inc()
	m.cycleDuration.Observe(durationMs)
	return nil
}

// SetWindowActive records whether the active path ran.
func (m *Manager) SetWindowActive(active bool) {
	if active {
		m.windowActive.Set(1)
		return
	}
	m.windowActive.Set(0)
}

// RecordFetch records a successful page fetch.
func (m *Manager) RecordFetch(latencyMs float64, bytes int) {
	m.fetchLatency.Observe(latencyMs)
	m.fetchBytes.Set(float64(bytes))
}

// UpdateStandings records team counts for the last cycle.
func (m *Manager) UpdateStandings(extracted, board int) {
	m.teamsExtracted.Set(float64(extracted))
	m.boardTeams.Set(float64(board))
}

// RecordMovements adds a cycle's new entrants and player movements.
func (m *Manager) RecordMovements(newEntrants, up, down int) {
	m.newEntrants.Add(float64(newEntrants))
	m.playerMovements.WithLabelValues(DirectionUp).Add(float64(up))
	m.playerMovements.WithLabelValues(DirectionDown).Add(float64(down))
}

// RecordHTTPRequest increments the HTTP request counter and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent records an error with component and type labels.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateTracked records the size of the diff history.
func (m *Manager) UpdateTracked(players, teams int) {
	m.trackedPlayers.Set(float64(players))
	m.trackedTeams.Set(float64(teams))
}

// UpdateSystemMemoryUsage records heap bytes in use.
func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount records the goroutine count.
func (m *Manager) UpdateSystemGoroutineCount(count int) {
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records the average GC pause.
func (m *Manager) RecordSystemGCPauseTime(pauseMs float64) {
	m.systemGCPauseTime.Set(pauseMs)
}

// Refresh Cycle Functions.

// RecordCycle counts a finished cycle on the global manager.
func RecordCycle(result string, durationMs float64) error {
	return globalManager.RecordCycle(result, durationMs)
}

// SetWindowActive records whether the active path ran.
func SetWindowActive(active bool) {
	globalManager.SetWindowActive(active)
}

// RecordFetch records a successful page fetch.
func RecordFetch(latencyMs float64, bytes int) {
	globalManager.RecordFetch(latencyMs, bytes)
}

// UpdateStandings records team counts for the last cycle.
func UpdateStandings(extracted, board int) {
	globalManager.UpdateStandings(extracted, board)
}

// RecordMovements adds a cycle's new entrants and player movements.
func RecordMovements(newEntrants, up, down int) {
	globalManager.RecordMovements(newEntrants, up, down)
}

// HTTP Metrics Functions.

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.RecordErrorByComponent(component, errorType)
}

// Service and System Metrics Functions.

// UpdateTracked records the size of the diff history.
func UpdateTracked(players, teams int) {
	globalManager.UpdateTracked(players, teams)
}

// UpdateSystemMemoryUsage records heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.UpdateSystemMemoryUsage(bytes)
}

// UpdateSystemGoroutineCount records the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.UpdateSystemGoroutineCount(count)
}

// RecordSystemGCPauseTime records the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.RecordSystemGCPauseTime(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
