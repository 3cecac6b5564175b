package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Desktop metrics
	WindowsOpened  *prometheus.CounterVec
	WindowsClosed  prometheus.Counter
	PathsNotFound  prometheus.Counter
	FragmentWrites prometheus.Counter
	EchoesIgnored  prometheus.Counter

	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// Upstream metrics
	UpstreamCalls    *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ActiveSessions    int64   `json:"active_sessions"`
	ActiveConnections int64   `json:"active_connections"`
	WindowsOpened     int64   `json:"windows_opened"`
	AvgLatencyMS      float64 `json:"avg_latency_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kennel_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kennel_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kennel_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "route"},
		),

		// Desktop metrics
		WindowsOpened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kennel_windows_opened_total",
				Help: "Total number of windows created, by node kind",
			},
			[]string{"kind"},
		),
		WindowsClosed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kennel_windows_closed_total",
				Help: "Total number of windows closed",
			},
		),
		PathsNotFound: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kennel_paths_not_found_total",
				Help: "Total number of open commands for unresolvable paths",
			},
		),
		FragmentWrites: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kennel_fragment_writes_total",
				Help: "Total number of programmatic fragment writes",
			},
		),
		EchoesIgnored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kennel_fragment_echoes_ignored_total",
				Help: "Total number of fragment changes ignored as echoes",
			},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kennel_sessions_active",
				Help: "Number of live desktop sessions",
			},
		),
		SessionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kennel_sessions_total",
				Help: "Total number of desktop sessions created",
			},
		),

		// Upstream metrics
		UpstreamCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kennel_upstream_calls_total",
				Help: "Total number of upstream calls",
			},
			[]string{"service", "status"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kennel_upstream_duration_seconds",
				Help:    "Upstream call duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "kennel_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kennel_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "kennel_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, route, status).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, route).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordUpstreamCall records a call to an external service
func (m *Metrics) RecordUpstreamCall(service, status string, duration time.Duration) {
	m.UpstreamCalls.WithLabelValues(service, status).Inc()
	m.UpstreamDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// WindowOpened counts a created window
func (m *Metrics) WindowOpened(kind string) {
	m.WindowsOpened.WithLabelValues(kind).Inc()
	m.mu.Lock()
	m.snapshot.WindowsOpened++
	m.mu.Unlock()
}

// WindowClosed counts a closed window
func (m *Metrics) WindowClosed() {
	m.WindowsClosed.Inc()
}

// PathNotFound counts an open command that failed to resolve
func (m *Metrics) PathNotFound() {
	m.PathsNotFound.Inc()
}

// FragmentWritten counts a programmatic fragment write
func (m *Metrics) FragmentWritten() {
	m.FragmentWrites.Inc()
}

// EchoSuppressed counts an ignored fragment echo
func (m *Metrics) EchoSuppressed() {
	m.EchoesIgnored.Inc()
}

// SessionOpened counts a new session
func (m *Metrics) SessionOpened() {
	m.SessionsTotal.Inc()
	m.SessionsActive.Inc()
	m.mu.Lock()
	m.snapshot.ActiveSessions++
	m.mu.Unlock()
}

// SessionClosed counts a closed session
func (m *Metrics) SessionClosed() {
	m.SessionsActive.Dec()
	m.mu.Lock()
	m.snapshot.ActiveSessions--
	m.mu.Unlock()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// GetSnapshot returns current values for the JSON API
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgLatencyMS = snap.totalDuration / float64(snap.TotalRequests) * 1000
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
