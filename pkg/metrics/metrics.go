package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DocumentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "agentdocs_documents_total",
			Help: "Total number of documents by workspace and status",
		},
		[]string{"workspace_id", "status"},
	)

	WorkspacesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentdocs_workspaces_total",
			Help: "Total number of workspaces",
		},
	)

	ActiveLocks = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentdocs_active_locks",
			Help: "Number of documents currently holding a live edit lease",
		},
	)

	EventBusSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "agentdocs_eventbus_subscribers",
			Help: "Total number of open SSE subscriptions across all workspaces",
		},
	)

	RateLimitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentdocs_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the workspace-create rate limiter",
		},
		[]string{"ip"},
	)

	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentdocs_api_requests_total",
			Help: "Total number of API requests by method and status",
		},
		[]string{"method", "status"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentdocs_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	DocumentCreateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agentdocs_document_create_duration_seconds",
			Help:    "Time taken to create a document in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	DocumentUpdateDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agentdocs_document_update_duration_seconds",
			Help:    "Time taken to update a document in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(DocumentsTotal)
	prometheus.MustRegister(WorkspacesTotal)
	prometheus.MustRegister(ActiveLocks)
	prometheus.MustRegister(EventBusSubscribers)
	prometheus.MustRegister(RateLimitRejections)
	prometheus.MustRegister(APIRequestsTotal)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(DocumentCreateDuration)
	prometheus.MustRegister(DocumentUpdateDuration)
}

// Handler returns the Prometheus HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
