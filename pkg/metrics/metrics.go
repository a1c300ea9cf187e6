package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the service-local metrics registry exposed at /api/metrics.
var Registry = prometheus.NewRegistry()

var (
	// Buckets sized for a pipeline dominated by external HTTP calls
	// (Turnstile, counter store, mail provider)
	apiBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34}

	factory = promauto.With(Registry)

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: apiBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Business Metrics
	ContactSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrogroup_contact_submissions_total",
			Help: "Total number of contact form submissions by outcome",
		},
		[]string{"status"},
	)

	MailDeliveries = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrogroup_mail_deliveries_total",
			Help: "Total number of mail delivery attempts by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	TurnstileVerifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrogroup_turnstile_verifications_total",
			Help: "Total number of Turnstile verification calls by outcome",
		},
		[]string{"status"},
	)

	RateLimitDecisions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrogroup_rate_limit_decisions_total",
			Help: "Total number of rate limiter decisions",
		},
		[]string{"decision"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
