// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vector_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Fetch layer
	Fetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_fetches_total",
			Help: "Total number of simulated fetches",
		},
		[]string{"collection", "result"}, // markets/news/portfolio, hit/miss/error
	)

	Perturbations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_perturbations_total",
			Help: "Total number of records nudged by the jitter source",
		},
		[]string{"collection"},
	)

	// Background jobs
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "status"}, // refresh/rss/snapshot, success/error/skipped
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vector_job_duration_seconds",
			Help:    "Duration of scheduled job runs",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30},
		},
		[]string{"job"},
	)

	FeedItemsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_feed_items_ingested_total",
			Help: "Total number of RSS items fetched, by feed source",
		},
		[]string{"source"},
	)

	// Push
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vector_ws_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	// Notifications
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vector_notifications_sent_total",
			Help: "Total number of notifications sent",
		},
		[]string{"event", "status"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFetch records a fetch-layer lookup.
func RecordFetch(collection, result string) {
	Fetches.WithLabelValues(collection, result).Inc()
}

// RecordPerturbation counts n nudged records.
func RecordPerturbation(collection string, n int) {
	Perturbations.WithLabelValues(collection).Add(float64(n))
}

// RecordJob records a scheduled job outcome.
func RecordJob(job string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	JobRuns.WithLabelValues(job, status).Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordJobSkipped counts a run skipped because another replica held the lock.
func RecordJobSkipped(job string) {
	JobRuns.WithLabelValues(job, "skipped").Inc()
}

// RecordFeedItems counts items fetched from one feed source.
func RecordFeedItems(source string, n int) {
	FeedItemsIngested.WithLabelValues(source).Add(float64(n))
}

// RecordNotification records a notification send attempt.
func RecordNotification(event string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	NotificationsSent.WithLabelValues(event, status).Inc()
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
