// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigdial_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_upstream_requests_total",
			Help: "Calls to the GigDial backend by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gigdial_upstream_request_duration_seconds",
			Help:    "Duration of calls to the GigDial backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	GigsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_gigs_classified_total",
			Help: "Gigs assigned to a bucket, split by whether a keyword matched",
		},
		[]string{"bucket", "matched"},
	)

	BookingIntentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_booking_intent_transitions_total",
			Help: "Booking intent state transitions",
		},
		[]string{"from", "to"},
	)

	CatalogRefreshRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_catalog_refresh_runs_total",
			Help: "Scheduled catalog refresh runs by outcome",
		},
		[]string{"outcome"},
	)

	SearchFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gigdial_search_fallbacks_total",
			Help: "Searches served from the in-memory gig list because Elasticsearch failed",
		},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gigdial_notifications_total",
			Help: "Contact-message notifications by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
