package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import and HTTP counters exposed on /metrics.

var (
	// Import
	ImportJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contacts",
		Subsystem: "import",
		Name:      "jobs_total",
		Help:      "Total import jobs by source (json or upload)",
	}, []string{"source"})

	ImportRowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contacts",
		Subsystem: "import",
		Name:      "rows_total",
		Help:      "Total import rows by outcome",
	}, []string{"outcome"})

	ImportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "contacts",
		Subsystem: "import",
		Name:      "job_duration_seconds",
		Help:      "Import job processing duration",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	})

	// Entity resolution
	OrgResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contacts",
		Subsystem: "resolver",
		Name:      "resolutions_total",
		Help:      "Company and department resolutions by outcome (created or matched)",
	}, []string{"entity", "outcome"})

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contacts",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method and status code",
	}, []string{"method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "contacts",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})
)

// Outcome label values.
const (
	OutcomeImported = "imported"
	OutcomeFailed   = "failed"
	OutcomeCreated  = "created"
	OutcomeMatched  = "matched"
)
