package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the reconciliation service.
type Metrics struct {
	registry *prometheus.Registry

	// JobsProcessed counts finished jobs by final status.
	JobsProcessed *prometheus.CounterVec
	// JobDuration observes the wall time of each processed job.
	JobDuration prometheus.Histogram
	// QueueDepth is the number of job ids waiting in the queue.
	QueueDepth prometheus.Gauge
	// QueueRejections counts submissions refused by a saturated queue.
	QueueRejections prometheus.Counter
	// ValidationIssues counts issues reported by dataset validation.
	ValidationIssues prometheus.Counter
	// StaleJobs is the number of jobs the last sweep found stuck in processing.
	StaleJobs prometheus.Gauge
}

// New creates the collectors on a fresh registry, together with the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry creates the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,

		JobsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciler_jobs_processed_total",
			Help: "Total number of reconciliation jobs processed, by final status",
		}, []string{"status"}),

		JobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "reconciler_job_duration_seconds",
			Help:    "Duration of reconciliation jobs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		}),

		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reconciler_queue_depth",
			Help: "Number of jobs waiting in the queue",
		}),

		QueueRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_queue_rejections_total",
			Help: "Total number of job submissions rejected by a saturated queue",
		}),

		ValidationIssues: factory.NewCounter(prometheus.CounterOpts{
			Name: "reconciler_validation_issues_total",
			Help: "Total number of field validation issues found in uploaded datasets",
		}),

		StaleJobs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "reconciler_stale_jobs",
			Help: "Number of jobs stuck in processing longer than the stale threshold",
		}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
