package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics provides Prometheus metrics for the worker.
//
// Configuration metrics:
//   - worker_config_load_timestamp: Unix timestamp of last configuration load
//   - worker_config_validation_errors_total: Validation errors by field
//   - worker_config_fallbacks_total: Fallbacks applied by field
//   - worker_config_fallback_active: 1 if any fallback is active
//
// Job metrics:
//   - worker_cron_job_runs_total: Job runs by job and status
//   - worker_cron_job_duration_seconds: Job duration by job
//   - worker_cron_job_last_success_timestamp: Unix timestamp of last success by job
type WorkerMetrics struct {
	ConfigLoadTimestamp         prometheus.Gauge
	ConfigValidationErrorsTotal *prometheus.CounterVec
	ConfigFallbacksTotal        *prometheus.CounterVec
	ConfigFallbackActive        prometheus.Gauge

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      *prometheus.HistogramVec
	CronJobLastSuccessTimestamp *prometheus.GaugeVec
}

// NewWorkerMetrics creates worker metrics registered with the default registry.
// It must be called once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(prometheus.DefaultRegisterer)
}

// NewWorkerMetricsWith creates worker metrics registered with reg.
func NewWorkerMetricsWith(reg prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(reg)

	return &WorkerMetrics{
		ConfigLoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_load_timestamp",
			Help: "Unix timestamp of the last configuration load",
		}),
		ConfigValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_validation_errors_total",
			Help: "Total number of configuration validation errors by field",
		}, []string{"field"}),
		ConfigFallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_config_fallbacks_total",
			Help: "Total number of configuration fallbacks applied by field",
		}, []string{"field"}),
		ConfigFallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_config_fallback_active",
			Help: "1 if any configuration fallback is active, 0 otherwise",
		}),

		CronJobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by job and status",
		}, []string{"job", "status"}),
		CronJobDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"job"}),
		CronJobLastSuccessTimestamp: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run",
		}, []string{"job"}),
	}
}

// RecordLoadTimestamp sets the configuration load timestamp to now.
func (m *WorkerMetrics) RecordLoadTimestamp() {
	m.ConfigLoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts a rejected value for field.
func (m *WorkerMetrics) RecordValidationError(field string) {
	m.ConfigValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts a default applied to field.
func (m *WorkerMetrics) RecordFallback(field string) {
	m.ConfigFallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive reports whether the running configuration contains any fallback.
func (m *WorkerMetrics) SetFallbackActive(active bool) {
	if active {
		m.ConfigFallbackActive.Set(1)
		return
	}
	m.ConfigFallbackActive.Set(0)
}

// RecordJobRun counts a run of job with status "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(job, status string) {
	m.CronJobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes the duration of a run of job.
func (m *WorkerMetrics) RecordJobDuration(job string, seconds float64) {
	m.CronJobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordLastSuccess sets the last success timestamp of job to now.
func (m *WorkerMetrics) RecordLastSuccess(job string) {
	m.CronJobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}
