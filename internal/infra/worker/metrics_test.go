package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerMetricsWith_Registers(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWorkerMetricsWith(reg)

	m.RecordLoadTimestamp()
	m.RecordJobRun(JobWarm, "success")
	m.RecordJobDuration(JobWarm, 1.5)
	m.RecordLastSuccess(JobWarm)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"worker_config_load_timestamp",
		"worker_cron_job_runs_total",
		"worker_cron_job_duration_seconds",
		"worker_cron_job_last_success_timestamp",
	} {
		assert.True(t, names[want], "missing metric %s", want)
	}
}

func TestWorkerMetrics_RecordJobRun(t *testing.T) {
	m := NewWorkerMetricsWith(prometheus.NewRegistry())

	m.RecordJobRun(JobWarm, "success")
	m.RecordJobRun(JobWarm, "success")
	m.RecordJobRun(JobPurge, "failure")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues(JobWarm, "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues(JobPurge, "failure")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.CronJobRunsTotal.WithLabelValues(JobPurge, "success")))
}

func TestWorkerMetrics_Fallbacks(t *testing.T) {
	m := NewWorkerMetricsWith(prometheus.NewRegistry())

	m.RecordValidationError("timezone")
	m.RecordFallback("timezone")
	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigFallbacksTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigValidationErrorsTotal.WithLabelValues("timezone")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ConfigFallbackActive))

	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ConfigFallbackActive))
}

func TestWorkerMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewWorkerMetricsWith(reg)

	assert.Panics(t, func() { NewWorkerMetricsWith(reg) })
}
