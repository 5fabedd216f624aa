package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadWithFallback_Unset(t *testing.T) {
	res := LoadWithFallback("TEST_CRON", "*/5 * * * *", ParseString, ValidateCronSchedule)

	assert.Equal(t, "*/5 * * * *", res.Value)
	assert.False(t, res.FallbackApplied)
	assert.Empty(t, res.Warning)
}

func TestLoadWithFallback_Valid(t *testing.T) {
	t.Setenv("TEST_CRON", "0 6 * * *")

	res := LoadWithFallback("TEST_CRON", "*/5 * * * *", ParseString, ValidateCronSchedule)

	assert.Equal(t, "0 6 * * *", res.Value)
	assert.False(t, res.FallbackApplied)
}

func TestLoadWithFallback_ValidationFails(t *testing.T) {
	t.Setenv("TEST_CRON", "whenever")

	res := LoadWithFallback("TEST_CRON", "*/5 * * * *", ParseString, ValidateCronSchedule)

	assert.Equal(t, "*/5 * * * *", res.Value)
	assert.True(t, res.FallbackApplied)
	assert.Contains(t, res.Warning, "TEST_CRON='whenever'")
	assert.Contains(t, res.Warning, "falling back to default '*/5 * * * *'")
}

func TestLoadWithFallback_ParseFails(t *testing.T) {
	t.Setenv("TEST_PARALLELISM", "lots")

	res := LoadWithFallback("TEST_PARALLELISM", 4, ParseInt, func(v int) error { return ValidateIntRange(v, 1, 32) })

	assert.Equal(t, 4, res.Value)
	assert.True(t, res.FallbackApplied)
}

func TestLoadWithFallback_OutOfRange(t *testing.T) {
	t.Setenv("TEST_PARALLELISM", "100")

	res := LoadWithFallback("TEST_PARALLELISM", 4, ParseInt, func(v int) error { return ValidateIntRange(v, 1, 32) })

	assert.Equal(t, 4, res.Value)
	assert.True(t, res.FallbackApplied)
	assert.Contains(t, res.Warning, "exceeds maximum 32")
}

func TestLoadWithFallback_NilValidator(t *testing.T) {
	t.Setenv("TEST_TIMEOUT", "45s")

	res := LoadWithFallback("TEST_TIMEOUT", time.Minute, ParseDuration, nil)

	assert.Equal(t, 45*time.Second, res.Value)
	assert.False(t, res.FallbackApplied)
}
