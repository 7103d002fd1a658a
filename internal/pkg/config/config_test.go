package config

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* ───────── ローダー ───────── */

func TestLoadInt(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         int
		wantFallback bool
	}{
		{name: "unset uses default", env: "", want: 10},
		{name: "valid value", env: "25", want: 25},
		{name: "not a number", env: "lots", want: 10, wantFallback: true},
		{name: "out of range", env: "500", want: 10, wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NEWSHUB_TEST_INT", tt.env)
			got := LoadInt("NEWSHUB_TEST_INT", 10, func(v int) error { return ValidateIntRange(v, 1, 100) })
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.wantFallback, got.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, got.Warning, "NEWSHUB_TEST_INT")
			} else {
				assert.Empty(t, got.Warning)
			}
		})
	}
}

func TestLoadDurationAndString(t *testing.T) {
	t.Setenv("NEWSHUB_TEST_TIMEOUT", "90s")
	d := LoadDuration("NEWSHUB_TEST_TIMEOUT", time.Minute, ValidatePositiveDuration)
	assert.Equal(t, 90*time.Second, d.Value)
	assert.False(t, d.FallbackApplied)

	t.Setenv("NEWSHUB_TEST_SOURCE", "ftp")
	s := LoadString("NEWSHUB_TEST_SOURCE", "db", OneOf("db", "api"))
	assert.Equal(t, "db", s.Value)
	assert.True(t, s.FallbackApplied)

	t.Setenv("NEWSHUB_TEST_FLAG", "yes")
	b := LoadBool("NEWSHUB_TEST_FLAG", true)
	assert.True(t, b.Value)
	assert.True(t, b.FallbackApplied)
}

/* ───────── バリデーション ───────── */

func TestValidators(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{name: "every five minutes", err: ValidateCronSchedule("*/5 * * * *")},
		{name: "descriptor", err: ValidateCronSchedule("@every 30s")},
		{name: "empty cron", err: ValidateCronSchedule(""), wantErr: true},
		{name: "six fields", err: ValidateCronSchedule("0 */5 * * * *"), wantErr: true},
		{name: "utc", err: ValidateTimezone("UTC")},
		{name: "unknown zone", err: ValidateTimezone("Mars/Olympus"), wantErr: true},
		{name: "duration in range", err: ValidateDuration(time.Minute, time.Second, time.Hour)},
		{name: "duration too long", err: ValidateDuration(2*time.Hour, time.Second, time.Hour), wantErr: true},
		{name: "zero duration", err: ValidatePositiveDuration(0), wantErr: true},
		{name: "int below range", err: ValidateIntRange(0, 1, 5), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				assert.Error(t, tt.err)
			} else {
				assert.NoError(t, tt.err)
			}
		})
	}
}

/* ───────── メトリクス ───────── */

func TestConfigMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("test", reg)

	m.RecordFallback("timezone")
	m.RecordFallback("timezone")
	m.SetFallbackActive(true)
	m.RecordLoadTimestamp()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("timezone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), 0.0)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_config_fallbacks_total")
}
