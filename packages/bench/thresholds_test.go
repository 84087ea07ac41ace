package bench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThresholds(t *testing.T) {
	got, err := ParseThresholds("p95<200ms, p99<=1s,errors<0.5%")
	require.NoError(t, err)

	assert.Equal(t, 200*time.Millisecond, got.P95)
	assert.Equal(t, time.Second, got.P99)
	assert.InDelta(t, 0.005, got.ErrorRate, 1e-9)
}

func TestParseThresholds_Empty(t *testing.T) {
	got, err := ParseThresholds("")
	require.NoError(t, err)
	assert.Equal(t, Thresholds{}, got)
}

func TestParseThresholds_Invalid(t *testing.T) {
	tests := []string{
		"p95>200ms",
		"p95<fast",
		"errors<150%",
		"rps<10",
		"garbage",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := ParseThresholds(in)
			assert.Error(t, err)
		})
	}
}
