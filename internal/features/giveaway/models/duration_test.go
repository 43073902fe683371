package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1s", time.Second},
		{"10m", 10 * time.Minute},
		{"1h", time.Hour},
		{"2d", 48 * time.Hour},
		{"0s", 0},
		{"120m", 2 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDuration(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration_Invalid(t *testing.T) {
	for _, input := range []string{
		"", "10", "s", "10 m", " 10m", "10m ", "-5m", "1.5h", "10w", "10M", "5m5s", "abc",
	} {
		t.Run("invalid_"+input, func(t *testing.T) {
			_, ok := ParseDuration(input)
			assert.False(t, ok, "input %q should be rejected", input)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Second, "1 second"},
		{time.Minute, "1 minute"},
		{90 * time.Second, "1 minute 30 seconds"},
		{26*time.Hour + 5*time.Minute, "1 day 2 hours 5 minutes"},
		{48 * time.Hour, "2 days"},
		{0, "0 seconds"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d))
	}
}

func TestCompactDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "90s"},
		{5 * time.Minute, "5m"},
		{time.Hour, "1h"},
		{48 * time.Hour, "2d"},
		{25 * time.Hour, "25h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompactDuration(tt.d))
	}
}

func TestCompactDuration_RoundTrips(t *testing.T) {
	for _, d := range []time.Duration{
		15 * time.Second, 10 * time.Minute, 3 * time.Hour, 24 * time.Hour, 7 * 24 * time.Hour,
	} {
		parsed, ok := ParseDuration(CompactDuration(d))
		require.True(t, ok)
		assert.Equal(t, d, parsed)
	}
}

func TestFormatEndTime(t *testing.T) {
	now := time.Date(2025, time.March, 10, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, "Today at 9:30 PM", FormatEndTime(now.Add(7*time.Hour+30*time.Minute), now))
	assert.Equal(t, "Tomorrow at 2:00 AM", FormatEndTime(now.Add(12*time.Hour), now))
	assert.Equal(t, "Mar 13, 2:00 PM", FormatEndTime(now.Add(72*time.Hour), now))
}
