package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsBusinessHours(t *testing.T) {
	tests := []struct {
		name string
		hour int
		min  int
		want bool
	}{
		{"before opening", 8, 59, false},
		{"opening", 9, 0, true},
		{"midday", 12, 30, true},
		{"last minute", 16, 59, true},
		{"closing", 17, 0, false},
		{"night", 3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2025, 6, 2, tt.hour, tt.min, 0, 0, time.UTC)
			assert.Equal(t, tt.want, IsBusinessHours(ts))
		})
	}
}

func TestMinimumTravelTime(t *testing.T) {
	// Short hops are floored at four hours.
	assert.Equal(t, 4*time.Hour, MinimumTravelTime(100))
	assert.Equal(t, 4*time.Hour, MinimumTravelTime(3600))

	// Long hauls scale with distance at the assumed cruise speed.
	assert.Equal(t, 10*time.Hour, MinimumTravelTime(9000))
	assert.Greater(t, MinimumTravelTime(5800), 6*time.Hour)
}

func TestUniformDurationBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		d := uniformDuration(rng, time.Minute, time.Hour)
		assert.GreaterOrEqual(t, d, time.Minute)
		assert.Less(t, d, time.Hour)
	}
	assert.Equal(t, time.Minute, uniformDuration(rng, time.Minute, time.Minute))
}

func TestIntBetweenBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		n := intBetween(rng, 2, 4)
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 4)
		seen[n] = true
	}
	// Both endpoints are reachable.
	assert.True(t, seen[2])
	assert.True(t, seen[4])
}
