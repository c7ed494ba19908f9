package simulation

import (
	"math/rand"
	"time"
)

const (
	businessHoursStart = 9
	businessHoursEnd   = 17

	// travelSpeedKmPerHour is the assumed best-case long-haul speed used
	// to derive minimum physical travel times between sites.
	travelSpeedKmPerHour = 900.0

	// minCrossLocationTravel floors the minimum travel time between any
	// two sites: boarding, security, and ground transfer dominate short
	// flights.
	minCrossLocationTravel = 4 * time.Hour
)

// IsBusinessHours reports whether t falls in the [09:00, 17:00) UTC
// window. All days are treated identically.
func IsBusinessHours(t time.Time) bool {
	h := t.UTC().Hour()
	return h >= businessHoursStart && h < businessHoursEnd
}

// MinimumTravelTime returns the least physically plausible time to move
// between two sites separated by the given great-circle distance.
func MinimumTravelTime(distanceKm float64) time.Duration {
	travel := time.Duration(distanceKm / travelSpeedKmPerHour * float64(time.Hour))
	if travel < minCrossLocationTravel {
		return minCrossLocationTravel
	}
	return travel
}

func uniformDuration(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}

func intBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
