package simulation

import (
	"math/rand"
	"time"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
)

const (
	// maxJitter is the forward-only spread added per activity so swipes
	// do not land on unrealistically uniform boundaries.
	maxJitter = 5 * time.Minute

	minTieGap = time.Millisecond
	maxTieGap = 500 * time.Millisecond
)

// jitter draws the forward offset applied to an activity's events.
func jitter(rng *rand.Rand) time.Duration {
	return time.Duration(rng.Int63n(int64(maxJitter)))
}

// dropMidnightCrossers removes events whose jittered timestamp left the
// scheduling day; the next day is regenerated independently, so spilling
// them would double-count.
func dropMidnightCrossers(events []event.AccessEvent, day time.Time) []event.AccessEvent {
	dayEnd := midnightAfter(day)
	out := events[:0]
	for _, ev := range events {
		if ev.Timestamp.Before(dayEnd) {
			out = append(out, ev)
		}
	}
	return out
}

// spaceTies walks a timestamp-sorted batch and pushes equal or regressed
// timestamps forward by a random 1–500 ms gap, preserving order. Pushes
// never cross end: ties in the last moments of a batch are squeezed into
// the remaining window so one day's output cannot leak into the next.
func spaceTies(events []event.AccessEvent, rng *rand.Rand, end time.Time) {
	for i := 1; i < len(events); i++ {
		prev := events[i-1].Timestamp
		if events[i].Timestamp.After(prev) {
			continue
		}
		next := prev.Add(uniformDuration(rng, minTieGap, maxTieGap))
		if !next.Before(end) {
			next = prev.Add(end.Sub(prev) / 2)
		}
		events[i].Timestamp = next
	}
}

// midnightAfter returns 00:00 UTC of the day following t's day.
func midnightAfter(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// startOfDay returns 00:00 UTC of t's day.
func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
