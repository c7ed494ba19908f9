package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
)

func TestStatisticsRecord(t *testing.T) {
	curious := event.ReasonCuriousUser
	traveler := event.ReasonImpossibleTraveler
	reader := event.ReasonBadgeReaderError

	var s Statistics
	for _, ev := range []event.AccessEvent{
		{EventType: event.TypeSuccess, Success: true},
		{EventType: event.TypeSuccess, Success: true, Metadata: event.NightShiftMetadata()},
		{EventType: event.TypeSuccess, Success: true, FailureReason: &traveler, Metadata: event.ImpossibleTravelerMetadata(time.Hour, 5000)},
		{EventType: event.TypeFailure, FailureReason: &curious, Metadata: event.CuriousAttemptMetadata()},
		{EventType: event.TypeFailure, FailureReason: &reader, Metadata: event.BadgeReaderFailureMetadata(nil)},
		{EventType: event.TypeInvalidBadge},
		{EventType: event.TypeOutsideHours},
		{EventType: event.TypeSuspicious, FailureReason: &curious, Metadata: event.CuriousAttemptMetadata()},
	} {
		ev := ev
		s.Record(&ev)
	}

	assert.Equal(t, 8, s.TotalEvents)
	assert.Equal(t, 3, s.SuccessfulEvents)
	assert.Equal(t, 2, s.FailedEvents)
	assert.Equal(t, 1, s.InvalidBadgeEvents)
	assert.Equal(t, 1, s.OutsideHoursEvents)
	assert.Equal(t, 1, s.SuspiciousEvents)

	// Every event lands in exactly one type bucket.
	sum := s.SuccessfulEvents + s.FailedEvents + s.InvalidBadgeEvents +
		s.OutsideHoursEvents + s.SuspiciousEvents
	assert.Equal(t, s.TotalEvents, sum)

	// Anomaly counters are orthogonal to the type buckets.
	assert.Equal(t, 2, s.CuriousAttempts)
	assert.Equal(t, 1, s.ImpossibleTravelerEvents)
	assert.Equal(t, 1, s.NightShiftEvents)
	assert.Equal(t, 1, s.BadgeReaderFailures)
}

func TestStatisticsRates(t *testing.T) {
	var empty Statistics
	assert.Zero(t, empty.SuccessRate())
	assert.Zero(t, empty.EventsPerSecond())

	s := Statistics{
		TotalEvents:      200,
		SuccessfulEvents: 150,
		DaysSimulated:    4,
		Duration:         2 * time.Second,
	}
	assert.InDelta(t, 0.75, s.SuccessRate(), 1e-9)
	assert.InDelta(t, 100, s.EventsPerSecond(), 1e-9)
	assert.InDelta(t, 50, s.perDay(s.TotalEvents), 1e-9)
}

func TestStatisticsSummary(t *testing.T) {
	s := Statistics{TotalEvents: 42, SuccessfulEvents: 40, DaysSimulated: 2, Duration: time.Second}
	out := s.Summary()
	assert.Contains(t, out, "total events:         42")
	assert.Contains(t, out, "days simulated:       2")
	assert.Contains(t, out, "95.2%")
}
