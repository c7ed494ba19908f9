package simulation

import (
	"fmt"
	"time"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
)

// Statistics is the run's consolidated counters. It has exactly one
// writer: the batch orchestrator records each event after it is accepted
// for output, so nothing is double-counted.
type Statistics struct {
	TotalEvents        int `json:"total_events"`
	SuccessfulEvents   int `json:"successful_events"`
	FailedEvents       int `json:"failed_events"`
	InvalidBadgeEvents int `json:"invalid_badge_events"`
	OutsideHoursEvents int `json:"outside_hours_events"`
	SuspiciousEvents   int `json:"suspicious_events"`

	// Orthogonal anomaly counters; these do not feed TotalEvents.
	CuriousAttempts          int `json:"curious_attempts"`
	ImpossibleTravelerEvents int `json:"impossible_traveler_events"`
	NightShiftEvents         int `json:"night_shift_events"`
	BadgeReaderFailures      int `json:"badge_reader_failures"`

	DaysSimulated int           `json:"days_simulated"`
	Duration      time.Duration `json:"simulation_duration"`
}

// Record tallies one emitted event.
func (s *Statistics) Record(ev *event.AccessEvent) {
	s.TotalEvents++
	switch ev.EventType {
	case event.TypeSuccess:
		s.SuccessfulEvents++
	case event.TypeFailure:
		s.FailedEvents++
	case event.TypeInvalidBadge:
		s.InvalidBadgeEvents++
	case event.TypeOutsideHours:
		s.OutsideHoursEvents++
	case event.TypeSuspicious:
		s.SuspiciousEvents++
	}

	if ev.IsCuriousAttempt() {
		s.CuriousAttempts++
	}
	if ev.IsImpossibleTraveler() {
		s.ImpossibleTravelerEvents++
	}
	if ev.IsNightShiftEvent() {
		s.NightShiftEvents++
	}
	if ev.IsBadgeReaderFailure() {
		s.BadgeReaderFailures++
	}
}

// SuccessRate returns successful events over total, or 0 for an empty run.
func (s *Statistics) SuccessRate() float64 {
	if s.TotalEvents == 0 {
		return 0
	}
	return float64(s.SuccessfulEvents) / float64(s.TotalEvents)
}

// EventsPerSecond returns throughput over the measured wall duration.
func (s *Statistics) EventsPerSecond() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.TotalEvents) / secs
}

// perDay averages a counter over the simulated days.
func (s *Statistics) perDay(n int) float64 {
	if s.DaysSimulated == 0 {
		return 0
	}
	return float64(n) / float64(s.DaysSimulated)
}

// Summary renders the human-readable report written to stderr at the end
// of a run.
func (s *Statistics) Summary() string {
	return fmt.Sprintf(`Simulation complete
  days simulated:       %d
  total events:         %d (%.1f/day, %.0f/sec)
  successful:           %d (%.1f%%)
  failed:               %d
  invalid badge:        %d
  outside hours:        %d
  suspicious:           %d
  curious attempts:     %d (%.1f/day)
  impossible traveler:  %d (%.1f/day)
  night shift events:   %d (%.1f/day)
  badge reader faults:  %d
  wall time:            %s`,
		s.DaysSimulated,
		s.TotalEvents, s.perDay(s.TotalEvents), s.EventsPerSecond(),
		s.SuccessfulEvents, s.SuccessRate()*100,
		s.FailedEvents,
		s.InvalidBadgeEvents,
		s.OutsideHoursEvents,
		s.SuspiciousEvents,
		s.CuriousAttempts, s.perDay(s.CuriousAttempts),
		s.ImpossibleTravelerEvents, s.perDay(s.ImpossibleTravelerEvents),
		s.NightShiftEvents, s.perDay(s.NightShiftEvents),
		s.BadgeReaderFailures,
		s.Duration.Round(time.Millisecond),
	)
}
