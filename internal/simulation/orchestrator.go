// Package simulation holds the behavior engine, event generator, batch
// orchestrator, statistics, and timing policies that together produce the
// chronologically ordered event stream.
package simulation

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

// Orchestrator runs the day-by-day batch loop: schedule every user, turn
// activities into events, merge spill carried across day boundaries, sort,
// emit NDJSON, and update statistics. It is the sole statistics writer.
type Orchestrator struct {
	registry *facility.Registry
	users    []*user.User
	behavior *BehaviorEngine
	events   *EventGenerator
	rng      *rand.Rand
	logger   *zap.Logger

	out      io.Writer
	fields   event.FieldConfig
	baseDate time.Time

	stats Statistics
}

func NewOrchestrator(reg *facility.Registry, users []*user.User, behavior *BehaviorEngine, events *EventGenerator, rng *rand.Rand, logger *zap.Logger, out io.Writer, fields event.FieldConfig, baseDate time.Time) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry: reg,
		users:    users,
		behavior: behavior,
		events:   events,
		rng:      rng,
		logger:   logger,
		out:      out,
		fields:   fields,
		baseDate: startOfDay(baseDate),
	}
}

// Statistics returns the consolidated counters. Valid after Run.
func (o *Orchestrator) Statistics() *Statistics {
	return &o.stats
}

// Run simulates numDays days. Each day is fully emitted before the next
// begins; events generated on one day but timestamped on a later day are
// buffered and merged into that day's output.
func (o *Orchestrator) Run(numDays int) error {
	if numDays < 1 {
		return apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("days must be at least 1, got %d", numDays))
	}

	start := time.Now()
	w := bufio.NewWriter(o.out)
	spill := make(map[time.Time][]event.AccessEvent)

	for d := 0; d < numDays; d++ {
		day := o.baseDate.AddDate(0, 0, d)

		dayEvents := spill[day]
		delete(spill, day)
		dayEvents = append(dayEvents, o.generateDay(day, spill)...)

		o.emitDay(w, day, dayEvents)
	}

	// Whatever spilled past the final day is flushed in date order.
	remainingDays := make([]time.Time, 0, len(spill))
	for day := range spill {
		remainingDays = append(remainingDays, day)
	}
	sort.Slice(remainingDays, func(i, j int) bool { return remainingDays[i].Before(remainingDays[j]) })
	for _, day := range remainingDays {
		o.emitDay(w, day, spill[day])
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing event stream: %w", err)
	}

	o.stats.DaysSimulated = numDays
	o.stats.Duration = time.Since(start)
	return nil
}

// generateDay produces the day's events across all users, routing
// future-dated events into spill.
func (o *Orchestrator) generateDay(day time.Time, spill map[time.Time][]event.AccessEvent) []event.AccessEvent {
	var out []event.AccessEvent

	for _, u := range o.users {
		u.LeaveBuilding()

		schedule, err := o.behavior.GenerateDailySchedule(u, day)
		if err != nil {
			o.logger.Warn("skipping user for the day",
				zap.String("user_id", u.ID.String()),
				zap.Time("day", day),
				zap.Error(err))
			continue
		}

		planPair := u.HasClonedBadge && o.events.ShouldPlanPair()

		var userEvents []event.AccessEvent
		for _, act := range schedule {
			events, err := o.events.EventsFromActivity(u, act)
			if err != nil {
				o.logger.Warn("dropping activity",
					zap.String("user_id", u.ID.String()),
					zap.String("activity", act.Type.String()),
					zap.Error(err))
				continue
			}
			userEvents = append(userEvents, events...)
		}

		if planPair {
			if home := FirstSuccess(userEvents); home != nil {
				remote, err := o.events.BuildRemoteEvent(u, home)
				if err != nil {
					o.logger.Warn("failed to plant impossible-traveler pair",
						zap.String("user_id", u.ID.String()),
						zap.Error(err))
				} else if remote != nil {
					userEvents = append(userEvents, *remote)
				}
			}
		}

		out = append(out, o.partitionEvents(day, userEvents, spill)...)
	}
	return out
}

// partitionEvents routes a batch against the current day: same-day events
// are returned for emission, future-dated ones (the remote half of an
// impossible-traveler pair can land past midnight) are buffered under
// their own day in spill.
func (o *Orchestrator) partitionEvents(day time.Time, events []event.AccessEvent, spill map[time.Time][]event.AccessEvent) []event.AccessEvent {
	var out []event.AccessEvent
	for _, ev := range events {
		evDay := startOfDay(ev.Timestamp)
		switch {
		case evDay.Equal(day):
			out = append(out, ev)
		case evDay.After(day):
			spill[evDay] = append(spill[evDay], ev)
		default:
			// A past-dated event indicates a scheduling bug; emit it
			// on the current day rather than silently losing it.
			o.logger.Warn("event timestamped on a past day",
				zap.String("user_id", ev.UserID.String()),
				zap.Time("timestamp", ev.Timestamp),
				zap.Time("day", day))
			out = append(out, ev)
		}
	}
	return out
}

// emitDay sorts, de-ties, serializes, and counts one day's events.
func (o *Orchestrator) emitDay(w *bufio.Writer, day time.Time, events []event.AccessEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	spaceTies(events, o.rng, midnightAfter(day))

	for i := range events {
		ev := &events[i]
		line, err := json.Marshal(ev.Filtered(o.fields))
		if err != nil {
			o.logger.Warn("dropping unserializable event",
				zap.String("code", apperrors.CodeEventSerializationError),
				zap.String("user_id", ev.UserID.String()),
				zap.Error(err))
			continue
		}
		w.Write(line)
		w.WriteByte('\n')
		o.stats.Record(ev)
	}
	o.logger.Debug("day emitted",
		zap.Time("day", day),
		zap.Int("events", len(events)))
}
