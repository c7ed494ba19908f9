package simulation

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

const (
	// pairProbability is the per-day chance that a cloned-badge user gets
	// an impossible-traveler pair planted.
	pairProbability = 0.3

	defaultBadgeFailureProbability = 0.001
	defaultSuspiciousProbability   = 0.01

	// swipeSpacing separates consecutive badge swipes along one access
	// flow.
	swipeSpacing = 30 * time.Second

	// pairOffsetMargin keeps the remote event's offset provably inside
	// the impossible window.
	pairOffsetMargin = 15 * time.Minute
)

// EventGenerator turns scheduled activities into access events, applying
// the outcome rules and planting anomalies.
type EventGenerator struct {
	registry *facility.Registry
	rng      *rand.Rand
	logger   *zap.Logger

	badgeFailureProbability float64
	suspiciousProbability   float64
}

func NewEventGenerator(reg *facility.Registry, rng *rand.Rand, logger *zap.Logger) *EventGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventGenerator{
		registry:                reg,
		rng:                     rng,
		logger:                  logger,
		badgeFailureProbability: defaultBadgeFailureProbability,
		suspiciousProbability:   defaultSuspiciousProbability,
	}
}

// EventsFromActivity emits one event per room in the activity's access
// flow, spaced by the swipe interval, with a forward-only jitter applied
// to the whole activity. Events jittered past midnight are dropped.
func (g *EventGenerator) EventsFromActivity(u *user.User, act ScheduledActivity) ([]event.AccessEvent, error) {
	flow, err := g.registry.AccessFlow(u.CurrentRoom, act.TargetRoom, g.rng)
	if err != nil {
		return nil, apperrors.NewDomainError(apperrors.CodeTargetRoomUnknown,
			fmt.Sprintf("resolving flow for user %s", u.ID)).WithCause(err)
	}

	target := flow.Target()
	t := act.Start.Add(jitter(g.rng))
	events := make([]event.AccessEvent, 0, len(flow.Rooms))
	for _, roomID := range flow.Rooms {
		room, bld, loc, ok := g.registry.Room(roomID)
		if !ok {
			// The flow resolver only returns indexed rooms; an unknown id
			// here is a registry bug worth surfacing loudly.
			return nil, apperrors.NewDomainError(apperrors.CodeTargetRoomUnknown,
				fmt.Sprintf("flow references unindexed room %s", roomID))
		}
		events = append(events, g.decide(u, act, room, bld, loc, t, roomID == target)...)
		t = t.Add(swipeSpacing)
	}

	events = dropMidnightCrossers(events, act.Start)
	g.updatePosition(u, act, events)
	return events, nil
}

// decide applies the outcome rules to one swipe; first matching rule
// wins. A badge reader fault yields two events: the fault and the retry.
func (g *EventGenerator) decide(u *user.User, act ScheduledActivity, room *facility.Room, bld *facility.Building, loc *facility.Location, t time.Time, isTarget bool) []event.AccessEvent {
	base := event.AccessEvent{
		Timestamp:  t,
		UserID:     u.ID,
		RoomID:     room.ID,
		BuildingID: bld.ID,
		LocationID: loc.ID,
	}

	authorized := u.Permissions.CanAccess(room.ID, bld.ID, loc.ID)

	// Night-shift staff working their assigned building off-hours are
	// authorized; these never count as outside-hours violations.
	if u.IsNightShift && !IsBusinessHours(t) &&
		u.AssignedNightBuilding != nil && *u.AssignedNightBuilding == bld.ID &&
		u.Permissions.CanAccessBuilding(bld.ID, loc.ID) {
		base.Success = true
		base.EventType = event.TypeSuccess
		base.Metadata = event.NightShiftMetadata()
		return []event.AccessEvent{base}
	}

	if act.Unauthorized && isTarget {
		reason := event.ReasonCuriousUser
		base.Success = false
		base.EventType = g.deniedEventType(room)
		base.FailureReason = &reason
		base.Metadata = event.CuriousAttemptMetadata()
		return []event.AccessEvent{base}
	}

	if room.RequiresBusinessHours() && !IsBusinessHours(t) {
		reason := event.ReasonOutsideHours
		base.Success = false
		base.EventType = event.TypeOutsideHours
		base.FailureReason = &reason
		return []event.AccessEvent{base}
	}

	if !authorized {
		reason := event.ReasonUnauthorized
		base.Success = false
		base.EventType = g.deniedEventType(room)
		base.FailureReason = &reason
		return []event.AccessEvent{base}
	}

	if g.rng.Float64() < g.badgeFailureProbability {
		reason := event.ReasonBadgeReaderError
		fault := base
		fault.Success = false
		fault.EventType = event.TypeFailure
		fault.FailureReason = &reason
		fault.Metadata = event.BadgeReaderFailureMetadata(nil)

		retryNumber := 1
		retry := base
		retry.Timestamp = t.Add(uniformDuration(g.rng, 5*time.Second, 30*time.Second))
		retry.Success = true
		retry.EventType = event.TypeSuccess
		retry.Metadata = event.BadgeReaderFailureMetadata(&retryNumber)
		return []event.AccessEvent{fault, retry}
	}

	base.Success = true
	base.EventType = event.TypeSuccess
	return []event.AccessEvent{base}
}

// deniedEventType classifies a denial, rarely flagging attempts on
// high-security rooms as suspicious.
func (g *EventGenerator) deniedEventType(room *facility.Room) event.EventType {
	if room.IsHighSecurity() && g.rng.Float64() < g.suspiciousProbability {
		return event.TypeSuspicious
	}
	return event.TypeFailure
}

func (g *EventGenerator) updatePosition(u *user.User, act ScheduledActivity, events []event.AccessEvent) {
	if act.Type == ActivityDeparture {
		u.LeaveBuilding()
		return
	}
	if len(events) == 0 {
		return
	}
	last := events[len(events)-1]
	if last.Success {
		u.EnterRoom(last.RoomID)
	}
}

// ShouldPlanPair rolls the per-day pair planner for one cloned-badge user.
func (g *EventGenerator) ShouldPlanPair() bool {
	return g.rng.Float64() < pairProbability
}

// BuildRemoteEvent synthesizes the remote half of an impossible-traveler
// pair: a successful swipe at another site, offset from the home event by
// less than the minimum physical travel time. Returns nil when the
// facility has only one location.
func (g *EventGenerator) BuildRemoteEvent(u *user.User, home *event.AccessEvent) (*event.AccessEvent, error) {
	homeLoc, ok := g.registry.Location(home.LocationID)
	if !ok {
		return nil, fmt.Errorf("home location %s not in registry", home.LocationID)
	}

	var remotes []*facility.Location
	for _, loc := range g.registry.Locations() {
		if loc.ID != homeLoc.ID {
			remotes = append(remotes, loc)
		}
	}
	if len(remotes) == 0 {
		g.logger.Debug("skipping impossible-traveler pair: facility has a single location",
			zap.String("user_id", u.ID.String()))
		return nil, nil
	}
	remoteLoc := remotes[g.rng.Intn(len(remotes))]

	rooms := g.registry.RoomsInLocation(remoteLoc.ID)
	if len(rooms) == 0 {
		return nil, fmt.Errorf("remote location %s has no rooms", remoteLoc.ID)
	}
	remoteRoom := rooms[g.rng.Intn(len(rooms))]
	_, remoteBld, _, ok := g.registry.Room(remoteRoom.ID)
	if !ok {
		return nil, fmt.Errorf("remote room %s not indexed", remoteRoom.ID)
	}

	distance := facility.DistanceKm(homeLoc, remoteLoc)
	minRequired := MinimumTravelTime(distance)
	offset := uniformDuration(g.rng, pairOffsetMargin, minRequired-pairOffsetMargin)

	reason := event.ReasonImpossibleTraveler
	remote := &event.AccessEvent{
		Timestamp:     home.Timestamp.Add(offset),
		UserID:        u.ID,
		RoomID:        remoteRoom.ID,
		BuildingID:    remoteBld.ID,
		LocationID:    remoteLoc.ID,
		Success:       true,
		EventType:     event.TypeSuccess,
		FailureReason: &reason,
		Metadata:      event.ImpossibleTravelerMetadata(offset, distance),
	}
	return remote, nil
}

// FirstSuccess returns the earliest successful event in the slice, or nil.
func FirstSuccess(events []event.AccessEvent) *event.AccessEvent {
	var best *event.AccessEvent
	for i := range events {
		if !events[i].Success {
			continue
		}
		if best == nil || events[i].Timestamp.Before(best.Timestamp) {
			best = &events[i]
		}
	}
	return best
}
