package simulation

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

const (
	curiousAttemptProbability = 0.15
	maxMidDayActivities       = 6
	endOfDayHour              = 23
)

// BehaviorEngine turns a user and a date into that user's ordered,
// non-overlapping activity schedule.
type BehaviorEngine struct {
	registry *facility.Registry
	rng      *rand.Rand
	logger   *zap.Logger

	sameLocationTravel      float64
	differentLocationTravel float64
}

func NewBehaviorEngine(reg *facility.Registry, rng *rand.Rand, logger *zap.Logger, sameLocationTravel, differentLocationTravel float64) *BehaviorEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BehaviorEngine{
		registry:                reg,
		rng:                     rng,
		logger:                  logger,
		sameLocationTravel:      sameLocationTravel,
		differentLocationTravel: differentLocationTravel,
	}
}

// GenerateDailySchedule produces the user's activities for the given date.
// All days are shaped identically; there is no weekend handling.
func (e *BehaviorEngine) GenerateDailySchedule(u *user.User, date time.Time) ([]ScheduledActivity, error) {
	day := startOfDay(date)

	var schedule []ScheduledActivity
	var err error
	if u.IsNightShift {
		schedule, err = e.nightShiftSchedule(u, day)
	} else {
		schedule, err = e.regularSchedule(u, day)
	}
	if err != nil {
		return nil, err
	}

	if u.IsCurious {
		schedule = e.injectCuriousAttempts(u, schedule)
	}

	sort.SliceStable(schedule, func(i, j int) bool {
		return schedule[i].Start.Before(schedule[j].Start)
	})
	schedule = e.resolveConflicts(schedule, day)

	if len(schedule) == 0 {
		return nil, apperrors.NewDomainError(apperrors.CodeBehaviorEngineError,
			fmt.Sprintf("no valid activities for user %s on %s", u.ID, day.Format("2006-01-02")))
	}
	return schedule, nil
}

func (e *BehaviorEngine) regularSchedule(u *user.User, day time.Time) ([]ScheduledActivity, error) {
	bld, _, ok := e.registry.Building(u.PrimaryBuilding)
	if !ok || bld.LobbyID == nil {
		return nil, apperrors.NewDomainError(apperrors.CodeBehaviorEngineError,
			fmt.Sprintf("primary building %s for user %s has no lobby", u.PrimaryBuilding, u.ID))
	}

	schedule := []ScheduledActivity{{
		Type:       ActivityArrival,
		TargetRoom: *bld.LobbyID,
		Start:      day.Add(8*time.Hour + 30*time.Minute + uniformDuration(e.rng, 0, 45*time.Minute)),
		Duration:   uniformDuration(e.rng, 5*time.Minute, 15*time.Minute),
	}}

	count := e.rng.Intn(maxMidDayActivities + 1)
	for i := 0; i < count; i++ {
		if act, ok := e.midDayActivity(u, bld, day); ok {
			schedule = append(schedule, act)
		}
	}

	schedule = append(schedule, ScheduledActivity{
		Type:       ActivityDeparture,
		TargetRoom: u.PrimaryWorkspace,
		Start:      day.Add(16*time.Hour + 30*time.Minute + uniformDuration(e.rng, 0, 2*time.Hour)),
		Duration:   uniformDuration(e.rng, time.Minute, 5*time.Minute),
	})
	return schedule, nil
}

// midDayActivity draws one in-day activity weighted by the behavior
// profile. Social users lean toward meetings and collaboration.
func (e *BehaviorEngine) midDayActivity(u *user.User, bld *facility.Building, day time.Time) (ScheduledActivity, bool) {
	social := u.Profile.SocialLevel
	meetingW := 0.20 + 0.20*social
	collabW := 0.15 + 0.15*social
	bathroomW := 0.25
	lunchW := 0.20
	total := meetingW + collabW + bathroomW + lunchW

	roll := e.rng.Float64() * total
	var activityType ActivityType
	switch {
	case roll < meetingW:
		activityType = ActivityMeeting
	case roll < meetingW+collabW:
		activityType = ActivityCollaboration
	case roll < meetingW+collabW+bathroomW:
		activityType = ActivityBathroom
	default:
		activityType = ActivityLunch
	}

	target, ok := e.pickTarget(u, bld, activityType)
	if !ok {
		return ScheduledActivity{}, false
	}

	duration := uniformDuration(e.rng, 15*time.Minute, time.Hour)
	if activityType == ActivityLunch {
		duration = uniformDuration(e.rng, 30*time.Minute, time.Hour)
	}
	return ScheduledActivity{
		Type:       activityType,
		TargetRoom: target,
		Start:      day.Add(10*time.Hour + uniformDuration(e.rng, 0, 6*time.Hour)),
		Duration:   duration,
	}, true
}

func (e *BehaviorEngine) pickTarget(u *user.User, bld *facility.Building, t ActivityType) (roomID ids.RoomID, ok bool) {
	switch t {
	case ActivityMeeting:
		return e.randomOfType(bld, facility.RoomMeetingRoom)
	case ActivityBathroom:
		return e.randomOfType(bld, facility.RoomBathroom)
	case ActivityLunch:
		if id, ok := e.randomOfType(bld, facility.RoomCafeteria); ok {
			return id, true
		}
		return e.randomOfType(bld, facility.RoomKitchen)
	case ActivityCollaboration:
		return e.collaborationTarget(u, bld)
	default:
		return u.PrimaryWorkspace, true
	}
}

// collaborationTarget picks a colleague workspace: usually in-building,
// sometimes another building at the site, rarely another site entirely.
func (e *BehaviorEngine) collaborationTarget(u *user.User, bld *facility.Building) (ids.RoomID, bool) {
	loc, ok := e.registry.Location(u.PrimaryLocation)
	if !ok {
		return u.PrimaryWorkspace, true
	}

	roll := e.rng.Float64()
	locations := e.registry.Locations()
	if roll < e.differentLocationTravel && len(locations) > 1 {
		var others []*facility.Location
		for _, l := range locations {
			if l.ID != loc.ID {
				others = append(others, l)
			}
		}
		remote := others[e.rng.Intn(len(others))]
		remoteBld := remote.Buildings[e.rng.Intn(len(remote.Buildings))]
		return e.randomOfType(remoteBld, facility.RoomWorkspace)
	}
	if roll < e.differentLocationTravel+e.sameLocationTravel && len(loc.Buildings) > 1 {
		var others []*facility.Building
		for _, b := range loc.Buildings {
			if b.ID != bld.ID {
				others = append(others, b)
			}
		}
		neighbor := others[e.rng.Intn(len(others))]
		return e.randomOfType(neighbor, facility.RoomWorkspace)
	}
	return e.randomOfType(bld, facility.RoomWorkspace)
}

func (e *BehaviorEngine) randomOfType(bld *facility.Building, t facility.RoomType) (ids.RoomID, bool) {
	rooms := bld.RoomsOfType(t)
	if len(rooms) == 0 {
		return ids.RoomID{}, false
	}
	return rooms[e.rng.Intn(len(rooms))].ID, true
}

func (e *BehaviorEngine) nightShiftSchedule(u *user.User, day time.Time) ([]ScheduledActivity, error) {
	if u.AssignedNightBuilding == nil {
		return nil, apperrors.NewDomainError(apperrors.CodeBehaviorEngineError,
			fmt.Sprintf("night-shift user %s has no assigned building", u.ID))
	}
	bld, _, ok := e.registry.Building(*u.AssignedNightBuilding)
	if !ok || bld.LobbyID == nil {
		return nil, apperrors.NewDomainError(apperrors.CodeBehaviorEngineError,
			fmt.Sprintf("assigned night building %s for user %s has no lobby", *u.AssignedNightBuilding, u.ID))
	}

	// The morning departure closes the prior night's shift; the evening
	// arrival opens the next one, followed by patrols.
	schedule := []ScheduledActivity{
		{
			Type:       ActivityDeparture,
			TargetRoom: *bld.LobbyID,
			Start:      day.Add(6*time.Hour + uniformDuration(e.rng, 0, 4*time.Hour)),
			Duration:   uniformDuration(e.rng, time.Minute, 5*time.Minute),
		},
		{
			Type:       ActivityArrival,
			TargetRoom: *bld.LobbyID,
			Start:      day.Add(15*time.Hour + uniformDuration(e.rng, 0, 4*time.Hour)),
			Duration:   uniformDuration(e.rng, 5*time.Minute, 15*time.Minute),
		},
	}

	cursor := schedule[1].End().Add(uniformDuration(e.rng, 5*time.Minute, 15*time.Minute))
	patrols := intBetween(e.rng, 2, 4)
	for i := 0; i < patrols; i++ {
		room, ok := e.randomPatrolRoom(bld)
		if !ok {
			break
		}
		duration := uniformDuration(e.rng, 20*time.Minute, time.Hour)
		schedule = append(schedule, ScheduledActivity{
			Type:       ActivityNightPatrol,
			TargetRoom: room,
			Start:      cursor,
			Duration:   duration,
		})
		cursor = cursor.Add(duration + uniformDuration(e.rng, 5*time.Minute, 15*time.Minute))
	}
	return schedule, nil
}

func (e *BehaviorEngine) randomPatrolRoom(bld *facility.Building) (ids.RoomID, bool) {
	var pool []ids.RoomID
	for _, room := range bld.Rooms {
		if room.Type != facility.RoomLobby {
			pool = append(pool, room.ID)
		}
	}
	if len(pool) == 0 {
		return ids.RoomID{}, false
	}
	return pool[e.rng.Intn(len(pool))], true
}

// injectCuriousAttempts splices denied-by-design visits into the schedule
// with a fixed per-activity probability, preferring high-security rooms in
// the user's own building.
func (e *BehaviorEngine) injectCuriousAttempts(u *user.User, schedule []ScheduledActivity) []ScheduledActivity {
	base := schedule
	for _, act := range base {
		if act.Unauthorized || e.rng.Float64() >= curiousAttemptProbability {
			continue
		}
		target, ok := e.pickUnauthorizedRoom(u)
		if !ok {
			continue
		}
		schedule = append(schedule, ScheduledActivity{
			Type:         ActivityUnauthorizedAccess,
			TargetRoom:   target,
			Start:        act.Start.Add(uniformDuration(e.rng, time.Minute, 30*time.Minute)),
			Duration:     uniformDuration(e.rng, time.Minute, 5*time.Minute),
			Unauthorized: true,
		})
	}
	return schedule
}

func (e *BehaviorEngine) pickUnauthorizedRoom(u *user.User) (ids.RoomID, bool) {
	bld, loc, ok := e.registry.Building(u.PrimaryBuilding)
	if !ok {
		return ids.RoomID{}, false
	}

	var highSecurity, other []ids.RoomID
	for _, room := range bld.Rooms {
		if u.Permissions.CanAccess(room.ID, bld.ID, loc.ID) {
			continue
		}
		if room.IsHighSecurity() {
			highSecurity = append(highSecurity, room.ID)
		} else {
			other = append(other, room.ID)
		}
	}
	if len(highSecurity) == 0 && len(other) == 0 {
		// Nothing forbidden in the building; look across the site.
		for _, room := range e.registry.RoomsInLocation(loc.ID) {
			_, roomBld, _, ok := e.registry.Room(room.ID)
			if !ok {
				continue
			}
			if !u.Permissions.CanAccess(room.ID, roomBld.ID, loc.ID) {
				other = append(other, room.ID)
			}
		}
	}
	if len(highSecurity) > 0 {
		return highSecurity[e.rng.Intn(len(highSecurity))], true
	}
	if len(other) > 0 {
		return other[e.rng.Intn(len(other))], true
	}
	return ids.RoomID{}, false
}

// resolveConflicts shifts overlapping activities forward by the overlap
// plus an inter-room travel allowance, truncating or dropping anything
// pushed past end of day. Relative order is preserved.
func (e *BehaviorEngine) resolveConflicts(schedule []ScheduledActivity, day time.Time) []ScheduledActivity {
	endOfDay := day.Add(endOfDayHour*time.Hour + 59*time.Minute + 59*time.Second)

	out := schedule[:0]
	for _, act := range schedule {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if act.Start.Before(prev.End()) {
				shift := prev.End().Sub(act.Start) + e.travelAllowance(prev.TargetRoom, act.TargetRoom)
				act.Start = act.Start.Add(shift)
			}
		}
		if !act.Start.Before(endOfDay) {
			e.logger.Debug("dropping activity pushed past end of day",
				zap.String("activity", act.Type.String()),
				zap.Time("start", act.Start))
			continue
		}
		if act.End().After(endOfDay) {
			act.Duration = endOfDay.Sub(act.Start)
			if act.Duration <= 0 {
				continue
			}
		}
		out = append(out, act)
	}
	return out
}

// travelAllowance estimates the gap needed between consecutive activities.
func (e *BehaviorEngine) travelAllowance(from, to ids.RoomID) time.Duration {
	if from == to {
		return 0
	}
	_, fromBld, fromLoc, okFrom := e.registry.Room(from)
	_, toBld, toLoc, okTo := e.registry.Room(to)
	if !okFrom || !okTo {
		return time.Minute
	}
	switch {
	case fromBld.ID == toBld.ID:
		return uniformDuration(e.rng, 30*time.Second, 180*time.Second)
	case fromLoc.ID == toLoc.ID:
		return uniformDuration(e.rng, 2*time.Minute, 10*time.Minute)
	default:
		return uniformDuration(e.rng, 4*time.Hour, 12*time.Hour)
	}
}
