package simulation

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

func testDay() time.Time {
	return time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
}

func TestRegularScheduleShape(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	f := newFixture(t, rng)
	// In-building collaboration only, so no conflict shift can push the
	// departure past end of day.
	engine := NewBehaviorEngine(f.registry, rng, nil, 0, 0)
	u := f.regularUser(t, rng)
	day := testDay()

	schedule, err := engine.GenerateDailySchedule(u, day)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(schedule), 2)

	first := schedule[0]
	assert.Equal(t, ActivityArrival, first.Type)
	assert.Equal(t, f.lobbyA.ID, first.TargetRoom)
	assert.False(t, first.Start.Before(day.Add(8*time.Hour+30*time.Minute)))
	assert.True(t, first.Start.Before(day.Add(9*time.Hour+15*time.Minute)))

	last := schedule[len(schedule)-1]
	assert.Equal(t, ActivityDeparture, last.Type)
	assert.Equal(t, u.PrimaryWorkspace, last.TargetRoom)
}

func TestScheduleHasNoOverlaps(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0, 0)
	u := f.regularUser(t, rng)
	day := testDay()
	endOfDay := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	for i := 0; i < 50; i++ {
		schedule, err := engine.GenerateDailySchedule(u, day)
		require.NoError(t, err)
		for j := 1; j < len(schedule); j++ {
			assert.False(t, schedule[j].Start.Before(schedule[j-1].End()),
				"activities %d and %d overlap", j-1, j)
		}
		for _, act := range schedule {
			assert.False(t, act.End().After(endOfDay))
			assert.Positive(t, act.Duration)
		}
	}
}

func TestNightShiftSchedule(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	u := f.nightShiftUser(t, rng)
	day := testDay()

	schedule, err := engine.GenerateDailySchedule(u, day)
	require.NoError(t, err)

	var departure, arrival *ScheduledActivity
	patrols := 0
	for i := range schedule {
		switch schedule[i].Type {
		case ActivityDeparture:
			departure = &schedule[i]
		case ActivityArrival:
			arrival = &schedule[i]
		case ActivityNightPatrol:
			patrols++
		}
	}

	require.NotNil(t, departure)
	require.NotNil(t, arrival)
	assert.Equal(t, f.lobbyA.ID, departure.TargetRoom)
	assert.Equal(t, f.lobbyA.ID, arrival.TargetRoom)
	assert.False(t, departure.Start.Before(day.Add(6*time.Hour)))
	assert.True(t, departure.Start.Before(day.Add(10*time.Hour)))
	assert.False(t, arrival.Start.Before(day.Add(15*time.Hour)))
	assert.True(t, arrival.Start.Before(day.Add(19*time.Hour)))

	assert.GreaterOrEqual(t, patrols, 2)
	for _, act := range schedule {
		if act.Type == ActivityNightPatrol {
			assert.True(t, act.Start.After(arrival.Start))
			assert.NotEqual(t, f.lobbyA.ID, act.TargetRoom)
		}
	}
}

func TestNightShiftRequiresAssignedBuilding(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)

	u := f.regularUser(t, rng)
	u.IsNightShift = true

	_, err := engine.GenerateDailySchedule(u, testDay())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBehaviorEngineError))
}

func TestCuriousInjection(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	u := f.curiousUser(t, rng)

	injected := 0
	for i := 0; i < 200; i++ {
		schedule, err := engine.GenerateDailySchedule(u, testDay())
		require.NoError(t, err)
		for _, act := range schedule {
			if !act.Unauthorized {
				continue
			}
			injected++
			assert.Equal(t, ActivityUnauthorizedAccess, act.Type)
			room, bld, loc, ok := f.registry.Room(act.TargetRoom)
			require.True(t, ok)
			assert.False(t, u.Permissions.CanAccess(room.ID, bld.ID, loc.ID),
				"curious target %s is authorized", room.Name)
		}
	}
	assert.Positive(t, injected)
}

func TestCuriousInjectionSkipsRegularUsers(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	u := f.regularUser(t, rng)

	for i := 0; i < 50; i++ {
		schedule, err := engine.GenerateDailySchedule(u, testDay())
		require.NoError(t, err)
		for _, act := range schedule {
			assert.False(t, act.Unauthorized)
		}
	}
}

func TestPickUnauthorizedRoomPrefersHighSecurity(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	u := f.curiousUser(t, rng)

	// The server room is the only forbidden high-security room in the
	// user's building, so it must always win.
	for i := 0; i < 20; i++ {
		target, ok := engine.pickUnauthorizedRoom(u)
		require.True(t, ok)
		assert.Equal(t, f.serverA.ID, target)
	}
}

func TestResolveConflictsShiftsAndTruncates(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	day := testDay()

	schedule := []ScheduledActivity{
		{Type: ActivityArrival, TargetRoom: f.lobbyA.ID, Start: day.Add(9 * time.Hour), Duration: time.Hour},
		{Type: ActivityMeeting, TargetRoom: f.meetingA.ID, Start: day.Add(9*time.Hour + 30*time.Minute), Duration: time.Hour},
		{Type: ActivityDeparture, TargetRoom: f.workspaceA.ID, Start: day.Add(23*time.Hour + 30*time.Minute), Duration: time.Hour},
	}

	out := engine.resolveConflicts(schedule, day)
	require.Len(t, out, 3)

	// The overlapping meeting is pushed past the arrival plus a travel gap.
	assert.False(t, out[1].Start.Before(out[0].End()))

	// The departure is truncated at end of day rather than dropped.
	endOfDay := day.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	assert.False(t, out[2].End().After(endOfDay))
	assert.Positive(t, out[2].Duration)
}

func TestResolveConflictsDropsPastEndOfDay(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	f := newFixture(t, rng)
	engine := NewBehaviorEngine(f.registry, rng, nil, 0.15, 0.05)
	day := testDay()

	schedule := []ScheduledActivity{
		{Type: ActivityArrival, TargetRoom: f.lobbyA.ID, Start: day.Add(23*time.Hour + 59*time.Minute + 59*time.Second), Duration: time.Hour},
	}
	assert.Empty(t, engine.resolveConflicts(schedule, day))
}
