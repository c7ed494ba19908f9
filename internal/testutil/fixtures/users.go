package fixtures

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
)

// UserBuilder builds badge holders with sensible defaults: homed in a
// building, granted their workspace, the lobby, and all public rooms.
type UserBuilder struct {
	rng       *rand.Rand
	registry  *facility.Registry
	building  ids.BuildingID
	workspace *ids.RoomID
	profile   user.BehaviorProfile

	curious    bool
	cloned     bool
	nightShift bool
	extraRooms []ids.RoomID
}

// NewUserBuilder creates a builder homed in the given building.
func NewUserBuilder(reg *facility.Registry, building ids.BuildingID, rng *rand.Rand) *UserBuilder {
	return &UserBuilder{
		rng:      rng,
		registry: reg,
		building: building,
		profile: user.BehaviorProfile{
			TravelFrequency:   0.1,
			CuriosityLevel:    0.2,
			ScheduleAdherence: 0.7,
			SocialLevel:       0.5,
		},
	}
}

func (b *UserBuilder) WithWorkspace(id ids.RoomID) *UserBuilder {
	b.workspace = &id
	return b
}

func (b *UserBuilder) WithProfile(p user.BehaviorProfile) *UserBuilder {
	b.profile = p
	return b
}

func (b *UserBuilder) Curious() *UserBuilder {
	b.curious = true
	b.profile.CuriosityLevel = 0.8
	return b
}

func (b *UserBuilder) ClonedBadge() *UserBuilder {
	b.cloned = true
	b.profile.TravelFrequency = 0.4
	return b
}

func (b *UserBuilder) NightShift() *UserBuilder {
	b.nightShift = true
	return b
}

// WithAccessTo grants additional rooms beyond the defaults.
func (b *UserBuilder) WithAccessTo(rooms ...ids.RoomID) *UserBuilder {
	b.extraRooms = append(b.extraRooms, rooms...)
	return b
}

// Build assembles the user and its permission set.
func (b *UserBuilder) Build(t *testing.T) *user.User {
	t.Helper()

	bld, loc, ok := b.registry.Building(b.building)
	require.True(t, ok, "builder building %s not in registry", b.building)

	workspace := b.workspace
	if workspace == nil {
		workspaces := bld.RoomsOfType(facility.RoomWorkspace)
		require.NotEmpty(t, workspaces, "building %s has no workspace to assign", bld.Name)
		id := workspaces[b.rng.Intn(len(workspaces))].ID
		workspace = &id
	}

	u, err := user.New(ids.NewUserID(b.rng), loc.ID, bld.ID, *workspace, b.profile)
	require.NoError(t, err)

	u.Permissions.GrantRoom(*workspace)
	for _, room := range bld.Rooms {
		if room.Type == facility.RoomLobby || room.Security == facility.SecurityPublic {
			u.Permissions.GrantRoom(room.ID)
		}
	}
	for _, id := range b.extraRooms {
		u.Permissions.GrantRoom(id)
	}

	u.IsCurious = b.curious
	u.HasClonedBadge = b.cloned
	if b.nightShift {
		bldID := bld.ID
		u.IsNightShift = true
		u.AssignedNightBuilding = &bldID
		u.Permissions.GrantBuilding(bldID)
		u.Profile = user.NightShiftProfile()
	}
	return u
}
