package simulation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
)

// fixture is a hand-built two-site campus used across the package tests:
// an HQ near Paris with two buildings and a remote site near New York with
// one. Room roles are fixed so tests can target them by name.
type fixture struct {
	registry *facility.Registry

	hq     *facility.Location
	remote *facility.Location

	bldA *facility.Building
	bldB *facility.Building
	bldC *facility.Building

	lobbyA     *facility.Room
	workspaceA *facility.Room
	meetingA   *facility.Room
	bathroomA  *facility.Room
	cafeteriaA *facility.Room
	serverA    *facility.Room

	lobbyB     *facility.Room
	workspaceB *facility.Room

	lobbyC     *facility.Room
	workspaceC *facility.Room
}

func newFixture(t *testing.T, rng *rand.Rand) *fixture {
	t.Helper()

	f := &fixture{}
	f.hq = &facility.Location{
		ID:        ids.NewLocationID(rng),
		Name:      "HQ Campus",
		Latitude:  48.8566,
		Longitude: 2.3522,
	}
	f.remote = &facility.Location{
		ID:        ids.NewLocationID(rng),
		Name:      "East Coast Campus",
		Latitude:  40.7128,
		Longitude: -74.0060,
	}

	f.bldA = &facility.Building{ID: ids.NewBuildingID(rng), LocationID: f.hq.ID, Name: "Building 101"}
	f.bldB = &facility.Building{ID: ids.NewBuildingID(rng), LocationID: f.hq.ID, Name: "Building 102"}
	f.bldC = &facility.Building{ID: ids.NewBuildingID(rng), LocationID: f.remote.ID, Name: "Building 201"}

	f.lobbyA = f.addRoom(rng, f.bldA, "Lobby 101", facility.RoomLobby, facility.SecurityPublic)
	f.workspaceA = f.addRoom(rng, f.bldA, "Workspace 101", facility.RoomWorkspace, facility.SecurityStandard)
	f.meetingA = f.addRoom(rng, f.bldA, "Meeting 101", facility.RoomMeetingRoom, facility.SecurityStandard)
	f.bathroomA = f.addRoom(rng, f.bldA, "Bathroom 101", facility.RoomBathroom, facility.SecurityPublic)
	f.cafeteriaA = f.addRoom(rng, f.bldA, "Cafeteria 101", facility.RoomCafeteria, facility.SecurityPublic)
	f.serverA = f.addRoom(rng, f.bldA, "Server Room 101", facility.RoomServerRoom, facility.SecurityHigh)

	f.lobbyB = f.addRoom(rng, f.bldB, "Lobby 102", facility.RoomLobby, facility.SecurityPublic)
	f.workspaceB = f.addRoom(rng, f.bldB, "Workspace 102", facility.RoomWorkspace, facility.SecurityStandard)

	f.lobbyC = f.addRoom(rng, f.bldC, "Lobby 201", facility.RoomLobby, facility.SecurityPublic)
	f.workspaceC = f.addRoom(rng, f.bldC, "Workspace 201", facility.RoomWorkspace, facility.SecurityStandard)

	f.hq.AddBuilding(f.bldA)
	f.hq.AddBuilding(f.bldB)
	f.remote.AddBuilding(f.bldC)

	f.registry = facility.NewRegistry()
	f.registry.AddLocation(f.hq)
	f.registry.AddLocation(f.remote)
	f.registry.RebuildIndex()
	require.NoError(t, f.registry.Validate())
	return f
}

func (f *fixture) addRoom(rng *rand.Rand, bld *facility.Building, name string, t facility.RoomType, sec facility.SecurityLevel) *facility.Room {
	room := &facility.Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: bld.ID,
		Name:       name,
		Type:       t,
		Security:   sec,
	}
	bld.AddRoom(room)
	return room
}

// regularUser builds a baseline badge holder homed in building A with the
// grants the population generator would hand out.
func (f *fixture) regularUser(t *testing.T, rng *rand.Rand) *user.User {
	t.Helper()

	u, err := user.New(ids.NewUserID(rng), f.hq.ID, f.bldA.ID, f.workspaceA.ID, user.BehaviorProfile{
		TravelFrequency:   0.1,
		CuriosityLevel:    0.2,
		ScheduleAdherence: 0.7,
		SocialLevel:       0.5,
	})
	require.NoError(t, err)

	u.Permissions.GrantRoom(f.workspaceA.ID)
	u.Permissions.GrantRoom(f.lobbyA.ID)
	u.Permissions.GrantRoom(f.bathroomA.ID)
	u.Permissions.GrantRoom(f.cafeteriaA.ID)
	u.Permissions.GrantRoom(f.meetingA.ID)
	return u
}

func (f *fixture) curiousUser(t *testing.T, rng *rand.Rand) *user.User {
	u := f.regularUser(t, rng)
	u.IsCurious = true
	u.Profile.CuriosityLevel = 0.8
	return u
}

func (f *fixture) clonedBadgeUser(t *testing.T, rng *rand.Rand) *user.User {
	u := f.regularUser(t, rng)
	u.HasClonedBadge = true
	u.Profile.TravelFrequency = 0.4
	return u
}

func (f *fixture) nightShiftUser(t *testing.T, rng *rand.Rand) *user.User {
	u := f.regularUser(t, rng)
	bldID := f.bldA.ID
	u.IsNightShift = true
	u.AssignedNightBuilding = &bldID
	u.Permissions.GrantBuilding(bldID)
	u.Profile = user.NightShiftProfile()
	return u
}
