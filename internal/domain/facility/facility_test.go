package facility

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

func newTestBuilding(t *testing.T, rng *rand.Rand, locID ids.LocationID) *Building {
	t.Helper()
	bld := &Building{
		ID:         ids.NewBuildingID(rng),
		LocationID: locID,
		Name:       "Building 1",
	}
	bld.AddRoom(&Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: bld.ID,
		Name:       "Lobby",
		Type:       RoomLobby,
		Security:   SecurityPublic,
	})
	bld.AddRoom(&Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: bld.ID,
		Name:       "Workspace 101",
		Type:       RoomWorkspace,
		Security:   SecurityStandard,
	})
	return bld
}

func TestRoomValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	bldID := ids.NewBuildingID(rng)
	roomID := ids.NewRoomID(rng)
	depID := ids.NewRoomID(rng)

	tests := []struct {
		name    string
		room    Room
		wantErr string
	}{
		{
			name: "valid with intermediates",
			room: Room{ID: roomID, BuildingID: bldID, Type: RoomServerRoom, RequiredAccess: []ids.RoomID{depID}},
		},
		{
			name:    "missing building",
			room:    Room{ID: roomID, Name: "orphan"},
			wantErr: "no owning building",
		},
		{
			name:    "self reference",
			room:    Room{ID: roomID, BuildingID: bldID, RequiredAccess: []ids.RoomID{roomID}},
			wantErr: "lists itself",
		},
		{
			name:    "duplicate intermediate",
			room:    Room{ID: roomID, BuildingID: bldID, RequiredAccess: []ids.RoomID{depID, depID}},
			wantErr: "duplicate required access",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.room.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBuildingValidateRequiresSingleLobby(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	locID := ids.NewLocationID(rng)

	bld := newTestBuilding(t, rng, locID)
	assert.NoError(t, bld.Validate())

	noLobby := &Building{ID: ids.NewBuildingID(rng), LocationID: locID, Name: "No Lobby"}
	noLobby.AddRoom(&Room{ID: ids.NewRoomID(rng), BuildingID: noLobby.ID, Type: RoomWorkspace})
	err := noLobby.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lobbies")

	twoLobbies := newTestBuilding(t, rng, locID)
	twoLobbies.AddRoom(&Room{ID: ids.NewRoomID(rng), BuildingID: twoLobbies.ID, Type: RoomLobby})
	require.Error(t, twoLobbies.Validate())
}

func TestBuildingRejectsForeignRoom(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	locID := ids.NewLocationID(rng)
	bld := newTestBuilding(t, rng, locID)

	bld.Rooms = append(bld.Rooms, &Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: ids.NewBuildingID(rng),
		Type:       RoomStorage,
	})
	err := bld.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owned by")
}

func TestLocationValidate(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	loc := &Location{
		ID:       ids.NewLocationID(rng),
		Name:     "Europe Campus 1",
		Latitude: 48.85, Longitude: 2.35,
	}
	err := loc.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no buildings")

	loc.AddBuilding(newTestBuilding(t, rng, loc.ID))
	assert.NoError(t, loc.Validate())

	loc.Latitude = 123.0
	require.Error(t, loc.Validate())
}

func TestRoomTypePredicates(t *testing.T) {
	server := Room{Type: RoomServerRoom, Security: SecurityHigh}
	assert.True(t, server.IsHighSecurity())
	assert.True(t, server.RequiresBusinessHours())

	workspace := Room{Type: RoomWorkspace, Security: SecurityStandard}
	assert.False(t, workspace.IsHighSecurity())
	assert.False(t, workspace.RequiresBusinessHours())

	exec := Room{Type: RoomExecutiveOffice, Security: SecurityRestricted}
	assert.True(t, exec.RequiresBusinessHours())
}

func TestHaversineKnownDistances(t *testing.T) {
	// Paris to London is roughly 344 km.
	d := HaversineKm(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344, d, 10)

	// Same point is zero.
	assert.InDelta(t, 0, HaversineKm(40.0, -74.0, 40.0, -74.0), 0.0001)

	// Antipodal-ish distance stays below half the circumference.
	far := HaversineKm(0, 0, 0, 180)
	assert.InDelta(t, 20015, far, 50)
}
