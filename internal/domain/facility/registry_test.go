package facility

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

func generatedRegistry(t *testing.T, seed int64) *Registry {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	reg, err := Generate(GeneratorConfig{
		LocationCount:       3,
		MinBuildings:        2,
		MaxBuildings:        3,
		MinRoomsPerBuilding: 8,
		MaxRoomsPerBuilding: 12,
	}, rng)
	require.NoError(t, err)
	return reg
}

func TestRegistryIndicesAgreeWithTree(t *testing.T) {
	reg := generatedRegistry(t, 42)

	for _, loc := range reg.Locations() {
		got, ok := reg.Location(loc.ID)
		require.True(t, ok)
		assert.Same(t, loc, got)

		for _, bld := range loc.Buildings {
			gotBld, gotLoc, ok := reg.Building(bld.ID)
			require.True(t, ok)
			assert.Same(t, bld, gotBld)
			assert.Same(t, loc, gotLoc)

			for _, room := range bld.Rooms {
				gotRoom, roomBld, roomLoc, ok := reg.Room(room.ID)
				require.True(t, ok)
				assert.Same(t, room, gotRoom)
				assert.Same(t, bld, roomBld)
				assert.Same(t, loc, roomLoc)
			}
		}
	}
}

func TestRegistryUnknownLookups(t *testing.T) {
	reg := generatedRegistry(t, 42)
	rng := rand.New(rand.NewSource(99))

	_, ok := reg.Location(ids.NewLocationID(rng))
	assert.False(t, ok)
	_, _, ok = reg.Building(ids.NewBuildingID(rng))
	assert.False(t, ok)
	_, _, _, ok = reg.Room(ids.NewRoomID(rng))
	assert.False(t, ok)
}

func TestRegistryRebuildAfterMutation(t *testing.T) {
	reg := generatedRegistry(t, 7)
	rng := rand.New(rand.NewSource(8))

	loc := reg.Locations()[0]
	bld := loc.Buildings[0]
	extra := &Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: bld.ID,
		Name:       "Annex",
		Type:       RoomStorage,
		Security:   SecurityRestricted,
	}
	bld.AddRoom(extra)

	// Not visible until the index is rebuilt.
	_, _, _, ok := reg.Room(extra.ID)
	assert.False(t, ok)
	require.Error(t, reg.Validate())

	reg.RebuildIndex()
	_, _, _, ok = reg.Room(extra.ID)
	assert.True(t, ok)
	assert.NoError(t, reg.Validate())
}

func TestGenerateRespectsConfiguredBounds(t *testing.T) {
	reg := generatedRegistry(t, 42)

	locations := reg.Locations()
	require.Len(t, locations, 3)

	for _, loc := range locations {
		assert.GreaterOrEqual(t, len(loc.Buildings), 2)
		assert.LessOrEqual(t, len(loc.Buildings), 3)
		for _, bld := range loc.Buildings {
			assert.GreaterOrEqual(t, len(bld.Rooms), 8)
			assert.LessOrEqual(t, len(bld.Rooms), 12)
			// Lobby is always the first room.
			assert.Equal(t, RoomLobby, bld.Rooms[0].Type)
			require.NotNil(t, bld.LobbyID)
			assert.Equal(t, bld.Rooms[0].ID, *bld.LobbyID)
		}
	}
}

func TestGenerateLocationsKeepSeparation(t *testing.T) {
	reg := generatedRegistry(t, 42)
	locations := reg.Locations()

	for i := 0; i < len(locations); i++ {
		for j := i + 1; j < len(locations); j++ {
			d := DistanceKm(locations[i], locations[j])
			assert.GreaterOrEqual(t, d, minLocationSeparationKm,
				"locations %d and %d are only %.1f km apart", i, j, d)
		}
	}
}

func TestGenerateSecurityLevels(t *testing.T) {
	reg := generatedRegistry(t, 42)

	for _, bld := range reg.AllBuildings() {
		for _, room := range bld.Rooms {
			switch room.Type {
			case RoomLobby, RoomBathroom, RoomCafeteria, RoomKitchen:
				assert.Equal(t, SecurityPublic, room.Security)
			case RoomWorkspace, RoomMeetingRoom:
				assert.Equal(t, SecurityStandard, room.Security)
			case RoomStorage, RoomExecutiveOffice:
				assert.Equal(t, SecurityRestricted, room.Security)
			case RoomServerRoom, RoomLaboratory:
				assert.True(t, room.Security == SecurityHigh || room.Security == SecurityMax)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := generatedRegistry(t, 42)
	b := generatedRegistry(t, 42)

	locsA, locsB := a.Locations(), b.Locations()
	require.Equal(t, len(locsA), len(locsB))
	for i := range locsA {
		assert.Equal(t, locsA[i].ID, locsB[i].ID)
		assert.Equal(t, locsA[i].Latitude, locsB[i].Latitude)
		assert.Equal(t, locsA[i].Longitude, locsB[i].Longitude)
		require.Equal(t, len(locsA[i].Buildings), len(locsB[i].Buildings))
		for j := range locsA[i].Buildings {
			assert.Equal(t, locsA[i].Buildings[j].ID, locsB[i].Buildings[j].ID)
		}
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tests := []struct {
		name string
		cfg  GeneratorConfig
	}{
		{"zero locations", GeneratorConfig{LocationCount: 0, MinBuildings: 1, MaxBuildings: 2, MinRoomsPerBuilding: 3, MaxRoomsPerBuilding: 5}},
		{"inverted buildings", GeneratorConfig{LocationCount: 1, MinBuildings: 5, MaxBuildings: 2, MinRoomsPerBuilding: 3, MaxRoomsPerBuilding: 5}},
		{"inverted rooms", GeneratorConfig{LocationCount: 1, MinBuildings: 1, MaxBuildings: 2, MinRoomsPerBuilding: 9, MaxRoomsPerBuilding: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.cfg, rng)
			require.Error(t, err)
		})
	}
}
