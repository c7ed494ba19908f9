// Package facility models the Location → Building → Room tree, its lookup
// registry, the access-flow resolver, and the seeded generator that builds
// the whole facility graph.
package facility

import (
	"fmt"
	"math/rand"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

// GeneratorConfig bounds the size of the generated facility graph.
type GeneratorConfig struct {
	LocationCount       int
	MinBuildings        int
	MaxBuildings        int
	MinRoomsPerBuilding int
	MaxRoomsPerBuilding int
}

func (c GeneratorConfig) validate() error {
	if c.LocationCount <= 0 {
		return fmt.Errorf("location count must be positive, got %d", c.LocationCount)
	}
	if c.MinBuildings <= 0 || c.MinRoomsPerBuilding <= 0 {
		return fmt.Errorf("building and room minimums must be positive")
	}
	if c.MinBuildings > c.MaxBuildings {
		return fmt.Errorf("buildings range inverted: min %d > max %d", c.MinBuildings, c.MaxBuildings)
	}
	if c.MinRoomsPerBuilding > c.MaxRoomsPerBuilding {
		return fmt.Errorf("rooms range inverted: min %d > max %d", c.MinRoomsPerBuilding, c.MaxRoomsPerBuilding)
	}
	return nil
}

// region is a populated rectangular area that location coordinates are
// drawn from.
type region struct {
	name           string
	minLat, maxLat float64
	minLon, maxLon float64
}

var worldRegions = []region{
	{"North America", 25.0, 55.0, -125.0, -70.0},
	{"Europe", 36.0, 60.0, -10.0, 30.0},
	{"Asia-Pacific", 10.0, 45.0, 95.0, 145.0},
	{"South America", -35.0, 5.0, -75.0, -35.0},
	{"Africa", -30.0, 30.0, -15.0, 45.0},
	{"Australia", -40.0, -15.0, 115.0, 150.0},
}

const (
	minLocationSeparationKm = 100.0
	placementRetries        = 100
)

// roomTypeWeights drives the per-building room mix. Every building gets a
// lobby first; these weights cover the remaining rooms.
var roomTypeWeights = []struct {
	roomType RoomType
	weight   float64
}{
	{RoomWorkspace, 0.40},
	{RoomMeetingRoom, 0.15},
	{RoomBathroom, 0.10},
	{RoomKitchen, 0.10},
	{RoomStorage, 0.10},
	{RoomCafeteria, 0.07},
	{RoomExecutiveOffice, 0.04},
	{RoomServerRoom, 0.02},
	{RoomLaboratory, 0.02},
}

// Generate builds and validates a complete facility registry from the
// seeded source.
func Generate(cfg GeneratorConfig, rng *rand.Rand) (*Registry, error) {
	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewValidationError(apperrors.CodeConfigInvalid, "invalid facility configuration").WithCause(err)
	}

	reg := NewRegistry()
	for i := 0; i < cfg.LocationCount; i++ {
		loc := generateLocation(reg, cfg, rng, i)
		reg.AddLocation(loc)
	}
	reg.RebuildIndex()

	if err := reg.Validate(); err != nil {
		return nil, apperrors.NewDomainError(apperrors.CodeFacilityGenerationFailed, "generated facility failed validation").WithCause(err)
	}
	return reg, nil
}

func generateLocation(reg *Registry, cfg GeneratorConfig, rng *rand.Rand, index int) *Location {
	lat, lon, regionName := placeCoordinates(reg.Locations(), rng)

	loc := &Location{
		ID:        ids.NewLocationID(rng),
		Name:      fmt.Sprintf("%s Campus %d", regionName, index+1),
		Latitude:  lat,
		Longitude: lon,
	}

	buildingCount := intBetween(rng, cfg.MinBuildings, cfg.MaxBuildings)
	for b := 0; b < buildingCount; b++ {
		bld := generateBuilding(cfg, rng, loc.ID, b)
		loc.AddBuilding(bld)
	}
	return loc
}

// placeCoordinates samples a candidate inside a uniformly chosen region,
// rejecting candidates within the minimum separation of an existing
// location. After the retry budget the last candidate is accepted.
func placeCoordinates(existing []*Location, rng *rand.Rand) (float64, float64, string) {
	var lat, lon float64
	var regionName string
	for attempt := 0; attempt < placementRetries; attempt++ {
		reg := worldRegions[rng.Intn(len(worldRegions))]
		lat = reg.minLat + rng.Float64()*(reg.maxLat-reg.minLat)
		lon = reg.minLon + rng.Float64()*(reg.maxLon-reg.minLon)
		regionName = reg.name

		tooClose := false
		for _, other := range existing {
			if HaversineKm(lat, lon, other.Latitude, other.Longitude) < minLocationSeparationKm {
				tooClose = true
				break
			}
		}
		if !tooClose {
			break
		}
	}
	return lat, lon, regionName
}

func generateBuilding(cfg GeneratorConfig, rng *rand.Rand, locID ids.LocationID, index int) *Building {
	bld := &Building{
		ID:         ids.NewBuildingID(rng),
		LocationID: locID,
		Name:       fmt.Sprintf("Building %d", index+1),
	}

	lobby := &Room{
		ID:         ids.NewRoomID(rng),
		BuildingID: bld.ID,
		Name:       "Lobby",
		Type:       RoomLobby,
		Security:   SecurityPublic,
	}
	bld.AddRoom(lobby)

	roomCount := intBetween(rng, cfg.MinRoomsPerBuilding, cfg.MaxRoomsPerBuilding)
	for i := 1; i < roomCount; i++ {
		roomType := drawRoomType(rng)
		room := &Room{
			ID:         ids.NewRoomID(rng),
			BuildingID: bld.ID,
			Name:       fmt.Sprintf("%s %d", roomTitle(roomType), 100+i),
			Type:       roomType,
			Security:   securityFor(roomType, rng),
		}
		bld.AddRoom(room)
	}
	return bld
}

func drawRoomType(rng *rand.Rand) RoomType {
	roll := rng.Float64()
	cumulative := 0.0
	for _, entry := range roomTypeWeights {
		cumulative += entry.weight
		if roll < cumulative {
			return entry.roomType
		}
	}
	return RoomWorkspace
}

// securityFor assigns security levels deterministically by type, except
// the two technical room types which split high/max 70/30.
func securityFor(t RoomType, rng *rand.Rand) SecurityLevel {
	switch t {
	case RoomLobby, RoomBathroom, RoomCafeteria, RoomKitchen:
		return SecurityPublic
	case RoomWorkspace, RoomMeetingRoom:
		return SecurityStandard
	case RoomStorage, RoomExecutiveOffice:
		return SecurityRestricted
	case RoomServerRoom, RoomLaboratory:
		if rng.Float64() < 0.7 {
			return SecurityHigh
		}
		return SecurityMax
	default:
		return SecurityStandard
	}
}

func roomTitle(t RoomType) string {
	switch t {
	case RoomWorkspace:
		return "Workspace"
	case RoomMeetingRoom:
		return "Meeting Room"
	case RoomBathroom:
		return "Bathroom"
	case RoomCafeteria:
		return "Cafeteria"
	case RoomKitchen:
		return "Kitchen"
	case RoomServerRoom:
		return "Server Room"
	case RoomExecutiveOffice:
		return "Executive Office"
	case RoomStorage:
		return "Storage"
	case RoomLaboratory:
		return "Laboratory"
	default:
		return "Room"
	}
}

func intBetween(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.Intn(max-min+1)
}
