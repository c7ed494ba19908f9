package user

import (
	"fmt"
	"math/rand"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

// GeneratorConfig sizes the population and its anomaly rates.
type GeneratorConfig struct {
	UserCount               int
	CuriousUserPercentage   float64
	ClonedBadgePercentage   float64
	PrimaryBuildingAffinity float64
}

// nightShiftPopulationThreshold gates the top-down night-shift assignment:
// below this population no building receives night-shift users.
const nightShiftPopulationThreshold = 500

// Generate synthesizes the population against a validated registry.
func Generate(reg *facility.Registry, cfg GeneratorConfig, rng *rand.Rand) ([]*User, error) {
	if cfg.UserCount <= 0 {
		return nil, apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("user count must be positive, got %d", cfg.UserCount))
	}
	locations := reg.Locations()
	if len(locations) == 0 {
		return nil, apperrors.NewDomainError(apperrors.CodeUserGenerationFailed, "registry has no locations")
	}

	users := make([]*User, 0, cfg.UserCount)
	for i := 0; i < cfg.UserCount; i++ {
		u, err := generateUser(reg, cfg, rng)
		if err != nil {
			return nil, apperrors.NewDomainError(apperrors.CodeUserGenerationFailed, "generating user").WithCause(err)
		}
		users = append(users, u)
	}

	assignNightShift(reg, users, rng)
	return users, nil
}

func generateUser(reg *facility.Registry, cfg GeneratorConfig, rng *rand.Rand) (*User, error) {
	locations := reg.Locations()
	loc := locations[rng.Intn(len(locations))]

	workspace, bld, err := pickWorkspace(loc, rng)
	if err != nil {
		return nil, err
	}

	isCurious := rng.Float64() < cfg.CuriousUserPercentage
	profile := NewRegularProfile(rng)
	if isCurious {
		profile = NewCuriousProfile(rng)
	}

	u, err := New(ids.NewUserID(rng), loc.ID, bld.ID, workspace.ID, profile)
	if err != nil {
		return nil, err
	}
	u.IsCurious = isCurious

	grantBaseline(u, bld, workspace)
	grantAdditional(u, loc, bld, cfg.PrimaryBuildingAffinity, rng)

	// Cloned badges are only planted on users whose movement could
	// plausibly explain events at distant sites.
	if rng.Float64() < cfg.ClonedBadgePercentage && u.EligibleForClonedBadge() {
		u.HasClonedBadge = true
	}
	return u, nil
}

// pickWorkspace selects the user's primary workspace from the location's
// workspace rooms, falling back to any non-lobby, non-bathroom room.
func pickWorkspace(loc *facility.Location, rng *rand.Rand) (*facility.Room, *facility.Building, error) {
	type candidate struct {
		room *facility.Room
		bld  *facility.Building
	}
	var workspaces, fallback []candidate
	for _, bld := range loc.Buildings {
		for _, room := range bld.Rooms {
			switch room.Type {
			case facility.RoomWorkspace:
				workspaces = append(workspaces, candidate{room, bld})
			case facility.RoomLobby, facility.RoomBathroom:
			default:
				fallback = append(fallback, candidate{room, bld})
			}
		}
	}
	pool := workspaces
	if len(pool) == 0 {
		pool = fallback
	}
	if len(pool) == 0 {
		return nil, nil, fmt.Errorf("location %s has no assignable workspace rooms", loc.ID)
	}
	c := pool[rng.Intn(len(pool))]
	return c.room, c.bld, nil
}

// grantBaseline gives every user their workspace, the building's lobby,
// and the building's public common rooms.
func grantBaseline(u *User, bld *facility.Building, workspace *facility.Room) {
	u.Permissions.GrantRoom(workspace.ID)
	for _, room := range bld.Rooms {
		if room.Type == facility.RoomLobby || room.Security == facility.SecurityPublic {
			u.Permissions.GrantRoom(room.ID)
		}
	}
}

// grantAdditional hands out 1–4 extra standard-security rooms. With
// probability affinity the grant stays in the primary building, otherwise
// it spreads across the location.
func grantAdditional(u *User, loc *facility.Location, bld *facility.Building, affinity float64, rng *rand.Rand) {
	extras := 1 + rng.Intn(4)
	for i := 0; i < extras; i++ {
		var pool []*facility.Room
		if rng.Float64() < affinity {
			pool = standardRooms(bld.Rooms)
		} else {
			for _, other := range loc.Buildings {
				pool = append(pool, standardRooms(other.Rooms)...)
			}
		}
		if len(pool) == 0 {
			continue
		}
		u.Permissions.GrantRoom(pool[rng.Intn(len(pool))].ID)
	}
}

func standardRooms(rooms []*facility.Room) []*facility.Room {
	var out []*facility.Room
	for _, room := range rooms {
		if room.Security == facility.SecurityStandard {
			out = append(out, room)
		}
	}
	return out
}

// assignNightShift converts 1–3 otherwise-regular users per building into
// night-shift staff once the population crosses the threshold. The
// threshold is flat regardless of building count.
func assignNightShift(reg *facility.Registry, users []*User, rng *rand.Rand) {
	if len(users) < nightShiftPopulationThreshold {
		return
	}

	var pool []*User
	for _, u := range users {
		if !u.IsCurious && !u.HasClonedBadge && !u.IsNightShift {
			pool = append(pool, u)
		}
	}

	for _, bld := range reg.AllBuildings() {
		count := 1 + rng.Intn(3)
		for i := 0; i < count && len(pool) > 0; i++ {
			idx := rng.Intn(len(pool))
			u := pool[idx]
			pool = append(pool[:idx], pool[idx+1:]...)

			bldID := bld.ID
			u.IsNightShift = true
			u.AssignedNightBuilding = &bldID
			u.Permissions.GrantBuilding(bldID)
			u.Profile = NightShiftProfile()
		}
	}
}
