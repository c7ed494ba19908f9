// Package fixtures provides builder-style helpers for constructing
// facility trees and badge holders in tests.
package fixtures

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// FacilityBuilder builds a validated facility registry one location at a
// time. Every building automatically receives a lobby.
type FacilityBuilder struct {
	rng       *rand.Rand
	registry  *facility.Registry
	locations []*facility.Location
}

// NewFacilityBuilder creates a builder seeded for deterministic ids.
func NewFacilityBuilder(seed int64) *FacilityBuilder {
	return &FacilityBuilder{
		rng:      rand.New(rand.NewSource(seed)),
		registry: facility.NewRegistry(),
	}
}

// WithLocation starts a new location at the given coordinates. Subsequent
// building calls attach to it.
func (b *FacilityBuilder) WithLocation(name string, lat, lon float64) *FacilityBuilder {
	loc := &facility.Location{
		ID:        ids.NewLocationID(b.rng),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
	}
	b.locations = append(b.locations, loc)
	b.registry.AddLocation(loc)
	return b
}

// WithBuilding adds a building with a lobby to the current location.
func (b *FacilityBuilder) WithBuilding(name string) *FacilityBuilder {
	loc := b.currentLocation()
	bld := &facility.Building{
		ID:         ids.NewBuildingID(b.rng),
		LocationID: loc.ID,
		Name:       name,
	}
	bld.AddRoom(&facility.Room{
		ID:         ids.NewRoomID(b.rng),
		BuildingID: bld.ID,
		Name:       name + " Lobby",
		Type:       facility.RoomLobby,
		Security:   facility.SecurityPublic,
	})
	loc.AddBuilding(bld)
	return b
}

// WithRoom adds a room to the current building.
func (b *FacilityBuilder) WithRoom(name string, t facility.RoomType, sec facility.SecurityLevel) *FacilityBuilder {
	bld := b.currentBuilding()
	bld.AddRoom(&facility.Room{
		ID:         ids.NewRoomID(b.rng),
		BuildingID: bld.ID,
		Name:       name,
		Type:       t,
		Security:   sec,
	})
	return b
}

// Build indexes and validates the registry.
func (b *FacilityBuilder) Build(t *testing.T) *facility.Registry {
	t.Helper()
	b.registry.RebuildIndex()
	require.NoError(t, b.registry.Validate())
	return b.registry
}

// RNG exposes the builder's random source so callers can derive users
// from the same deterministic stream.
func (b *FacilityBuilder) RNG() *rand.Rand {
	return b.rng
}

func (b *FacilityBuilder) currentLocation() *facility.Location {
	if len(b.locations) == 0 {
		panic("fixtures: WithLocation must be called before WithBuilding")
	}
	return b.locations[len(b.locations)-1]
}

func (b *FacilityBuilder) currentBuilding() *facility.Building {
	loc := b.currentLocation()
	if len(loc.Buildings) == 0 {
		panic("fixtures: WithBuilding must be called before WithRoom")
	}
	return loc.Buildings[len(loc.Buildings)-1]
}
