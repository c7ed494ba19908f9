package facility

import (
	"fmt"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// Registry owns every location and maintains flat lookup indices from each
// identifier kind to its place in the tree. The tree is mutated only at
// startup; RebuildIndex must be called after bulk mutation.
type Registry struct {
	locations []*Location

	locationIndex map[ids.LocationID]*Location
	buildingIndex map[ids.BuildingID]buildingEntry
	roomIndex     map[ids.RoomID]roomEntry
}

type buildingEntry struct {
	location *Location
	building *Building
}

type roomEntry struct {
	location *Location
	building *Building
	room     *Room
}

func NewRegistry() *Registry {
	return &Registry{
		locationIndex: make(map[ids.LocationID]*Location),
		buildingIndex: make(map[ids.BuildingID]buildingEntry),
		roomIndex:     make(map[ids.RoomID]roomEntry),
	}
}

// AddLocation appends a location to the tree. RebuildIndex must be called
// before lookups see it.
func (r *Registry) AddLocation(l *Location) {
	r.locations = append(r.locations, l)
}

// Locations returns the locations in insertion order. Callers must treat
// the slice as read-only.
func (r *Registry) Locations() []*Location {
	return r.locations
}

// RebuildIndex recomputes the three lookup maps from the tree.
func (r *Registry) RebuildIndex() {
	r.locationIndex = make(map[ids.LocationID]*Location, len(r.locations))
	r.buildingIndex = make(map[ids.BuildingID]buildingEntry)
	r.roomIndex = make(map[ids.RoomID]roomEntry)

	for _, loc := range r.locations {
		r.locationIndex[loc.ID] = loc
		for _, bld := range loc.Buildings {
			r.buildingIndex[bld.ID] = buildingEntry{location: loc, building: bld}
			for _, room := range bld.Rooms {
				r.roomIndex[room.ID] = roomEntry{location: loc, building: bld, room: room}
			}
		}
	}
}

// Location resolves a location id.
func (r *Registry) Location(id ids.LocationID) (*Location, bool) {
	loc, ok := r.locationIndex[id]
	return loc, ok
}

// Building resolves a building id to its building and owning location.
func (r *Registry) Building(id ids.BuildingID) (*Building, *Location, bool) {
	e, ok := r.buildingIndex[id]
	return e.building, e.location, ok
}

// Room resolves a room id to its room, owning building, and owning location.
func (r *Registry) Room(id ids.RoomID) (*Room, *Building, *Location, bool) {
	e, ok := r.roomIndex[id]
	return e.room, e.building, e.location, ok
}

// RoomCount returns the total number of indexed rooms.
func (r *Registry) RoomCount() int {
	return len(r.roomIndex)
}

// BuildingCount returns the total number of indexed buildings.
func (r *Registry) BuildingCount() int {
	return len(r.buildingIndex)
}

// AllBuildings returns every building in location insertion order.
func (r *Registry) AllBuildings() []*Building {
	var out []*Building
	for _, loc := range r.locations {
		out = append(out, loc.Buildings...)
	}
	return out
}

// RoomsInLocation returns every room in the location, in building order.
func (r *Registry) RoomsInLocation(id ids.LocationID) []*Room {
	loc, ok := r.locationIndex[id]
	if !ok {
		return nil
	}
	var out []*Room
	for _, bld := range loc.Buildings {
		out = append(out, bld.Rooms...)
	}
	return out
}

// Validate checks every tree invariant and that the indices are exhaustive.
func (r *Registry) Validate() error {
	if len(r.locations) == 0 {
		return fmt.Errorf("registry has no locations")
	}
	rooms := 0
	buildings := 0
	for _, loc := range r.locations {
		if err := loc.Validate(); err != nil {
			return err
		}
		if _, ok := r.locationIndex[loc.ID]; !ok {
			return fmt.Errorf("location %s missing from index", loc.ID)
		}
		for _, bld := range loc.Buildings {
			buildings++
			if _, ok := r.buildingIndex[bld.ID]; !ok {
				return fmt.Errorf("building %s missing from index", bld.ID)
			}
			for _, room := range bld.Rooms {
				rooms++
				if _, ok := r.roomIndex[room.ID]; !ok {
					return fmt.Errorf("room %s missing from index", room.ID)
				}
			}
		}
	}
	if rooms != len(r.roomIndex) || buildings != len(r.buildingIndex) {
		return fmt.Errorf("index out of sync with tree: %d/%d rooms, %d/%d buildings",
			len(r.roomIndex), rooms, len(r.buildingIndex), buildings)
	}
	return nil
}
