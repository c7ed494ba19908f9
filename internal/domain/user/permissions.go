package user

import (
	"sort"

	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// PermissionSet holds grants at three levels. A building grant implies
// every room in the building; a location grant implies every room at the
// location.
type PermissionSet struct {
	rooms     map[ids.RoomID]struct{}
	buildings map[ids.BuildingID]struct{}
	locations map[ids.LocationID]struct{}
}

func NewPermissionSet() *PermissionSet {
	return &PermissionSet{
		rooms:     make(map[ids.RoomID]struct{}),
		buildings: make(map[ids.BuildingID]struct{}),
		locations: make(map[ids.LocationID]struct{}),
	}
}

func (p *PermissionSet) GrantRoom(id ids.RoomID)         { p.rooms[id] = struct{}{} }
func (p *PermissionSet) GrantBuilding(id ids.BuildingID) { p.buildings[id] = struct{}{} }
func (p *PermissionSet) GrantLocation(id ids.LocationID) { p.locations[id] = struct{}{} }

// CanAccess reports whether any grant level covers the room.
func (p *PermissionSet) CanAccess(room ids.RoomID, building ids.BuildingID, location ids.LocationID) bool {
	if _, ok := p.rooms[room]; ok {
		return true
	}
	if _, ok := p.buildings[building]; ok {
		return true
	}
	_, ok := p.locations[location]
	return ok
}

// CanAccessBuilding reports whether the user holds a building or location
// grant covering the building. Room-level grants do not count.
func (p *PermissionSet) CanAccessBuilding(building ids.BuildingID, location ids.LocationID) bool {
	if _, ok := p.buildings[building]; ok {
		return true
	}
	_, ok := p.locations[location]
	return ok
}

func (p *PermissionSet) HasLocationGrant() bool {
	return len(p.locations) > 0
}

// AuthorizedRooms returns the room-level grants sorted by string form for
// deterministic output.
func (p *PermissionSet) AuthorizedRooms() []ids.RoomID {
	out := make([]ids.RoomID, 0, len(p.rooms))
	for id := range p.rooms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (p *PermissionSet) AuthorizedBuildings() []ids.BuildingID {
	out := make([]ids.BuildingID, 0, len(p.buildings))
	for id := range p.buildings {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (p *PermissionSet) AuthorizedLocations() []ids.LocationID {
	out := make([]ids.LocationID, 0, len(p.locations))
	for id := range p.locations {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// ValidationResult reports why an access flow would be denied, mirroring
// the flow's traversal flags.
type ValidationResult struct {
	UnauthorizedRooms         []ids.RoomID
	MissingIntermediateAccess []ids.RoomID
	RequiresLobbyAccess       bool
	InvolvesHighSecurity      bool
}

func (v *ValidationResult) IsFullyAuthorized() bool {
	return len(v.UnauthorizedRooms) == 0 && len(v.MissingIntermediateAccess) == 0
}

// ValidateFlow checks the permission set against every room in the flow.
// Target denials land in UnauthorizedRooms, intermediate denials in
// MissingIntermediateAccess.
func (p *PermissionSet) ValidateFlow(flow *facility.AccessFlow, reg *facility.Registry) *ValidationResult {
	result := &ValidationResult{
		RequiresLobbyAccess:  flow.RequiresLobbyAccess,
		InvolvesHighSecurity: flow.InvolvesHighSecurity,
	}
	target := flow.Target()
	for _, roomID := range flow.Rooms {
		_, bld, loc, ok := reg.Room(roomID)
		if !ok {
			continue
		}
		if p.CanAccess(roomID, bld.ID, loc.ID) {
			continue
		}
		if roomID == target {
			result.UnauthorizedRooms = append(result.UnauthorizedRooms, roomID)
		} else {
			result.MissingIntermediateAccess = append(result.MissingIntermediateAccess, roomID)
		}
	}
	return result
}
