package facility

import (
	"fmt"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// RoomType categorizes the rooms inside a building.
type RoomType int

const (
	RoomLobby RoomType = iota
	RoomWorkspace
	RoomMeetingRoom
	RoomBathroom
	RoomCafeteria
	RoomKitchen
	RoomServerRoom
	RoomExecutiveOffice
	RoomStorage
	RoomLaboratory
)

func (t RoomType) String() string {
	switch t {
	case RoomLobby:
		return "lobby"
	case RoomWorkspace:
		return "workspace"
	case RoomMeetingRoom:
		return "meeting_room"
	case RoomBathroom:
		return "bathroom"
	case RoomCafeteria:
		return "cafeteria"
	case RoomKitchen:
		return "kitchen"
	case RoomServerRoom:
		return "server_room"
	case RoomExecutiveOffice:
		return "executive_office"
	case RoomStorage:
		return "storage"
	case RoomLaboratory:
		return "laboratory"
	default:
		return "unknown"
	}
}

// SecurityLevel orders rooms from open areas to maximum-security zones.
type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota
	SecurityStandard
	SecurityRestricted
	SecurityHigh
	SecurityMax
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityStandard:
		return "standard"
	case SecurityRestricted:
		return "restricted"
	case SecurityHigh:
		return "high_security"
	case SecurityMax:
		return "max_security"
	default:
		return "unknown"
	}
}

// Room is a badge-controlled space within a building. RequiredAccess lists
// intermediate rooms that must be traversed before this one, in order.
type Room struct {
	ID             ids.RoomID
	BuildingID     ids.BuildingID
	Name           string
	Type           RoomType
	Security       SecurityLevel
	RequiredAccess []ids.RoomID
}

func (r *Room) Validate() error {
	if r.ID.IsZero() {
		return fmt.Errorf("room %q has no id", r.Name)
	}
	if r.BuildingID.IsZero() {
		return fmt.Errorf("room %s has no owning building", r.ID)
	}
	seen := make(map[ids.RoomID]struct{}, len(r.RequiredAccess))
	for _, dep := range r.RequiredAccess {
		if dep == r.ID {
			return fmt.Errorf("room %s lists itself as required access", r.ID)
		}
		if _, dup := seen[dep]; dup {
			return fmt.Errorf("room %s has duplicate required access %s", r.ID, dep)
		}
		seen[dep] = struct{}{}
	}
	return nil
}

// IsHighSecurity reports whether the room is in a high or maximum
// security zone.
func (r *Room) IsHighSecurity() bool {
	return r.Security >= SecurityHigh
}

// RequiresBusinessHours reports whether the room type is gated to the
// business-hours window for regular users.
func (r *Room) RequiresBusinessHours() bool {
	switch r.Type {
	case RoomServerRoom, RoomExecutiveOffice, RoomLaboratory:
		return true
	default:
		return false
	}
}
