package facility

import (
	"fmt"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// Building owns an ordered collection of rooms, exactly one of which is
// the lobby once validated.
type Building struct {
	ID         ids.BuildingID
	LocationID ids.LocationID
	Name       string
	Rooms      []*Room
	LobbyID    *ids.RoomID
}

// AddRoom appends a room and records it as the lobby if applicable.
func (b *Building) AddRoom(r *Room) {
	b.Rooms = append(b.Rooms, r)
	if r.Type == RoomLobby && b.LobbyID == nil {
		id := r.ID
		b.LobbyID = &id
	}
}

// Room returns the room with the given id, if it belongs to this building.
func (b *Building) Room(id ids.RoomID) (*Room, bool) {
	for _, r := range b.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// RoomsOfType returns the building's rooms of the given type, in order.
func (b *Building) RoomsOfType(t RoomType) []*Room {
	var out []*Room
	for _, r := range b.Rooms {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

func (b *Building) Validate() error {
	if b.ID.IsZero() {
		return fmt.Errorf("building %q has no id", b.Name)
	}
	if b.LocationID.IsZero() {
		return fmt.Errorf("building %s has no owning location", b.ID)
	}
	lobbies := 0
	for _, r := range b.Rooms {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("building %s: %w", b.ID, err)
		}
		if r.BuildingID != b.ID {
			return fmt.Errorf("building %s contains room %s owned by %s", b.ID, r.ID, r.BuildingID)
		}
		if r.Type == RoomLobby {
			lobbies++
		}
	}
	if lobbies != 1 {
		return fmt.Errorf("building %s has %d lobbies, want exactly 1", b.ID, lobbies)
	}
	if b.LobbyID == nil {
		return fmt.Errorf("building %s has no lobby id recorded", b.ID)
	}
	lobby, ok := b.Room(*b.LobbyID)
	if !ok || lobby.Type != RoomLobby {
		return fmt.Errorf("building %s lobby id %s does not reference a lobby room", b.ID, *b.LobbyID)
	}
	return nil
}
