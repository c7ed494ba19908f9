package facility

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// AccessFlow is the ordered room sequence a user must traverse to reach a
// target, with an estimated travel duration. The target is always the last
// element.
type AccessFlow struct {
	Rooms                []ids.RoomID
	TravelTime           time.Duration
	RequiresLobbyAccess  bool
	InvolvesHighSecurity bool
}

// Target returns the final room of the flow.
func (f *AccessFlow) Target() ids.RoomID {
	return f.Rooms[len(f.Rooms)-1]
}

// Intermediates returns every room before the target.
func (f *AccessFlow) Intermediates() []ids.RoomID {
	return f.Rooms[:len(f.Rooms)-1]
}

// AccessFlow resolves the room sequence from the user's current room (nil
// when outside any building) to the target. Travel durations are sampled
// from rng so repeated resolutions vary realistically while remaining
// seed-deterministic.
func (r *Registry) AccessFlow(from *ids.RoomID, to ids.RoomID, rng *rand.Rand) (*AccessFlow, error) {
	target, targetBld, targetLoc, ok := r.Room(to)
	if !ok {
		return nil, fmt.Errorf("target room %s not in registry", to)
	}

	if from != nil && *from == to {
		return &AccessFlow{
			Rooms:                []ids.RoomID{to},
			TravelTime:           0,
			InvolvesHighSecurity: target.IsHighSecurity(),
		}, nil
	}

	var fromBld *Building
	var fromLoc *Location
	if from != nil {
		_, fb, fl, ok := r.Room(*from)
		if !ok {
			return nil, fmt.Errorf("origin room %s not in registry", *from)
		}
		fromBld, fromLoc = fb, fl
	}

	flow := &AccessFlow{}

	sameBuilding := fromBld != nil && fromBld.ID == targetBld.ID
	if !sameBuilding {
		// Entering from outside the building: the lobby comes first.
		if targetBld.LobbyID != nil && *targetBld.LobbyID != to {
			flow.Rooms = append(flow.Rooms, *targetBld.LobbyID)
			flow.RequiresLobbyAccess = true
		}
	}
	flow.Rooms = append(flow.Rooms, target.RequiredAccess...)
	flow.Rooms = append(flow.Rooms, to)

	flow.TravelTime = uniformDuration(rng, 30*time.Second, 180*time.Second)
	switch {
	case fromLoc == nil:
		// Arriving from outside any site: no inter-site increment.
	case fromLoc.ID != targetLoc.ID:
		flow.TravelTime += uniformDuration(rng, 4*time.Hour, 12*time.Hour)
	case fromBld.ID != targetBld.ID:
		flow.TravelTime += uniformDuration(rng, 2*time.Minute, 10*time.Minute)
	}

	for _, roomID := range flow.Rooms {
		room, _, _, ok := r.Room(roomID)
		if ok && room.IsHighSecurity() {
			flow.InvolvesHighSecurity = true
			break
		}
	}
	return flow, nil
}

func uniformDuration(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rng.Int63n(int64(max-min)))
}
