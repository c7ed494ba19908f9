// Package ids defines the four prefixed identifier kinds used across the
// simulator: users, locations, buildings, and rooms. The string form is a
// fixed prefix followed by the 32-hex UUID, and the JSON encoding is that
// prefixed string.
package ids

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

const (
	userPrefix     = "USER_"
	locationPrefix = "LOC_"
	buildingPrefix = "BLD_"
	roomPrefix     = "ROOM_"
)

type UserID struct{ uuid.UUID }

type LocationID struct{ uuid.UUID }

type BuildingID struct{ uuid.UUID }

type RoomID struct{ uuid.UUID }

// NewUserID draws a fresh identifier from r. Passing the simulation's
// seeded source keeps ID assignment deterministic; (*rand.Rand).Read
// never fails, so the uuid error is unreachable for that reader.
func NewUserID(r io.Reader) UserID {
	return UserID{newUUID(r)}
}

func NewLocationID(r io.Reader) LocationID {
	return LocationID{newUUID(r)}
}

func NewBuildingID(r io.Reader) BuildingID {
	return BuildingID{newUUID(r)}
}

func NewRoomID(r io.Reader) RoomID {
	return RoomID{newUUID(r)}
}

func newUUID(r io.Reader) uuid.UUID {
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		panic(fmt.Sprintf("reading random bytes for id: %v", err))
	}
	return u
}

func (id UserID) String() string     { return format(userPrefix, id.UUID) }
func (id LocationID) String() string { return format(locationPrefix, id.UUID) }
func (id BuildingID) String() string { return format(buildingPrefix, id.UUID) }
func (id RoomID) String() string     { return format(roomPrefix, id.UUID) }

func (id UserID) IsZero() bool     { return id.UUID == uuid.Nil }
func (id LocationID) IsZero() bool { return id.UUID == uuid.Nil }
func (id BuildingID) IsZero() bool { return id.UUID == uuid.Nil }
func (id RoomID) IsZero() bool     { return id.UUID == uuid.Nil }

func (id UserID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.String()) }
func (id LocationID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }
func (id BuildingID) MarshalJSON() ([]byte, error) { return json.Marshal(id.String()) }
func (id RoomID) MarshalJSON() ([]byte, error)     { return json.Marshal(id.String()) }

func (id *UserID) UnmarshalJSON(data []byte) error {
	u, err := unmarshalPrefixed(data, userPrefix)
	if err != nil {
		return err
	}
	id.UUID = u
	return nil
}

func (id *LocationID) UnmarshalJSON(data []byte) error {
	u, err := unmarshalPrefixed(data, locationPrefix)
	if err != nil {
		return err
	}
	id.UUID = u
	return nil
}

func (id *BuildingID) UnmarshalJSON(data []byte) error {
	u, err := unmarshalPrefixed(data, buildingPrefix)
	if err != nil {
		return err
	}
	id.UUID = u
	return nil
}

func (id *RoomID) UnmarshalJSON(data []byte) error {
	u, err := unmarshalPrefixed(data, roomPrefix)
	if err != nil {
		return err
	}
	id.UUID = u
	return nil
}

func ParseUserID(s string) (UserID, error) {
	u, err := parse(userPrefix, s)
	return UserID{u}, err
}

func ParseLocationID(s string) (LocationID, error) {
	u, err := parse(locationPrefix, s)
	return LocationID{u}, err
}

func ParseBuildingID(s string) (BuildingID, error) {
	u, err := parse(buildingPrefix, s)
	return BuildingID{u}, err
}

func ParseRoomID(s string) (RoomID, error) {
	u, err := parse(roomPrefix, s)
	return RoomID{u}, err
}

func format(prefix string, u uuid.UUID) string {
	return prefix + hex.EncodeToString(u[:])
}

func parse(prefix, s string) (uuid.UUID, error) {
	raw, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return uuid.Nil, fmt.Errorf("identifier %q missing prefix %q", s, prefix)
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identifier %q is not hex-encoded: %w", s, err)
	}
	u, err := uuid.FromBytes(b)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identifier %q has wrong length: %w", s, err)
	}
	return u, nil
}

func unmarshalPrefixed(data []byte, prefix string) (uuid.UUID, error) {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return uuid.Nil, err
	}
	return parse(prefix, s)
}
