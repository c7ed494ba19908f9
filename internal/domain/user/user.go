// Package user models the simulated population: permission sets, behavior
// profiles, the answer-key profile records, and the seeded population
// generator.
package user

import (
	"fmt"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// User is one badge holder. Immutable after generation except for
// CurrentRoom, which tracks position within a simulated day.
type User struct {
	ID               ids.UserID
	PrimaryLocation  ids.LocationID
	PrimaryBuilding  ids.BuildingID
	PrimaryWorkspace ids.RoomID

	Permissions *PermissionSet
	Profile     BehaviorProfile

	IsCurious      bool
	HasClonedBadge bool
	IsNightShift   bool

	// AssignedNightBuilding is set only for night-shift users.
	AssignedNightBuilding *ids.BuildingID

	// CurrentRoom is nil when the user is outside any building.
	CurrentRoom *ids.RoomID
}

func New(id ids.UserID, location ids.LocationID, building ids.BuildingID, workspace ids.RoomID, profile BehaviorProfile) (*User, error) {
	if id.IsZero() {
		return nil, fmt.Errorf("user id cannot be zero")
	}
	if location.IsZero() || building.IsZero() || workspace.IsZero() {
		return nil, fmt.Errorf("user %s missing primary assignment", id)
	}
	return &User{
		ID:               id,
		PrimaryLocation:  location,
		PrimaryBuilding:  building,
		PrimaryWorkspace: workspace,
		Permissions:      NewPermissionSet(),
		Profile:          profile,
	}, nil
}

// EnterRoom records the user's position after a successful swipe.
func (u *User) EnterRoom(id ids.RoomID) {
	room := id
	u.CurrentRoom = &room
}

// LeaveBuilding clears the user's position.
func (u *User) LeaveBuilding() {
	u.CurrentRoom = nil
}

// EligibleForClonedBadge reports whether the user qualifies for the
// cloned-badge anomaly: frequent travelers or holders of a location grant.
func (u *User) EligibleForClonedBadge() bool {
	return u.Profile.TravelsOften() || u.Permissions.HasLocationGrant()
}
