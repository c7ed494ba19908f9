package simulation

import (
	"time"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// ActivityType labels one entry in a user's daily schedule.
type ActivityType int

const (
	ActivityArrival ActivityType = iota
	ActivityMeeting
	ActivityBathroom
	ActivityLunch
	ActivityCollaboration
	ActivityUnauthorizedAccess
	ActivityNightPatrol
	ActivityDeparture
)

func (t ActivityType) String() string {
	switch t {
	case ActivityArrival:
		return "arrival"
	case ActivityMeeting:
		return "meeting"
	case ActivityBathroom:
		return "bathroom"
	case ActivityLunch:
		return "lunch"
	case ActivityCollaboration:
		return "collaboration"
	case ActivityUnauthorizedAccess:
		return "unauthorized_access"
	case ActivityNightPatrol:
		return "night_patrol"
	case ActivityDeparture:
		return "departure"
	default:
		return "unknown"
	}
}

// ScheduledActivity is one planned visit to a target room.
type ScheduledActivity struct {
	Type       ActivityType
	TargetRoom ids.RoomID
	Start      time.Time
	Duration   time.Duration

	// Unauthorized marks activities spliced in for curious users; the
	// event generator turns these into denied attempts.
	Unauthorized bool
}

// End returns the instant the activity finishes.
func (a ScheduledActivity) End() time.Time {
	return a.Start.Add(a.Duration)
}
