package event

import (
	"encoding/json"
	"fmt"
)

// EventType classifies the outcome of a badge swipe.
type EventType int

const (
	TypeSuccess EventType = iota
	TypeFailure
	TypeInvalidBadge
	TypeOutsideHours
	TypeSuspicious
)

func (t EventType) String() string {
	switch t {
	case TypeSuccess:
		return "success"
	case TypeFailure:
		return "failure"
	case TypeInvalidBadge:
		return "invalid_badge"
	case TypeOutsideHours:
		return "outside_hours"
	case TypeSuspicious:
		return "suspicious"
	default:
		return "unknown"
	}
}

func (t EventType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEventType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func ParseEventType(s string) (EventType, error) {
	switch s {
	case "success":
		return TypeSuccess, nil
	case "failure":
		return TypeFailure, nil
	case "invalid_badge":
		return TypeInvalidBadge, nil
	case "outside_hours":
		return TypeOutsideHours, nil
	case "suspicious":
		return TypeSuspicious, nil
	default:
		return TypeSuccess, fmt.Errorf("unknown event type %q", s)
	}
}

// FailureReason explains why a swipe was denied, or tags the planted
// anomaly that produced an otherwise successful event.
type FailureReason int

const (
	ReasonUnauthorized FailureReason = iota
	ReasonCuriousUser
	ReasonImpossibleTraveler
	ReasonOutsideHours
	ReasonBadgeReaderError
	ReasonSystemFailure
)

func (r FailureReason) String() string {
	switch r {
	case ReasonUnauthorized:
		return "unauthorized"
	case ReasonCuriousUser:
		return "curious_user"
	case ReasonImpossibleTraveler:
		return "impossible_traveler"
	case ReasonOutsideHours:
		return "outside_hours"
	case ReasonBadgeReaderError:
		return "badge_reader_error"
	case ReasonSystemFailure:
		return "system_failure"
	default:
		return "unknown"
	}
}

func (r FailureReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *FailureReason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseFailureReason(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func ParseFailureReason(s string) (FailureReason, error) {
	switch s {
	case "unauthorized":
		return ReasonUnauthorized, nil
	case "curious_user":
		return ReasonCuriousUser, nil
	case "impossible_traveler":
		return ReasonImpossibleTraveler, nil
	case "outside_hours":
		return ReasonOutsideHours, nil
	case "badge_reader_error":
		return ReasonBadgeReaderError, nil
	case "system_failure":
		return ReasonSystemFailure, nil
	default:
		return ReasonUnauthorized, fmt.Errorf("unknown failure reason %q", s)
	}
}
