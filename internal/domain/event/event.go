// Package event defines the access events emitted on stdout, their
// anomaly metadata, and the field filtering applied before serialization.
package event

import (
	"time"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// timestampLayout fixes the wire format to ISO-8601 UTC with microsecond
// precision. A fixed digit count keeps identical seeds byte-identical.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTimestamp renders t in the output timestamp format.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp is the inverse of FormatTimestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// Metadata carries anomaly annotations attached to an event. The boolean
// flags are always serialized; the remaining fields only appear for the
// scenarios that set them.
type Metadata struct {
	IsCuriousAttempt     bool `json:"is_curious_attempt"`
	IsImpossibleTraveler bool `json:"is_impossible_traveler"`
	IsBadgeReaderFailure bool `json:"is_badge_reader_failure"`
	IsNightShiftEvent    bool `json:"is_night_shift_event"`

	// RetryAttemptNumber is set on the successful retry that follows a
	// badge reader failure (1 for the first retry).
	RetryAttemptNumber *int `json:"retry_attempt_number,omitempty"`
	// TravelTimeViolationSeconds is the actual gap between the two halves
	// of an impossible-traveler pair.
	TravelTimeViolationSeconds *int64 `json:"travel_time_violation_seconds,omitempty"`
	// GeographicalDistanceKm is the Haversine distance between the pair's
	// two locations.
	GeographicalDistanceKm *float64 `json:"geographical_distance_km,omitempty"`
}

// CuriousAttemptMetadata tags a curious-user unauthorized attempt.
func CuriousAttemptMetadata() *Metadata {
	return &Metadata{IsCuriousAttempt: true}
}

// ImpossibleTravelerMetadata tags the remote half of an impossible-traveler
// pair with its geometry.
func ImpossibleTravelerMetadata(timeGap time.Duration, distanceKm float64) *Metadata {
	gapSeconds := int64(timeGap.Seconds())
	return &Metadata{
		IsImpossibleTraveler:       true,
		TravelTimeViolationSeconds: &gapSeconds,
		GeographicalDistanceKm:     &distanceKm,
	}
}

// BadgeReaderFailureMetadata tags a badge reader malfunction. retry is nil
// on the failed swipe and set on the successful retry that follows.
func BadgeReaderFailureMetadata(retry *int) *Metadata {
	return &Metadata{IsBadgeReaderFailure: true, RetryAttemptNumber: retry}
}

// NightShiftMetadata tags an authorized off-hours event by a night-shift user.
func NightShiftMetadata() *Metadata {
	return &Metadata{IsNightShiftEvent: true}
}

// AccessEvent is a single badge swipe. Immutable once emitted.
type AccessEvent struct {
	Timestamp     time.Time
	UserID        ids.UserID
	RoomID        ids.RoomID
	BuildingID    ids.BuildingID
	LocationID    ids.LocationID
	Success       bool
	EventType     EventType
	FailureReason *FailureReason
	Metadata      *Metadata
}

func (e *AccessEvent) IsNightShiftEvent() bool {
	return e.Metadata != nil && e.Metadata.IsNightShiftEvent
}

func (e *AccessEvent) IsCuriousAttempt() bool {
	return e.FailureReason != nil && *e.FailureReason == ReasonCuriousUser
}

func (e *AccessEvent) IsImpossibleTraveler() bool {
	return e.FailureReason != nil && *e.FailureReason == ReasonImpossibleTraveler
}

func (e *AccessEvent) IsBadgeReaderFailure() bool {
	return e.FailureReason != nil && *e.FailureReason == ReasonBadgeReaderError
}

// FieldConfig selects which optional fields appear in the output stream.
// IncludeAll overrides the individual switches.
type FieldConfig struct {
	IncludeEventType     bool `koanf:"include_event_type" json:"include_event_type"`
	IncludeFailureReason bool `koanf:"include_failure_reason" json:"include_failure_reason"`
	IncludeMetadata      bool `koanf:"include_metadata" json:"include_metadata"`
	IncludeAll           bool `koanf:"include_all" json:"include_all"`
}

func (c FieldConfig) eventType() bool     { return c.IncludeEventType || c.IncludeAll }
func (c FieldConfig) failureReason() bool { return c.IncludeFailureReason || c.IncludeAll }
func (c FieldConfig) metadata() bool      { return c.IncludeMetadata || c.IncludeAll }

// FilteredEvent is the serialized shape of an AccessEvent: the six core
// fields always, the rest per FieldConfig.
type FilteredEvent struct {
	Timestamp     string         `json:"timestamp"`
	UserID        ids.UserID     `json:"user_id"`
	RoomID        ids.RoomID     `json:"room_id"`
	BuildingID    ids.BuildingID `json:"building_id"`
	LocationID    ids.LocationID `json:"location_id"`
	Success       bool           `json:"success"`
	EventType     *EventType     `json:"event_type,omitempty"`
	FailureReason *FailureReason `json:"failure_reason,omitempty"`
	Metadata      *Metadata      `json:"metadata,omitempty"`
}

// Filtered projects the event onto the configured field set.
func (e *AccessEvent) Filtered(cfg FieldConfig) FilteredEvent {
	out := FilteredEvent{
		Timestamp:  FormatTimestamp(e.Timestamp),
		UserID:     e.UserID,
		RoomID:     e.RoomID,
		BuildingID: e.BuildingID,
		LocationID: e.LocationID,
		Success:    e.Success,
	}
	if cfg.eventType() {
		et := e.EventType
		out.EventType = &et
	}
	if cfg.failureReason() {
		out.FailureReason = e.FailureReason
	}
	if cfg.metadata() {
		out.Metadata = e.Metadata
	}
	return out
}
