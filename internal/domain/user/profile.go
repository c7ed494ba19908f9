package user

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
)

// TravelPatterns summarizes how a user moves between sites, included in
// the answer key for downstream detectors.
type TravelPatterns struct {
	PrimaryBuildingAffinity      float64            `json:"primary_building_affinity"`
	SameLocationTravelFrequency  float64            `json:"same_location_travel_frequency"`
	CrossLocationTravelFrequency float64            `json:"cross_location_travel_frequency"`
	TypicalCrossLocationHours    float64            `json:"typical_cross_location_travel_time_hours"`
	FrequentLocations            []ids.LocationID   `json:"frequent_locations"`
	FrequentBuildings            []ids.BuildingID   `json:"frequent_buildings"`
}

// ProfileRecord is one line of the user-profiles answer key.
type ProfileRecord struct {
	UserID                ids.UserID        `json:"user_id"`
	PrimaryLocation       ids.LocationID    `json:"primary_location"`
	PrimaryBuilding       ids.BuildingID    `json:"primary_building"`
	PrimaryWorkspace      ids.RoomID        `json:"primary_workspace"`
	AuthorizedRooms       []ids.RoomID      `json:"authorized_rooms"`
	AuthorizedBuildings   []ids.BuildingID  `json:"authorized_buildings"`
	AuthorizedLocations   []ids.LocationID  `json:"authorized_locations"`
	IsCurious             bool              `json:"is_curious"`
	HasClonedBadge        bool              `json:"has_cloned_badge"`
	IsNightShift          bool              `json:"is_night_shift"`
	AssignedNightBuilding *ids.BuildingID   `json:"assigned_night_building,omitempty"`
	BehaviorProfile       BehaviorProfile   `json:"behavior_profile"`
	Classification        string            `json:"classification"`
	RiskLevel             string            `json:"risk_level"`
	TravelPatterns        TravelPatterns    `json:"travel_patterns"`
}

// TravelConfig feeds the travel-patterns block of each record.
type TravelConfig struct {
	PrimaryBuildingAffinity float64
	SameLocationTravel      float64
	DifferentLocationTravel float64
}

// BuildProfile projects a user onto its answer-key record.
func BuildProfile(u *User, travel TravelConfig) ProfileRecord {
	return ProfileRecord{
		UserID:                u.ID,
		PrimaryLocation:       u.PrimaryLocation,
		PrimaryBuilding:       u.PrimaryBuilding,
		PrimaryWorkspace:      u.PrimaryWorkspace,
		AuthorizedRooms:       u.Permissions.AuthorizedRooms(),
		AuthorizedBuildings:   u.Permissions.AuthorizedBuildings(),
		AuthorizedLocations:   u.Permissions.AuthorizedLocations(),
		IsCurious:             u.IsCurious,
		HasClonedBadge:        u.HasClonedBadge,
		IsNightShift:          u.IsNightShift,
		AssignedNightBuilding: u.AssignedNightBuilding,
		BehaviorProfile:       u.Profile,
		Classification:        classify(u),
		RiskLevel:             riskLevel(u),
		TravelPatterns: TravelPatterns{
			PrimaryBuildingAffinity:      travel.PrimaryBuildingAffinity,
			SameLocationTravelFrequency:  travel.SameLocationTravel,
			CrossLocationTravelFrequency: travel.DifferentLocationTravel,
			TypicalCrossLocationHours:    6.0,
			FrequentLocations:            u.Permissions.AuthorizedLocations(),
			FrequentBuildings:            u.Permissions.AuthorizedBuildings(),
		},
	}
}

func classify(u *User) string {
	switch {
	case u.HasClonedBadge && u.IsCurious:
		return "cloned_badge_curious"
	case u.HasClonedBadge:
		return "cloned_badge"
	case u.IsCurious:
		return "curious"
	default:
		return "normal"
	}
}

func riskLevel(u *User) string {
	switch {
	case u.HasClonedBadge:
		return "high"
	case u.IsCurious:
		return "medium"
	default:
		return "low"
	}
}

// WriteProfiles emits one NDJSON record per user.
func WriteProfiles(w io.Writer, users []*User, travel TravelConfig) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, u := range users {
		if err := enc.Encode(BuildProfile(u, travel)); err != nil {
			return fmt.Errorf("encoding profile for %s: %w", u.ID, err)
		}
	}
	return bw.Flush()
}

// ReadProfiles parses an NDJSON answer key, skipping blank lines.
func ReadProfiles(r io.Reader) ([]ProfileRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	var records []ProfileRecord
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec ProfileRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parsing profile line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading profiles: %w", err)
	}
	return records, nil
}
