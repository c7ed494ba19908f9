// Package analysis scans a user-profiles answer key and summarizes the
// anomalous users planted in it, for cross-checking detector output.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/davidleathers/badge-access-simulator/internal/domain/ids"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
	"github.com/davidleathers/badge-access-simulator/internal/infrastructure/blob"
)

// UserAnomaly is one planted anomaly attributed to one user.
type UserAnomaly struct {
	UserID         ids.UserID `json:"user_id"`
	Classification string     `json:"classification"`
	RiskLevel      string     `json:"risk_level"`
	Anomaly        string     `json:"anomaly"`
}

// Report aggregates the planted anomalies found in an answer key.
type Report struct {
	TotalUsers      int `json:"total_users"`
	NormalUsers     int `json:"normal_users"`
	CuriousUsers    int `json:"curious_users"`
	ClonedBadges    int `json:"cloned_badges"`
	NightShiftUsers int `json:"night_shift_users"`

	Anomalies []UserAnomaly `json:"anomalies"`
}

// Analyze builds a report from parsed profile records.
func Analyze(records []user.ProfileRecord) *Report {
	r := &Report{TotalUsers: len(records)}
	for _, rec := range records {
		anomalous := false
		if rec.IsCurious {
			r.CuriousUsers++
			r.Anomalies = append(r.Anomalies, anomaly(rec, "curious_user"))
			anomalous = true
		}
		if rec.HasClonedBadge {
			r.ClonedBadges++
			r.Anomalies = append(r.Anomalies, anomaly(rec, "cloned_badge"))
			anomalous = true
		}
		if rec.IsNightShift {
			r.NightShiftUsers++
			r.Anomalies = append(r.Anomalies, anomaly(rec, "night_shift"))
			anomalous = true
		}
		if !anomalous {
			r.NormalUsers++
		}
	}
	sort.SliceStable(r.Anomalies, func(i, j int) bool {
		if r.Anomalies[i].UserID != r.Anomalies[j].UserID {
			return r.Anomalies[i].UserID.String() < r.Anomalies[j].UserID.String()
		}
		return r.Anomalies[i].Anomaly < r.Anomalies[j].Anomaly
	})
	return r
}

func anomaly(rec user.ProfileRecord, kind string) UserAnomaly {
	return UserAnomaly{
		UserID:         rec.UserID,
		Classification: rec.Classification,
		RiskLevel:      rec.RiskLevel,
		Anomaly:        kind,
	}
}

// AnalyzeProfiles reads an NDJSON answer key and builds its report.
func AnalyzeProfiles(r io.Reader) (*Report, error) {
	records, err := user.ReadProfiles(r)
	if err != nil {
		return nil, fmt.Errorf("loading answer key: %w", err)
	}
	return Analyze(records), nil
}

// Write renders the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Upload mirrors the report to object storage under the given key.
func (r *Report) Upload(ctx context.Context, store blob.ObjectStore, key string) error {
	body, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return store.Put(ctx, key, "application/json", body)
}
