package user

import "math/rand"

// BehaviorProfile holds four independent propensities in [0,1] that drive
// daily scheduling. The derived predicates are advisory only.
type BehaviorProfile struct {
	TravelFrequency   float64 `json:"travel_frequency"`
	CuriosityLevel    float64 `json:"curiosity_level"`
	ScheduleAdherence float64 `json:"schedule_adherence"`
	SocialLevel       float64 `json:"social_level"`
}

// NewRegularProfile draws a baseline profile.
func NewRegularProfile(rng *rand.Rand) BehaviorProfile {
	return BehaviorProfile{
		TravelFrequency:   rng.Float64() * 0.3,
		CuriosityLevel:    rng.Float64() * 0.5,
		ScheduleAdherence: 0.5 + rng.Float64()*0.5,
		SocialLevel:       rng.Float64(),
	}
}

// NewCuriousProfile draws a profile whose curiosity is elevated into the
// [0.6, 0.9] band used for planted curious users.
func NewCuriousProfile(rng *rand.Rand) BehaviorProfile {
	p := NewRegularProfile(rng)
	p.CuriosityLevel = 0.6 + rng.Float64()*0.3
	return p
}

// NightShiftProfile is the fixed profile assigned to night-shift users.
func NightShiftProfile() BehaviorProfile {
	return BehaviorProfile{
		TravelFrequency:   0.05,
		CuriosityLevel:    0.1,
		ScheduleAdherence: 0.9,
		SocialLevel:       0.2,
	}
}

func (p BehaviorProfile) IsCurious() bool         { return p.CuriosityLevel > 0.5 }
func (p BehaviorProfile) IsScheduleFocused() bool { return p.ScheduleAdherence > 0.8 }
func (p BehaviorProfile) TravelsOften() bool      { return p.TravelFrequency > 0.15 }
func (p BehaviorProfile) IsSocial() bool          { return p.SocialLevel > 0.7 }
