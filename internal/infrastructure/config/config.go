// Package config loads the simulator configuration from defaults, an
// optional YAML file, and BADGESIM_-prefixed environment variables, in
// that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/davidleathers/badge-access-simulator/internal/domain/event"
	apperrors "github.com/davidleathers/badge-access-simulator/internal/errors"
)

const (
	envPrefix = "BADGESIM_"

	// startDateLayout is the accepted format for the start_date field.
	startDateLayout = "2006-01-02"
)

type Config struct {
	Facility   FacilityConfig   `koanf:"facility" json:"facility"`
	Users      UsersConfig      `koanf:"users" json:"users"`
	Simulation SimulationConfig `koanf:"simulation" json:"simulation"`
	Output     OutputConfig     `koanf:"output" json:"output"`
	Logging    LoggingConfig    `koanf:"logging" json:"logging"`
}

type FacilityConfig struct {
	LocationCount       int `koanf:"location_count" json:"location_count" validate:"min=1"`
	MinBuildings        int `koanf:"min_buildings" json:"min_buildings" validate:"min=1"`
	MaxBuildings        int `koanf:"max_buildings" json:"max_buildings" validate:"min=1"`
	MinRoomsPerBuilding int `koanf:"min_rooms_per_building" json:"min_rooms_per_building" validate:"min=1"`
	MaxRoomsPerBuilding int `koanf:"max_rooms_per_building" json:"max_rooms_per_building" validate:"min=1"`
}

type UsersConfig struct {
	UserCount               int     `koanf:"user_count" json:"user_count" validate:"min=1"`
	CuriousUserPercentage   float64 `koanf:"curious_user_percentage" json:"curious_user_percentage" validate:"min=0,max=1"`
	ClonedBadgePercentage   float64 `koanf:"cloned_badge_percentage" json:"cloned_badge_percentage" validate:"min=0,max=1"`
	PrimaryBuildingAffinity float64 `koanf:"primary_building_affinity" json:"primary_building_affinity" validate:"min=0,max=1"`
	SameLocationTravel      float64 `koanf:"same_location_travel" json:"same_location_travel" validate:"min=0,max=1"`
	DifferentLocationTravel float64 `koanf:"different_location_travel" json:"different_location_travel" validate:"min=0,max=1"`
}

type SimulationConfig struct {
	Days int `koanf:"days" json:"days" validate:"min=1"`
	// Seed 0 draws a fresh seed from OS entropy at startup.
	Seed int64 `koanf:"seed" json:"seed"`
	// StartDate is the first simulated day, YYYY-MM-DD UTC. Empty means
	// today.
	StartDate string `koanf:"start_date" json:"start_date"`
}

type OutputConfig struct {
	Format             string            `koanf:"format" json:"format" validate:"oneof=json"`
	Fields             event.FieldConfig `koanf:"fields" json:"fields"`
	UserProfilesOutput string            `koanf:"user_profiles_output" json:"user_profiles_output"`
	// UploadBucket, when set, mirrors generated artifacts to object
	// storage under this bucket.
	UploadBucket string `koanf:"upload_bucket" json:"upload_bucket"`
	// S3Endpoint overrides the S3 API endpoint for localstack/minio style
	// deployments.
	S3Endpoint string `koanf:"s3_endpoint" json:"s3_endpoint"`
	// SimulatedUpload keeps uploads in an in-process store instead of
	// calling S3, for runs that only want the upload path exercised.
	SimulatedUpload bool `koanf:"simulated_upload" json:"simulated_upload"`
}

type LoggingConfig struct {
	Verbose bool `koanf:"verbose" json:"verbose"`
	Debug   bool `koanf:"debug" json:"debug"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Facility: FacilityConfig{
			LocationCount:       5,
			MinBuildings:        2,
			MaxBuildings:        5,
			MinRoomsPerBuilding: 8,
			MaxRoomsPerBuilding: 15,
		},
		Users: UsersConfig{
			UserCount:               10000,
			CuriousUserPercentage:   0.05,
			ClonedBadgePercentage:   0.001,
			PrimaryBuildingAffinity: 0.8,
			SameLocationTravel:      0.15,
			DifferentLocationTravel: 0.05,
		},
		Simulation: SimulationConfig{
			Days: 1,
			Seed: 0,
		},
		Output: OutputConfig{
			Format: "json",
		},
	}
}

// Load layers defaults, the optional YAML file at path, and environment
// variables. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, apperrors.NewValidationError(apperrors.CodeConfigInvalid,
				fmt.Sprintf("reading config file %s", path)).WithCause(err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			"unmarshaling config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the cross-field range invariants.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			"config validation failed").WithCause(err)
	}

	if c.Facility.MinBuildings > c.Facility.MaxBuildings {
		return apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("buildings range inverted: min %d > max %d",
				c.Facility.MinBuildings, c.Facility.MaxBuildings))
	}
	if c.Facility.MinRoomsPerBuilding > c.Facility.MaxRoomsPerBuilding {
		return apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("rooms range inverted: min %d > max %d",
				c.Facility.MinRoomsPerBuilding, c.Facility.MaxRoomsPerBuilding))
	}
	sum := c.Users.PrimaryBuildingAffinity + c.Users.SameLocationTravel + c.Users.DifferentLocationTravel
	if sum < 0.99 || sum > 1.01 {
		return apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("travel probabilities must sum to 1, got %.3f", sum))
	}
	if _, err := c.StartDate(); err != nil {
		return err
	}
	return nil
}

// StartDate resolves the configured start date, defaulting to today UTC.
func (c *Config) StartDate() (time.Time, error) {
	if c.Simulation.StartDate == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(startDateLayout, c.Simulation.StartDate)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(apperrors.CodeConfigInvalid,
			fmt.Sprintf("start_date %q is not in YYYY-MM-DD form", c.Simulation.StartDate)).WithCause(err)
	}
	return t, nil
}

// PrintableJSON renders the effective configuration for --print-config.
func (c *Config) PrintableJSON() (string, error) {
	out, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("rendering config: %w", err)
	}
	return string(out), nil
}
