package main

import (
	"context"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleathers/badge-access-simulator/internal/infrastructure/blob"
	"github.com/davidleathers/badge-access-simulator/internal/infrastructure/config"
)

// TestApplyFlagOverrides sets every tunable option through its flag and
// checks each one lands on the config, including the facility shape and
// travel knobs needed to drive small single-building runs.
func TestApplyFlagOverrides(t *testing.T) {
	set := map[string]string{
		"days":                       "3",
		"seed":                       "42",
		"start-date":                 "2025-06-02",
		"users":                      "250",
		"locations":                  "1",
		"min-buildings-per-location": "1",
		"max-buildings-per-location": "1",
		"min-rooms-per-building":     "5",
		"max-rooms-per-building":     "5",
		"curious-percentage":         "0.2",
		"cloned-percentage":          "0.01",
		"primary-building-affinity":  "0.9",
		"same-location-travel":       "0.08",
		"different-location-travel":  "0.02",
		"output-format":              "json",
		"user-profiles-output":       "profiles.ndjson",
		"include-metadata":           "true",
		"upload-bucket":              "badge-artifacts",
		"s3-endpoint":                "http://localhost:9000",
		"simulated-upload":           "true",
		"verbose":                    "true",
	}
	for name, value := range set {
		require.NoError(t, flag.Set(name, value))
	}

	cfg := config.Default()
	applyFlagOverrides(cfg)

	assert.Equal(t, 3, cfg.Simulation.Days)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, "2025-06-02", cfg.Simulation.StartDate)
	assert.Equal(t, 250, cfg.Users.UserCount)
	assert.Equal(t, 1, cfg.Facility.LocationCount)
	assert.Equal(t, 1, cfg.Facility.MinBuildings)
	assert.Equal(t, 1, cfg.Facility.MaxBuildings)
	assert.Equal(t, 5, cfg.Facility.MinRoomsPerBuilding)
	assert.Equal(t, 5, cfg.Facility.MaxRoomsPerBuilding)
	assert.Equal(t, 0.2, cfg.Users.CuriousUserPercentage)
	assert.Equal(t, 0.01, cfg.Users.ClonedBadgePercentage)
	assert.Equal(t, 0.9, cfg.Users.PrimaryBuildingAffinity)
	assert.Equal(t, 0.08, cfg.Users.SameLocationTravel)
	assert.Equal(t, 0.02, cfg.Users.DifferentLocationTravel)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "profiles.ndjson", cfg.Output.UserProfilesOutput)
	assert.True(t, cfg.Output.Fields.IncludeMetadata)
	assert.Equal(t, "badge-artifacts", cfg.Output.UploadBucket)
	assert.Equal(t, "http://localhost:9000", cfg.Output.S3Endpoint)
	assert.True(t, cfg.Output.SimulatedUpload)
	assert.True(t, cfg.Logging.Verbose)

	require.NoError(t, cfg.Validate())
}

func TestApplyFlagOverridesLeavesUnsetFlagsAlone(t *testing.T) {
	// flag.Visit only walks flags that were explicitly set, so flag
	// defaults must not clobber values from the file or environment.
	cfg := config.Default()
	cfg.Logging.Debug = true
	applyFlagOverrides(cfg)
	assert.True(t, cfg.Logging.Debug)
}

func TestNewObjectStoreSelection(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	store, mem, err := newObjectStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.Nil(t, mem)

	cfg.Output.UploadBucket = "badge-artifacts"
	cfg.Output.SimulatedUpload = true
	store, mem, err = newObjectStore(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, mem)
	assert.Equal(t, blob.ObjectStore(mem), store)

	key := "runs/2025-06-02/events.ndjson"
	require.NoError(t, store.Put(ctx, key, "application/x-ndjson", []byte("{}\n")))
	assert.Equal(t, []string{key}, mem.Keys())
}
