// badgesim generates a synthetic badge-access event stream on stdout,
// with planted anomalies and an optional user-profiles answer key.
package main

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"log"
	mathrand "math/rand"
	"os"

	"go.uber.org/zap"

	"github.com/davidleathers/badge-access-simulator/internal/analysis"
	"github.com/davidleathers/badge-access-simulator/internal/domain/facility"
	"github.com/davidleathers/badge-access-simulator/internal/domain/user"
	"github.com/davidleathers/badge-access-simulator/internal/infrastructure/blob"
	"github.com/davidleathers/badge-access-simulator/internal/infrastructure/config"
	"github.com/davidleathers/badge-access-simulator/internal/simulation"
)

// Command-line flags
var (
	configPath = flag.String("config", "", "Path to configuration file (optional)")

	days      = flag.Int("days", 1, "Number of days to simulate")
	users     = flag.Int("users", 10000, "Number of users to generate")
	locations = flag.Int("locations", 5, "Number of facility locations")
	seed      = flag.Int64("seed", 0, "Random seed (0 draws one from OS entropy)")
	startDate = flag.String("start-date", "", "First simulated day, YYYY-MM-DD UTC (default today)")

	minBuildings = flag.Int("min-buildings-per-location", 2, "Minimum buildings generated per location")
	maxBuildings = flag.Int("max-buildings-per-location", 5, "Maximum buildings generated per location")
	minRooms     = flag.Int("min-rooms-per-building", 8, "Minimum rooms generated per building")
	maxRooms     = flag.Int("max-rooms-per-building", 15, "Maximum rooms generated per building")

	curiousPct = flag.Float64("curious-percentage", 0.05, "Fraction of users with curious behavior")
	clonedPct  = flag.Float64("cloned-percentage", 0.001, "Fraction of users with cloned badges")

	affinity      = flag.Float64("primary-building-affinity", 0.8, "Probability a user works from their primary building on a given day")
	sameLocTravel = flag.Float64("same-location-travel", 0.15, "Probability a user visits another building at their location")
	diffLocTravel = flag.Float64("different-location-travel", 0.05, "Probability a user visits a different location")

	profilesOutput = flag.String("user-profiles-output", "", "Write the user-profiles answer key to this file")

	includeEventType     = flag.Bool("include-event-type", false, "Include event_type in output")
	includeFailureReason = flag.Bool("include-failure-reason", false, "Include failure_reason in output")
	includeMetadata      = flag.Bool("include-metadata", false, "Include metadata in output")
	includeAll           = flag.Bool("include-all-fields", false, "Include every optional field in output")

	outputFormat = flag.String("output-format", "json", "Event stream format (json)")

	uploadBucket    = flag.String("upload-bucket", "", "Mirror artifacts to this S3 bucket")
	s3Endpoint      = flag.String("s3-endpoint", "", "Override the S3 endpoint (MinIO/LocalStack)")
	simulatedUpload = flag.Bool("simulated-upload", false, "Keep uploads in an in-process store instead of calling S3")

	analyzeProfiles = flag.String("analyze-profiles", "", "Analyze an existing answer key instead of simulating")
	reportOutput    = flag.String("report-output", "", "Write the analysis report to this file (default stdout)")

	printConfig = flag.Bool("print-config", false, "Print the effective configuration and exit")
	dryRun      = flag.Bool("dry-run", false, "Generate the facility and population, then exit without events")
	verbose     = flag.Bool("verbose", false, "Info-level logging on stderr")
	debug       = flag.Bool("debug", false, "Debug-level logging on stderr")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

// applyFlagOverrides copies explicitly-set flags over the loaded config so
// precedence stays flags > env > file > defaults.
func applyFlagOverrides(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "days":
			cfg.Simulation.Days = *days
		case "seed":
			cfg.Simulation.Seed = *seed
		case "start-date":
			cfg.Simulation.StartDate = *startDate
		case "users":
			cfg.Users.UserCount = *users
		case "locations":
			cfg.Facility.LocationCount = *locations
		case "min-buildings-per-location":
			cfg.Facility.MinBuildings = *minBuildings
		case "max-buildings-per-location":
			cfg.Facility.MaxBuildings = *maxBuildings
		case "min-rooms-per-building":
			cfg.Facility.MinRoomsPerBuilding = *minRooms
		case "max-rooms-per-building":
			cfg.Facility.MaxRoomsPerBuilding = *maxRooms
		case "curious-percentage":
			cfg.Users.CuriousUserPercentage = *curiousPct
		case "cloned-percentage":
			cfg.Users.ClonedBadgePercentage = *clonedPct
		case "primary-building-affinity":
			cfg.Users.PrimaryBuildingAffinity = *affinity
		case "same-location-travel":
			cfg.Users.SameLocationTravel = *sameLocTravel
		case "different-location-travel":
			cfg.Users.DifferentLocationTravel = *diffLocTravel
		case "output-format":
			cfg.Output.Format = *outputFormat
		case "user-profiles-output":
			cfg.Output.UserProfilesOutput = *profilesOutput
		case "include-event-type":
			cfg.Output.Fields.IncludeEventType = *includeEventType
		case "include-failure-reason":
			cfg.Output.Fields.IncludeFailureReason = *includeFailureReason
		case "include-metadata":
			cfg.Output.Fields.IncludeMetadata = *includeMetadata
		case "include-all-fields":
			cfg.Output.Fields.IncludeAll = *includeAll
		case "upload-bucket":
			cfg.Output.UploadBucket = *uploadBucket
		case "s3-endpoint":
			cfg.Output.S3Endpoint = *s3Endpoint
		case "simulated-upload":
			cfg.Output.SimulatedUpload = *simulatedUpload
		case "verbose":
			cfg.Logging.Verbose = *verbose
		case "debug":
			cfg.Logging.Debug = *debug
		}
	})
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	if *printConfig {
		out, err := cfg.PrintableJSON()
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	if *analyzeProfiles != "" {
		return runAnalysis(ctx, cfg, logger)
	}

	runSeed, err := resolveSeed(cfg.Simulation.Seed)
	if err != nil {
		return err
	}
	logger.Info("starting simulation",
		zap.Int64("seed", runSeed),
		zap.Int("days", cfg.Simulation.Days),
		zap.Int("users", cfg.Users.UserCount))
	rng := mathrand.New(mathrand.NewSource(runSeed))

	reg, err := facility.Generate(facility.GeneratorConfig{
		LocationCount:       cfg.Facility.LocationCount,
		MinBuildings:        cfg.Facility.MinBuildings,
		MaxBuildings:        cfg.Facility.MaxBuildings,
		MinRoomsPerBuilding: cfg.Facility.MinRoomsPerBuilding,
		MaxRoomsPerBuilding: cfg.Facility.MaxRoomsPerBuilding,
	}, rng)
	if err != nil {
		return err
	}

	population, err := user.Generate(reg, user.GeneratorConfig{
		UserCount:               cfg.Users.UserCount,
		CuriousUserPercentage:   cfg.Users.CuriousUserPercentage,
		ClonedBadgePercentage:   cfg.Users.ClonedBadgePercentage,
		PrimaryBuildingAffinity: cfg.Users.PrimaryBuildingAffinity,
	}, rng)
	if err != nil {
		return err
	}
	logger.Info("population ready",
		zap.Int("locations", len(reg.Locations())),
		zap.Int("buildings", reg.BuildingCount()),
		zap.Int("rooms", reg.RoomCount()),
		zap.Int("users", len(population)))

	store, memStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Output.UserProfilesOutput != "" {
		if err := writeProfiles(ctx, cfg, population, store, logger); err != nil {
			return err
		}
	}

	if *dryRun {
		fmt.Fprintf(os.Stderr, "dry run: %d locations, %d buildings, %d rooms, %d users\n",
			len(reg.Locations()), reg.BuildingCount(), reg.RoomCount(), len(population))
		return nil
	}

	start, err := cfg.StartDate()
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	var captured bytes.Buffer
	if store != nil {
		out = io.MultiWriter(os.Stdout, &captured)
	}

	orch := simulation.NewOrchestrator(reg, population,
		simulation.NewBehaviorEngine(reg, rng, logger, cfg.Users.SameLocationTravel, cfg.Users.DifferentLocationTravel),
		simulation.NewEventGenerator(reg, rng, logger),
		rng, logger, out, cfg.Output.Fields, start)
	if err := orch.Run(cfg.Simulation.Days); err != nil {
		return err
	}

	if store != nil {
		key := fmt.Sprintf("runs/%s/events.ndjson", start.Format("2006-01-02"))
		if err := store.Put(ctx, key, "application/x-ndjson", captured.Bytes()); err != nil {
			return err
		}
		logger.Info("event stream uploaded", zap.String("key", key))
	}
	if memStore != nil {
		logger.Info("simulated upload complete",
			zap.String("bucket", cfg.Output.UploadBucket),
			zap.Strings("keys", memStore.Keys()))
	}

	fmt.Fprintln(os.Stderr, orch.Statistics().Summary())
	return nil
}

// newObjectStore picks the upload target: none without a bucket, the
// in-process store under --simulated-upload, S3 otherwise. The memory store
// is also returned directly so callers can report what it ended up holding.
func newObjectStore(ctx context.Context, cfg *config.Config) (blob.ObjectStore, *blob.MemoryStore, error) {
	if cfg.Output.UploadBucket == "" {
		return nil, nil, nil
	}
	if cfg.Output.SimulatedUpload {
		m := blob.NewMemoryStore()
		return m, m, nil
	}
	s, err := blob.NewS3Store(ctx, cfg.Output.UploadBucket, cfg.Output.S3Endpoint)
	if err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

func runAnalysis(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	f, err := os.Open(*analyzeProfiles)
	if err != nil {
		return fmt.Errorf("opening answer key: %w", err)
	}
	defer f.Close()

	report, err := analysis.AnalyzeProfiles(bufio.NewReader(f))
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if *reportOutput != "" {
		rf, err := os.Create(*reportOutput)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer rf.Close()
		out = rf
	}
	if err := report.Write(out); err != nil {
		return err
	}

	store, memStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		if err := report.Upload(ctx, store, "reports/anomalies.json"); err != nil {
			return err
		}
		logger.Info("report uploaded", zap.String("bucket", cfg.Output.UploadBucket))
	}
	if memStore != nil {
		logger.Info("simulated upload complete",
			zap.String("bucket", cfg.Output.UploadBucket),
			zap.Strings("keys", memStore.Keys()))
	}
	return nil
}

func writeProfiles(ctx context.Context, cfg *config.Config, population []*user.User, store blob.ObjectStore, logger *zap.Logger) error {
	f, err := os.Create(cfg.Output.UserProfilesOutput)
	if err != nil {
		return fmt.Errorf("creating profiles file: %w", err)
	}
	defer f.Close()

	travel := user.TravelConfig{
		PrimaryBuildingAffinity: cfg.Users.PrimaryBuildingAffinity,
		SameLocationTravel:      cfg.Users.SameLocationTravel,
		DifferentLocationTravel: cfg.Users.DifferentLocationTravel,
	}
	if err := user.WriteProfiles(f, population, travel); err != nil {
		return err
	}
	logger.Info("answer key written",
		zap.String("path", cfg.Output.UserProfilesOutput),
		zap.Int("users", len(population)))

	if store != nil {
		body, err := os.ReadFile(cfg.Output.UserProfilesOutput)
		if err != nil {
			return fmt.Errorf("rereading profiles for upload: %w", err)
		}
		if err := store.Put(ctx, "profiles/user_profiles.ndjson", "application/x-ndjson", body); err != nil {
			return err
		}
	}
	return nil
}

// resolveSeed honors an explicit seed and otherwise draws one from OS
// entropy so unseeded runs differ.
func resolveSeed(configured int64) (int64, error) {
	if configured != 0 {
		return configured, nil
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("drawing seed: %w", err)
	}
	return int64(binary.BigEndian.Uint64(buf[:]) &^ (1 << 63)), nil
}
