// Package anneal implements the archived multi-objective simulated
// annealing engine: hill-climbing initialization, dominance-aware
// acceptance over a bounded non-dominated archive, clustering-based
// pruning, convergence tracking, and checkpointed execution.
package anneal

import (
	"time"

	"github.com/EMACC99/amosa/internal/store"
)

// Config collects every tunable of the optimizer. The zero value is not
// usable; start from DefaultConfig and override.
type Config struct {
	// HardLimit is the archive size enforced by pruning; SoftLimit is the
	// occupancy that triggers pruning during the annealing loop.
	HardLimit int
	SoftLimit int

	// Gamma scales the initial candidate pool: Gamma*SoftLimit random
	// points are hill-climbed during initialization.
	Gamma int

	// HillClimbIterations is the per-candidate climb budget. Zero skips
	// the random pool entirely, seeding from the bound corners only.
	HillClimbIterations int

	// Temperature schedule: the loop starts at InitialTemperature and
	// multiplies by CoolingFactor until FinalTemperature is reached.
	InitialTemperature float64
	FinalTemperature   float64
	CoolingFactor      float64

	// AnnealingIterations is the number of perturbation trials per
	// temperature step; AnnealingStrength bounds how many variables one
	// perturbation may re-sample.
	AnnealingIterations int
	AnnealingStrength   int

	// EarlyTerminationWindow enables convergence-based termination when
	// positive: once the last window phi values all sit at or below
	// PhiEpsilon, the temperature drops straight to FinalTemperature.
	EarlyTerminationWindow int
	PhiEpsilon             float64

	// ClusteringMaxIterations bounds the assign/recenter rounds of one
	// pruning pass.
	ClusteringMaxIterations int

	// Seed fixes the run's random source; values <= 0 select a time-based
	// seed.
	Seed int64

	// CacheDir persists the evaluation cache across runs; empty disables
	// persistence. MaxShardBytes bounds one shard file and CompressCache
	// switches shards to gzip.
	CacheDir      string
	MaxShardBytes int64
	CompressCache bool

	// CheckpointDir enables checkpoint/resume and the statistics trace;
	// empty disables both.
	CheckpointDir string
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() Config {
	return Config{
		HardLimit:               20,
		SoftLimit:               50,
		Gamma:                   2,
		HillClimbIterations:     500,
		InitialTemperature:      500,
		FinalTemperature:        1e-6,
		CoolingFactor:           0.9,
		AnnealingIterations:     500,
		AnnealingStrength:       1,
		EarlyTerminationWindow:  0,
		PhiEpsilon:              1e-9,
		ClusteringMaxIterations: 10,
		MaxShardBytes:           store.DefaultMaxShardBytes,
	}
}

// ConfigError reports a configuration parameter that fails validation.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Param + " " + e.Reason
}

// Validate checks the parameter ranges. The first offending parameter is
// reported; the engine constructor refuses configurations that fail here.
func (c Config) Validate() error {
	if c.HardLimit <= 0 {
		return &ConfigError{Param: "HardLimit", Reason: "must be positive"}
	}
	if c.SoftLimit <= 0 {
		return &ConfigError{Param: "SoftLimit", Reason: "must be positive"}
	}
	if c.HardLimit > c.SoftLimit {
		return &ConfigError{Param: "HardLimit", Reason: "cannot exceed SoftLimit"}
	}
	if c.Gamma < 1 {
		return &ConfigError{Param: "Gamma", Reason: "must be at least 1"}
	}
	if c.HillClimbIterations < 0 {
		return &ConfigError{Param: "HillClimbIterations", Reason: "cannot be negative"}
	}
	if c.ClusteringMaxIterations <= 0 {
		return &ConfigError{Param: "ClusteringMaxIterations", Reason: "must be positive"}
	}
	if c.FinalTemperature <= 0 {
		return &ConfigError{Param: "FinalTemperature", Reason: "must be positive"}
	}
	if c.InitialTemperature <= c.FinalTemperature {
		return &ConfigError{Param: "InitialTemperature", Reason: "must exceed FinalTemperature"}
	}
	if c.CoolingFactor <= 0 || c.CoolingFactor >= 1 {
		return &ConfigError{Param: "CoolingFactor", Reason: "must be in (0, 1)"}
	}
	if c.AnnealingIterations < 1 {
		return &ConfigError{Param: "AnnealingIterations", Reason: "must be at least 1"}
	}
	if c.AnnealingStrength < 1 {
		return &ConfigError{Param: "AnnealingStrength", Reason: "must be at least 1"}
	}
	if c.EarlyTerminationWindow < 0 {
		return &ConfigError{Param: "EarlyTerminationWindow", Reason: "cannot be negative"}
	}
	if c.PhiEpsilon < 0 {
		return &ConfigError{Param: "PhiEpsilon", Reason: "cannot be negative"}
	}
	if c.MaxShardBytes <= 0 {
		return &ConfigError{Param: "MaxShardBytes", Reason: "must be positive"}
	}
	return nil
}

// effectiveSeed resolves the configured seed, falling back to wall-clock
// nanoseconds.
func (c Config) effectiveSeed() int64 {
	if c.Seed > 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
