package anneal

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Expected default configuration to validate, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		param  string
	}{
		{"zero hard limit", func(c *Config) { c.HardLimit = 0 }, "HardLimit"},
		{"zero soft limit", func(c *Config) { c.SoftLimit = 0 }, "SoftLimit"},
		{"hard above soft", func(c *Config) { c.HardLimit = 60 }, "HardLimit"},
		{"zero gamma", func(c *Config) { c.Gamma = 0 }, "Gamma"},
		{"negative hill climb iterations", func(c *Config) { c.HillClimbIterations = -1 }, "HillClimbIterations"},
		{"zero clustering iterations", func(c *Config) { c.ClusteringMaxIterations = 0 }, "ClusteringMaxIterations"},
		{"zero final temperature", func(c *Config) { c.FinalTemperature = 0 }, "FinalTemperature"},
		{"initial below final", func(c *Config) { c.InitialTemperature = 1e-9 }, "InitialTemperature"},
		{"cooling factor zero", func(c *Config) { c.CoolingFactor = 0 }, "CoolingFactor"},
		{"cooling factor one", func(c *Config) { c.CoolingFactor = 1 }, "CoolingFactor"},
		{"zero annealing iterations", func(c *Config) { c.AnnealingIterations = 0 }, "AnnealingIterations"},
		{"zero strength", func(c *Config) { c.AnnealingStrength = 0 }, "AnnealingStrength"},
		{"negative window", func(c *Config) { c.EarlyTerminationWindow = -1 }, "EarlyTerminationWindow"},
		{"negative phi epsilon", func(c *Config) { c.PhiEpsilon = -1 }, "PhiEpsilon"},
		{"zero shard size", func(c *Config) { c.MaxShardBytes = 0 }, "MaxShardBytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Expected a ConfigError, got %T", err)
			}
			if ce.Param != tt.param {
				t.Errorf("Expected the error to name %s, got %s", tt.param, ce.Param)
			}
		})
	}
}

func TestEffectiveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	if got := cfg.effectiveSeed(); got != 42 {
		t.Errorf("Expected configured seed 42, got %d", got)
	}
	cfg.Seed = 0
	if got := cfg.effectiveSeed(); got <= 0 {
		t.Errorf("Expected a positive time-based seed, got %d", got)
	}
}
