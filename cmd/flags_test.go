package main

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/anneal"
)

func TestConfigFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)

	cfg := configFromFlags()
	def := anneal.DefaultConfig()
	if cfg.HardLimit != def.HardLimit || cfg.SoftLimit != def.SoftLimit || cfg.CoolingFactor != def.CoolingFactor {
		t.Errorf("Expected the default configuration from unparsed flags, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected the default flag set to validate, got %v", err)
	}

	if err := cmd.ParseFlags([]string{"--hard-limit", "7", "--cooling", "0.8", "--cache-dir", "data/cache"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}
	cfg = configFromFlags()
	if cfg.HardLimit != 7 {
		t.Errorf("Expected hard limit 7, got %d", cfg.HardLimit)
	}
	if cfg.CoolingFactor != 0.8 {
		t.Errorf("Expected cooling factor 0.8, got %v", cfg.CoolingFactor)
	}
	if cfg.CacheDir != "data/cache" {
		t.Errorf("Expected cache directory data/cache, got %s", cfg.CacheDir)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.bytes); got != tt.want {
			t.Errorf("Expected %s for %d bytes, got %s", tt.want, tt.bytes, got)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "0123456789ab..." {
		t.Errorf("Expected a truncated ID, got %s", got)
	}
	if got := shortID("short"); got != "short" {
		t.Errorf("Expected short IDs to pass through, got %s", got)
	}
}
