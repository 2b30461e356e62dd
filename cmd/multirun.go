package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/anneal"
	"github.com/EMACC99/amosa/internal/problems"
)

var multirunRuns int

var multirunCmd = &cobra.Command{
	Use:   "multirun",
	Short: "Run several searches in parallel and merge the fronts",
	Long: `Executes independent annealing runs concurrently and merges their
archives into a single non-dominated front. Cache and checkpoint
directories get a per-run suffix so the runs do not collide.`,
	RunE: runMultirun,
}

func init() {
	multirunCmd.Flags().IntVar(&multirunRuns, "runs", 2, "Number of parallel runs")
	addRunFlags(multirunCmd)
	rootCmd.AddCommand(multirunCmd)
}

func runMultirun(cmd *cobra.Command, args []string) error {
	if multirunRuns < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}
	problem, err := problems.ByName(problemName)
	if err != nil {
		return err
	}

	base := configFromFlags()
	configs := make([]anneal.Config, multirunRuns)
	for i := range configs {
		cfg := base
		if cfg.CacheDir != "" {
			cfg.CacheDir = fmt.Sprintf("%s-%d", cfg.CacheDir, i)
		}
		if cfg.CheckpointDir != "" {
			cfg.CheckpointDir = fmt.Sprintf("%s-%d", cfg.CheckpointDir, i)
		}
		if cfg.Seed > 0 {
			cfg.Seed += int64(i)
		}
		configs[i] = cfg
	}

	slog.Info("Starting parallel optimization", "problem", problemName, "runs", multirunRuns)
	start := time.Now()
	arch, err := anneal.MultiRun(cmd.Context(), problem, configs, anneal.RunOptions{
		PriorArchive:    priorArchive,
		KeepCheckpoints: keepCheckpoints,
		LiveProgress:    liveProgress,
	})
	if err != nil {
		return fmt.Errorf("parallel optimization failed: %w", err)
	}

	if err := exportArchive(arch); err != nil {
		return err
	}

	fmt.Printf("Merged %d runs into %d non-dominated solutions in %s\n",
		multirunRuns, arch.Len(), time.Since(start).Round(time.Millisecond))
	return nil
}
