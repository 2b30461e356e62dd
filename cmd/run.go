package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/anneal"
	"github.com/EMACC99/amosa/internal/moo"
	"github.com/EMACC99/amosa/internal/problems"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single optimization",
	Long: `Runs the annealing search on a benchmark problem and writes the
resulting Pareto front. With a checkpoint directory set, an interrupted
run resumes from its last temperature step.`,
	RunE: runOptimization,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runOptimization(cmd *cobra.Command, args []string) error {
	problem, err := problems.ByName(problemName)
	if err != nil {
		return err
	}

	optimizer, err := anneal.New(configFromFlags())
	if err != nil {
		return err
	}

	slog.Info("Starting optimization", "problem", problemName)
	arch, err := optimizer.Run(problem, anneal.RunOptions{
		PriorArchive:    priorArchive,
		KeepCheckpoints: keepCheckpoints,
		LiveProgress:    liveProgress,
	})
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	if err := exportArchive(arch); err != nil {
		return err
	}

	fmt.Printf("Found %d non-dominated solutions in %s (%d evaluations, %d cache hits)\n",
		arch.Len(), optimizer.Duration().Round(time.Millisecond), optimizer.Evaluations(), optimizer.CacheHits())
	return nil
}

// exportArchive writes the archive to the requested output files.
func exportArchive(arch *moo.Archive) error {
	if csvPath != "" {
		if err := arch.WriteCSV(csvPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := arch.WriteJSON(jsonPath); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", jsonPath)
	}
	return nil
}
