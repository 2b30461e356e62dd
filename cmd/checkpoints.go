package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/store"
)

var (
	checkpointsDirFlag string
	forceClean         bool
)

var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Inspect and clean run checkpoints",
	Long: `Inspect or delete the checkpoint files of a run directory.
Checkpoints let an interrupted optimization resume from saved state.`,
}

var showCheckpointsCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the checkpoints in a run directory",
	RunE:  runShowCheckpoints,
}

var cleanCheckpointsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the checkpoints in a run directory",
	RunE:  runCleanCheckpoints,
}

func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.AddCommand(showCheckpointsCmd)
	checkpointsCmd.AddCommand(cleanCheckpointsCmd)

	checkpointsCmd.PersistentFlags().StringVar(&checkpointsDirFlag, "dir", "", "Run checkpoint directory")
	checkpointsCmd.MarkPersistentFlagRequired("dir")

	cleanCheckpointsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

func runShowCheckpoints(cmd *cobra.Command, args []string) error {
	manager, err := store.NewManager(checkpointsDirFlag)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint directory: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tRUN ID\tSAVED\tDETAILS")
	fmt.Fprintln(w, "----\t------\t-----\t-------")

	found := false
	cp, err := manager.LoadRun()
	switch {
	case err == nil:
		found = true
		fmt.Fprintf(w, "%s\t%s\t%s\ttemperature=%.6g evaluations=%d archive=%d\n",
			filepath.Base(manager.RunPath()),
			shortID(cp.RunID),
			cp.Timestamp.Format("2006-01-02 15:04:05"),
			cp.Temperature,
			cp.Evaluations,
			len(cp.Archive))
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	sc, err := manager.LoadSeed()
	switch {
	case err == nil:
		found = true
		fmt.Fprintf(w, "%s\t%s\t%s\tcandidates=%d\n",
			filepath.Base(manager.SeedPath()),
			shortID(sc.RunID),
			sc.Timestamp.Format("2006-01-02 15:04:05"),
			sc.Completed)
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if !found {
		fmt.Println("No checkpoints found.")
		return nil
	}
	return w.Flush()
}

func runCleanCheckpoints(cmd *cobra.Command, args []string) error {
	manager, err := store.NewManager(checkpointsDirFlag)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint directory: %w", err)
	}

	if !forceClean {
		fmt.Printf("Delete checkpoints under %s? [y/N]: ", manager.Dir())
		var response string
		fmt.Scanln(&response)
		if response != "y" && response != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := manager.Clear(); err != nil {
		return fmt.Errorf("failed to clean checkpoints: %w", err)
	}
	fmt.Println("Checkpoints deleted.")
	return nil
}

// shortID truncates run identifiers for table display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
