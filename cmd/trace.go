package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/store"
)

var (
	traceDirFlag string
	traceTail    int
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Print the statistics trace of a run directory",
	Long: `Prints the per-step statistics recorded during annealing: the
temperature schedule, evaluation counts, archive occupancy, feasibility
on constrained problems and the phi convergence measure.`,
	RunE: runShowTrace,
}

func init() {
	traceCmd.Flags().StringVar(&traceDirFlag, "dir", "", "Run checkpoint directory")
	traceCmd.Flags().IntVar(&traceTail, "tail", 0, "Show only the last N entries (0 = all)")
	traceCmd.MarkFlagRequired("dir")
	rootCmd.AddCommand(traceCmd)
}

func runShowTrace(cmd *cobra.Command, args []string) error {
	reader, err := store.NewTraceReader(traceDirFlag)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("No trace found.")
			return nil
		}
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer reader.Close()

	entries, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	if traceTail > 0 && len(entries) > traceTail {
		entries = entries[len(entries)-traceTail:]
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEMPERATURE\tEVALS\tARCHIVE\tFEASIBLE\tPHI\tTIME")
	fmt.Fprintln(w, "-----------\t-----\t-------\t--------\t---\t----")
	for _, e := range entries {
		feasible := "-"
		if e.Constraints != nil {
			feasible = strconv.Itoa(e.Constraints.Feasible)
		}
		fmt.Fprintf(w, "%.6g\t%d\t%d\t%s\t%.6g\t%s\n",
			e.Temperature, e.Evaluations, e.ArchiveSize, feasible, e.Phi, e.Timestamp.Format("15:04:05"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nTotal entries: %d\n", len(entries))
	return nil
}
