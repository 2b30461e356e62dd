package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/EMACC99/amosa/internal/moo"
	"github.com/EMACC99/amosa/internal/problems"
)

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List the built-in benchmark problems",
	RunE:  runListProblems,
}

func init() {
	rootCmd.AddCommand(problemsCmd)
}

func runListProblems(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVARIABLES\tOBJECTIVES\tCONSTRAINTS\tKNOWN FRONT")
	fmt.Fprintln(w, "----\t---------\t----------\t-----------\t-----------")

	for _, name := range problems.Names() {
		p, err := problems.ByName(name)
		if err != nil {
			return err
		}
		known := "no"
		if _, ok := moo.KnownOptimalFront(p, 1); ok {
			known = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
			name, p.NumVariables(), p.NumObjectives(), p.NumConstraints(), known)
	}
	return w.Flush()
}
