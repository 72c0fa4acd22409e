package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/output"
)

var goalsClient string

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Check each of a client's goals against the projected trajectory",
	RunE:  runGoals,
}

func init() {
	goalsCmd.Flags().StringVarP(&goalsClient, "client", "c", "", "Client id (required)")
	_ = goalsCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(goalsCmd)
}

func runGoals(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	analyses, err := pl.engine.AnalyzeClientGoals(cmd.Context(), goalsClient)
	if err != nil {
		return err
	}
	if len(analyses) == 0 {
		fmt.Printf("Client %s has no goals on file.\n", goalsClient)
		return nil
	}
	return printReport(&output.Report{Goals: analyses})
}
