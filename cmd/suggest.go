package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/output"
)

var (
	suggestClient string
	suggestApply  int
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Generate ranked suggestions for a client's infeasible goals",
	RunE:  runSuggest,
}

func init() {
	suggestCmd.Flags().StringVarP(&suggestClient, "client", "c", "", "Client id (required)")
	suggestCmd.Flags().IntVar(&suggestApply, "apply", 0, "Simulate adopting the nth suggestion (1-based)")
	_ = suggestCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(suggestCmd)
}

func runSuggest(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	ctx := cmd.Context()
	suggestions, err := pl.engine.Suggest(ctx, suggestClient)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		fmt.Printf("No suggestions for client %s: every goal is on track.\n", suggestClient)
		return nil
	}

	if suggestApply == 0 {
		return printReport(&output.Report{Suggestions: suggestions})
	}
	if suggestApply < 1 || suggestApply > len(suggestions) {
		return fmt.Errorf("--apply %d out of range: client has %d suggestions", suggestApply, len(suggestions))
	}

	chosen := suggestions[suggestApply-1]
	base, err := pl.engine.Project(ctx, suggestClient)
	if err != nil {
		return err
	}
	adjusted, err := pl.engine.SimulateSuggestionImpact(ctx, suggestClient, chosen)
	if err != nil {
		return err
	}
	return printReport(&output.Report{
		Impact: &output.ImpactComparison{Suggestion: chosen, Base: base, Adjusted: adjusted},
	})
}
