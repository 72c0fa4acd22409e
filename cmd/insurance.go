package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/output"
)

var insuranceClient string

var insuranceCmd = &cobra.Command{
	Use:   "insurance",
	Short: "Summarize a client's insurance premiums and coverage goals",
	RunE:  runInsurance,
}

func init() {
	insuranceCmd.Flags().StringVarP(&insuranceClient, "client", "c", "", "Client id (required)")
	_ = insuranceCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(insuranceCmd)
}

func runInsurance(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	summary, err := pl.engine.InsuranceSummary(cmd.Context(), insuranceClient)
	if err != nil {
		return err
	}
	return printReport(&output.Report{Insurance: summary})
}
