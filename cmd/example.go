package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/config"
)

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write an example plan file to import from",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(_ *cobra.Command, args []string) error {
	path := "wealth-plan.example.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	if err := config.NewPlanParser().WriteExamplePlan(path); err != nil {
		return err
	}
	fmt.Printf("Example plan written to %s\n", path)
	fmt.Printf("Load it with: wpgo import %s\n", path)
	return nil
}
