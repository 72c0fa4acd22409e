package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/config"
)

var importCmd = &cobra.Command{
	Use:   "import <plan.yaml>",
	Short: "Validate a YAML plan file and load its clients into the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	parser := config.NewPlanParser()
	plan, err := parser.LoadFromFile(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	for i := range plan.Clients {
		client := plan.Clients[i]
		if err := pl.store.PutClient(ctx, &client); err != nil {
			return fmt.Errorf("storing client %s: %w", client.ID, err)
		}
		pl.engine.InvalidateClient(client.ID)
		pl.logger.Infof("imported client %s (%d events, %d goals)", client.ID, len(client.Events), len(client.Goals))
	}

	fmt.Printf("Imported %d clients from %s\n", len(plan.Clients), args[0])
	return nil
}
