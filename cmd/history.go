package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/internal/output"
)

var (
	historyClient    string
	historyPage      int
	historyLimit     int
	historyTags      []string
	historySortBy    string
	historySortOrder string

	updateName        string
	updateDescription string
	updateTags        []string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Work with saved simulations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a client's saved simulations",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved simulation including its projection payload",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCompareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id...]",
	Short: "Compare between 2 and 5 saved simulations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runHistoryCompare,
}

var historyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a saved simulation's name, description or tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryUpdate,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved simulation",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate a client's saved simulations",
	RunE:  runHistoryStats,
}

func init() {
	historyListCmd.Flags().StringVarP(&historyClient, "client", "c", "", "Client id (required)")
	historyListCmd.Flags().IntVar(&historyPage, "page", 1, "Page number")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", domain.DefaultListLimit, "Page size")
	historyListCmd.Flags().StringSliceVar(&historyTags, "tags", nil, "Only simulations carrying any of these tags")
	historyListCmd.Flags().StringVar(&historySortBy, "sort-by", domain.SortByCreatedAt, "Sort key (createdAt, finalValue, totalReturn)")
	historyListCmd.Flags().StringVar(&historySortOrder, "sort-order", domain.SortDesc, "Sort order (asc, desc)")
	_ = historyListCmd.MarkFlagRequired("client")

	historyUpdateCmd.Flags().StringVar(&updateName, "name", "", "New name")
	historyUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	historyUpdateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "Replacement tag set")

	historyStatsCmd.Flags().StringVarP(&historyClient, "client", "c", "", "Client id (required)")
	_ = historyStatsCmd.MarkFlagRequired("client")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCompareCmd)
	historyCmd.AddCommand(historyUpdateCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	page, err := pl.history.List(cmd.Context(), historyClient, domain.ListOptions{
		Page:      historyPage,
		Limit:     historyLimit,
		Tags:      historyTags,
		SortBy:    historySortBy,
		SortOrder: historySortOrder,
	})
	if err != nil {
		return err
	}
	return printReport(&output.Report{History: page})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	sim, err := pl.history.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printReport(&output.Report{Simulation: sim})
}

func runHistoryCompare(cmd *cobra.Command, args []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	result, err := pl.history.Compare(cmd.Context(), args)
	if err != nil {
		return err
	}
	return printReport(&output.Report{Comparison: result})
}

func runHistoryUpdate(cmd *cobra.Command, args []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	var update domain.MetadataUpdate
	if cmd.Flags().Changed("name") {
		update.Name = &updateName
	}
	if cmd.Flags().Changed("description") {
		update.Description = &updateDescription
	}
	if cmd.Flags().Changed("tags") {
		update.Tags = updateTags
	}

	sim, err := pl.history.UpdateMetadata(cmd.Context(), args[0], update)
	if err != nil {
		return err
	}
	return printReport(&output.Report{Simulation: sim})
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	if err := pl.history.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted simulation %s\n", args[0])
	return nil
}

func runHistoryStats(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	stats, err := pl.history.StatsForClient(cmd.Context(), historyClient)
	if err != nil {
		return err
	}
	return printReport(&output.Report{Stats: stats})
}
