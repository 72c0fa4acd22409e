package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/config"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/internal/output"
)

var (
	projectClient      string
	projectRate        string
	projectEndYear     int
	projectSave        bool
	projectName        string
	projectDescription string
	projectTags        []string
	projectExport      bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Build a client's monthly wealth projection",
	RunE:  runProject,
}

func init() {
	settings := config.FromEnv()

	projectCmd.Flags().StringVarP(&projectClient, "client", "c", "", "Client id (required)")
	projectCmd.Flags().StringVarP(&projectRate, "rate", "r", settings.AnnualRate.String(), "Annual growth rate as a fraction, e.g. 0.04")
	projectCmd.Flags().IntVarP(&projectEndYear, "end-year", "y", settings.HorizonYear, "Last simulated year")
	projectCmd.Flags().BoolVar(&projectSave, "save", false, "Save the projection to the simulation history")
	projectCmd.Flags().StringVar(&projectName, "name", "", "Name for the saved simulation")
	projectCmd.Flags().StringVar(&projectDescription, "description", "", "Description for the saved simulation")
	projectCmd.Flags().StringSliceVar(&projectTags, "tags", nil, "Tags for the saved simulation")
	projectCmd.Flags().BoolVar(&projectExport, "export", false, "Write the report to a timestamped file instead of stdout")
	_ = projectCmd.MarkFlagRequired("client")

	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, _ []string) error {
	pl, err := newPlanner()
	if err != nil {
		return err
	}
	defer pl.Close()

	opts, err := projectionOptions()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	projection, err := pl.engine.Project(ctx, projectClient, opts...)
	if err != nil {
		return err
	}
	client, err := pl.store.Client(ctx, projectClient)
	if err != nil {
		return err
	}

	if projectSave {
		sim, err := pl.history.Save(ctx, projectClient, projection, saveMetadata(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Saved simulation %s (%s)\n", sim.ID, sim.Name)
	}

	report := &output.Report{Client: client, Projection: projection}
	if projectExport {
		return exportReport(report)
	}
	return printReport(report)
}

func projectionOptions() ([]calculation.BuildOption, error) {
	rate, err := decimal.NewFromString(projectRate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate %q: %w", projectRate, err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("invalid rate %q: must be a fraction between 0 and 1", projectRate)
	}
	if year := time.Now().Year(); projectEndYear < year {
		return nil, fmt.Errorf("invalid end year %d: before current year %d", projectEndYear, year)
	}
	return []calculation.BuildOption{
		calculation.WithAnnualRate(rate),
		calculation.WithEndYear(projectEndYear),
	}, nil
}

func saveMetadata(cmd *cobra.Command) domain.MetadataUpdate {
	var meta domain.MetadataUpdate
	if cmd.Flags().Changed("name") {
		meta.Name = &projectName
	}
	if cmd.Flags().Changed("description") {
		meta.Description = &projectDescription
	}
	if len(projectTags) > 0 {
		meta.Tags = projectTags
	}
	return meta
}

func exportReport(report *output.Report) error {
	f := output.GetFormatterByName(flagFormat)
	if f == nil {
		return output.UnsupportedFormat(flagFormat)
	}
	filename, err := output.WriteFormatted(f, report, reportExtension(flagFormat))
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", filename)
	return nil
}

func reportExtension(format string) string {
	switch output.NormalizeFormatName(format) {
	case "json":
		return "json"
	case "csv", "detailed-csv":
		return "csv"
	default:
		return "txt"
	}
}
