package output

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/pkg/money"
)

// ConsoleFormatter renders a plain-text report of whichever sections the
// Report carries.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if report.Client != nil {
		writeClient(&buf, report.Client)
	}
	if report.Projection != nil {
		writeProjection(&buf, report.Projection)
	}
	if len(report.Goals) > 0 {
		writeGoals(&buf, report.Goals)
	}
	if len(report.Suggestions) > 0 {
		writeSuggestions(&buf, report.Suggestions)
	}
	if report.Impact != nil {
		writeImpact(&buf, report.Impact)
	}
	if report.Insurance != nil {
		writeInsurance(&buf, report.Insurance)
	}
	if report.Simulation != nil {
		writeSimulation(&buf, report.Simulation)
	}
	if report.History != nil {
		writeHistory(&buf, report.History)
	}
	if report.Comparison != nil {
		writeComparison(&buf, report.Comparison)
	}
	if report.Stats != nil {
		writeStats(&buf, report.Stats)
	}

	return buf.Bytes(), nil
}

func banner(buf *bytes.Buffer, title string) {
	fmt.Fprintln(buf, title)
	fmt.Fprintln(buf, strings.Repeat("=", len(title)))
}

func ratePercent(rate decimal.Decimal) string {
	return FormatPercentage(rate.Mul(decimal.NewFromInt(100)))
}

func writeClient(buf *bytes.Buffer, client *domain.Client) {
	title := fmt.Sprintf("CLIENT: %s (%s)", client.Name, client.ID)
	if client.Name == "" {
		title = fmt.Sprintf("CLIENT: %s", client.ID)
	}
	banner(buf, title)
	fmt.Fprintf(buf, "Wallet Total:  %s\n", FormatCurrency(client.Wallet.TotalValue))
	if len(client.Wallet.Allocation) > 0 {
		classes := make([]string, 0, len(client.Wallet.Allocation))
		for class := range client.Wallet.Allocation {
			classes = append(classes, class)
		}
		sort.Strings(classes)
		parts := make([]string, 0, len(classes))
		for _, class := range classes {
			parts = append(parts, fmt.Sprintf("%s %s%%", class, client.Wallet.Allocation[class].String()))
		}
		fmt.Fprintf(buf, "Allocation:    %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(buf, "Events:        %d\n", len(client.Events))
	fmt.Fprintf(buf, "Goals:         %d\n", len(client.Goals))
	fmt.Fprintln(buf)
}

func writeProjection(buf *bytes.Buffer, projection *domain.WealthProjection) {
	banner(buf, "WEALTH PROJECTION")
	fmt.Fprintf(buf, "Client:         %s\n", projection.ClientID)
	fmt.Fprintf(buf, "Initial Value:  %s\n", FormatCurrency(projection.InitialValue))
	fmt.Fprintf(buf, "Annual Rate:    %s\n", ratePercent(projection.AnnualRate))
	fmt.Fprintf(buf, "Horizon:        %d-%d (%d years)\n", projection.StartYear(), projection.EndYear(), projection.Years())
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "YEAR-END VALUES")
	fmt.Fprintln(buf, "---------------")
	for _, pt := range calculation.AnnualView(projection) {
		fmt.Fprintf(buf, "  %d  %14s\n", pt.Year, FormatCurrency(pt.ProjectedValue))
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "Final Value:   %s\n", FormatCurrency(projection.FinalValue))
	change := money.PercentChange(projection.InitialValue, projection.FinalValue)
	if projection.TotalReturn.GreaterThan(decimal.Zero) {
		fmt.Fprintf(buf, "Total Return:  +%s (+%s)\n", FormatCurrency(projection.TotalReturn), FormatPercentage(change))
	} else {
		fmt.Fprintf(buf, "Total Return:  %s (%s)\n", FormatCurrency(projection.TotalReturn), FormatPercentage(change))
	}
	fmt.Fprintln(buf)
}

func writeGoals(buf *bytes.Buffer, goals []domain.GoalAnalysis) {
	banner(buf, "GOAL FEASIBILITY")
	fmt.Fprintf(buf, "%-20s %14s %12s %14s %14s   %s\n", "GOAL", "AMOUNT", "TARGET", "PROJECTED", "GAP", "STATUS")
	fmt.Fprintln(buf, strings.Repeat("-", 85))
	for _, ga := range goals {
		status := "at risk"
		if ga.Feasible {
			status = "on track"
		}
		fmt.Fprintf(buf, "%-20s %14s %12s %14s %14s   %s\n",
			ga.Goal.ID,
			FormatCurrency(ga.Goal.Amount),
			ga.Goal.TargetAt.Format("2006-01"),
			FormatCurrency(ga.ProjectedValue),
			FormatCurrency(ga.Gap),
			status,
		)
	}
	fmt.Fprintln(buf)
}

func writeSuggestions(buf *bytes.Buffer, suggestions []domain.Suggestion) {
	banner(buf, fmt.Sprintf("SUGGESTIONS (%d)", len(suggestions)))
	for i, s := range suggestions {
		fmt.Fprintf(buf, "\n%d. [%s] %s\n", i+1, strings.ToUpper(string(s.Priority)), s.Title)
		fmt.Fprintf(buf, "   %s\n", s.Description)
		if s.Impact.MonthlyAmount != nil {
			fmt.Fprintf(buf, "   Monthly Amount:  %s\n", FormatCurrency(*s.Impact.MonthlyAmount))
		}
		if s.Impact.TotalAmount != nil {
			fmt.Fprintf(buf, "   Total Amount:    %s\n", FormatCurrency(*s.Impact.TotalAmount))
		}
		if s.Impact.TimeframeMonths != nil {
			fmt.Fprintf(buf, "   Timeframe:       %d months\n", *s.Impact.TimeframeMonths)
		}
		if s.Impact.ProjectedGain != nil {
			fmt.Fprintf(buf, "   Projected Gain:  %s\n", FormatCurrency(*s.Impact.ProjectedGain))
		}
	}
	fmt.Fprintln(buf)
}

func writeImpact(buf *bytes.Buffer, impact *ImpactComparison) {
	banner(buf, fmt.Sprintf("SUGGESTION IMPACT: %s", impact.Suggestion.Title))
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "%-25s %14s %14s %14s\n", "COMPONENT", "BASE", "ADJUSTED", "DIFFERENCE")
	fmt.Fprintln(buf, strings.Repeat("-", 71))
	impactLine(buf, "Final Value", impact.Base.FinalValue, impact.Adjusted.FinalValue)
	impactLine(buf, "Total Return", impact.Base.TotalReturn, impact.Adjusted.TotalReturn)
	fmt.Fprintln(buf)

	diff := impact.Adjusted.FinalValue.Sub(impact.Base.FinalValue)
	change := money.PercentChange(impact.Base.FinalValue, impact.Adjusted.FinalValue)
	if diff.GreaterThan(decimal.Zero) {
		fmt.Fprintf(buf, "Net Effect: +%s (+%s)\n", FormatCurrency(diff), FormatPercentage(change))
	} else {
		fmt.Fprintf(buf, "Net Effect: %s (%s)\n", FormatCurrency(diff), FormatPercentage(change))
	}
	fmt.Fprintln(buf)
}

func impactLine(buf *bytes.Buffer, label string, base, adjusted decimal.Decimal) {
	diff := adjusted.Sub(base)
	fmt.Fprintf(buf, "%-25s %14s %14s %14s\n", label, FormatCurrency(base), FormatCurrency(adjusted), FormatCurrency(diff))
}

func writeInsurance(buf *bytes.Buffer, summary *domain.InsuranceSummary) {
	banner(buf, fmt.Sprintf("INSURANCE COVERAGE: %s", summary.ClientID))
	fmt.Fprintf(buf, "Monthly Premium:  %s\n", FormatCurrency(summary.MonthlyPremium))
	fmt.Fprintf(buf, "Annual Premium:   %s\n", FormatCurrency(summary.AnnualPremium))
	fmt.Fprintf(buf, "Premium Events:   %d\n", summary.PremiumEvents)
	if len(summary.CoverageGoals) > 0 {
		fmt.Fprintf(buf, "Coverage Goals:   %s\n", strings.Join(summary.CoverageGoals, ", "))
	} else {
		fmt.Fprintln(buf, "Coverage Goals:   none")
	}
	fmt.Fprintln(buf)
}

func writeSimulation(buf *bytes.Buffer, sim *domain.SimulationMetadata) {
	banner(buf, fmt.Sprintf("SIMULATION %s: %s", sim.ID, sim.Name))
	fmt.Fprintf(buf, "Client:         %s\n", sim.ClientID)
	if sim.Description != "" {
		fmt.Fprintf(buf, "Description:    %s\n", sim.Description)
	}
	if len(sim.Tags) > 0 {
		fmt.Fprintf(buf, "Tags:           %s\n", strings.Join(sim.Tags, ", "))
	}
	fmt.Fprintf(buf, "Created:        %s\n", sim.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(buf, "Updated:        %s\n", sim.UpdatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(buf, "Initial Value:  %s\n", FormatCurrency(sim.Parameters.InitialValue))
	fmt.Fprintf(buf, "Annual Rate:    %s\n", ratePercent(sim.Parameters.AnnualRate))
	fmt.Fprintf(buf, "Final Value:    %s\n", FormatCurrency(sim.Results.FinalValue))
	fmt.Fprintf(buf, "Total Return:   %s\n", FormatCurrency(sim.Results.TotalReturn))
	fmt.Fprintf(buf, "Years:          %d\n", sim.Results.ProjectionYears)
	if sim.Projection != nil {
		fmt.Fprintf(buf, "Payload:        %d monthly points\n", len(sim.Projection.ProjectionPoints))
	}
	fmt.Fprintln(buf)
}

func writeHistory(buf *bytes.Buffer, page *domain.SimulationPage) {
	banner(buf, fmt.Sprintf("SAVED SIMULATIONS (%d total, page %d of %d)", page.Total, page.Page, page.TotalPages))
	fmt.Fprintf(buf, "%-14s %-17s %14s %14s   %s\n", "ID", "CREATED", "FINAL VALUE", "TOTAL RETURN", "NAME")
	fmt.Fprintln(buf, strings.Repeat("-", 85))
	for _, sim := range page.Simulations {
		name := sim.Name
		if len(sim.Tags) > 0 {
			name = fmt.Sprintf("%s [%s]", name, strings.Join(sim.Tags, ", "))
		}
		fmt.Fprintf(buf, "%-14s %-17s %14s %14s   %s\n",
			sim.ID,
			sim.CreatedAt.Format("2006-01-02 15:04"),
			FormatCurrency(sim.Results.FinalValue),
			FormatCurrency(sim.Results.TotalReturn),
			name,
		)
	}
	fmt.Fprintln(buf)
}

func writeComparison(buf *bytes.Buffer, result *domain.ComparisonResult) {
	banner(buf, fmt.Sprintf("SIMULATION COMPARISON (%d runs)", len(result.Simulations)))
	fmt.Fprintf(buf, "%-14s %-24s %14s %14s\n", "ID", "NAME", "FINAL VALUE", "TOTAL RETURN")
	fmt.Fprintln(buf, strings.Repeat("-", 70))
	for _, sim := range result.Simulations {
		fmt.Fprintf(buf, "%-14s %-24s %14s %14s\n",
			sim.ID,
			sim.Name,
			FormatCurrency(sim.Results.FinalValue),
			FormatCurrency(sim.Results.TotalReturn),
		)
	}
	fmt.Fprintln(buf)
	fmt.Fprintf(buf, "Best:                  %s (%s)\n", result.Comparison.Best.Name, FormatCurrency(result.Comparison.Best.FinalValue))
	fmt.Fprintf(buf, "Worst:                 %s (%s)\n", result.Comparison.Worst.Name, FormatCurrency(result.Comparison.Worst.FinalValue))
	fmt.Fprintf(buf, "Average Final Value:   %s\n", FormatCurrency(result.Comparison.AverageFinalValue))
	fmt.Fprintf(buf, "Average Total Return:  %s\n", FormatCurrency(result.Comparison.AverageTotalReturn))
	fmt.Fprintln(buf)
}

func writeStats(buf *bytes.Buffer, stats *domain.ClientStats) {
	banner(buf, "CLIENT ACTIVITY")
	fmt.Fprintf(buf, "Total Simulations:    %d\n", stats.TotalSimulations)
	fmt.Fprintf(buf, "Average Final Value:  %s\n", FormatCurrency(stats.AverageFinalValue))
	if stats.BestSimulation != nil {
		fmt.Fprintf(buf, "Best Simulation:      %s (%s)\n", stats.BestSimulation.Name, FormatCurrency(stats.BestSimulation.FinalValue))
	} else {
		fmt.Fprintln(buf, "Best Simulation:      none")
	}
	if stats.RecentActivity.LastSimulation != nil {
		fmt.Fprintf(buf, "Last Simulation:      %s\n", stats.RecentActivity.LastSimulation.Format("2006-01-02 15:04"))
	} else {
		fmt.Fprintln(buf, "Last Simulation:      never")
	}
	fmt.Fprintf(buf, "Last 30 Days:         %d\n", stats.RecentActivity.Last30Days)
	fmt.Fprintln(buf)
}
