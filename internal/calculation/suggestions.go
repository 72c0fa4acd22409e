package calculation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/pkg/dateutil"
	"github.com/wpgo/wealth-planner/pkg/money"
)

// Thresholds and step sizes for the remediation heuristics. These are
// product-tuned constants, not derived quantities.
var (
	priorityHighGap        = decimal.NewFromInt(100000)
	priorityMediumGap      = decimal.NewFromInt(50000)
	extensionStep          = decimal.NewFromInt(1000)
	concentrationThreshold = decimal.NewFromInt(60)
	allocationGainRate     = decimal.NewFromFloat(0.15)
)

// SuggestionGenerator derives ranked remediation suggestions from goal
// analyses. Suggestions are heuristic by design: quick, explainable levers a
// planner can discuss, not solver output. Every call recomputes from current
// data; nothing is cached here.
type SuggestionGenerator struct {
	builder *ProjectionBuilder
	logger  Logger
	now     func() time.Time
	newID   func() string
}

// NewSuggestionGenerator wires a generator to the builder it uses for impact
// simulations. A nil logger runs silent.
func NewSuggestionGenerator(builder *ProjectionBuilder, logger Logger) *SuggestionGenerator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &SuggestionGenerator{
		builder: builder,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// SetClock replaces the time source used for months-until-target, pinning
// suggestion output for tests.
func (g *SuggestionGenerator) SetClock(now func() time.Time) {
	if now != nil {
		g.now = now
	}
}

// Generate emits suggestions for every infeasible goal plus at most one
// portfolio-level allocation suggestion, sorted by priority (high first,
// stable for ties). Feasible goals produce nothing.
//
// Per infeasible goal:
//   - increase_contribution proposes ceil(gap / monthsUntilTarget) extra per
//     month, only when the target is still in the future;
//   - extend_timeline proposes pushing the target out ceil(gap / 1000)
//     months, a deliberately rough step per thousand short;
//   - reduce_goal proposes lowering the target to amount - |gap|.
//
// The allocation suggestion fires when any single asset class holds more
// than 60% of the wallet and estimates its projected gain as 15% of the
// final value. It always carries medium priority.
func (g *SuggestionGenerator) Generate(client *domain.Client, analyses []domain.GoalAnalysis, projection *domain.WealthProjection) []domain.Suggestion {
	now := g.now()
	var suggestions []domain.Suggestion

	for _, analysis := range analyses {
		if analysis.Feasible {
			continue
		}
		gap := analysis.Gap
		priority := priorityForGap(gap)
		label := goalLabel(analysis.Goal)

		if months := dateutil.MonthsBetween(now, analysis.Goal.TargetAt); months > 0 {
			monthly := money.CeilWhole(gap.Div(decimal.NewFromInt(int64(months))))
			suggestions = append(suggestions, domain.Suggestion{
				ID:    g.newID(),
				Type:  domain.SuggestionIncreaseContribution,
				Title: fmt.Sprintf("Increase contributions toward your %s", label),
				Description: fmt.Sprintf(
					"Adding %s per month for the next %d months closes the %s shortfall on your %s.",
					formatAmount(monthly), months, formatAmount(gap), label),
				Impact:   domain.SuggestionImpact{MonthlyAmount: &monthly},
				Priority: priority,
				Category: domain.SuggestionIncreaseContribution.Category(),
			})
		}

		extension := int(money.CeilWhole(gap.Div(extensionStep)).IntPart())
		suggestions = append(suggestions, domain.Suggestion{
			ID:    g.newID(),
			Type:  domain.SuggestionExtendTimeline,
			Title: fmt.Sprintf("Extend the timeline of your %s", label),
			Description: fmt.Sprintf(
				"Moving the target date out by roughly %d months gives the current trajectory time to close the %s shortfall.",
				extension, formatAmount(gap)),
			Impact:   domain.SuggestionImpact{TimeframeMonths: &extension},
			Priority: priority,
			Category: domain.SuggestionExtendTimeline.Category(),
		})

		reduced := analysis.Goal.Amount.Sub(gap.Abs())
		suggestions = append(suggestions, domain.Suggestion{
			ID:    g.newID(),
			Type:  domain.SuggestionReduceGoal,
			Title: fmt.Sprintf("Reduce the target of your %s", label),
			Description: fmt.Sprintf(
				"Lowering the target from %s to %s makes your %s reachable on the current trajectory.",
				formatAmount(analysis.Goal.Amount), formatAmount(reduced), label),
			Impact:   domain.SuggestionImpact{TotalAmount: &reduced},
			Priority: priority,
			Category: domain.SuggestionReduceGoal.Category(),
		})
	}

	if class, pct, ok := client.Wallet.ConcentratedClass(concentrationThreshold); ok {
		gain := money.RoundCents(projection.FinalValue.Mul(allocationGainRate))
		suggestions = append(suggestions, domain.Suggestion{
			ID:    g.newID(),
			Type:  domain.SuggestionAdjustAllocation,
			Title: "Rebalance your portfolio allocation",
			Description: fmt.Sprintf(
				"%s holds %s%% of your portfolio. Diversifying could add an estimated %s over the projection.",
				class, pct.StringFixed(0), formatAmount(gain)),
			Impact:   domain.SuggestionImpact{ProjectedGain: &gain},
			Priority: domain.PriorityMedium,
			Category: domain.SuggestionAdjustAllocation.Category(),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Priority.Weight() > suggestions[j].Priority.Weight()
	})

	g.logger.Debugf("generated %d suggestions for client %s", len(suggestions), client.ID)
	return suggestions
}

// SimulateImpact shows what adopting a suggestion would do to the client's
// trajectory. Only increase_contribution has a simulated model: its monthly
// amount is injected as one extra recurring event and the simulation reruns.
// Every other type returns the unmodified base projection and carries its
// impact figures as estimates on the suggestion itself.
func (g *SuggestionGenerator) SimulateImpact(ctx context.Context, clientID string, suggestion domain.Suggestion, opts ...BuildOption) (*domain.WealthProjection, error) {
	params := g.builder.Params(opts...)

	if suggestion.Type != domain.SuggestionIncreaseContribution || suggestion.Impact.MonthlyAmount == nil {
		g.logger.Debugf("impact simulation for %s falls through to the base projection", suggestion.Type)
		return g.builder.BuildWithParams(ctx, clientID, params)
	}

	synthetic := domain.ProjectionEvent{
		Type:      "additional-contribution",
		Value:     *suggestion.Impact.MonthlyAmount,
		Frequency: domain.FrequencyMonthly,
	}
	return g.builder.buildWithExtra(ctx, clientID, params, []domain.ProjectionEvent{synthetic})
}

// priorityForGap maps a shortfall to its presentation priority.
func priorityForGap(gap decimal.Decimal) domain.SuggestionPriority {
	switch {
	case gap.GreaterThan(priorityHighGap):
		return domain.PriorityHigh
	case gap.GreaterThan(priorityMediumGap):
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// goalLabel names a goal in prose, falling back when the type label is blank.
func goalLabel(goal domain.Goal) string {
	if goal.Type == "" {
		return "goal"
	}
	return goal.Type + " goal"
}

// formatAmount renders an amount for suggestion prose.
func formatAmount(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
