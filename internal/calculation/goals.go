package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/domain"
)

// AnalyzeGoals measures each goal against a projection: the value the
// trajectory reaches in the goal's target month, the gap to the target
// amount, and whether the goal is feasible (gap <= 0).
//
// When the target month falls outside the simulated horizon the projection's
// final value stands in for it. Downstream consumers rely on that fallback;
// do not turn it into an error.
func AnalyzeGoals(goals []domain.Goal, projection *domain.WealthProjection) []domain.GoalAnalysis {
	analyses := make([]domain.GoalAnalysis, 0, len(goals))
	for _, goal := range goals {
		projected := projection.FinalValue
		if pt, ok := projection.PointAt(goal.TargetAt.Year(), goal.TargetAt.Month()); ok {
			projected = pt.ProjectedValue
		}

		gap := goal.Amount.Sub(projected)
		analyses = append(analyses, domain.GoalAnalysis{
			Goal:           goal,
			ProjectedValue: projected,
			Gap:            gap,
			Feasible:       gap.LessThanOrEqual(decimal.Zero),
		})
	}
	return analyses
}
