package domain

import (
	"github.com/shopspring/decimal"
)

// SuggestionType enumerates the remediation shapes the generator can emit.
type SuggestionType string

const (
	SuggestionIncreaseContribution SuggestionType = "increase_contribution"
	SuggestionReduceExpenses       SuggestionType = "reduce_expenses"
	SuggestionAdjustAllocation     SuggestionType = "adjust_allocation"
	SuggestionExtendTimeline       SuggestionType = "extend_timeline"
	SuggestionReduceGoal           SuggestionType = "reduce_goal"
)

// Category returns the reporting category a suggestion type belongs to.
func (t SuggestionType) Category() SuggestionCategory {
	switch t {
	case SuggestionIncreaseContribution, SuggestionReduceExpenses:
		return CategoryContribution
	case SuggestionAdjustAllocation:
		return CategoryAllocation
	case SuggestionExtendTimeline:
		return CategoryTimeline
	case SuggestionReduceGoal:
		return CategoryGoal
	default:
		return CategoryGoal
	}
}

// SuggestionPriority ranks suggestions for presentation.
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// Weight returns the sort weight of a priority; higher sorts first.
func (p SuggestionPriority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// SuggestionCategory groups suggestions by the lever they pull.
type SuggestionCategory string

const (
	CategoryContribution SuggestionCategory = "contribution"
	CategoryAllocation   SuggestionCategory = "allocation"
	CategoryTimeline     SuggestionCategory = "timeline"
	CategoryGoal         SuggestionCategory = "goal"
)

// SuggestionImpact quantifies what adopting a suggestion would change. Only
// the fields relevant to the suggestion's type are set.
type SuggestionImpact struct {
	MonthlyAmount   *decimal.Decimal `json:"monthlyAmount,omitempty"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
	TimeframeMonths *int             `json:"timeframeMonths,omitempty"`
	ProjectedGain   *decimal.Decimal `json:"projectedGain,omitempty"`
}

// Suggestion is a heuristic, human-readable remediation proposal for an
// infeasible goal or a concentrated allocation. Suggestions are recomputed on
// every request and never persisted directly.
type Suggestion struct {
	ID          string             `json:"id"`
	Type        SuggestionType     `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Impact      SuggestionImpact   `json:"impact"`
	Priority    SuggestionPriority `json:"priority"`
	Category    SuggestionCategory `json:"category"`
}
