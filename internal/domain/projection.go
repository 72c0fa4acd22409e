package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency describes how often a projection event recurs.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Normalize maps missing or unrecognized frequencies to FrequencyOnce, the
// conservative reading of a malformed stored event.
func (f Frequency) Normalize() Frequency {
	switch f {
	case FrequencyOnce, FrequencyMonthly, FrequencyYearly:
		return f
	default:
		return FrequencyOnce
	}
}

// ProjectionEvent is a recurring or one-time cash flow as the simulator
// consumes it: a signed amount with an applicability window. Immutable once
// constructed for a simulation run.
type ProjectionEvent struct {
	Type      string          `yaml:"type" json:"type"`
	Value     decimal.Decimal `yaml:"value" json:"value"`
	Frequency Frequency       `yaml:"frequency" json:"frequency"`
	StartDate *time.Time      `yaml:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time      `yaml:"endDate,omitempty" json:"endDate,omitempty"`
}

// ProjectionPoint is one simulated month. Events holds the subset of input
// events that fired this month, in input order.
type ProjectionPoint struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	ProjectedValue decimal.Decimal   `json:"projectedValue"`
	Events         []ProjectionEvent `json:"events,omitempty"`
}

// Date returns the first day of the point's month in UTC.
func (p ProjectionPoint) Date() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// WealthProjection is the simulation result for one client: an ordered
// monthly value series plus the derived summary figures. Read-only after
// creation.
type WealthProjection struct {
	ClientID         string            `json:"clientId"`
	InitialValue     decimal.Decimal   `json:"initialValue"`
	AnnualRate       decimal.Decimal   `json:"annualRate"`
	ProjectionPoints []ProjectionPoint `json:"projectionPoints"`
	FinalValue       decimal.Decimal   `json:"finalValue"`
	TotalReturn      decimal.Decimal   `json:"totalReturn"`
}

// AnnualPoint is the reporting view of a projection: one value per year,
// taken from the December points.
type AnnualPoint struct {
	Year           int             `json:"year"`
	ProjectedValue decimal.Decimal `json:"projectedValue"`
}

// PointAt returns the projection point for the given calendar month, if the
// simulated horizon contains it.
func (wp *WealthProjection) PointAt(year int, month time.Month) (ProjectionPoint, bool) {
	for _, pt := range wp.ProjectionPoints {
		if pt.Year == year && pt.Month == int(month) {
			return pt, true
		}
	}
	return ProjectionPoint{}, false
}

// StartYear returns the first simulated year, or zero for an empty projection.
func (wp *WealthProjection) StartYear() int {
	if len(wp.ProjectionPoints) == 0 {
		return 0
	}
	return wp.ProjectionPoints[0].Year
}

// EndYear returns the last simulated year, or zero for an empty projection.
func (wp *WealthProjection) EndYear() int {
	if len(wp.ProjectionPoints) == 0 {
		return 0
	}
	return wp.ProjectionPoints[len(wp.ProjectionPoints)-1].Year
}

// Years returns the number of calendar years the projection spans.
func (wp *WealthProjection) Years() int {
	if len(wp.ProjectionPoints) == 0 {
		return 0
	}
	return wp.EndYear() - wp.StartYear() + 1
}

// GoalAnalysis reports how one goal fares against a projection: the value the
// trajectory reaches by the goal's target date, the shortfall, and whether
// the goal is reachable.
type GoalAnalysis struct {
	Goal           Goal            `json:"goal"`
	ProjectedValue decimal.Decimal `json:"projectedValue"`
	Gap            decimal.Decimal `json:"gap"`
	Feasible       bool            `json:"feasible"`
}
