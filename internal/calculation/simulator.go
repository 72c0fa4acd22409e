package calculation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/pkg/dateutil"
	"github.com/wpgo/wealth-planner/pkg/money"
)

// Simulate produces the monthly wealth series for one parameter set: one
// point per calendar month from January of startYear through December of
// endYear. Each month applies compound growth first, then every event whose
// window covers the month, and rounds the running value to cents; the rounded
// value is what the next month compounds on. That ordering and rounding
// policy is what saved fixtures are computed against, so it must not change.
//
// Simulate is a pure function: identical inputs yield identical output and
// the input slice is never mutated. Degenerate ranges (endYear < startYear)
// yield an empty series; input validation is the caller's responsibility.
func Simulate(initialValue decimal.Decimal, events []domain.ProjectionEvent, annualRate decimal.Decimal, startYear, endYear int) []domain.ProjectionPoint {
	if endYear < startYear {
		return nil
	}

	months := (endYear - startYear + 1) * 12
	factor := money.MonthlyGrowthFactor(annualRate)
	simStart := dateutil.YearStart(startYear)

	points := make([]domain.ProjectionPoint, 0, months)
	value := initialValue
	for i := 0; i < months; i++ {
		current := dateutil.AddMonths(simStart, i)

		value = value.Mul(factor)

		var fired []domain.ProjectionEvent
		for _, ev := range events {
			if eventApplies(ev, current, simStart) {
				value = value.Add(ev.Value)
				fired = append(fired, ev)
			}
		}

		value = money.RoundCents(value)
		points = append(points, domain.ProjectionPoint{
			Year:           current.Year(),
			Month:          int(current.Month()),
			ProjectedValue: value,
			Events:         fired,
		})
	}
	return points
}

// eventApplies reports whether an event fires in the given month.
// Frequencies compare at month precision:
//   - once fires in the month of its start date, or in the first simulated
//     month when it has none;
//   - monthly fires in every month of [StartDate, EndDate], with nil bounds
//     leaving that side open;
//   - yearly fires in its start date's calendar month every year of the
//     window, defaulting to January when it has no start date.
//
// Unrecognized frequencies degrade to once.
func eventApplies(ev domain.ProjectionEvent, month, simStart time.Time) bool {
	switch ev.Frequency.Normalize() {
	case domain.FrequencyMonthly:
		return dateutil.WithinMonths(month, ev.StartDate, ev.EndDate)
	case domain.FrequencyYearly:
		fireMonth := time.January
		if ev.StartDate != nil {
			fireMonth = ev.StartDate.Month()
		}
		if month.Month() != fireMonth {
			return false
		}
		return dateutil.WithinMonths(month, ev.StartDate, ev.EndDate)
	default:
		if ev.StartDate == nil {
			return dateutil.SameMonth(month, simStart)
		}
		return dateutil.SameMonth(month, *ev.StartDate)
	}
}

// newProjection wraps a simulated series in its summary: the final value is
// the last point's value and the total return is measured against the
// initial balance. An empty series reports the initial value unchanged.
func newProjection(clientID string, initialValue, annualRate decimal.Decimal, points []domain.ProjectionPoint) *domain.WealthProjection {
	final := initialValue
	if len(points) > 0 {
		final = points[len(points)-1].ProjectedValue
	}
	return &domain.WealthProjection{
		ClientID:         clientID,
		InitialValue:     initialValue,
		AnnualRate:       annualRate,
		ProjectionPoints: points,
		FinalValue:       final,
		TotalReturn:      final.Sub(initialValue),
	}
}
