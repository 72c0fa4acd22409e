// Package money collects the decimal arithmetic conventions shared by the
// projection and history code: amounts are shopspring decimals, rounded to
// cents whenever they are observable, and rates are plain decimal fractions.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// RoundCents rounds an amount to cents, halves away from zero.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MonthlyRate converts an annual growth rate to its monthly equivalent.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve)
}

// MonthlyGrowthFactor returns 1 + annualRate/12, the factor a balance is
// multiplied by for one month of compounding.
func MonthlyGrowthFactor(annualRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(MonthlyRate(annualRate))
}

// CeilWhole rounds an amount up to the next whole currency unit.
func CeilWhole(d decimal.Decimal) decimal.Decimal {
	return d.Ceil()
}

// PercentChange returns the relative change from one amount to another in
// percent, rounded to cents. A zero base reports zero change rather than
// dividing by zero.
func PercentChange(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return to.Sub(from).Div(from).Mul(hundred).Round(2)
}

// Average returns the mean of the given amounts rounded to cents, or zero for
// an empty slice.
func Average(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum.Div(decimal.NewFromInt(int64(len(amounts)))).Round(2)
}
