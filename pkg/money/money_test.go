package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestRoundCents tests cent rounding with banker's rounding semantics
func TestRoundCents(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Truncation not needed", "100.10", "100.1"},
		{"Round down", "100.114", "100.11"},
		{"Round up", "100.116", "100.12"},
		{"Half rounds away from zero", "100.115", "100.12"},
		{"Negative amount", "-50.005", "-50.01"},
		{"Many fractional digits", "10033.333333", "10033.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.expected, RoundCents(d).String(),
				"Rounding %s to cents", tt.input)
		})
	}
}

// TestMonthlyGrowthFactor tests conversion of annual rates to monthly factors
func TestMonthlyGrowthFactor(t *testing.T) {
	rate := decimal.NewFromFloat(0.04)

	factor := MonthlyGrowthFactor(rate)
	balance := decimal.NewFromInt(10000)
	grown := RoundCents(balance.Mul(factor))

	assert.Equal(t, "10033.33", grown.String(),
		"10000 at 4% annual should grow to 10033.33 after one month")

	zero := MonthlyGrowthFactor(decimal.Zero)
	assert.True(t, zero.Equal(decimal.NewFromInt(1)),
		"Zero rate should give an identity growth factor")
}

// TestMonthlyRate tests the annual-to-monthly rate conversion
func TestMonthlyRate(t *testing.T) {
	rate := MonthlyRate(decimal.NewFromFloat(0.12))
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.01)),
		"12%% annual should be 1%% monthly, got %s", rate)
}

// TestCeilWhole tests rounding up to whole currency units
func TestCeilWhole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Already whole", "500", "500"},
		{"Small fraction rounds up", "500.01", "501"},
		{"Large fraction rounds up", "499.99", "500"},
		{"Negative rounds toward zero", "-10.5", "-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.input)
			assert.Equal(t, tt.expected, CeilWhole(d).String(),
				"Ceiling of %s", tt.input)
		})
	}
}

// TestPercentChange tests relative change calculation including the zero base
func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected string
	}{
		{"Growth", "10000", "10407.42", "4.07"},
		{"Decline", "200", "150", "-25"},
		{"No change", "100", "100", "0"},
		{"Zero base is safe", "0", "5000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from := decimal.RequireFromString(tt.from)
			to := decimal.RequireFromString(tt.to)
			assert.Equal(t, tt.expected, PercentChange(from, to).String(),
				"Percent change from %s to %s", tt.from, tt.to)
		})
	}
}

// TestAverage tests mean calculation over amounts
func TestAverage(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.NewFromInt(100),
		decimal.NewFromInt(200),
		decimal.NewFromInt(250),
	}
	assert.Equal(t, "183.33", Average(amounts).String(),
		"Average of 100, 200, 250")

	assert.True(t, Average(nil).IsZero(), "Average of no amounts should be zero")
}
