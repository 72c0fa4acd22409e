package domain

import (
	"github.com/shopspring/decimal"
)

// InsuranceSummary is the coverage overview derived from a client's
// insurance-labeled events and goals: what protection costs per month and
// per year, and which coverage goals are on file.
type InsuranceSummary struct {
	ClientID       string          `json:"clientId"`
	MonthlyPremium decimal.Decimal `json:"monthlyPremium"`
	AnnualPremium  decimal.Decimal `json:"annualPremium"`
	PremiumEvents  int             `json:"premiumEvents"`
	CoverageGoals  []string        `json:"coverageGoals,omitempty"`
}
