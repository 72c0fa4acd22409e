package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client is the planning record the engine loads before simulating: the
// wallet it grows, the cash-flow events it replays, and the goals it checks
// the resulting trajectory against.
type Client struct {
	ID     string        `yaml:"id" json:"id"`
	Name   string        `yaml:"name" json:"name"`
	Wallet Wallet        `yaml:"wallet" json:"wallet"`
	Events []ClientEvent `yaml:"events" json:"events"`
	Goals  []Goal        `yaml:"goals" json:"goals"`
}

// Wallet holds the client's current portfolio value and its allocation split.
// Allocation maps an asset class label to the percentage of the portfolio it
// occupies; percentages are expected to sum to 100 but the engine only ever
// inspects individual classes.
type Wallet struct {
	TotalValue decimal.Decimal            `yaml:"totalValue" json:"totalValue"`
	Allocation map[string]decimal.Decimal `yaml:"allocation" json:"allocation"`
}

// ClientEvent is a stored cash flow as the persistence layer keeps it: a
// signed amount, how often it repeats, and the date it takes effect. The
// projection builder converts these into bounded ProjectionEvents.
type ClientEvent struct {
	Type      string          `yaml:"type" json:"type"`
	Value     decimal.Decimal `yaml:"value" json:"value"`
	Frequency Frequency       `yaml:"frequency" json:"frequency"`
	Date      *time.Time      `yaml:"date,omitempty" json:"date,omitempty"`
}

// Goal is a target amount the client wants to reach by a specific date.
type Goal struct {
	ID       string          `yaml:"id" json:"id"`
	Type     string          `yaml:"type" json:"type"`
	Amount   decimal.Decimal `yaml:"amount" json:"amount"`
	TargetAt time.Time       `yaml:"targetAt" json:"targetAt"`
}

// ConcentratedClass reports whether any single asset class exceeds the given
// percentage of the wallet, returning the most concentrated such class. Ties
// resolve to the lexicographically smallest label so the result is stable.
func (w *Wallet) ConcentratedClass(threshold decimal.Decimal) (string, decimal.Decimal, bool) {
	var (
		topClass string
		topPct   decimal.Decimal
		found    bool
	)
	for class, pct := range w.Allocation {
		if !pct.GreaterThan(threshold) {
			continue
		}
		if !found || pct.GreaterThan(topPct) || (pct.Equal(topPct) && class < topClass) {
			topClass, topPct, found = class, pct, true
		}
	}
	return topClass, topPct, found
}
