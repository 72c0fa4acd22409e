package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/wpgo/wealth-planner/internal/domain"
)

var hundredPercent = decimal.NewFromInt(100)

// Plan is the importable planning file: the clients to load into the store.
type Plan struct {
	Clients []domain.Client `yaml:"clients"`
}

// PlanParser handles parsing of client plan files
type PlanParser struct{}

// NewPlanParser creates a new plan parser
func NewPlanParser() *PlanParser {
	return &PlanParser{}
}

// LoadFromFile loads a plan from a YAML file
func (pp *PlanParser) LoadFromFile(filename string) (*Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := pp.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan
func (pp *PlanParser) ValidatePlan(plan *Plan) error {
	if len(plan.Clients) == 0 {
		return fmt.Errorf("no clients provided")
	}

	seen := make(map[string]bool)
	for i, client := range plan.Clients {
		if err := pp.validateClient(&client); err != nil {
			return fmt.Errorf("client %d validation failed: %w", i, err)
		}
		if seen[client.ID] {
			return fmt.Errorf("duplicate client id %q", client.ID)
		}
		seen[client.ID] = true
	}

	return nil
}

// validateClient validates a single client's data
func (pp *PlanParser) validateClient(client *domain.Client) error {
	if client.ID == "" {
		return fmt.Errorf("client id is required")
	}
	if client.Wallet.TotalValue.LessThan(decimal.Zero) {
		return fmt.Errorf("wallet total value cannot be negative")
	}

	sum := decimal.Zero
	for class, pct := range client.Wallet.Allocation {
		if pct.LessThan(decimal.Zero) || pct.GreaterThan(hundredPercent) {
			return fmt.Errorf("allocation class %s must be between 0 and 100", class)
		}
		sum = sum.Add(pct)
	}
	if sum.GreaterThan(hundredPercent) {
		return fmt.Errorf("allocation percentages sum to more than 100")
	}

	for i, ev := range client.Events {
		if err := pp.validateEvent(&ev); err != nil {
			return fmt.Errorf("event %d validation failed: %w", i, err)
		}
	}
	for i, goal := range client.Goals {
		if err := pp.validateGoal(&goal); err != nil {
			return fmt.Errorf("goal %d validation failed: %w", i, err)
		}
	}

	return nil
}

// validateEvent validates a single cash-flow event
func (pp *PlanParser) validateEvent(ev *domain.ClientEvent) error {
	if ev.Type == "" {
		return fmt.Errorf("event type is required")
	}
	if ev.Value.IsZero() {
		return fmt.Errorf("event value cannot be zero")
	}
	switch ev.Frequency {
	case "", domain.FrequencyOnce, domain.FrequencyMonthly, domain.FrequencyYearly:
	default:
		return fmt.Errorf("event frequency must be 'once', 'monthly', or 'yearly'")
	}
	return nil
}

// validateGoal validates a single goal
func (pp *PlanParser) validateGoal(goal *domain.Goal) error {
	if goal.ID == "" {
		return fmt.Errorf("goal id is required")
	}
	if goal.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("goal amount must be positive")
	}
	if goal.TargetAt.IsZero() {
		return fmt.Errorf("goal target date is required")
	}
	return nil
}

// CreateExamplePlan creates an example plan file
func (pp *PlanParser) CreateExamplePlan() *Plan {
	contributionStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bonusDate := time.Date(2027, 6, 1, 0, 0, 0, 0, time.UTC)

	return &Plan{
		Clients: []domain.Client{
			{
				ID:   "dana-mercer",
				Name: "Dana Mercer",
				Wallet: domain.Wallet{
					TotalValue: decimal.NewFromInt(85000),
					Allocation: map[string]decimal.Decimal{
						"stocks": decimal.NewFromInt(55),
						"bonds":  decimal.NewFromInt(30),
						"cash":   decimal.NewFromInt(15),
					},
				},
				Events: []domain.ClientEvent{
					{Type: "contribution", Value: decimal.NewFromInt(750), Frequency: domain.FrequencyMonthly, Date: &contributionStart},
					{Type: "bonus", Value: decimal.NewFromInt(6000), Frequency: domain.FrequencyOnce, Date: &bonusDate},
					{Type: "life-insurance", Value: decimal.NewFromInt(-120), Frequency: domain.FrequencyMonthly, Date: &contributionStart},
				},
				Goals: []domain.Goal{
					{ID: "house-2032", Type: "house", Amount: decimal.NewFromInt(250000), TargetAt: time.Date(2032, 6, 1, 0, 0, 0, 0, time.UTC)},
					{ID: "retirement-2055", Type: "retirement", Amount: decimal.NewFromInt(1200000), TargetAt: time.Date(2055, 1, 1, 0, 0, 0, 0, time.UTC)},
				},
			},
			{
				ID:   "jules-okafor",
				Name: "Jules Okafor",
				Wallet: domain.Wallet{
					TotalValue: decimal.NewFromInt(42000),
					Allocation: map[string]decimal.Decimal{
						"stocks": decimal.NewFromInt(80),
						"cash":   decimal.NewFromInt(20),
					},
				},
				Events: []domain.ClientEvent{
					{Type: "contribution", Value: decimal.NewFromInt(400), Frequency: domain.FrequencyMonthly, Date: &contributionStart},
					{Type: "tuition", Value: decimal.NewFromInt(-9000), Frequency: domain.FrequencyYearly, Date: &contributionStart},
				},
				Goals: []domain.Goal{
					{ID: "sabbatical-2030", Type: "travel", Amount: decimal.NewFromInt(60000), TargetAt: time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)},
				},
			},
		},
	}
}

// WriteExamplePlan writes the example plan as YAML to the given path.
func (pp *PlanParser) WriteExamplePlan(filename string) error {
	data, err := yaml.Marshal(pp.CreateExamplePlan())
	if err != nil {
		return fmt.Errorf("failed to encode example plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
