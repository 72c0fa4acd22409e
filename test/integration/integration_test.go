package integration

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/config"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/internal/storage/memory"
)

const planFile = "../testdata/example_plan.yaml"

// fixedNow pins "today" so projection horizons and months-until-target stay
// deterministic regardless of when the suite runs.
var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// loadPlannerState loads the shared plan fixture into a fresh in-memory
// store and wires an engine on top of it, clocks pinned.
func loadPlannerState(t *testing.T) (*calculation.Engine, *memory.Store, *config.Plan) {
	t.Helper()

	parser := config.NewPlanParser()
	plan, err := parser.LoadFromFile(planFile)
	require.NoError(t, err)
	require.NoError(t, parser.ValidatePlan(plan))

	store := memory.New()
	ctx := context.Background()
	for i := range plan.Clients {
		require.NoError(t, store.PutClient(ctx, &plan.Clients[i]))
	}

	engine := calculation.NewEngine(store, cache.New(0), nil)
	engine.Builder.SetClock(func() time.Time { return fixedNow })
	engine.Suggestions.SetClock(func() time.Time { return fixedNow })
	return engine, store, plan
}

func TestEndToEndProjection(t *testing.T) {
	engine, _, plan := loadPlannerState(t)
	ctx := context.Background()

	assert.Len(t, plan.Clients, 2)

	projection, err := engine.Project(ctx, "dana-mercer")
	require.NoError(t, err)
	require.NotNil(t, projection)

	// Default horizon runs from the current year through 2060, month by month.
	assert.Equal(t, 2024, projection.StartYear())
	assert.Equal(t, 2060, projection.EndYear())
	assert.Len(t, projection.ProjectionPoints, 37*12)

	assert.True(t, projection.FinalValue.GreaterThan(projection.InitialValue),
		"Contributions plus growth should beat the starting balance")
	assert.True(t, projection.TotalReturn.Equal(projection.FinalValue.Sub(projection.InitialValue)))

	// Unknown clients surface as typed not-found errors all the way up.
	_, err = engine.Project(ctx, "nobody")
	assert.True(t, domain.IsNotFound(err))
}

func TestPlanValidation(t *testing.T) {
	parser := config.NewPlanParser()

	plan, err := parser.LoadFromFile(planFile)
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.NoError(t, parser.ValidatePlan(plan))
}

func TestEndToEndGoalsAndSuggestions(t *testing.T) {
	engine, _, _ := loadPlannerState(t)
	ctx := context.Background()

	analyses, err := engine.AnalyzeClientGoals(ctx, "dana-mercer")
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	for _, a := range analyses {
		assert.True(t, a.ProjectedValue.GreaterThan(decimal.Zero),
			"Goal %s should project a positive value", a.Goal.ID)
		assert.Equal(t, a.Feasible, a.Gap.LessThanOrEqual(decimal.Zero),
			"Feasibility and gap sign must agree for goal %s", a.Goal.ID)
	}

	suggestions, err := engine.Suggest(ctx, "dana-mercer")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
	for i := 1; i < len(suggestions); i++ {
		assert.GreaterOrEqual(t,
			suggestions[i-1].Priority.Weight(), suggestions[i].Priority.Weight(),
			"Suggestions must come back highest priority first")
	}
	for _, s := range suggestions {
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Title)
		assert.Equal(t, s.Type.Category(), s.Category)
	}

	// jules-okafor holds 80% stocks; concentration must surface a rebalance.
	jules, err := engine.Suggest(ctx, "jules-okafor")
	require.NoError(t, err)
	var hasAllocation bool
	for _, s := range jules {
		if s.Type == domain.SuggestionAdjustAllocation {
			hasAllocation = true
		}
	}
	assert.True(t, hasAllocation, "A concentrated wallet should get an allocation suggestion")
}

func TestSuggestionImpactAndInsurance(t *testing.T) {
	engine, _, _ := loadPlannerState(t)
	ctx := context.Background()

	suggestions, err := engine.Suggest(ctx, "dana-mercer")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	var contribution *domain.Suggestion
	for i := range suggestions {
		if suggestions[i].Type == domain.SuggestionIncreaseContribution {
			contribution = &suggestions[i]
			break
		}
	}
	require.NotNil(t, contribution, "A client short of both goals should be told to contribute more")

	base, err := engine.Project(ctx, "dana-mercer")
	require.NoError(t, err)
	adjusted, err := engine.SimulateSuggestionImpact(ctx, "dana-mercer", *contribution)
	require.NoError(t, err)
	assert.True(t, adjusted.FinalValue.GreaterThan(base.FinalValue),
		"Adopting a contribution increase must raise the final value")

	summary, err := engine.InsuranceSummary(ctx, "dana-mercer")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PremiumEvents)
	assert.Equal(t, "120", summary.MonthlyPremium.String())
	assert.Equal(t, "1440", summary.AnnualPremium.String())
	assert.Empty(t, summary.CoverageGoals)
}
