package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/internal/storage/memory"
)

// countingStore wraps the in-memory store and counts client loads so tests
// can observe whether a call was served from cache.
type countingStore struct {
	*memory.Store
	loads int
}

func (c *countingStore) Client(ctx context.Context, id string) (*domain.Client, error) {
	c.loads++
	return c.Store.Client(ctx, id)
}

func newTestEngine(t *testing.T, clients ...*domain.Client) (*Engine, *countingStore) {
	t.Helper()
	store := &countingStore{Store: memory.New()}
	for _, client := range clients {
		require.NoError(t, store.PutClient(context.Background(), client))
	}
	e := NewEngine(store, cache.New(0), nil)
	e.Builder.SetClock(fixedClock(2024, time.January))
	e.Suggestions.SetClock(fixedClock(2024, time.January))
	return e, store
}

func walletClient(id string, balance int64) *domain.Client {
	return &domain.Client{
		ID:     id,
		Wallet: domain.Wallet{TotalValue: decimal.NewFromInt(balance)},
	}
}

// TestProjectServedFromCache tests that a repeated projection does not reload
// the client and that invalidation forces a rebuild
func TestProjectServedFromCache(t *testing.T) {
	e, store := newTestEngine(t, walletClient("c-1", 10000))
	ctx := context.Background()

	first, err := e.Project(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads)

	second, err := e.Project(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.loads, "Second call is a cache hit")
	assert.Same(t, first, second, "Cache hits return the stored projection")

	e.InvalidateClient("c-1")
	third, err := e.Project(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads, "Invalidation forces a rebuild")
	assert.Equal(t, first.FinalValue.String(), third.FinalValue.String())
}

// TestProjectParameterSetsCacheSeparately tests that different build
// parameters occupy different cache entries
func TestProjectParameterSetsCacheSeparately(t *testing.T) {
	e, store := newTestEngine(t, walletClient("c-1", 10000))
	ctx := context.Background()

	base, err := e.Project(ctx, "c-1", WithHorizon(2024, 2024))
	require.NoError(t, err)
	richer, err := e.Project(ctx, "c-1", WithHorizon(2024, 2024), WithAnnualRate(decimal.NewFromFloat(0.08)))
	require.NoError(t, err)

	assert.Equal(t, 2, store.loads, "Distinct parameters are distinct entries")
	assert.True(t, richer.FinalValue.GreaterThan(base.FinalValue))

	_, err = e.Project(ctx, "c-1", WithHorizon(2024, 2024))
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads, "The base entry is still warm")
}

// TestProjectWithoutCache tests that a nil cache disables memoization without
// breaking the pipeline
func TestProjectWithoutCache(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	require.NoError(t, store.PutClient(context.Background(), walletClient("c-1", 10000)))

	e := NewEngine(store, nil, nil)
	e.Builder.SetClock(fixedClock(2024, time.January))

	for i := 1; i <= 2; i++ {
		projection, err := e.Project(context.Background(), "c-1")
		require.NoError(t, err)
		assert.True(t, projection.FinalValue.GreaterThan(decimal.NewFromInt(10000)))
		assert.Equal(t, i, store.loads, "Every call rebuilds when no cache is wired")
	}

	e.InvalidateClient("c-1") // must not panic
}

// TestProjectMissingClient tests that failed builds surface the not-found
// error and are not cached
func TestProjectMissingClient(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Project(ctx, "ghost")
	assert.True(t, domain.IsNotFound(err))

	_, err = e.Project(ctx, "ghost")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 2, store.loads, "Errors are retried, never cached")
	assert.Equal(t, 0, e.Cache.Len())
}

// TestSuggestMemoizesDefaultCalls tests that only default-parameter
// suggestion calls are served from cache
func TestSuggestMemoizesDefaultCalls(t *testing.T) {
	client := walletClient("c-1", 10000)
	client.Goals = []domain.Goal{{
		ID: "g-1", Type: "house", Amount: decimal.NewFromInt(500000),
		TargetAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}}
	e, store := newTestEngine(t, client)
	ctx := context.Background()

	first, err := e.Suggest(ctx, "c-1")
	require.NoError(t, err)
	require.NotEmpty(t, first)
	loadsAfterFirst := store.loads

	second, err := e.Suggest(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, loadsAfterFirst, store.loads, "Default call is a cache hit")
	assert.Equal(t, first, second, "Cache hits return the generated slice, ids included")

	withOpts, err := e.Suggest(ctx, "c-1", WithEndYear(2030))
	require.NoError(t, err)
	require.NotEmpty(t, withOpts)
	assert.NotEqual(t, first[0].ID, withOpts[0].ID,
		"Override calls regenerate instead of hitting the cache")

	loadsAfterOpts := store.loads
	_, err = e.Suggest(ctx, "c-1", WithEndYear(2030))
	require.NoError(t, err)
	assert.Greater(t, store.loads, loadsAfterOpts,
		"Repeated override calls still reload the client")
}

// TestAnalyzeClientGoals tests the end-to-end goal analysis path
func TestAnalyzeClientGoals(t *testing.T) {
	client := walletClient("c-1", 100000)
	client.Goals = []domain.Goal{
		{ID: "cheap", Amount: decimal.NewFromInt(50000), TargetAt: time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "dear", Amount: decimal.NewFromInt(9000000), TargetAt: time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	e, _ := newTestEngine(t, client)

	analyses, err := e.AnalyzeClientGoals(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	assert.True(t, analyses[0].Feasible)
	assert.False(t, analyses[1].Feasible)

	_, err = e.AnalyzeClientGoals(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
}

// TestSimulateSuggestionImpactBypassesCache tests that an impact run neither
// reads nor pollutes the cached base projection
func TestSimulateSuggestionImpactBypassesCache(t *testing.T) {
	e, _ := newTestEngine(t, walletClient("c-1", 1000))
	ctx := context.Background()
	flatOpts := []BuildOption{WithAnnualRate(decimal.Zero), WithHorizon(2024, 2024)}

	base, err := e.Project(ctx, "c-1", flatOpts...)
	require.NoError(t, err)
	require.Equal(t, "1000", base.FinalValue.String())
	entries := e.Cache.Len()

	monthly := decimal.NewFromInt(100)
	impact, err := e.SimulateSuggestionImpact(ctx, "c-1", domain.Suggestion{
		Type:   domain.SuggestionIncreaseContribution,
		Impact: domain.SuggestionImpact{MonthlyAmount: &monthly},
	}, flatOpts...)
	require.NoError(t, err)

	assert.Equal(t, "2200", impact.FinalValue.String())
	assert.Equal(t, entries, e.Cache.Len(), "Impact runs leave the cache untouched")

	again, err := e.Project(ctx, "c-1", flatOpts...)
	require.NoError(t, err)
	assert.Equal(t, "1000", again.FinalValue.String(), "The base projection is unchanged")
}

// TestInsuranceSummary tests premium aggregation across event frequencies
func TestInsuranceSummary(t *testing.T) {
	client := walletClient("c-1", 10000)
	client.Events = []domain.ClientEvent{
		{Type: "life-insurance", Value: decimal.NewFromInt(-150), Frequency: domain.FrequencyMonthly},
		{Type: "Home Insurance", Value: decimal.NewFromInt(-1200), Frequency: domain.FrequencyYearly},
		{Type: "income protection", Value: decimal.NewFromFloat(-50.25), Frequency: domain.FrequencyMonthly},
		{Type: "contribution", Value: decimal.NewFromInt(500), Frequency: domain.FrequencyMonthly},
	}
	client.Goals = []domain.Goal{
		{ID: "g-1", Type: "life-insurance", Amount: decimal.NewFromInt(100000)},
		{ID: "g-2", Type: "house", Amount: decimal.NewFromInt(300000)},
	}
	e, store := newTestEngine(t, client)

	summary, err := e.InsuranceSummary(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", summary.ClientID)
	assert.Equal(t, "200.25", summary.MonthlyPremium.String(), "150 + 50.25 per month")
	assert.Equal(t, "3603", summary.AnnualPremium.String(), "200.25*12 + 1200 yearly")
	assert.Equal(t, 3, summary.PremiumEvents)
	assert.Equal(t, []string{"life-insurance"}, summary.CoverageGoals)

	loads := store.loads
	cached, err := e.InsuranceSummary(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, loads, store.loads, "Summary is served from cache")
	assert.Same(t, summary, cached)

	e.InvalidateClient("c-1")
	_, err = e.InsuranceSummary(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, loads+1, store.loads, "Invalidation covers the insurance key too")

	_, err = e.InsuranceSummary(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
}

// TestInvalidateClientIsScoped tests that invalidation only touches the named
// client's entries
func TestInvalidateClientIsScoped(t *testing.T) {
	e, store := newTestEngine(t, walletClient("c-1", 10000), walletClient("c-2", 20000))
	ctx := context.Background()

	_, err := e.Project(ctx, "c-1")
	require.NoError(t, err)
	_, err = e.Project(ctx, "c-2")
	require.NoError(t, err)
	require.Equal(t, 2, store.loads)

	e.InvalidateClient("c-1")

	_, err = e.Project(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, 2, store.loads, "The other client's entry survives")

	_, err = e.Project(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, 3, store.loads, "The invalidated client rebuilds")
}
