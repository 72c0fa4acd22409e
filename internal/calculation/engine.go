package calculation

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/cache"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/pkg/money"
)

// Engine composes the projection pipeline: builder, goal analysis and
// suggestion generation over one client store, with an injected cache
// memoizing the expensive lookups. The engine performs no internal
// parallelism; the cache carries its own lock and everything else is
// per-call state.
type Engine struct {
	Builder     *ProjectionBuilder
	Suggestions *SuggestionGenerator
	Clients     domain.ClientStore
	Cache       *cache.Cache
	Logger      Logger
}

// NewEngine wires an engine to a client store. The cache may be nil, which
// disables memoization; a nil logger runs silent.
func NewEngine(clients domain.ClientStore, c *cache.Cache, logger Logger) *Engine {
	if logger == nil {
		logger = NopLogger{}
	}
	builder := NewProjectionBuilder(clients, logger)
	return &Engine{
		Builder:     builder,
		Suggestions: NewSuggestionGenerator(builder, logger),
		Clients:     clients,
		Cache:       c,
		Logger:      logger,
	}
}

// Project returns the client's wealth projection under the resolved
// parameters, served from cache when a fresh entry exists. Cache entries are
// tagged with the client so an import or edit can invalidate them in bulk.
func (e *Engine) Project(ctx context.Context, clientID string, opts ...BuildOption) (*domain.WealthProjection, error) {
	params := e.Builder.Params(opts...)
	if e.Cache == nil {
		return e.Builder.BuildWithParams(ctx, clientID, params)
	}

	key := cache.ProjectionKey(clientID, params)
	v, err := e.Cache.GetOrSet(key, 0, []string{cache.ClientTag(clientID)}, func() (interface{}, error) {
		return e.Builder.BuildWithParams(ctx, clientID, params)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.WealthProjection), nil
}

// AnalyzeClientGoals loads the client's goals and measures them against the
// (possibly cached) projection.
func (e *Engine) AnalyzeClientGoals(ctx context.Context, clientID string, opts ...BuildOption) ([]domain.GoalAnalysis, error) {
	client, err := e.Clients.Client(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", clientID, err)
	}
	projection, err := e.Project(ctx, clientID, opts...)
	if err != nil {
		return nil, err
	}
	return AnalyzeGoals(client.Goals, projection), nil
}

// Suggest produces the ranked suggestion list for a client. Default-parameter
// calls are memoized under the client's suggestion key; calls with overrides
// always recompute.
func (e *Engine) Suggest(ctx context.Context, clientID string, opts ...BuildOption) ([]domain.Suggestion, error) {
	if e.Cache != nil && len(opts) == 0 {
		key := cache.SuggestionsKey(clientID)
		v, err := e.Cache.GetOrSet(key, 0, []string{cache.ClientTag(clientID)}, func() (interface{}, error) {
			return e.suggest(ctx, clientID)
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.Suggestion), nil
	}
	return e.suggest(ctx, clientID, opts...)
}

func (e *Engine) suggest(ctx context.Context, clientID string, opts ...BuildOption) ([]domain.Suggestion, error) {
	client, err := e.Clients.Client(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", clientID, err)
	}
	projection, err := e.Project(ctx, clientID, opts...)
	if err != nil {
		return nil, err
	}
	analyses := AnalyzeGoals(client.Goals, projection)
	return e.Suggestions.Generate(client, analyses, projection), nil
}

// SimulateSuggestionImpact reruns the projection with a suggestion adopted.
// Impact runs bypass the cache: they exist to be compared against the base
// projection, never to replace it.
func (e *Engine) SimulateSuggestionImpact(ctx context.Context, clientID string, suggestion domain.Suggestion, opts ...BuildOption) (*domain.WealthProjection, error) {
	return e.Suggestions.SimulateImpact(ctx, clientID, suggestion, opts...)
}

// InsuranceSummary aggregates the client's insurance-related cash flows and
// goals into the coverage overview the reporting surface shows. The result
// is cached under the client's insurance-summary key.
func (e *Engine) InsuranceSummary(ctx context.Context, clientID string) (*domain.InsuranceSummary, error) {
	if e.Cache == nil {
		return e.insuranceSummary(ctx, clientID)
	}
	key := cache.InsuranceSummaryKey(clientID)
	v, err := e.Cache.GetOrSet(key, 0, []string{cache.ClientTag(clientID)}, func() (interface{}, error) {
		return e.insuranceSummary(ctx, clientID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.InsuranceSummary), nil
}

func (e *Engine) insuranceSummary(ctx context.Context, clientID string) (*domain.InsuranceSummary, error) {
	client, err := e.Clients.Client(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", clientID, err)
	}

	summary := &domain.InsuranceSummary{ClientID: clientID}
	monthly := decimal.Zero
	yearly := decimal.Zero
	for _, ev := range client.Events {
		if !isInsuranceLabel(ev.Type) {
			continue
		}
		summary.PremiumEvents++
		switch ev.Frequency.Normalize() {
		case domain.FrequencyMonthly:
			monthly = monthly.Add(ev.Value.Abs())
		case domain.FrequencyYearly:
			yearly = yearly.Add(ev.Value.Abs())
		}
	}
	summary.MonthlyPremium = money.RoundCents(monthly)
	summary.AnnualPremium = money.RoundCents(monthly.Mul(decimal.NewFromInt(12)).Add(yearly))

	for _, goal := range client.Goals {
		if isInsuranceLabel(goal.Type) {
			summary.CoverageGoals = append(summary.CoverageGoals, goal.Type)
		}
	}
	return summary, nil
}

// isInsuranceLabel matches the event and goal type labels the planning data
// uses for protection products.
func isInsuranceLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.Contains(l, "insurance") || strings.Contains(l, "protection")
}

// InvalidateClient drops every cache entry tagged with the client, called
// after imports or edits change the underlying record.
func (e *Engine) InvalidateClient(clientID string) {
	if e.Cache == nil {
		return
	}
	n := e.Cache.InvalidateTag(cache.ClientTag(clientID))
	if n > 0 {
		e.Logger.Debugf("invalidated %d cache entries for client %s", n, clientID)
	}
}
