package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/domain"
)

// DefaultHorizonEndYear is the last simulated year when the caller does not
// override the horizon.
const DefaultHorizonEndYear = 2060

// DefaultAnnualRate returns the growth assumption used when no rate is
// supplied: a conservative 4% per year.
func DefaultAnnualRate() decimal.Decimal {
	return decimal.NewFromFloat(0.04)
}

// ProjectionParams pins down one simulation run. The struct doubles as the
// cache-key payload: its JSON serialization is hashed, so identical
// parameters always hit the same cache entry.
type ProjectionParams struct {
	AnnualRate decimal.Decimal `json:"annualRate"`
	StartYear  int             `json:"startYear"`
	EndYear    int             `json:"endYear"`
}

// BuildOption overrides one default projection parameter.
type BuildOption func(*ProjectionParams)

// WithAnnualRate overrides the default growth rate.
func WithAnnualRate(rate decimal.Decimal) BuildOption {
	return func(p *ProjectionParams) { p.AnnualRate = rate }
}

// WithEndYear overrides the end of the simulated horizon.
func WithEndYear(year int) BuildOption {
	return func(p *ProjectionParams) { p.EndYear = year }
}

// WithHorizon overrides both ends of the simulated horizon.
func WithHorizon(startYear, endYear int) BuildOption {
	return func(p *ProjectionParams) {
		p.StartYear = startYear
		p.EndYear = endYear
	}
}

// ProjectionBuilder turns stored client records into wealth projections. It
// owns the defaulting rules (rate, horizon, event window conversion); the
// arithmetic lives in Simulate.
type ProjectionBuilder struct {
	clients domain.ClientStore
	logger  Logger
	now     func() time.Time
}

// NewProjectionBuilder wires a builder to a client store. A nil logger runs
// silent.
func NewProjectionBuilder(clients domain.ClientStore, logger Logger) *ProjectionBuilder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &ProjectionBuilder{
		clients: clients,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock replaces the time source, pinning "current year" for tests.
func (b *ProjectionBuilder) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Params resolves the effective projection parameters for a set of options:
// 4% annual growth from the current year through 2060 unless overridden.
func (b *ProjectionBuilder) Params(opts ...BuildOption) ProjectionParams {
	params := ProjectionParams{
		AnnualRate: DefaultAnnualRate(),
		StartYear:  b.now().Year(),
		EndYear:    DefaultHorizonEndYear,
	}
	for _, opt := range opts {
		opt(&params)
	}
	return params
}

// BuildForClient loads the client and simulates its trajectory under the
// resolved parameters. Unknown clients surface domain.NotFoundError.
func (b *ProjectionBuilder) BuildForClient(ctx context.Context, clientID string, opts ...BuildOption) (*domain.WealthProjection, error) {
	return b.BuildWithParams(ctx, clientID, b.Params(opts...))
}

// BuildWithParams is BuildForClient with pre-resolved parameters, the entry
// point used when the caller has already derived a cache key from them.
func (b *ProjectionBuilder) BuildWithParams(ctx context.Context, clientID string, params ProjectionParams) (*domain.WealthProjection, error) {
	return b.buildWithExtra(ctx, clientID, params, nil)
}

// buildWithExtra simulates the client's stored events plus any synthetic
// extras (impact simulations append one here).
func (b *ProjectionBuilder) buildWithExtra(ctx context.Context, clientID string, params ProjectionParams, extra []domain.ProjectionEvent) (*domain.WealthProjection, error) {
	client, err := b.clients.Client(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("loading client %s: %w", clientID, err)
	}

	events := convertEvents(client.Events, params.EndYear)
	events = append(events, extra...)

	b.logger.Debugf("building projection for client %s: rate=%s horizon=%d-%d events=%d",
		clientID, params.AnnualRate, params.StartYear, params.EndYear, len(events))

	points := Simulate(client.Wallet.TotalValue, events, params.AnnualRate, params.StartYear, params.EndYear)
	return newProjection(clientID, client.Wallet.TotalValue, params.AnnualRate, points), nil
}

// convertEvents turns stored events into simulator events: one-time events
// keep their date as both bounds, recurring events run from their date to the
// end of the horizon.
func convertEvents(stored []domain.ClientEvent, endYear int) []domain.ProjectionEvent {
	if len(stored) == 0 {
		return nil
	}
	horizonEnd := time.Date(endYear, time.December, 1, 0, 0, 0, 0, time.UTC)

	events := make([]domain.ProjectionEvent, 0, len(stored))
	for _, ev := range stored {
		converted := domain.ProjectionEvent{
			Type:      ev.Type,
			Value:     ev.Value,
			Frequency: ev.Frequency.Normalize(),
			StartDate: ev.Date,
		}
		if converted.Frequency == domain.FrequencyOnce {
			converted.EndDate = ev.Date
		} else {
			end := horizonEnd
			converted.EndDate = &end
		}
		events = append(events, converted)
	}
	return events
}

// AnnualView reduces a monthly projection to its December points, the
// year-granular view the reporting surface works with.
func AnnualView(projection *domain.WealthProjection) []domain.AnnualPoint {
	var annual []domain.AnnualPoint
	for _, pt := range projection.ProjectionPoints {
		if pt.Month == int(time.December) {
			annual = append(annual, domain.AnnualPoint{
				Year:           pt.Year,
				ProjectedValue: pt.ProjectedValue,
			})
		}
	}
	return annual
}
