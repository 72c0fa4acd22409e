// Package history persists simulation runs and answers the questions planners
// ask about them afterwards: what did we save, how do runs compare, and how
// active has a client been.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wpgo/wealth-planner/internal/calculation"
	"github.com/wpgo/wealth-planner/internal/domain"
	"github.com/wpgo/wealth-planner/pkg/money"
)

// statsPageSize bounds how many records one stats scan fetches per store
// round trip.
const statsPageSize = 200

// Service manages saved simulations on top of a SimulationStore. Saves
// snapshot the projection's parameters and results; the snapshots are
// immutable afterwards and only name, description and tags can change.
type Service struct {
	store  domain.SimulationStore
	logger calculation.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a history service to its store. A nil logger runs silent.
func NewService(store domain.SimulationStore, logger calculation.Logger) *Service {
	if logger == nil {
		logger = calculation.NopLogger{}
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SetClock replaces the time source, pinning timestamps for tests.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Save stores a projection run under a new id. The record denormalizes the
// run's parameters (initial value, rate, the distinct set of events that
// fired) and results (final value, total return, years) so listings and stats
// never need the full payload. Metadata fields are optional; an omitted name
// gets a timestamped default.
func (s *Service) Save(ctx context.Context, clientID string, projection *domain.WealthProjection, meta domain.MetadataUpdate) (*domain.SimulationMetadata, error) {
	if projection == nil {
		return nil, domain.NewValidation("cannot save an empty projection")
	}
	if clientID == "" {
		return nil, domain.NewValidation("client id is required")
	}

	now := s.now()
	record := &domain.SimulationMetadata{
		ID:       s.newID(),
		ClientID: clientID,
		Name:     fmt.Sprintf("Simulation %s", now.Format("2006-01-02 15:04")),
		Tags:     meta.Tags,
		Parameters: domain.SimulationParameters{
			InitialValue: projection.InitialValue,
			AnnualRate:   projection.AnnualRate,
			Events:       dedupEvents(projection.ProjectionPoints),
		},
		Results: domain.SimulationResults{
			FinalValue:      projection.FinalValue,
			TotalReturn:     projection.TotalReturn,
			ProjectionYears: projection.Years(),
		},
		Projection: projection,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if meta.Name != nil {
		record.Name = *meta.Name
	}
	if meta.Description != nil {
		record.Description = *meta.Description
	}

	if err := s.store.SaveSimulation(ctx, record); err != nil {
		return nil, fmt.Errorf("saving simulation for client %s: %w", clientID, err)
	}
	s.logger.Infof("saved simulation %s (%s) for client %s", record.ID, record.Name, clientID)
	return record, nil
}

// Get loads one saved simulation including its projection payload.
func (s *Service) Get(ctx context.Context, id string) (*domain.SimulationMetadata, error) {
	return s.store.Simulation(ctx, id)
}

// List returns one page of a client's saved simulations, payloads omitted.
func (s *Service) List(ctx context.Context, clientID string, opts domain.ListOptions) (*domain.SimulationPage, error) {
	opts = opts.Normalize()
	simulations, total, err := s.store.Simulations(ctx, clientID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing simulations for client %s: %w", clientID, err)
	}
	return &domain.SimulationPage{
		Simulations: simulations,
		Total:       total,
		Page:        opts.Page,
		Limit:       opts.Limit,
		TotalPages:  (total + opts.Limit - 1) / opts.Limit,
	}, nil
}

// Compare loads between two and five saved simulations and summarizes them:
// best and worst by final value plus the averages across the set. The
// returned simulations omit their projection payloads.
func (s *Service) Compare(ctx context.Context, ids []string) (*domain.ComparisonResult, error) {
	if len(ids) < 2 || len(ids) > 5 {
		return nil, domain.NewValidation("comparison requires between 2 and 5 simulations, got %d", len(ids))
	}

	simulations := make([]domain.SimulationMetadata, 0, len(ids))
	finals := make([]decimal.Decimal, 0, len(ids))
	returns := make([]decimal.Decimal, 0, len(ids))
	for _, id := range ids {
		sim, err := s.store.Simulation(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading simulation %s: %w", id, err)
		}
		record := *sim
		record.Projection = nil
		simulations = append(simulations, record)
		finals = append(finals, record.Results.FinalValue)
		returns = append(returns, record.Results.TotalReturn)
	}

	best, worst := simulations[0], simulations[0]
	for _, sim := range simulations[1:] {
		if sim.Results.FinalValue.GreaterThan(best.Results.FinalValue) {
			best = sim
		}
		if sim.Results.FinalValue.LessThan(worst.Results.FinalValue) {
			worst = sim
		}
	}

	return &domain.ComparisonResult{
		Simulations: simulations,
		Comparison: domain.Comparison{
			Best:               extreme(best),
			Worst:              extreme(worst),
			AverageFinalValue:  money.Average(finals),
			AverageTotalReturn: money.Average(returns),
		},
	}, nil
}

// UpdateMetadata merges a partial change into a saved simulation's metadata.
// Nil fields keep their stored value; the parameter and result snapshots are
// never touched.
func (s *Service) UpdateMetadata(ctx context.Context, id string, update domain.MetadataUpdate) (*domain.SimulationMetadata, error) {
	sim, err := s.store.Simulation(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		sim.Name = *update.Name
	}
	if update.Description != nil {
		sim.Description = *update.Description
	}
	if update.Tags != nil {
		sim.Tags = update.Tags
	}
	sim.UpdatedAt = s.now()

	if err := s.store.UpdateSimulation(ctx, sim); err != nil {
		return nil, fmt.Errorf("updating simulation %s: %w", id, err)
	}
	return sim, nil
}

// Delete removes a saved simulation by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSimulation(ctx, id); err != nil {
		return err
	}
	s.logger.Infof("deleted simulation %s", id)
	return nil
}

// StatsForClient aggregates a client's saved simulations: total count,
// average final value, the best run, and recent activity. BestSimulation and
// RecentActivity.LastSimulation stay nil when nothing has been saved.
func (s *Service) StatsForClient(ctx context.Context, clientID string) (*domain.ClientStats, error) {
	all, err := s.allSimulations(ctx, clientID)
	if err != nil {
		return nil, err
	}

	stats := &domain.ClientStats{TotalSimulations: len(all)}
	if len(all) == 0 {
		return stats, nil
	}

	finals := make([]decimal.Decimal, 0, len(all))
	best := all[0]
	cutoff := s.now().AddDate(0, 0, -30)
	for _, sim := range all {
		finals = append(finals, sim.Results.FinalValue)
		if sim.Results.FinalValue.GreaterThan(best.Results.FinalValue) {
			best = sim
		}
		if sim.CreatedAt.After(cutoff) {
			stats.RecentActivity.Last30Days++
		}
	}
	stats.AverageFinalValue = money.Average(finals)
	stats.BestSimulation = &domain.BestSimulation{
		ID:         best.ID,
		Name:       best.Name,
		FinalValue: best.Results.FinalValue,
		CreatedAt:  best.CreatedAt,
	}

	// allSimulations pages newest-first, so the first record is the freshest.
	last := all[0].CreatedAt
	stats.RecentActivity.LastSimulation = &last
	return stats, nil
}

// allSimulations drains the store's pages for one client, newest first.
func (s *Service) allSimulations(ctx context.Context, clientID string) ([]domain.SimulationMetadata, error) {
	opts := domain.ListOptions{
		Page:      1,
		Limit:     statsPageSize,
		SortBy:    domain.SortByCreatedAt,
		SortOrder: domain.SortDesc,
	}

	var all []domain.SimulationMetadata
	for {
		page, total, err := s.store.Simulations(ctx, clientID, opts)
		if err != nil {
			return nil, fmt.Errorf("scanning simulations for client %s: %w", clientID, err)
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
		opts.Page++
	}
}

// dedupEvents collapses the events that fired across the projection's months
// into the distinct set of inputs, keyed by type, value and frequency. A
// monthly contribution fires in every month of the run; the snapshot records
// it once.
func dedupEvents(points []domain.ProjectionPoint) []domain.ProjectionEvent {
	seen := make(map[string]struct{})
	var events []domain.ProjectionEvent
	for _, pt := range points {
		for _, ev := range pt.Events {
			key := ev.Type + "|" + ev.Value.String() + "|" + string(ev.Frequency.Normalize())
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			events = append(events, ev)
		}
	}
	return events
}

func extreme(sim domain.SimulationMetadata) domain.ComparisonExtreme {
	return domain.ComparisonExtreme{
		ID:         sim.ID,
		Name:       sim.Name,
		FinalValue: sim.Results.FinalValue,
	}
}
