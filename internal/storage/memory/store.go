// Package memory provides a map-backed store satisfying the domain store
// contracts. It backs tests and --store memory runs; nothing is persisted
// across process restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wpgo/wealth-planner/internal/domain"
)

// Store keeps clients and simulations in process memory behind one RWMutex.
type Store struct {
	mu          sync.RWMutex
	clients     map[string]domain.Client
	simulations map[string]domain.SimulationMetadata
}

var _ domain.Store = (*Store)(nil)

// New constructs an empty store.
func New() *Store {
	return &Store{
		clients:     make(map[string]domain.Client),
		simulations: make(map[string]domain.SimulationMetadata),
	}
}

// Client loads one client by id.
func (s *Store) Client(_ context.Context, id string) (*domain.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, domain.NewNotFound("client", id)
	}
	return &c, nil
}

// ClientIDs lists all stored client ids in lexical order.
func (s *Store) ClientIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.clients))
	for id := range s.clients {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// PutClient inserts or replaces a client record.
func (s *Store) PutClient(_ context.Context, client *domain.Client) error {
	if client == nil || client.ID == "" {
		return domain.NewValidation("client id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = *client
	return nil
}

// SaveSimulation inserts a new simulation record.
func (s *Store) SaveSimulation(_ context.Context, sim *domain.SimulationMetadata) error {
	if sim == nil || sim.ID == "" {
		return domain.NewValidation("simulation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulations[sim.ID] = *sim
	return nil
}

// Simulation loads one simulation including its projection payload.
func (s *Store) Simulation(_ context.Context, id string) (*domain.SimulationMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sim, ok := s.simulations[id]
	if !ok {
		return nil, domain.NewNotFound("simulation", id)
	}
	return &sim, nil
}

// Simulations returns one page of a client's simulations ordered by the
// requested key, with projection payloads stripped, plus the total count
// after tag filtering.
func (s *Store) Simulations(_ context.Context, clientID string, opts domain.ListOptions) ([]domain.SimulationMetadata, int, error) {
	opts = opts.Normalize()

	s.mu.RLock()
	filtered := make([]domain.SimulationMetadata, 0, len(s.simulations))
	for _, sim := range s.simulations {
		if sim.ClientID != clientID {
			continue
		}
		if len(opts.Tags) > 0 && !hasAnyTag(sim.Tags, opts.Tags) {
			continue
		}
		sim.Projection = nil
		filtered = append(filtered, sim)
	}
	s.mu.RUnlock()

	sortSimulations(filtered, opts.SortBy, opts.SortOrder)

	total := len(filtered)
	start := (opts.Page - 1) * opts.Limit
	if start >= total {
		return []domain.SimulationMetadata{}, total, nil
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

// UpdateSimulation replaces the metadata fields of an existing record.
func (s *Store) UpdateSimulation(_ context.Context, sim *domain.SimulationMetadata) error {
	if sim == nil || sim.ID == "" {
		return domain.NewValidation("simulation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.simulations[sim.ID]
	if !ok {
		return domain.NewNotFound("simulation", sim.ID)
	}
	stored.Name = sim.Name
	stored.Description = sim.Description
	stored.Tags = sim.Tags
	stored.UpdatedAt = sim.UpdatedAt
	s.simulations[sim.ID] = stored
	return nil
}

// DeleteSimulation removes a simulation by id.
func (s *Store) DeleteSimulation(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.simulations[id]; !ok {
		return domain.NewNotFound("simulation", id)
	}
	delete(s.simulations, id)
	return nil
}

// Close is a no-op for the in-memory backend.
func (s *Store) Close() error {
	return nil
}

// hasAnyTag reports whether stored and wanted share at least one tag.
func hasAnyTag(stored, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range stored {
			if t == w {
				return true
			}
		}
	}
	return false
}

// sortSimulations orders records by the requested key, ties broken by id so
// pagination is deterministic.
func sortSimulations(sims []domain.SimulationMetadata, sortBy, order string) {
	cmp := func(a, b domain.SimulationMetadata) int {
		switch sortBy {
		case domain.SortByFinalValue:
			return a.Results.FinalValue.Cmp(b.Results.FinalValue)
		case domain.SortByTotalReturn:
			return a.Results.TotalReturn.Cmp(b.Results.TotalReturn)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
	sort.SliceStable(sims, func(i, j int) bool {
		c := cmp(sims[i], sims[j])
		if c == 0 {
			return sims[i].ID < sims[j].ID
		}
		if order == domain.SortAsc {
			return c < 0
		}
		return c > 0
	})
}
