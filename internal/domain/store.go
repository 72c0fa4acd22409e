package domain

import (
	"context"
)

// ClientStore loads and saves planning clients. Implementations return
// NotFoundError when an id does not exist.
type ClientStore interface {
	// Client loads one client with wallet, events and goals populated.
	Client(ctx context.Context, id string) (*Client, error)

	// ClientIDs lists all known client ids in lexical order.
	ClientIDs(ctx context.Context) ([]string, error)

	// PutClient inserts or fully replaces a client record.
	PutClient(ctx context.Context, client *Client) error
}

// SimulationStore persists saved simulation runs. Implementations return
// NotFoundError for unknown simulation ids and are responsible for applying
// ListOptions ordering and pagination.
type SimulationStore interface {
	// SaveSimulation inserts a new simulation record.
	SaveSimulation(ctx context.Context, sim *SimulationMetadata) error

	// Simulation loads one simulation including its projection payload.
	Simulation(ctx context.Context, id string) (*SimulationMetadata, error)

	// Simulations returns one page of a client's simulations, without
	// projection payloads, plus the total count after tag filtering.
	Simulations(ctx context.Context, clientID string, opts ListOptions) ([]SimulationMetadata, int, error)

	// UpdateSimulation replaces the stored name, description, tags and
	// updatedAt of an existing record.
	UpdateSimulation(ctx context.Context, sim *SimulationMetadata) error

	// DeleteSimulation removes a simulation by id.
	DeleteSimulation(ctx context.Context, id string) error
}

// Store is the combined persistence surface the command layer wires up.
type Store interface {
	ClientStore
	SimulationStore

	// Close releases the underlying resources.
	Close() error
}
