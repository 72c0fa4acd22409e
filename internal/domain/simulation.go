package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationParameters is the denormalized snapshot of the inputs a saved
// simulation was produced from. Events are deduplicated by (type, value,
// frequency) at save time.
type SimulationParameters struct {
	InitialValue decimal.Decimal   `json:"initialValue"`
	AnnualRate   decimal.Decimal   `json:"annualRate"`
	Events       []ProjectionEvent `json:"events"`
}

// SimulationResults is the denormalized summary of a saved simulation's
// outcome, queryable without loading the full projection payload.
type SimulationResults struct {
	FinalValue      decimal.Decimal `json:"finalValue"`
	TotalReturn     decimal.Decimal `json:"totalReturn"`
	ProjectionYears int             `json:"projectionYears"`
}

// SimulationMetadata is a saved projection run: the payload plus the
// user-supplied name, description and tags, and the parameter/result
// snapshots taken at save time. The snapshots never change after creation;
// only name, description and tags are updatable.
type SimulationMetadata struct {
	ID          string               `json:"id"`
	ClientID    string               `json:"clientId"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Tags        []string             `json:"tags"`
	Parameters  SimulationParameters `json:"parameters"`
	Results     SimulationResults    `json:"results"`
	Projection  *WealthProjection    `json:"projection,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// MetadataUpdate carries a partial metadata change: nil fields are left
// untouched, non-nil fields replace the stored value.
type MetadataUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListOptions controls pagination, filtering and ordering of saved
// simulations.
type ListOptions struct {
	Page      int      `json:"page"`
	Limit     int      `json:"limit"`
	Tags      []string `json:"tags,omitempty"`
	SortBy    string   `json:"sortBy"`
	SortOrder string   `json:"sortOrder"`
}

// Sort keys accepted by ListOptions. Anything else falls back to
// SortByCreatedAt.
const (
	SortByCreatedAt   = "createdAt"
	SortByFinalValue  = "finalValue"
	SortByTotalReturn = "totalReturn"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// DefaultListLimit is the page size used when a caller does not specify one.
const DefaultListLimit = 10

// Normalize fills defaults and clamps malformed values so stores can rely on
// well-formed options: page >= 1, limit >= 1, a known sort key, and a known
// sort order (descending by default).
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultListLimit
	}
	switch o.SortBy {
	case SortByCreatedAt, SortByFinalValue, SortByTotalReturn:
	default:
		o.SortBy = SortByCreatedAt
	}
	switch o.SortOrder {
	case SortAsc, SortDesc:
	default:
		o.SortOrder = SortDesc
	}
	return o
}

// SimulationPage is one page of saved simulations plus the paging totals.
// Items omit the projection payload; load a single simulation to get it.
type SimulationPage struct {
	Simulations []SimulationMetadata `json:"simulations"`
	Total       int                  `json:"total"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"totalPages"`
}

// ComparisonExtreme identifies the best or worst simulation in a comparison
// set by final value.
type ComparisonExtreme struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	FinalValue decimal.Decimal `json:"finalValue"`
}

// Comparison summarizes a set of saved simulations: the extremes by final
// value and the averages across the set.
type Comparison struct {
	Best               ComparisonExtreme `json:"best"`
	Worst              ComparisonExtreme `json:"worst"`
	AverageFinalValue  decimal.Decimal   `json:"averageFinalValue"`
	AverageTotalReturn decimal.Decimal   `json:"averageTotalReturn"`
}

// ComparisonResult pairs the compared simulations with their summary.
type ComparisonResult struct {
	Simulations []SimulationMetadata `json:"simulations"`
	Comparison  Comparison           `json:"comparison"`
}

// RecentActivity describes how recently a client has been simulating.
// LastSimulation is nil when the client has no saved runs.
type RecentActivity struct {
	LastSimulation *time.Time `json:"lastSimulation"`
	Last30Days     int        `json:"last30Days"`
}

// BestSimulation identifies a client's highest final value run.
type BestSimulation struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	FinalValue decimal.Decimal `json:"finalValue"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// ClientStats aggregates a client's saved simulations. BestSimulation and
// RecentActivity.LastSimulation are nil when no simulations exist.
type ClientStats struct {
	TotalSimulations  int             `json:"totalSimulations"`
	AverageFinalValue decimal.Decimal `json:"averageFinalValue"`
	BestSimulation    *BestSimulation `json:"bestSimulation"`
	RecentActivity    RecentActivity  `json:"recentActivity"`
}
