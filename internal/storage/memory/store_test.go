package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wpgo/wealth-planner/internal/domain"
)

func testSimulation(id, clientID string, final int64, createdAt time.Time, tags ...string) *domain.SimulationMetadata {
	return &domain.SimulationMetadata{
		ID:       id,
		ClientID: clientID,
		Name:     "sim " + id,
		Tags:     tags,
		Results: domain.SimulationResults{
			FinalValue:  decimal.NewFromInt(final),
			TotalReturn: decimal.NewFromInt(final - 1000),
		},
		Projection: &domain.WealthProjection{ClientID: clientID},
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// TestClientRoundTrip tests client storage and not-found behavior
func TestClientRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Client(ctx, "missing")
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err), "Unknown client should be a not-found error")

	client := &domain.Client{
		ID:   "c-1",
		Name: "Avery",
		Wallet: domain.Wallet{
			TotalValue: decimal.NewFromInt(50000),
			Allocation: map[string]decimal.Decimal{"stocks": decimal.NewFromInt(70)},
		},
	}
	require.NoError(t, s.PutClient(ctx, client))

	loaded, err := s.Client(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Avery", loaded.Name)
	assert.Equal(t, "50000", loaded.Wallet.TotalValue.String())

	ids, err := s.ClientIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1"}, ids)

	err = s.PutClient(ctx, &domain.Client{})
	assert.True(t, domain.IsValidation(err), "Empty client id should be rejected")
}

// TestSimulationRoundTrip tests save, load, update and delete
func TestSimulationRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now().UTC()

	sim := testSimulation("s-1", "c-1", 9000, now)
	require.NoError(t, s.SaveSimulation(ctx, sim))

	loaded, err := s.Simulation(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "sim s-1", loaded.Name)
	require.NotNil(t, loaded.Projection, "Single load must include the payload")

	loaded.Name = "renamed"
	loaded.UpdatedAt = now.Add(time.Hour)
	require.NoError(t, s.UpdateSimulation(ctx, loaded))

	reloaded, err := s.Simulation(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", reloaded.Name)
	assert.Equal(t, now.Add(time.Hour), reloaded.UpdatedAt)
	assert.Equal(t, now, reloaded.CreatedAt, "Update must not touch createdAt")

	require.NoError(t, s.DeleteSimulation(ctx, "s-1"))
	err = s.DeleteSimulation(ctx, "s-1")
	assert.True(t, domain.IsNotFound(err), "Double delete should be not-found")

	err = s.UpdateSimulation(ctx, testSimulation("ghost", "c-1", 1, now))
	assert.True(t, domain.IsNotFound(err), "Updating a missing record should be not-found")
}

// TestSimulationsListing tests filtering, ordering and pagination
func TestSimulationsListing(t *testing.T) {
	s := New()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveSimulation(ctx, testSimulation("s-1", "c-1", 5000, base, "baseline")))
	require.NoError(t, s.SaveSimulation(ctx, testSimulation("s-2", "c-1", 9000, base.Add(24*time.Hour), "aggressive")))
	require.NoError(t, s.SaveSimulation(ctx, testSimulation("s-3", "c-1", 7000, base.Add(48*time.Hour), "baseline", "scheduled")))
	require.NoError(t, s.SaveSimulation(ctx, testSimulation("x-1", "c-2", 100, base)))

	t.Run("Default order is createdAt descending", func(t *testing.T) {
		page, total, err := s.Simulations(ctx, "c-1", domain.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, page, 3)
		assert.Equal(t, []string{"s-3", "s-2", "s-1"}, idsOf(page))
		assert.Nil(t, page[0].Projection, "List results must omit payloads")
	})

	t.Run("Sort by final value before paginating", func(t *testing.T) {
		page, total, err := s.Simulations(ctx, "c-1", domain.ListOptions{
			Limit: 2, SortBy: domain.SortByFinalValue, SortOrder: domain.SortDesc,
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, []string{"s-2", "s-3"}, idsOf(page),
			"First page must hold the highest final values across the whole set")

		second, _, err := s.Simulations(ctx, "c-1", domain.ListOptions{
			Page: 2, Limit: 2, SortBy: domain.SortByFinalValue, SortOrder: domain.SortDesc,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"s-1"}, idsOf(second))
	})

	t.Run("Tag filter matches any requested tag", func(t *testing.T) {
		page, total, err := s.Simulations(ctx, "c-1", domain.ListOptions{
			Tags: []string{"scheduled", "aggressive"},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.ElementsMatch(t, []string{"s-2", "s-3"}, idsOf(page))
	})

	t.Run("Page past the end is empty but keeps the total", func(t *testing.T) {
		page, total, err := s.Simulations(ctx, "c-1", domain.ListOptions{Page: 9, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Empty(t, page)
	})

	t.Run("Other clients never leak in", func(t *testing.T) {
		page, total, err := s.Simulations(ctx, "c-2", domain.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Equal(t, []string{"x-1"}, idsOf(page))
	})
}

func idsOf(sims []domain.SimulationMetadata) []string {
	ids := make([]string, len(sims))
	for i, s := range sims {
		ids[i] = s.ID
	}
	return ids
}
