package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetAndGet tests basic storage and retrieval
func TestSetAndGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("alpha", 42, 0)
	v, ok := c.Get("alpha")
	require.True(t, ok, "Stored key should be retrievable")
	assert.Equal(t, 42, v)

	_, ok = c.Get("missing")
	assert.False(t, ok, "Unknown key should miss")
}

// TestExpiry tests that entries disappear after their TTL elapses
func TestExpiry(t *testing.T) {
	c := New(time.Minute)

	c.Set("short", "value", 50*time.Millisecond)
	v, ok := c.Get("short")
	require.True(t, ok, "Entry should be live immediately after set")
	assert.Equal(t, "value", v)

	time.Sleep(60 * time.Millisecond)

	_, ok = c.Get("short")
	assert.False(t, ok, "Entry should expire after its TTL")
	assert.Equal(t, 0, c.Len(), "Lazy expiry should remove the entry on read")
}

// TestDefaultTTLFallback tests that non-positive TTLs use the cache default
func TestDefaultTTLFallback(t *testing.T) {
	c := New(50 * time.Millisecond)

	c.Set("inherit", 1, 0)
	_, ok := c.Get("inherit")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("inherit")
	assert.False(t, ok, "Entry with default TTL should expire with the cache default")

	defaulted := New(0)
	assert.NotNil(t, defaulted, "Zero default TTL should construct with the package default")
}

// TestGetOrSet tests memoization through the producer path
func TestGetOrSet(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	producer := func() (interface{}, error) {
		calls++
		return "produced", nil
	}

	v, err := c.GetOrSet("memo", 0, nil, producer)
	require.NoError(t, err)
	assert.Equal(t, "produced", v)
	assert.Equal(t, 1, calls, "First call should invoke the producer")

	v, err = c.GetOrSet("memo", 0, nil, producer)
	require.NoError(t, err)
	assert.Equal(t, "produced", v)
	assert.Equal(t, 1, calls, "Second call should be served from cache")
}

// TestGetOrSetError tests that producer failures are not cached
func TestGetOrSetError(t *testing.T) {
	c := New(time.Minute)
	attempts := 0
	failing := func() (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("load failed")
	}

	_, err := c.GetOrSet("broken", 0, nil, failing)
	require.Error(t, err)

	_, err = c.GetOrSet("broken", 0, nil, failing)
	require.Error(t, err)
	assert.Equal(t, 2, attempts, "Failures should not be memoized")
	assert.Equal(t, 0, c.Len())
}

// TestInvalidateTag tests that tag invalidation removes exactly the tagged keys
func TestInvalidateTag(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTags("proj:c1:a", 1, 0, []string{"client:c1"})
	c.SetWithTags("proj:c1:b", 2, 0, []string{"client:c1"})
	c.SetWithTags("proj:c2:a", 3, 0, []string{"client:c2"})
	c.Set("untagged", 4, 0)

	removed := c.InvalidateTag("client:c1")
	assert.Equal(t, 2, removed, "Both c1 entries should be dropped")

	_, ok := c.Get("proj:c1:a")
	assert.False(t, ok)
	_, ok = c.Get("proj:c1:b")
	assert.False(t, ok)

	v, ok := c.Get("proj:c2:a")
	require.True(t, ok, "Other clients' entries must survive")
	assert.Equal(t, 3, v)

	_, ok = c.Get("untagged")
	assert.True(t, ok, "Untagged entries must survive")

	assert.Equal(t, 0, c.InvalidateTag("client:c1"),
		"Invalidating an empty tag removes nothing")
}

// TestResetTagsOnOverwrite tests that re-setting a key replaces its tags
func TestResetTagsOnOverwrite(t *testing.T) {
	c := New(time.Minute)

	c.SetWithTags("key", 1, 0, []string{"old"})
	c.SetWithTags("key", 2, 0, []string{"new"})

	assert.Equal(t, 0, c.InvalidateTag("old"),
		"Overwritten entry should no longer answer to its old tag")

	v, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	assert.Equal(t, 1, c.InvalidateTag("new"))
}

// TestCleanup tests the proactive sweep
func TestCleanup(t *testing.T) {
	c := New(time.Minute)

	c.Set("stale-1", 1, 30*time.Millisecond)
	c.Set("stale-2", 2, 30*time.Millisecond)
	c.Set("fresh", 3, time.Minute)

	time.Sleep(40 * time.Millisecond)

	removed := c.Cleanup()
	assert.Equal(t, 2, removed, "Both stale entries should be swept")
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

// TestClear tests dropping the entire cache
func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTags("a", 1, 0, []string{"t"})
	c.Set("b", 2, 0)

	c.Clear()

	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.InvalidateTag("t"), "Tags should be gone after clear")
}

// TestKeyBuilders tests deterministic key construction
func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "client:c-1", ClientKey("c-1"))
	assert.Equal(t, "client:c-1", ClientTag("c-1"))
	assert.Equal(t, "suggestions:c-1", SuggestionsKey("c-1"))
	assert.Equal(t, "insurance-summary:c-1", InsuranceSummaryKey("c-1"))

	type params struct {
		Rate  float64 `json:"rate"`
		Start int     `json:"start"`
		End   int     `json:"end"`
	}

	a := ProjectionKey("c-1", params{Rate: 0.04, Start: 2024, End: 2060})
	b := ProjectionKey("c-1", params{Rate: 0.04, Start: 2024, End: 2060})
	assert.Equal(t, a, b, "Identical parameters must map to identical keys")

	changed := ProjectionKey("c-1", params{Rate: 0.05, Start: 2024, End: 2060})
	assert.NotEqual(t, a, changed, "A different rate must map to a different key")

	otherClient := ProjectionKey("c-2", params{Rate: 0.04, Start: 2024, End: 2060})
	assert.NotEqual(t, a, otherClient, "Keys must be client-scoped")
}
