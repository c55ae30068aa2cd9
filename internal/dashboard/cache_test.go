package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tourism-portal/events-portal-backend/internal/workflow"
)

type captureNotifier struct {
	calls int
}

func (n *captureNotifier) EventStatusChanged(ctx context.Context, change workflow.StatusChange) error {
	n.calls++
	return nil
}

func TestSnapshotCacheGetSet(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)
	defer cache.Stop()

	_, _, ok := cache.Get("entity_admin|")
	assert.False(t, ok)

	cache.Set("entity_admin|", Counters{Published: 2, Historic: 1}, TabPublished)
	counters, tab, ok := cache.Get("entity_admin|")
	require.True(t, ok)
	assert.Equal(t, Counters{Published: 2, Historic: 1}, counters)
	assert.Equal(t, TabPublished, tab)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	cache := NewSnapshotCache(-time.Second)
	defer cache.Stop()

	cache.Set("entity_admin|", Counters{Pending: 3}, TabPending)
	_, _, ok := cache.Get("entity_admin|")
	assert.False(t, ok)
}

// A committed status change must drop cached counters so the next dashboard
// read reflects the new snapshot.
func TestCacheInvalidatorClearsOnStatusChange(t *testing.T) {
	cache := NewSnapshotCache(time.Minute)
	defer cache.Stop()
	cache.Set("entity_admin|", Counters{Pending: 1}, TabPending)
	cache.Set("entity_staff|", Counters{Pending: 1}, TabPending)

	next := &captureNotifier{}
	invalidator := NewCacheInvalidator(cache, next)
	require.NoError(t, invalidator.EventStatusChanged(context.Background(), workflow.StatusChange{}))

	_, _, ok := cache.Get("entity_admin|")
	assert.False(t, ok)
	_, _, ok = cache.Get("entity_staff|")
	assert.False(t, ok)
	assert.Equal(t, 1, next.calls, "delivery continues after invalidation")
}
