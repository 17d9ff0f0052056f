package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

type countingRecorder struct {
	hits, misses int
}

func (r *countingRecorder) IncrCacheHit(string)  { r.hits++ }
func (r *countingRecorder) IncrCacheMiss(string) { r.misses++ }

func snapshotAt(at time.Time) entity.RateSnapshot {
	return entity.RateSnapshot{
		USD:       decimal.RequireFromString("5.12"),
		EUR:       decimal.RequireFromString("5.57"),
		FetchedAt: at,
	}
}

func TestRateCache(t *testing.T) {
	rec := &countingRecorder{}
	cache := NewRateCache(3 * time.Hour).WithRecorder(rec)
	fetched := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	// Test empty cache
	_, err := cache.Get(fetched)
	assert.ErrorIs(t, err, entity.ErrRatesPending)

	// Test storing and retrieving
	require.True(t, cache.Put(snapshotAt(fetched)))
	got, err := cache.Get(fetched.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "5.12", got.USD.String())

	// Exactly the max age is still fresh
	_, err = cache.Get(fetched.Add(3 * time.Hour))
	assert.NoError(t, err)

	// Test expiration
	_, err = cache.Get(fetched.Add(3*time.Hour + time.Nanosecond))
	var stale *entity.StaleDataError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, fetched, stale.FetchedAt)

	// Peek ignores age
	peeked, ok := cache.Peek()
	assert.True(t, ok)
	assert.Equal(t, fetched, peeked.FetchedAt)

	assert.Equal(t, 2, rec.hits)
	assert.Equal(t, 2, rec.misses)

	// Test clearing
	cache.Clear()
	_, ok = cache.Peek()
	assert.False(t, ok)
}

func TestRateCachePutRules(t *testing.T) {
	cache := NewRateCache(0)
	assert.Equal(t, entity.RateMaxAge, cache.MaxAge())

	now := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	assert.False(t, cache.Put(entity.RateSnapshot{FetchedAt: now}), "zero rates are rejected")
	assert.True(t, cache.Put(snapshotAt(now)))
	assert.False(t, cache.Put(snapshotAt(now.Add(-time.Minute))), "older snapshots never replace newer ones")
	assert.True(t, cache.Put(snapshotAt(now.Add(time.Minute))))

	got, _ := cache.Peek()
	assert.Equal(t, now.Add(time.Minute), got.FetchedAt)
}
