package cache

import (
	"sync"
	"time"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Recorder receives cache hit and miss notifications
type Recorder interface {
	IncrCacheHit(cache string)
	IncrCacheMiss(cache string)
}

const cacheName = "rates"

// RateCache provides a thread-safe in-memory holder for the latest rate snapshot
type RateCache struct {
	snapshot *entity.RateSnapshot
	maxAge   time.Duration
	recorder Recorder
	mutex    sync.RWMutex
}

// NewRateCache creates a rate cache whose entries stay fresh for maxAge
func NewRateCache(maxAge time.Duration) *RateCache {
	if maxAge <= 0 {
		maxAge = entity.RateMaxAge
	}
	return &RateCache{maxAge: maxAge}
}

// WithRecorder attaches a metrics recorder
func (c *RateCache) WithRecorder(r Recorder) *RateCache {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.recorder = r
	return c
}

// Get returns the cached snapshot if it is fresh at now.
// It returns entity.ErrRatesPending when the cache is empty and a
// *entity.StaleDataError when the snapshot is too old.
func (c *RateCache) Get(now time.Time) (entity.RateSnapshot, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.snapshot == nil {
		c.miss()
		return entity.RateSnapshot{}, entity.ErrRatesPending
	}

	if entity.IsStale(*c.snapshot, now, c.maxAge) {
		c.miss()
		return entity.RateSnapshot{}, &entity.StaleDataError{
			FetchedAt: c.snapshot.FetchedAt,
			Age:       now.Sub(c.snapshot.FetchedAt),
		}
	}

	c.hit()
	return *c.snapshot, nil
}

// Peek returns the cached snapshot regardless of its age
func (c *RateCache) Peek() (entity.RateSnapshot, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if c.snapshot == nil {
		return entity.RateSnapshot{}, false
	}
	return *c.snapshot, true
}

// Put stores a snapshot. Invalid snapshots and snapshots older than the
// cached one are ignored; Put reports whether the cache changed.
func (c *RateCache) Put(snapshot entity.RateSnapshot) bool {
	if !snapshot.Valid() {
		return false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.snapshot != nil && snapshot.FetchedAt.Before(c.snapshot.FetchedAt) {
		return false
	}
	c.snapshot = &snapshot
	return true
}

// Clear empties the cache
func (c *RateCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.snapshot = nil
}

// MaxAge returns the freshness window
func (c *RateCache) MaxAge() time.Duration {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.maxAge
}

func (c *RateCache) hit() {
	if c.recorder != nil {
		c.recorder.IncrCacheHit(cacheName)
	}
}

func (c *RateCache) miss() {
	if c.recorder != nil {
		c.recorder.IncrCacheMiss(cacheName)
	}
}
