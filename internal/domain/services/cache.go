// Package services contains the domain services: the medicine snapshot
// cache, the search orchestrators, and the mutation and import gateways.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
	"github.com/ersonp/medsearch-core/internal/domain/ports"
)

// DefaultFreshnessWindow is how long a snapshot is served before the
// next read triggers a rebuild.
const DefaultFreshnessWindow = 2 * time.Minute

// timeNow is overridable in tests.
var timeNow = time.Now

// Snapshot is an immutable view of the active medicines together with the
// fuzzy index built over them. Snapshots are replaced, never mutated, so
// readers holding one are never affected by a refresh.
type Snapshot struct {
	Records []entities.Medicine
	Index   ports.FuzzyIndex
	BuiltAt time.Time
}

func (s *Snapshot) stale(window time.Duration) bool {
	return timeNow().Sub(s.BuiltAt) >= window
}

// Cache keeps the active medicines and their fuzzy index in memory,
// refreshing from the store once the freshness window has passed.
// Concurrent refreshes collapse into a single store read.
type Cache struct {
	store   ports.MedicineStore
	builder ports.IndexBuilder
	window  time.Duration
	logger  *slog.Logger

	snapshot atomic.Pointer[Snapshot]
	group    singleflight.Group
}

// NewCache creates a cache over the given store and index builder.
// A non-positive window falls back to DefaultFreshnessWindow.
func NewCache(store ports.MedicineStore, builder ports.IndexBuilder, window time.Duration, logger *slog.Logger) *Cache {
	if window <= 0 {
		window = DefaultFreshnessWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		store:   store,
		builder: builder,
		window:  window,
		logger:  logger,
	}
}

// Get returns a fresh snapshot, rebuilding it from the store when the
// current one is stale or missing. When a rebuild fails but a previous
// snapshot exists, the stale snapshot is served and the failure logged;
// the error is only returned when there is nothing to fall back to.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	if snap := c.snapshot.Load(); snap != nil && !snap.stale(c.window) {
		return snap, nil
	}

	v, err, _ := c.group.Do("refresh", func() (any, error) {
		// Another caller may have refreshed while this one queued.
		if snap := c.snapshot.Load(); snap != nil && !snap.stale(c.window) {
			return snap, nil
		}
		return c.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	records, err := c.store.ListActiveMedicines(ctx)
	if err != nil {
		if prev := c.snapshot.Load(); prev != nil {
			c.logger.Warn("serving stale snapshot after store failure", "error", err)
			return prev, nil
		}
		return nil, fmt.Errorf("loading medicines: %w", err)
	}

	index, err := c.builder.Build(records)
	if err != nil {
		if prev := c.snapshot.Load(); prev != nil {
			c.logger.Warn("serving stale snapshot after index build failure", "error", err)
			return prev, nil
		}
		return nil, fmt.Errorf("building search index: %w", err)
	}

	snap := &Snapshot{Records: records, Index: index, BuiltAt: timeNow()}
	c.snapshot.Store(snap)
	c.logger.Debug("snapshot refreshed", "medicines", len(records))
	return snap, nil
}

// Invalidate marks the current snapshot stale so the next Get rebuilds.
// The snapshot data is kept so that a store failure during the rebuild
// can still fall back to it.
func (c *Cache) Invalidate() {
	for {
		old := c.snapshot.Load()
		if old == nil || old.BuiltAt.IsZero() {
			return
		}
		marked := *old
		marked.BuiltAt = time.Time{}
		if c.snapshot.CompareAndSwap(old, &marked) {
			return
		}
	}
}

// Close releases the fuzzy index held by the current snapshot.
func (c *Cache) Close() error {
	snap := c.snapshot.Swap(nil)
	if snap == nil || snap.Index == nil {
		return nil
	}
	return snap.Index.Close()
}
