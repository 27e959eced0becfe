// Package cache keeps orientation keyframes for a rolling window of wall-clock
// time.
//
// The cache holds snapshots for [now, now+horizon] at a fixed step. A
// background worker computes the leading edge and evicts the trailing edge.
// When a new EOP dataset is published the whole window is recomputed in the
// background and swapped in, so reads never block on a rebuild.
package cache

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/AlexApps99/stardome/internal/metrics"
	"github.com/AlexApps99/stardome/internal/orient"
)

// Config holds cache configuration.
type Config struct {
	Step    time.Duration // keyframe interval
	Horizon time.Duration // how far ahead to cache
	Buffer  time.Duration // keep entries this long after they pass
	Workers int           // parallelism for warmup and rebuilds
}

// Entry wraps a snapshot with generation metadata.
type Entry struct {
	Snapshot    *orient.Snapshot
	GeneratedAt time.Time
}

// KeyframeCache is an in-memory window of orientation snapshots. Safe for
// concurrent use.
type KeyframeCache struct {
	mu      sync.RWMutex
	entries map[time.Time]*Entry

	config Config
	svc    *orient.Service
	pool   *orient.WorkerPool
	logger *slog.Logger

	// FetchedAt of the dataset the window was built from.
	builtFrom time.Time

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64

	rebuilding atomic.Bool
}

// NewKeyframeCache creates an empty cache over svc.
func NewKeyframeCache(config Config, svc *orient.Service, logger *slog.Logger) *KeyframeCache {
	logger = logger.With("component", "cache")
	logger.Info("cache initialized",
		"step_seconds", config.Step.Seconds(),
		"horizon_seconds", config.Horizon.Seconds(),
		"buffer_seconds", config.Buffer.Seconds(),
		"workers", config.Workers,
	)

	return &KeyframeCache{
		entries: make(map[time.Time]*Entry),
		config:  config,
		svc:     svc,
		pool:    orient.NewWorkerPool(config.Workers, logger),
		logger:  logger,
	}
}

// Step returns the keyframe interval.
func (c *KeyframeCache) Step() time.Duration { return c.config.Step }

// RoundToStep rounds t down to a step boundary in UTC so lookups hit
// consistently.
func (c *KeyframeCache) RoundToStep(t time.Time) time.Time {
	return t.UTC().Truncate(c.config.Step)
}

// Get returns the snapshot for the step containing t, or nil.
func (c *KeyframeCache) Get(t time.Time) *orient.Snapshot {
	key := c.RoundToStep(t)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
		metrics.IncCacheHits()
		return entry.Snapshot
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()
	return nil
}

// GetLatest returns the newest snapshot not after the current time, looking
// back at most ten steps.
func (c *KeyframeCache) GetLatest() *orient.Snapshot {
	now := c.RoundToStep(time.Now())

	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := 0; i < 10; i++ {
		if entry, ok := c.entries[now.Add(-time.Duration(i)*c.config.Step)]; ok {
			c.hits.Add(1)
			metrics.IncCacheHits()
			return entry.Snapshot
		}
	}

	c.misses.Add(1)
	metrics.IncCacheMisses()
	return nil
}

// Range returns the cached snapshots in [from, to], oldest first. Missing
// steps are skipped.
func (c *KeyframeCache) Range(from, to time.Time) []*orient.Snapshot {
	start, end := c.RoundToStep(from), c.RoundToStep(to)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*orient.Snapshot
	for ts := start; !ts.After(end); ts = ts.Add(c.config.Step) {
		if entry, ok := c.entries[ts]; ok {
			out = append(out, entry.Snapshot)
		}
	}
	return out
}

func (c *KeyframeCache) put(s *orient.Snapshot) {
	key := c.RoundToStep(s.Timestamp)
	entry := &Entry{Snapshot: s, GeneratedAt: time.Now()}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()

	c.updateMetrics()
}

// evictExpired removes entries older than now-buffer and returns how many
// were removed.
func (c *KeyframeCache) evictExpired() int {
	cutoff := c.RoundToStep(time.Now().Add(-c.config.Buffer))

	c.mu.Lock()
	removed := 0
	for ts := range c.entries {
		if ts.Before(cutoff) {
			delete(c.entries, ts)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		c.evictions.Add(int64(removed))
		metrics.AddCacheEvictions(removed)
		c.updateMetrics()
		c.logger.Debug("cache eviction", "entries_removed", removed)
	}
	return removed
}

// replaceAll swaps in a window built from the dataset fetched at builtFrom.
func (c *KeyframeCache) replaceAll(entries map[time.Time]*Entry, builtFrom time.Time) {
	c.mu.Lock()
	c.entries = entries
	c.builtFrom = builtFrom
	c.mu.Unlock()
	c.updateMetrics()
}

// Stats holds cache statistics for the stats endpoint.
type Stats struct {
	Entries         int       `json:"entries"`
	SizeBytes       int64     `json:"size_bytes"`
	OldestTimestamp time.Time `json:"oldest_timestamp"`
	NewestTimestamp time.Time `json:"newest_timestamp"`
	Hits            int64     `json:"hits"`
	Misses          int64     `json:"misses"`
	Evictions       int64     `json:"evictions"`
	Rebuilding      bool      `json:"rebuilding"`
	BuiltFrom       time.Time `json:"built_from_dataset"`
}

// Stats returns current cache statistics.
func (c *KeyframeCache) Stats() Stats {
	c.mu.RLock()
	count := len(c.entries)
	var oldest, newest time.Time
	for ts := range c.entries {
		if oldest.IsZero() || ts.Before(oldest) {
			oldest = ts
		}
		if newest.IsZero() || ts.After(newest) {
			newest = ts
		}
	}
	builtFrom := c.builtFrom
	c.mu.RUnlock()

	return Stats{
		Entries:         count,
		SizeBytes:       estimateSizeBytes(count),
		OldestTimestamp: oldest,
		NewestTimestamp: newest,
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Evictions:       c.evictions.Load(),
		Rebuilding:      c.rebuilding.Load(),
		BuiltFrom:       builtFrom,
	}
}

// estimateSizeBytes is a rough footprint: snapshot, entry and map slot.
func estimateSizeBytes(n int) int64 {
	per := int64(unsafe.Sizeof(orient.Snapshot{})) + int64(unsafe.Sizeof(Entry{})) + 8
	return int64(n) * per
}

func (c *KeyframeCache) updateMetrics() {
	c.mu.RLock()
	count := len(c.entries)
	c.mu.RUnlock()

	metrics.SetCacheEntries(count)
	metrics.SetCacheSizeBytes(estimateSizeBytes(count))
}
