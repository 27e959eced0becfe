package cache

import (
	"context"
	"time"

	"github.com/AlexApps99/stardome/internal/metrics"
)

// Start runs the maintenance loop: it waits for EOP data, fills the window,
// then on every step computes the leading edge, evicts the trailing edge and
// rebuilds the window when the dataset changes. Blocks until ctx is
// cancelled.
func (c *KeyframeCache) Start(ctx context.Context) {
	if !c.waitForData(ctx) {
		return
	}

	c.rebuild(ctx, "warmup")

	ticker := time.NewTicker(c.config.Step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cache generator stopped")
			return
		case <-ticker.C:
			c.tick(ctx)
		}
	}
}

// waitForData blocks until the EOP store has a dataset, polling every
// second. Returns false if ctx is cancelled first.
func (c *KeyframeCache) waitForData(ctx context.Context) bool {
	store := c.svc.Store()
	if store.Ready() {
		return true
	}

	c.logger.Info("cache waiting for EOP data")
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if store.Ready() {
				c.logger.Info("EOP data available, starting cache warmup")
				return true
			}
		}
	}
}

func (c *KeyframeCache) tick(ctx context.Context) {
	if c.datasetChanged() {
		c.rebuild(ctx, "cutover")
		return
	}
	c.generateLeadingEdge()
	c.evictExpired()
}

// datasetChanged reports whether the store holds a different dataset from
// the one the window was built from.
func (c *KeyframeCache) datasetChanged() bool {
	ds := c.svc.Store().Get()
	if ds == nil {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return !ds.FetchedAt.Equal(c.builtFrom)
}

// rebuild computes the full [now, now+horizon] window in parallel and swaps
// it in. Reads keep hitting the old window until the swap.
func (c *KeyframeCache) rebuild(ctx context.Context, reason string) {
	ds := c.svc.Store().Get()
	if ds == nil {
		return
	}

	c.rebuilding.Store(true)
	metrics.SetCacheGracePeriodActive(true)
	defer func() {
		c.rebuilding.Store(false)
		metrics.SetCacheGracePeriodActive(false)
	}()

	now := c.RoundToStep(time.Now())
	frames := int(c.config.Horizon/c.config.Step) + 1
	times := make([]time.Time, frames)
	for i := range times {
		times[i] = now.Add(time.Duration(i) * c.config.Step)
	}

	c.logger.Info("cache rebuild starting",
		"reason", reason,
		"frames", frames,
		"from", times[0].Format(time.RFC3339),
		"to", times[frames-1].Format(time.RFC3339),
		"dataset_fetched_at", ds.FetchedAt.UTC().Format(time.RFC3339),
	)

	start := time.Now()
	snaps, failed := c.pool.ComputeBatch(ctx, c.svc, times)
	if ctx.Err() != nil {
		c.logger.Warn("cache rebuild cancelled", "reason", reason)
		return
	}

	entries := make(map[time.Time]*Entry, frames)
	generatedAt := time.Now()
	for _, s := range snaps {
		if s == nil {
			continue
		}
		entries[c.RoundToStep(s.Timestamp)] = &Entry{Snapshot: s, GeneratedAt: generatedAt}
	}
	for i := 0; i < failed; i++ {
		metrics.IncCacheRegenerationErrors()
	}

	c.replaceAll(entries, ds.FetchedAt)

	duration := time.Since(start)
	metrics.ObserveCacheRegenerationDuration(duration)
	c.logger.Info("cache rebuild complete",
		"reason", reason,
		"generated", len(entries),
		"failed", failed,
		"duration_ms", duration.Milliseconds(),
	)
}

// generateLeadingEdge computes the keyframe at now+horizon. It goes through
// the service's reuse policy so a leap-second or EOP gap keeps the stream
// fed with the previous matrix.
func (c *KeyframeCache) generateLeadingEdge() {
	target := c.RoundToStep(time.Now().Add(c.config.Horizon))
	if c.contains(target) {
		return
	}

	start := time.Now()
	snap, err := c.svc.At(target)
	duration := time.Since(start)
	if err != nil {
		c.logger.Warn("leading edge generation failed",
			"timestamp", target.Format(time.RFC3339),
			"error", err,
		)
		metrics.IncCacheRegenerationErrors()
		return
	}

	c.put(snap)
	metrics.ObserveCacheRegenerationDuration(duration)
	c.logger.Debug("leading edge generated",
		"timestamp", target.Format(time.RFC3339),
		"reused", snap.Reused,
		"duration_ms", duration.Milliseconds(),
	)
}

// contains checks for a key without touching the hit/miss counters.
func (c *KeyframeCache) contains(t time.Time) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[c.RoundToStep(t)]
	return ok
}
