package eop

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AlexApps99/stardome/internal/metrics"
)

// ErrFetchDisabled is returned by Refresh when no fetcher is configured.
var ErrFetchDisabled = errors.New("EOP fetching is disabled")

// Refresher keeps the Store populated from the disk cache and the network.
type Refresher struct {
	fetcher *Fetcher // nil when fetching is disabled
	cache   *Cache
	store   *Store
	logger  *slog.Logger
}

// NewRefresher wires a fetcher, cache and store. fetcher may be nil.
func NewRefresher(fetcher *Fetcher, cache *Cache, store *Store, logger *slog.Logger) *Refresher {
	return &Refresher{
		fetcher: fetcher,
		cache:   cache,
		store:   store,
		logger:  logger.With("component", "eop"),
	}
}

// Store returns the store the refresher publishes to.
func (r *Refresher) Store() *Store { return r.store }

// LoadCached publishes the newest cached series, if any.
func (r *Refresher) LoadCached() (*Dataset, error) {
	data, fetchedAt, err := r.cache.LoadLatest()
	if err != nil {
		return nil, err
	}

	ds, err := r.publish(data, "cache", fetchedAt)
	if err != nil {
		return nil, fmt.Errorf("loading cached series: %w", err)
	}
	r.logger.Info("loaded EOP data from cache",
		"entries", len(ds.Entries),
		"cached_at", fetchedAt.Format(time.RFC3339),
	)
	return ds, nil
}

// Refresh downloads the series, writes it to the cache and publishes it.
// Concurrent calls are serialized.
func (r *Refresher) Refresh(ctx context.Context) (*Dataset, error) {
	if r.fetcher == nil {
		return nil, ErrFetchDisabled
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data, err := r.fetcher.Fetch(ctx)
	if err != nil {
		metrics.IncEOPFetch("error")
		return nil, err
	}

	now := time.Now().UTC()
	ds, err := r.publish(data, r.fetcher.SourceURL(), now)
	if err != nil {
		metrics.IncEOPFetch("error")
		return nil, err
	}
	metrics.IncEOPFetch("success")

	if err := r.cache.Write(data, now); err != nil {
		r.logger.Warn("failed to write EOP cache", "cache_dir", r.cache.Dir(), "error", err)
	}

	r.logger.Info("EOP data refreshed",
		"source_url", ds.Source,
		"entries", len(ds.Entries),
		"mjd_min", ds.Range.Min,
		"mjd_max", ds.Range.Max,
	)
	return ds, nil
}

func (r *Refresher) publish(data []byte, source string, fetchedAt time.Time) (*Dataset, error) {
	entries, err := Parse(bytes.NewReader(data), r.logger)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("EOP series has no usable rows")
	}

	ds := NewDataset(source, fetchedAt, entries)
	r.store.Set(ds)
	metrics.SetEOPDatasetEntries(len(ds.Entries))
	metrics.SetEOPDatasetAge(r.store.AgeSeconds())
	return ds, nil
}

// Run refreshes whenever the dataset is missing or older than maxAge,
// checking every interval, and keeps the age gauge current. Blocks until
// ctx is cancelled.
func (r *Refresher) Run(ctx context.Context, interval, maxAge time.Duration) {
	check := func() {
		age := r.store.AgeSeconds()
		if age >= 0 {
			metrics.SetEOPDatasetAge(age)
		}
		if r.fetcher == nil || (age >= 0 && age < maxAge.Seconds()) {
			return
		}
		if _, err := r.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("EOP refresh failed", "error", err)
		}
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}
