package eop

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/AlexApps99/stardome/internal/timescale"
)

// Store publishes the current dataset to concurrent readers.
type Store struct {
	dataset atomic.Pointer[Dataset]
	mu      sync.Mutex // serializes refreshes
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current dataset, or nil if none has been loaded.
func (s *Store) Get() *Dataset {
	return s.dataset.Load()
}

// Set atomically replaces the current dataset.
func (s *Store) Set(ds *Dataset) {
	s.dataset.Store(ds)
}

// Ready reports whether a non-empty dataset is loaded.
func (s *Store) Ready() bool {
	ds := s.dataset.Load()
	return ds != nil && len(ds.Entries) > 0
}

// At interpolates the current dataset at u.
func (s *Store) At(u timescale.UTC) (Params, error) {
	ds := s.dataset.Load()
	if ds == nil {
		return Params{}, ErrNoDataset
	}
	return ds.At(u)
}

// AgeSeconds returns the age of the current dataset in seconds, or -1 if
// none is loaded.
func (s *Store) AgeSeconds() float64 {
	ds := s.dataset.Load()
	if ds == nil {
		return -1
	}
	return time.Since(ds.FetchedAt).Seconds()
}
