package orient

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/metrics"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// Service computes snapshots for wall-clock instants using the parameters
// in an EOP store.
//
// When an instant falls outside the leap-second table or the EOP dataset,
// the frame is skipped: the previous good snapshot is returned with Reused
// set. Only when there is no previous snapshot does the error reach the
// caller.
type Service struct {
	calc   Calculator
	store  *eop.Store
	logger *slog.Logger
	last   atomic.Pointer[Snapshot]
}

// NewService creates a Service reading parameters from store.
func NewService(calc Calculator, store *eop.Store, logger *slog.Logger) *Service {
	return &Service{
		calc:   calc,
		store:  store,
		logger: logger.With("component", "orient"),
	}
}

// Calculator returns the calculator the service computes with.
func (s *Service) Calculator() Calculator { return s.calc }

// Store returns the EOP store the service reads.
func (s *Service) Store() *eop.Store { return s.store }

// Last returns the most recent successfully computed snapshot, or nil.
func (s *Service) Last() *Snapshot { return s.last.Load() }

// At computes the snapshot for the wall-clock instant t.
func (s *Service) At(t time.Time) (*Snapshot, error) {
	snap, err := s.compute(t)
	if err == nil {
		s.last.Store(snap)
		metrics.IncOrientation("ok")
		return snap, nil
	}

	if skippable(err) {
		if prev := s.last.Load(); prev != nil {
			s.logger.Warn("orientation unavailable, reusing previous matrix",
				"timestamp", t.UTC().Format(time.RFC3339Nano),
				"previous", prev.Timestamp.UTC().Format(time.RFC3339Nano),
				"error", err,
			)
			metrics.IncOrientation("reused")
			reused := *prev
			reused.Timestamp = t
			reused.Reused = true
			return &reused, nil
		}
	}

	metrics.IncOrientation("error")
	return nil, err
}

// Compute is At without the reuse policy or the shared last snapshot, for
// batch generation.
func (s *Service) Compute(t time.Time) (*Snapshot, error) {
	return s.compute(t)
}

func (s *Service) compute(t time.Time) (*Snapshot, error) {
	u := timescale.FromWallClock(t)
	p, err := s.store.At(u)
	if err != nil {
		return nil, err
	}
	snap, err := s.calc.Compute(u, p)
	if err != nil {
		return nil, err
	}
	snap.Timestamp = t
	return snap, nil
}

// skippable reports whether err is a date-domain failure for which the
// previous rotation may stand in.
func skippable(err error) bool {
	return timescale.IsKind(err, timescale.KindUnacceptableDate) || errors.Is(err, eop.ErrOutOfRange)
}
