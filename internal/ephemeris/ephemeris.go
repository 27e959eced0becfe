// Package ephemeris supplies body positions to the rendering layer.
//
// A Reader answers position lookups for a TDB instant. Readers may wrap
// non-reentrant resources, so callers go through a Handle, which owns the
// reader and admits one lookup at a time.
package ephemeris

import (
	"errors"
	"sync"

	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

var (
	// ErrClosed is returned by a Handle after Close.
	ErrClosed = errors.New("ephemeris: handle closed")
	// ErrOutOfRange is returned when the instant is outside the reader's
	// coverage.
	ErrOutOfRange = errors.New("ephemeris: instant outside coverage")
)

// Libration holds the lunar mantle Euler angles in radians: a 3-1-3
// rotation taking GCRS axes to the Moon's body-fixed axes.
type Libration struct {
	Phi   float64 `json:"phi"`
	Theta float64 `json:"theta"`
	Psi   float64 `json:"psi"`
}

// Matrix returns the GCRS→body-fixed rotation Rz(ψ)·Rx(θ)·Rz(φ).
func (l Libration) Matrix() iau.Matrix3 {
	m := iau.Rz(l.Phi, iau.Identity())
	m = iau.Rx(l.Theta, m)
	return iau.Rz(l.Psi, m)
}

// MoonState is the geocentric Moon at one instant.
type MoonState struct {
	Position    frame.Vector[frame.GCRS] // km
	Velocity    frame.Vector[frame.GCRS] // km/s, zero when the reader has none
	HasVelocity bool
	Libration   Libration
}

// ModelMatrix places body-fixed Moon geometry (km) in the GCRS scene.
func (m MoonState) ModelMatrix() frame.Matrix4 {
	return frame.Matrix4FromRotation(iau.Tr(m.Libration.Matrix())).
		WithTranslation(m.Position.X, m.Position.Y, m.Position.Z)
}

// Reader looks up body states. Implementations need not be safe for
// concurrent use.
type Reader interface {
	Moon(tdb timescale.TDB) (MoonState, error)
	Close() error
}

// Handle owns a Reader and serializes access to it.
type Handle struct {
	mu     sync.Mutex
	r      Reader
	closed bool
}

// NewHandle takes ownership of r.
func NewHandle(r Reader) *Handle {
	return &Handle{r: r}
}

// Moon returns the Moon's state at tdb.
func (h *Handle) Moon(tdb timescale.TDB) (MoonState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return MoonState{}, ErrClosed
	}
	return h.r.Moon(tdb)
}

// Close releases the reader. Further lookups return ErrClosed. Closing
// twice is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	return h.r.Close()
}
