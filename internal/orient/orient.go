// Package orient turns a UTC instant and Earth-orientation parameters into
// the GCRS→ITRS rotation used to place the Earth model in the scene.
//
// A Snapshot is the unit the cache, the stream and the HTTP API pass around:
// the instant on every scale the renderer needs, the parameters that were
// applied and the resulting rotation.
package orient

import (
	"time"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// Snapshot is the orientation of the Earth at one instant.
type Snapshot struct {
	Timestamp time.Time
	UTC       timescale.UTC
	TT        timescale.TT
	UT1       timescale.UT1
	TDB       timescale.TDB
	Params    eop.Params
	C2T       frame.Rotation[frame.GCRS, frame.ITRS]

	// Reused is set when the rotation could not be computed for Timestamp
	// and the previous snapshot's rotation is served instead.
	Reused bool
}

// EarthModel returns the homogeneous transform that places ITRS geometry in
// the GCRS scene.
func (s *Snapshot) EarthModel() frame.Matrix4 {
	return frame.EarthModelMatrix(s.C2T)
}

// Epochs returns the TT and UT1 instants for u, the two arguments of the
// celestial-to-terrestrial rotation.
func Epochs(u timescale.UTC, dut1 float64) (timescale.TT, timescale.UT1, error) {
	return epochs(timescale.Default, u, dut1)
}

func epochs(conv timescale.Converter, u timescale.UTC, dut1 float64) (timescale.TT, timescale.UT1, error) {
	tt, err := conv.UTCToTT(u)
	if err != nil {
		return timescale.TT{}, timescale.UT1{}, err
	}
	ut1, err := conv.UTCToUT1(u, dut1)
	if err != nil {
		return timescale.TT{}, timescale.UT1{}, err
	}
	return tt, ut1, nil
}

// Calculator computes snapshots from explicit parameters. It holds no
// state; the same inputs always give the same snapshot.
type Calculator struct {
	conv     timescale.Converter
	pipeline frame.Pipeline
}

// NewCalculator returns a Calculator whose conversions and rotations are
// both backed by p.
func NewCalculator(p iau.EarthOrientationProvider) Calculator {
	return Calculator{
		conv:     timescale.NewConverter(p),
		pipeline: frame.NewPipeline(p),
	}
}

// Standard is the Calculator backed by the iau package.
var Standard = NewCalculator(iau.Standard{})

// Compute returns the snapshot for u with parameters p. TDB is derived with
// the approximate TDB−TT series.
func (c Calculator) Compute(u timescale.UTC, p eop.Params) (*Snapshot, error) {
	tt, ut1, err := epochs(c.conv, u, p.DUT1)
	if err != nil {
		return nil, err
	}
	tdb := c.conv.TTToTDB(tt, iau.DtdbApprox(tt.Whole, tt.Frac))

	return &Snapshot{
		UTC:    u,
		TT:     tt,
		UT1:    ut1,
		TDB:    tdb,
		Params: p,
		C2T:    c.pipeline.GCRSToITRS(tt, ut1, p.XP, p.YP, p.DX, p.DY),
	}, nil
}

// TEMEToITRS converts an SGP4 state at u into the Earth-fixed frame.
func (c Calculator) TEMEToITRS(u timescale.UTC, p eop.Params, r, v frame.Vector[frame.TEME]) (frame.Vector[frame.ITRS], frame.Vector[frame.ITRS], error) {
	ut1, err := c.conv.UTCToUT1(u, p.DUT1)
	if err != nil {
		return frame.Vector[frame.ITRS]{}, frame.Vector[frame.ITRS]{}, err
	}
	ri, vi := c.pipeline.TEMEStateToITRS(ut1, p.XP, p.YP, r, v)
	return ri, vi, nil
}
