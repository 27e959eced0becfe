package ephemeris

import (
	"math"

	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
	"github.com/soniakeys/unit"

	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// Analytic computes the Moon from the truncated ELP series in Meeus
// chapter 47. Positions are good to about 10″ and a few km, enough to draw
// the Moon but not to predict occultations.
type Analytic struct{}

// NewAnalytic returns the series-based reader. It has no coverage limits.
func NewAnalytic() Analytic { return Analytic{} }

// Moon implements Reader.
func (Analytic) Moon(tdb timescale.TDB) (MoonState, error) {
	jde := tdb.JD()
	lon, lat, dist := moonposition.Position(jde)

	// Mean ecliptic of date to mean equator of date.
	ecl := iau.Vector3{
		dist * lat.Cos() * lon.Cos(),
		dist * lat.Cos() * lon.Sin(),
		dist * lat.Sin(),
	}
	eq := iau.Rxp(iau.Rx(-nutation.MeanObliquity(jde).Rad(), iau.Identity()), ecl)

	// Mean of date back to J2000.
	j2000 := iau.Rxp(iau.Tr(precession76(tdb)), eq)

	return MoonState{
		Position:  frame.Vec[frame.GCRS](j2000[0], j2000[1], j2000[2]),
		Libration: MeanLibration(tdb),
	}, nil
}

// Close implements Reader.
func (Analytic) Close() error { return nil }

// precession76 is the IAU 1976 J2000→mean-of-date precession matrix.
func precession76(tdb timescale.TDB) iau.Matrix3 {
	t := (tdb.Whole - iau.DJ00 + tdb.Frac) / iau.DJC
	zeta := (2306.2181 + (0.30188+0.017998*t)*t) * t * iau.DAS2R
	z := (2306.2181 + (1.09468+0.018203*t)*t) * t * iau.DAS2R
	theta := (2004.3109 - (0.42665+0.041833*t)*t) * t * iau.DAS2R

	m := iau.Rz(-zeta, iau.Identity())
	m = iau.Ry(theta, m)
	return iau.Rz(-z, m)
}

// MeanLibration returns the Moon's orientation from the IAU WGCCRE mean
// rotation model (pole and prime meridian without the periodic terms).
func MeanLibration(tdb timescale.TDB) Libration {
	d := tdb.Whole - iau.DJ00 + tdb.Frac
	t := d / iau.DJC

	ra := unit.AngleFromDeg(269.9949 + 0.0031*t)
	dec := unit.AngleFromDeg(66.5392 + 0.0130*t)
	w := unit.AngleFromDeg(38.3213 + 13.17635815*d - 1.4e-12*d*d)

	return Libration{
		Phi:   ra.Rad() + math.Pi/2,
		Theta: math.Pi/2 - dec.Rad(),
		Psi:   iau.Anp(w.Rad()),
	}
}
