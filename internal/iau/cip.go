package iau

import (
	"math"

	"github.com/soniakeys/meeus/v3/nutation"
)

// Obliquity of the ecliptic at J2000.0 (IAU 2006), arcseconds.
const eps0 = 84381.406

// CIP X, Y polynomial parts (IAU 2006/2000A), arcseconds, ascending powers of t.
// The constant terms carry the frame bias.
var (
	xPoly = [6]float64{-0.016617, 2004.191898, -0.4297829, -0.19861834, 0.000007578, 0.0000059285}
	yPoly = [6]float64{-0.006951, -0.025896, -22.4072747, 0.00190059, 0.001112526, 0.0000001358}
	// s + XY/2 polynomial part, arcseconds.
	sPoly = [6]float64{94.00e-6, 3808.65e-6, -122.68e-6, -72574.11e-6, 27.98e-6, 15.62e-6}
)

func horner(t float64, c [6]float64) float64 {
	return c[0] + t*(c[1]+t*(c[2]+t*(c[3]+t*(c[4]+t*c[5]))))
}

// Faom03 returns the mean longitude of the Moon's ascending node (IERS 2003)
// in radians for TDB Julian centuries since J2000.0.
func Faom03(t float64) float64 {
	return math.Mod(450160.398036+t*(-6962890.5431+t*(7.4722+t*(0.007702+t*(-0.00005939)))), TURNAS) * DAS2R
}

// Xy06 returns the CIP X, Y coordinates in radians for a two-part TT date.
//
// The secular part is the IAU 2006 precession polynomial including frame
// bias. The periodic part is the IAU 1980 nutation projected onto the GCRS
// (X ≈ Δψ·sin ε0, Y ≈ Δε), which agrees with the full IAU 2006/2000A series
// to a few hundredths of an arcsecond. Observed corrections dX, dY are applied
// by the caller.
func Xy06(date1, date2 float64) (x, y float64) {
	t := ((date1 - DJ00) + date2) / DJC

	dpsi, deps := nutation.Nutation(date1 + date2)

	x = horner(t, xPoly)*DAS2R + dpsi.Rad()*math.Sin(eps0*DAS2R)
	y = horner(t, yPoly)*DAS2R + deps.Rad()
	return x, y
}

// S06 returns the CIO locator s in radians for a two-part TT date and the
// CIP coordinates x, y. Only the polynomial and the dominant lunar-node terms
// of the series are kept.
func S06(date1, date2, x, y float64) float64 {
	t := ((date1 - DJ00) + date2) / DJC
	om := Faom03(t)

	w := horner(t, sPoly)
	w += -2640.73e-6*math.Sin(om) + 0.39e-6*math.Cos(om)
	w += -63.53e-6*math.Sin(2*om) + 0.02e-6*math.Cos(2*om)
	w += t * (-0.07e-6*math.Sin(om) + 3.57e-6*math.Cos(om))
	w += t * t * (743.52e-6*math.Sin(om) - 0.17e-6*math.Cos(om))

	return w*DAS2R - x*y/2.0
}

// EqeqTEME returns the equation of the equinoxes in radians as used to define
// the TEME frame: IAU 1980 nutation in longitude projected on the mean
// equator, without the kinematic terms added in 1994. ddpsi is the observed
// correction to the nutation in longitude (IERS dPsi), in radians.
func EqeqTEME(date1, date2, ddpsi float64) float64 {
	jde := date1 + date2
	dpsi, _ := nutation.Nutation(jde)
	eps := nutation.MeanObliquity(jde)
	return (dpsi.Rad() + ddpsi) * math.Cos(eps.Rad())
}
