// Package iau implements the IAU/IERS astronomical primitives that the time
// and frame layers are built on: calendar conversion, the leap-second table,
// pairwise time-scale conversions, Earth rotation, sidereal time, the CIP/CIO
// model and the rotation-matrix builders.
//
// Dates are two-part Julian dates (d1, d2) whose sum is the Julian date. The
// routines accept any split but are most precise when one part carries the
// whole days, e.g. (2400000.5, MJD).
//
// The package-level functions are pure. EarthOrientationProvider groups them
// behind an interface so the frame pipeline can be exercised with a stand-in
// or backed by a different implementation.
package iau

// EarthOrientationProvider is the set of primitives consumed by the
// time-scale and frame layers.
type EarthOrientationProvider interface {
	Cal2jd(iy, im, id int) (djm0, djm float64, err error)
	Jd2cal(dj1, dj2 float64) (iy, im, id int, fd float64, err error)
	Dat(iy, im, id int, fd float64) (float64, error)

	Taitt(tai1, tai2 float64) (tt1, tt2 float64)
	Tttai(tt1, tt2 float64) (tai1, tai2 float64)
	Taiutc(tai1, tai2 float64) (utc1, utc2 float64, err error)
	Utctai(utc1, utc2 float64) (tai1, tai2 float64, err error)
	Taiut1(tai1, tai2, dta float64) (ut11, ut12 float64)
	Ut1tai(ut11, ut12, dta float64) (tai1, tai2 float64)
	Ttut1(tt1, tt2, dt float64) (ut11, ut12 float64)
	Ut1tt(ut11, ut12, dt float64) (tt1, tt2 float64)
	Ut1utc(ut11, ut12, dut1 float64) (utc1, utc2 float64, err error)
	Utcut1(utc1, utc2, dut1 float64) (ut11, ut12 float64, err error)
	Tttdb(tt1, tt2, dtr float64) (tdb1, tdb2 float64)
	Tdbtt(tdb1, tdb2, dtr float64) (tt1, tt2 float64)
	Tttcg(tt1, tt2 float64) (tcg1, tcg2 float64)
	Tcgtt(tcg1, tcg2 float64) (tt1, tt2 float64)
	Tdbtcb(tdb1, tdb2 float64) (tcb1, tcb2 float64)
	Tcbtdb(tcb1, tcb2 float64) (tdb1, tdb2 float64)

	Xy06(date1, date2 float64) (x, y float64)
	S06(date1, date2, x, y float64) float64
	Sp00(date1, date2 float64) float64
	C2ixys(x, y, s float64) Matrix3
	Pom00(xp, yp, sp float64) Matrix3
	Era00(dj1, dj2 float64) float64
	Gmst82(dj1, dj2 float64) float64
	EqeqTEME(date1, date2, ddpsi float64) float64

	Rx(phi float64, r Matrix3) Matrix3
	Ry(theta float64, r Matrix3) Matrix3
	Rz(psi float64, r Matrix3) Matrix3
	Rxr(a, b Matrix3) Matrix3
	Tr(r Matrix3) Matrix3
}

// Standard is the EarthOrientationProvider backed by this package.
type Standard struct{}

var _ EarthOrientationProvider = Standard{}

func (Standard) Cal2jd(iy, im, id int) (float64, float64, error) { return Cal2jd(iy, im, id) }
func (Standard) Jd2cal(dj1, dj2 float64) (int, int, int, float64, error) {
	return Jd2cal(dj1, dj2)
}
func (Standard) Dat(iy, im, id int, fd float64) (float64, error) { return Dat(iy, im, id, fd) }

func (Standard) Taitt(a, b float64) (float64, float64)  { return Taitt(a, b) }
func (Standard) Tttai(a, b float64) (float64, float64)  { return Tttai(a, b) }
func (Standard) Tttcg(a, b float64) (float64, float64)  { return Tttcg(a, b) }
func (Standard) Tcgtt(a, b float64) (float64, float64)  { return Tcgtt(a, b) }
func (Standard) Tdbtcb(a, b float64) (float64, float64) { return Tdbtcb(a, b) }
func (Standard) Tcbtdb(a, b float64) (float64, float64) { return Tcbtdb(a, b) }

func (Standard) Taiutc(a, b float64) (float64, float64, error) { return Taiutc(a, b) }
func (Standard) Utctai(a, b float64) (float64, float64, error) { return Utctai(a, b) }

func (Standard) Taiut1(a, b, dta float64) (float64, float64) { return Taiut1(a, b, dta) }
func (Standard) Ut1tai(a, b, dta float64) (float64, float64) { return Ut1tai(a, b, dta) }
func (Standard) Ttut1(a, b, dt float64) (float64, float64)   { return Ttut1(a, b, dt) }
func (Standard) Ut1tt(a, b, dt float64) (float64, float64)   { return Ut1tt(a, b, dt) }
func (Standard) Tttdb(a, b, dtr float64) (float64, float64)  { return Tttdb(a, b, dtr) }
func (Standard) Tdbtt(a, b, dtr float64) (float64, float64)  { return Tdbtt(a, b, dtr) }

func (Standard) Ut1utc(a, b, dut1 float64) (float64, float64, error) { return Ut1utc(a, b, dut1) }
func (Standard) Utcut1(a, b, dut1 float64) (float64, float64, error) { return Utcut1(a, b, dut1) }

func (Standard) Xy06(date1, date2 float64) (float64, float64) { return Xy06(date1, date2) }
func (Standard) S06(date1, date2, x, y float64) float64       { return S06(date1, date2, x, y) }
func (Standard) Sp00(date1, date2 float64) float64            { return Sp00(date1, date2) }
func (Standard) C2ixys(x, y, s float64) Matrix3               { return C2ixys(x, y, s) }
func (Standard) Pom00(xp, yp, sp float64) Matrix3             { return Pom00(xp, yp, sp) }
func (Standard) Era00(dj1, dj2 float64) float64               { return Era00(dj1, dj2) }
func (Standard) Gmst82(dj1, dj2 float64) float64              { return Gmst82(dj1, dj2) }
func (Standard) EqeqTEME(date1, date2, ddpsi float64) float64 { return EqeqTEME(date1, date2, ddpsi) }
func (Standard) Rx(phi float64, r Matrix3) Matrix3            { return Rx(phi, r) }
func (Standard) Ry(theta float64, r Matrix3) Matrix3          { return Ry(theta, r) }
func (Standard) Rz(psi float64, r Matrix3) Matrix3            { return Rz(psi, r) }
func (Standard) Rxr(a, b Matrix3) Matrix3                     { return Rxr(a, b) }
func (Standard) Tr(r Matrix3) Matrix3                         { return Tr(r) }
