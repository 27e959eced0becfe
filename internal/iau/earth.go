package iau

import "math"

// Anp normalizes an angle into the range [0, 2π).
func Anp(a float64) float64 {
	w := math.Mod(a, D2PI)
	if w < 0 {
		w += D2PI
	}
	return w
}

// Era00 returns the Earth rotation angle (IAU 2000) in radians for a
// two-part UT1 Julian date.
func Era00(dj1, dj2 float64) float64 {
	d1, d2 := dj1, dj2
	if dj1 >= dj2 {
		d1, d2 = dj2, dj1
	}
	t := d1 + (d2 - DJ00)

	// Fractional part of T (days).
	f := math.Mod(d1, 1.0) + math.Mod(d2, 1.0)

	return Anp(D2PI * (f + 0.7790572732640 + 0.00273781191135448*t))
}

// Gmst82 returns Greenwich mean sidereal time (IAU 1982 model) in radians for
// a two-part UT1 Julian date. Vallado eq. 3-47, evaluated on the two-part
// date so the day fraction keeps full precision.
func Gmst82(dj1, dj2 float64) float64 {
	const (
		a = 24110.54841 - DAYSEC/2.0
		b = 8640184.812866
		c = 0.093104
		d = -6.2e-6
	)

	d1, d2 := dj1, dj2
	if dj1 >= dj2 {
		d1, d2 = dj2, dj1
	}
	t := (d1 + (d2 - DJ00)) / DJC

	// Fractional part of JD(UT1), in seconds.
	f := DAYSEC * (math.Mod(d1, 1.0) + math.Mod(d2, 1.0))

	return Anp(DS2R * ((a + (b+(c+d*t)*t)*t) + f))
}

// Sp00 returns the TIO locator s' in radians for a two-part TT Julian date,
// using the linear IERS 2003 approximation.
func Sp00(date1, date2 float64) float64 {
	t := ((date1 - DJ00) + date2) / DJC
	return -47e-6 * t * DAS2R
}

// Pom00 forms the polar-motion matrix (TIRS→ITRS) from the pole coordinates
// xp, yp and the TIO locator sp, all in radians.
func Pom00(xp, yp, sp float64) Matrix3 {
	r := Identity()
	r = Rz(sp, r)
	r = Ry(-xp, r)
	r = Rx(-yp, r)
	return r
}

// C2ixys forms the celestial-to-intermediate matrix (GCRS→CIRS) from the CIP
// coordinates x, y and the CIO locator s.
func C2ixys(x, y, s float64) Matrix3 {
	r2 := x*x + y*y
	var e float64
	if r2 > 0.0 {
		e = math.Atan2(y, x)
	}
	d := math.Atan(math.Sqrt(r2 / (1.0 - r2)))

	r := Identity()
	r = Rz(e, r)
	r = Ry(d, r)
	r = Rz(-(e + s), r)
	return r
}
