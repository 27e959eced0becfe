package iau

import (
	"errors"
	"math"

	"github.com/soniakeys/meeus/v3/julian"
)

// Primitive status errors. They mirror the status codes of the IAU reference
// routines so that callers can tell which field was rejected.
var (
	ErrBadYear         = errors.New("iau: year out of range")
	ErrBadMonth        = errors.New("iau: month out of range")
	ErrBadDay          = errors.New("iau: day out of range")
	ErrBadHour         = errors.New("iau: hour out of range")
	ErrBadMinute       = errors.New("iau: minute out of range")
	ErrBadSecond       = errors.New("iau: second out of range")
	ErrBadFraction     = errors.New("iau: day fraction out of range")
	ErrDateRange       = errors.New("iau: Julian date outside representable range")
	ErrBeforeLeapTable = errors.New("iau: date precedes the UTC leap-second table")
)

const (
	// DJM0 is the Julian date of the Modified Julian Date zero point.
	DJM0 = 2400000.5
	// DJ00 is the reference epoch J2000.0 as a Julian date.
	DJ00 = 2451545.0
	// DJC is the number of days per Julian century.
	DJC = 36525.0
	// DAYSEC is the number of seconds per day.
	DAYSEC = 86400.0

	// DAS2R converts arcseconds to radians.
	DAS2R = 4.848136811095359935899141e-6
	// DS2R converts seconds of time to radians.
	DS2R = 7.272205216643039903848712e-5
	// D2PI is 2π.
	D2PI = 2 * math.Pi
	// TURNAS is the number of arcseconds in a full circle.
	TURNAS = 1296000.0

	dblEpsilon = 2.220446049250313e-16

	// Earliest year accepted by Cal2jd (Julian day number zero falls in -4712).
	minYear = -4799
	// Julian date limits accepted by Jd2cal.
	djMin = -68569.5
	djMax = 1e9
)

var monthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Cal2jd converts a Gregorian calendar date to a two-part Modified Julian
// Date at 0h: djm0 is always DJM0 and djm is the MJD.
func Cal2jd(iy, im, id int) (djm0, djm float64, err error) {
	if iy < minYear {
		return 0, 0, ErrBadYear
	}
	if im < 1 || im > 12 {
		return 0, 0, ErrBadMonth
	}
	ndays := monthDays[im-1]
	if im == 2 && julian.LeapYearGregorian(iy) {
		ndays++
	}
	if id < 1 || id > ndays {
		return 0, 0, ErrBadDay
	}
	jd := julian.CalendarGregorianToJD(iy, im, float64(id))
	return DJM0, jd - DJM0, nil
}

// Jd2cal converts a two-part Julian date to a Gregorian calendar date and a
// day fraction in [0, 1). The split of dj1/dj2 is arbitrary; precision is
// kept by compensated summation of the fractional parts.
func Jd2cal(dj1, dj2 float64) (iy, im, id int, fd float64, err error) {
	dj := dj1 + dj2
	if dj < djMin || dj > djMax {
		return 0, 0, 0, 0, ErrDateRange
	}

	d := math.Round(dj1)
	f1 := dj1 - d
	jd := int64(d)
	d = math.Round(dj2)
	f2 := dj2 - d
	jd += int64(d)

	s, cs := 0.5, 0.0
	for _, x := range [2]float64{f1, f2} {
		t := s + x
		if math.Abs(s) >= math.Abs(x) {
			cs += (s - t) + x
		} else {
			cs += (x - t) + s
		}
		s = t
		if s >= 1.0 {
			jd++
			s -= 1.0
		}
	}
	f := s + cs
	cs = f - s

	if f < 0.0 {
		f = s + 1.0
		cs += (1.0 - f) + s
		s = f
		f = s + cs
		cs = f - s
		jd--
	}

	if (f - 1.0) >= -dblEpsilon/4.0 {
		t := s - 1.0
		cs += (s - t) - 1.0
		s = t
		f = s + cs
		if -dblEpsilon/2.0 < f {
			jd++
			f = math.Max(f, 0.0)
		}
	}

	l := jd + 68569
	n := (4 * l) / 146097
	l -= (146097*n + 3) / 4
	i := (4000 * (l + 1)) / 1461001
	l -= (1461*i)/4 - 31
	k := (80 * l) / 2447
	id = int(l - (2447*k)/80)
	l = k / 11
	im = int(k + 2 - 12*l)
	iy = int(100*(n-49) + i + l)
	return iy, im, id, f, nil
}

// Tf2d converts hours, minutes and seconds to a signed day fraction. The
// fraction is always computed; err reports a field outside its clock range.
func Tf2d(sign byte, ihour, imin int, sec float64) (float64, error) {
	days := (60.0*(60.0*math.Abs(float64(ihour))+math.Abs(float64(imin))) + math.Abs(sec)) / DAYSEC
	if sign == '-' {
		days = -days
	}
	switch {
	case ihour < 0 || ihour > 23:
		return days, ErrBadHour
	case imin < 0 || imin > 59:
		return days, ErrBadMinute
	case !(sec >= 0.0 && sec < 60.0):
		return days, ErrBadSecond
	}
	return days, nil
}

// HMSF holds hours, minutes, seconds and the fractional field of a
// decomposed interval.
type HMSF [4]int

// D2tf decomposes a signed day interval into hours, minutes, seconds and a
// fraction with ndp decimal places, rounding to the last place. Negative
// ndp is treated as zero.
func D2tf(ndp int, days float64) (sign byte, ihmsf HMSF) {
	sign = '+'
	if days < 0.0 {
		sign = '-'
	}
	a := DAYSEC * math.Abs(days)

	if ndp < 0 {
		ndp = 0
	}
	rs := math.Pow10(ndp)
	rm := rs * 60.0
	rh := rm * 60.0

	a = math.Round(rs * a)
	ah := math.Trunc(a / rh)
	a -= ah * rh
	am := math.Trunc(a / rm)
	a -= am * rm
	as := math.Trunc(a / rs)
	af := a - as*rs

	ihmsf = HMSF{int(ah), int(am), int(as), int(af)}
	return sign, ihmsf
}
