// Package timescale provides the two-part time representation and typed
// wrappers for the UTC, TAI, TT, UT1, TCG, TCB and TDB scales, with the
// conversions between them.
//
// Every instant is carried as a pair (Whole, Frac) whose sum is a Julian
// date. Values built here put the Julian date of the start of the day in
// Whole (2400000.5 + MJD) and the day fraction in Frac, and conversions keep
// that split: the correction is always applied to the smaller part.
package timescale

import (
	"math"
	"time"

	"github.com/AlexApps99/stardome/internal/iau"
)

// MJDEpoch is the Julian date of MJD 0.
const MJDEpoch = iau.DJM0

// unixEpochMJD is 1970-01-01T00:00:00 UTC as an MJD.
const unixEpochMJD = 40587.0

// Instant is a two-part Julian date. It is never collapsed to a single
// float64 in conversions.
type Instant struct {
	Whole float64 `json:"whole"`
	Frac  float64 `json:"frac"`
}

// NewInstant builds an instant from a calendar date and time of day, treating
// the day as 86400 uniform seconds.
func NewInstant(year, month, day, hour, minute int, second float64) (Instant, error) {
	djm0, djm, err := iau.Cal2jd(year, month, day)
	if err != nil {
		return Instant{}, opError("from_calendar", KindInvalidCalendarDate, err)
	}
	fd, err := iau.Tf2d('+', hour, minute, second)
	if err != nil {
		return Instant{}, opError("from_calendar", KindInvalidCalendarDate, err)
	}
	return Instant{Whole: djm0 + djm, Frac: fd}, nil
}

// InstantFromYMDF builds an instant from a calendar date plus a day fraction
// in [0, 1].
func InstantFromYMDF(year, month, day int, fraction float64) (Instant, error) {
	if fraction < 0 || fraction > 1 {
		return Instant{}, opError("from_ymdf", KindInvalidCalendarDate, iau.ErrBadFraction)
	}
	djm0, djm, err := iau.Cal2jd(year, month, day)
	if err != nil {
		return Instant{}, opError("from_ymdf", KindInvalidCalendarDate, err)
	}
	return Instant{Whole: djm0 + djm, Frac: fraction}, nil
}

// MJD returns the Modified Julian Date as a single float64, for display and
// table lookups.
func (i Instant) MJD() float64 {
	return (i.Whole - MJDEpoch) + i.Frac
}

// JD returns the Julian date collapsed to one float64. Precision is about
// 40 µs; use the two parts for computation.
func (i Instant) JD() float64 {
	return i.Whole + i.Frac
}

// AddSeconds returns i advanced by s seconds. The offset goes into the
// smaller part, as the conversions do, and whole days that accumulate there
// are carried into the larger part.
func (i Instant) AddSeconds(s float64) Instant {
	d := s / iau.DAYSEC
	if math.Abs(i.Whole) >= math.Abs(i.Frac) {
		return carry(i.Whole, i.Frac+d)
	}
	c := carry(i.Frac, i.Whole+d)
	return Instant{Whole: c.Frac, Frac: c.Whole}
}

// carry moves the integral days of small into big. Both operations are exact.
func carry(big, small float64) Instant {
	if math.Abs(small) < 1 {
		return Instant{Whole: big, Frac: small}
	}
	n := math.Trunc(small)
	return Instant{Whole: big + n, Frac: small - n}
}

// DifferenceSeconds returns i − o in seconds, differencing the large and
// small parts separately.
func (i Instant) DifferenceSeconds(o Instant) float64 {
	return ((i.Whole - o.Whole) + (i.Frac - o.Frac)) * iau.DAYSEC
}

// Before reports whether i is earlier than o.
func (i Instant) Before(o Instant) bool {
	return i.DifferenceSeconds(o) < 0
}

// FromWallClock returns the UTC instant for a system clock reading. The
// time of day is divided by the length of that UTC day, 86401 s on a
// leap-second day, so the result matches NewUTC for the same fields.
func FromWallClock(now time.Time) UTC {
	unix := now.Unix()
	days := unix / 86400
	if unix%86400 < 0 {
		days--
	}
	rem := float64(unix-days*86400) + float64(now.Nanosecond())/1e9
	mjd := unixEpochMJD + float64(days)
	return UTC{Instant{
		Whole: MJDEpoch + mjd,
		Frac:  rem / utcDayLength(mjd),
	}}
}

// WallClock is the inverse of FromWallClock. The system clock has no
// 23:59:60, so an instant inside a leap second comes back as the first
// second of the next day.
func (u UTC) WallClock() time.Time {
	off := u.Whole - MJDEpoch - unixEpochMJD
	days := math.Floor(off)
	rest := (off - days) + u.Frac
	if carry := math.Floor(rest); carry != 0 {
		days += carry
		rest -= carry
	}
	secs := rest * utcDayLength(unixEpochMJD+days)
	return time.Unix(int64(days)*86400, int64(math.Round(secs*1e9))).UTC()
}

// utcDayLength is the length in SI seconds of the UTC day starting at mjd.
func utcDayLength(mjd float64) float64 {
	dleap, err := leapAtEndOfDay(MJDEpoch, mjd)
	if err != nil {
		return iau.DAYSEC
	}
	return iau.DAYSEC + dleap
}

// Now is FromWallClock(time.Now()).
func Now() UTC {
	return FromWallClock(time.Now())
}
