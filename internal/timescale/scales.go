package timescale

import (
	"errors"
	"math"

	"github.com/AlexApps99/stardome/internal/iau"
)

// Scale is implemented by every time-scale type.
type Scale interface {
	// Name is the conventional abbreviation, e.g. "TT".
	Name() string
	// Time returns the underlying two-part Julian date.
	Time() Instant
}

// UTC is Coordinated Universal Time. Its Julian date is a quasi-JD: on a day
// that ends in a leap second the day fraction spans 86401 SI seconds.
type UTC struct{ Instant }

// TAI is International Atomic Time.
type TAI struct{ Instant }

// TT is Terrestrial Time.
type TT struct{ Instant }

// UT1 is Universal Time, tied to Earth rotation.
type UT1 struct{ Instant }

// TCG is Geocentric Coordinate Time.
type TCG struct{ Instant }

// TCB is Barycentric Coordinate Time.
type TCB struct{ Instant }

// TDB is Barycentric Dynamical Time.
type TDB struct{ Instant }

func (UTC) Name() string { return "UTC" }
func (TAI) Name() string { return "TAI" }
func (TT) Name() string  { return "TT" }
func (UT1) Name() string { return "UT1" }
func (TCG) Name() string { return "TCG" }
func (TCB) Name() string { return "TCB" }
func (TDB) Name() string { return "TDB" }

func (t UTC) Time() Instant { return t.Instant }
func (t TAI) Time() Instant { return t.Instant }
func (t TT) Time() Instant  { return t.Instant }
func (t UT1) Time() Instant { return t.Instant }
func (t TCG) Time() Instant { return t.Instant }
func (t TCB) Time() Instant { return t.Instant }
func (t TDB) Time() Instant { return t.Instant }

// Add returns t advanced by s SI seconds.
func (t TAI) Add(s float64) TAI { return TAI{t.AddSeconds(s)} }

// Add returns t advanced by s SI seconds.
func (t TT) Add(s float64) TT { return TT{t.AddSeconds(s)} }

// Add returns t advanced by s seconds of UT1.
func (t UT1) Add(s float64) UT1 { return UT1{t.AddSeconds(s)} }

// Add returns t advanced by s SI seconds.
func (t TCG) Add(s float64) TCG { return TCG{t.AddSeconds(s)} }

// Add returns t advanced by s SI seconds.
func (t TCB) Add(s float64) TCB { return TCB{t.AddSeconds(s)} }

// Add returns t advanced by s SI seconds.
func (t TDB) Add(s float64) TDB { return TDB{t.AddSeconds(s)} }

// Add returns u advanced by s SI seconds. The step is taken in TAI so leap
// seconds inside the interval are counted.
func (u UTC) Add(s float64) (UTC, error) {
	tai, err := u.TAI()
	if err != nil {
		return UTC{}, err
	}
	return tai.Add(s).UTC()
}

// NewUTC builds a UTC instant from calendar fields. On a day that ends in a
// leap second, 23:59:60.x is accepted and the fraction is taken over the
// longer day. Dates before the leap-second table build normally; converting
// them to TAI fails.
func NewUTC(year, month, day, hour, minute int, second float64) (UTC, error) {
	const op = "utc_from_calendar"

	djm0, djm, err := iau.Cal2jd(year, month, day)
	if err != nil {
		return UTC{}, opError(op, KindInvalidCalendarDate, err)
	}

	dayLen := iau.DAYSEC
	secLim := 60.0
	dleap, err := leapAtEndOfDay(djm0, djm)
	if err != nil {
		return UTC{}, opError(op, KindInvalidCalendarDate, err)
	}
	dayLen += dleap
	if hour == 23 && minute == 59 {
		secLim += dleap
	}

	switch {
	case hour < 0 || hour > 23:
		return UTC{}, opError(op, KindInvalidCalendarDate, iau.ErrBadHour)
	case minute < 0 || minute > 59:
		return UTC{}, opError(op, KindInvalidCalendarDate, iau.ErrBadMinute)
	case !(second >= 0 && second < secLim):
		return UTC{}, opError(op, KindInvalidCalendarDate, iau.ErrBadSecond)
	}

	fd := (60.0*float64(60*hour+minute) + second) / dayLen
	return UTC{Instant{Whole: djm0 + djm, Frac: fd}}, nil
}

// leapAtEndOfDay returns the TAI−UTC step at the end of the UTC day starting
// at (djm0, djm): 1 on a leap-second day, 0 otherwise and before 1960.
func leapAtEndOfDay(djm0, djm float64) (float64, error) {
	iy, im, id, _, err := iau.Jd2cal(djm0, djm)
	if err != nil {
		return 0, err
	}
	dat0, err := iau.Dat(iy, im, id, 0.0)
	if errors.Is(err, iau.ErrBeforeLeapTable) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	dat12, err := iau.Dat(iy, im, id, 0.5)
	if err != nil {
		return 0, err
	}
	iy2, im2, id2, _, err := iau.Jd2cal(djm0, djm+1.5)
	if err != nil {
		return 0, err
	}
	dat24, err := iau.Dat(iy2, im2, id2, 0.0)
	if err != nil {
		return 0, err
	}
	dleap := dat24 - (2.0*dat12 - dat0)
	if math.Abs(dleap) < 0.5 {
		return 0, nil
	}
	return dleap, nil
}

// UTCFromYMDF builds a UTC instant from a date and a day fraction. The
// fraction is taken as-is, so on a leap-second day 1.0 is the end of second 60.
func UTCFromYMDF(year, month, day int, fraction float64) (UTC, error) {
	i, err := InstantFromYMDF(year, month, day, fraction)
	return UTC{i}, err
}

// NewTAI builds a TAI instant from calendar fields.
func NewTAI(year, month, day, hour, minute int, second float64) (TAI, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return TAI{i}, err
}

// NewTT builds a TT instant from calendar fields.
func NewTT(year, month, day, hour, minute int, second float64) (TT, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return TT{i}, err
}

// NewUT1 builds a UT1 instant from calendar fields.
func NewUT1(year, month, day, hour, minute int, second float64) (UT1, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return UT1{i}, err
}

// NewTCG builds a TCG instant from calendar fields.
func NewTCG(year, month, day, hour, minute int, second float64) (TCG, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return TCG{i}, err
}

// NewTCB builds a TCB instant from calendar fields.
func NewTCB(year, month, day, hour, minute int, second float64) (TCB, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return TCB{i}, err
}

// NewTDB builds a TDB instant from calendar fields.
func NewTDB(year, month, day, hour, minute int, second float64) (TDB, error) {
	i, err := NewInstant(year, month, day, hour, minute, second)
	return TDB{i}, err
}
