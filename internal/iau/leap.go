package iau

// leapChange is one entry of the TAI−UTC table: the offset in force from the
// first day of the given month.
type leapChange struct {
	year, month int
	delat       float64
}

// Leap-second table. Entries before 1972 describe the rubber-second era and
// carry a drift rate (see leapDrift).
var leapChanges = []leapChange{
	{1960, 1, 1.4178180},
	{1961, 1, 1.4228180},
	{1961, 8, 1.3728180},
	{1962, 1, 1.8458580},
	{1963, 11, 1.9458580},
	{1964, 1, 3.2401300},
	{1964, 4, 3.3401300},
	{1964, 9, 3.4401300},
	{1965, 1, 3.5401300},
	{1965, 3, 3.6401300},
	{1965, 7, 3.7401300},
	{1965, 9, 3.8401300},
	{1966, 1, 4.3131700},
	{1968, 2, 4.2131700},
	{1972, 1, 10.0},
	{1972, 7, 11.0},
	{1973, 1, 12.0},
	{1974, 1, 13.0},
	{1975, 1, 14.0},
	{1976, 1, 15.0},
	{1977, 1, 16.0},
	{1978, 1, 17.0},
	{1979, 1, 18.0},
	{1980, 1, 19.0},
	{1981, 7, 20.0},
	{1982, 7, 21.0},
	{1983, 7, 22.0},
	{1985, 7, 23.0},
	{1988, 1, 24.0},
	{1990, 1, 25.0},
	{1991, 1, 26.0},
	{1992, 7, 27.0},
	{1993, 7, 28.0},
	{1994, 7, 29.0},
	{1996, 1, 30.0},
	{1997, 7, 31.0},
	{1999, 1, 32.0},
	{2006, 1, 33.0},
	{2009, 1, 34.0},
	{2012, 7, 35.0},
	{2015, 7, 36.0},
	{2017, 1, 37.0},
}

// leapDrift holds the reference MJD and rate (s/day) for each pre-1972 entry.
var leapDrift = [][2]float64{
	{37300.0, 0.0012960},
	{37300.0, 0.0012960},
	{37300.0, 0.0012960},
	{37665.0, 0.0011232},
	{37665.0, 0.0011232},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{38761.0, 0.0012960},
	{39126.0, 0.0025920},
	{39126.0, 0.0025920},
}

// LeapSecond describes one step of the integer-second era of the table.
type LeapSecond struct {
	Year, Month int
	TAIMinusUTC float64
}

// LeapSeconds returns the integer-second part of the table, oldest first.
func LeapSeconds() []LeapSecond {
	out := make([]LeapSecond, 0, len(leapChanges)-len(leapDrift))
	for _, c := range leapChanges[len(leapDrift):] {
		out = append(out, LeapSecond{Year: c.year, Month: c.month, TAIMinusUTC: c.delat})
	}
	return out
}

// Dat returns TAI−UTC in seconds for a UTC calendar date and day fraction.
// Dates before 1960 are rejected with ErrBeforeLeapTable. Dates after the
// last table entry return the last value: a leap second announced later is
// not known here.
func Dat(iy, im, id int, fd float64) (float64, error) {
	if fd < 0.0 || fd > 1.0 {
		return 0, ErrBadFraction
	}
	_, djm, err := Cal2jd(iy, im, id)
	if err != nil {
		return 0, err
	}
	if iy < leapChanges[0].year {
		return 0, ErrBeforeLeapTable
	}

	m := 12*iy + im
	i := len(leapChanges) - 1
	for ; i >= 0; i-- {
		if m >= 12*leapChanges[i].year+leapChanges[i].month {
			break
		}
	}
	if i < 0 {
		return 0, ErrBeforeLeapTable
	}

	da := leapChanges[i].delat
	if i < len(leapDrift) {
		da += (djm + fd - leapDrift[i][0]) * leapDrift[i][1]
	}
	return da, nil
}
