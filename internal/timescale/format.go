package timescale

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/AlexApps99/stardome/internal/iau"
)

// DefaultDecimals is the number of second decimals used by String.
const DefaultDecimals = 3

// Format renders u as YYYY-MM-DDTHH:MM:SS.sssZ with ndp decimals of a
// second. A leap second is rendered as second 60.
func (u UTC) Format(ndp int) (string, error) {
	return formatInstant(u.Instant, ndp, true, "Z")
}

func (u UTC) String() string { return mustFormat(u.Instant, true, "Z") }

// Format renders t as an ISO-like timestamp followed by the scale name.
func (t TAI) Format(ndp int) (string, error) { return formatInstant(t.Instant, ndp, false, " TAI") }
func (t TT) Format(ndp int) (string, error)  { return formatInstant(t.Instant, ndp, false, " TT") }
func (t UT1) Format(ndp int) (string, error) { return formatInstant(t.Instant, ndp, false, " UT1") }
func (t TCG) Format(ndp int) (string, error) { return formatInstant(t.Instant, ndp, false, " TCG") }
func (t TCB) Format(ndp int) (string, error) { return formatInstant(t.Instant, ndp, false, " TCB") }
func (t TDB) Format(ndp int) (string, error) { return formatInstant(t.Instant, ndp, false, " TDB") }

func (t TAI) String() string { return mustFormat(t.Instant, false, " TAI") }
func (t TT) String() string  { return mustFormat(t.Instant, false, " TT") }
func (t UT1) String() string { return mustFormat(t.Instant, false, " UT1") }
func (t TCG) String() string { return mustFormat(t.Instant, false, " TCG") }
func (t TCB) String() string { return mustFormat(t.Instant, false, " TCB") }
func (t TDB) String() string { return mustFormat(t.Instant, false, " TDB") }

func mustFormat(i Instant, utc bool, suffix string) string {
	s, err := formatInstant(i, DefaultDecimals, utc, suffix)
	if err != nil {
		return fmt.Sprintf("JD(%.1f, %.9f)%s", i.Whole, i.Frac, suffix)
	}
	return s
}

func formatInstant(i Instant, ndp int, utc bool, suffix string) (string, error) {
	const op = "format"

	iy, im, id, fd, err := iau.Jd2cal(i.Whole, i.Frac)
	if err != nil {
		return "", opError(op, KindFormat, err)
	}

	leap := false
	if utc {
		// Day fraction of a leap-second day spans 86401 s; stretch it so
		// that D2tf yields 24:00:00.x during the leap second.
		djm0, djm, err := iau.Cal2jd(iy, im, id)
		if err != nil {
			return "", opError(op, KindFormat, err)
		}
		dleap, err := leapAtEndOfDay(djm0, djm)
		if err != nil {
			return "", opError(op, KindFormat, err)
		}
		if dleap != 0 {
			leap = true
			fd += fd * dleap / iau.DAYSEC
		}
	}

	_, hmsf := iau.D2tf(ndp, fd)

	if hmsf[0] > 23 {
		ny, nm, nd, _, err := iau.Jd2cal(i.Whole, i.Frac+1.5-fd)
		if err != nil {
			return "", opError(op, KindFormat, err)
		}
		switch {
		case !leap:
			iy, im, id = ny, nm, nd
			hmsf = iau.HMSF{}
		case hmsf[2] > 0:
			// Past the leap second: rounded into the next day.
			iy, im, id = ny, nm, nd
			hmsf = iau.HMSF{}
		default:
			hmsf = iau.HMSF{23, 59, 60, hmsf[3]}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%04d-%02d-%02dT%02d:%02d:%02d", iy, im, id, hmsf[0], hmsf[1], hmsf[2])
	if ndp > 0 {
		fmt.Fprintf(&b, ".%0*d", ndp, hmsf[3])
	}
	b.WriteString(suffix)
	return b.String(), nil
}

// ParseUTC parses the output of UTC.Format: YYYY-MM-DDTHH:MM:SS[.fff][Z].
// A space may replace the T, and a bare date means midnight. Second 60 is
// accepted on leap-second days.
func ParseUTC(s string) (UTC, error) {
	y, mo, d, h, mi, sec, err := parseFields(strings.TrimSuffix(strings.TrimSpace(s), "Z"))
	if err != nil {
		return UTC{}, opError("parse_utc", KindInvalidCalendarDate, fmt.Errorf("%q: %w", s, err))
	}
	return NewUTC(y, mo, d, h, mi, sec)
}

var errSyntax = errors.New("expected YYYY-MM-DD[THH:MM:SS[.fff]]")

func parseFields(s string) (y, mo, d, h, mi int, sec float64, err error) {
	date, clock, hasClock := strings.Cut(s, "T")
	if !hasClock {
		date, clock, hasClock = strings.Cut(s, " ")
	}

	// A leading minus belongs to the year.
	neg := strings.HasPrefix(date, "-")
	dp := strings.Split(strings.TrimPrefix(date, "-"), "-")
	if len(dp) != 3 {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if y, err = strconv.Atoi(dp[0]); err != nil {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if neg {
		y = -y
	}
	if mo, err = strconv.Atoi(dp[1]); err != nil {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if d, err = strconv.Atoi(dp[2]); err != nil {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if !hasClock {
		return y, mo, d, 0, 0, 0, nil
	}

	cp := strings.Split(clock, ":")
	if len(cp) < 2 || len(cp) > 3 {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if h, err = strconv.Atoi(cp[0]); err != nil {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if mi, err = strconv.Atoi(cp[1]); err != nil {
		return 0, 0, 0, 0, 0, 0, errSyntax
	}
	if len(cp) == 3 {
		if sec, err = strconv.ParseFloat(cp[2], 64); err != nil {
			return 0, 0, 0, 0, 0, 0, errSyntax
		}
	}
	return y, mo, d, h, mi, sec, nil
}
