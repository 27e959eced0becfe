package ephemeris

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// Markers delimiting the data block of a Horizons vector table.
const (
	startMarker = "$$SOE"
	endMarker   = "$$EOE"
)

type tableRow struct {
	jd float64 // TDB
	r  [3]float64
	v  [3]float64
}

// Table reads geocentric Moon vectors from a JPL Horizons export (VECTORS
// table, CSV format, ICRF, km and km/s, TDB). Rows carrying velocities are
// interpolated with cubic Hermite polynomials, rows without are interpolated
// linearly. Orientation comes from the mean rotation model.
type Table struct {
	rows        []tableRow
	hasVelocity bool
}

// LoadTable parses the Horizons export at path.
func LoadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ephemeris table: %w", err)
	}
	defer f.Close()

	t, err := ParseTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTable parses a Horizons vector table. Lines outside the
// $$SOE/$$EOE block are ignored.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var (
		rows   []tableRow
		inData bool
		lineNo int
	)
	withVel := true

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == startMarker:
			inData = true
			continue
		case line == endMarker:
			inData = false
			continue
		case !inData || line == "":
			continue
		}

		row, vel, err := parseTableRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		withVel = withVel && vel
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ephemeris table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ephemeris table has %d rows, need at least 2", len(rows))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].jd < rows[j].jd })
	for i := 1; i < len(rows); i++ {
		if rows[i].jd == rows[i-1].jd {
			return nil, fmt.Errorf("duplicate epoch JD %.9f", rows[i].jd)
		}
	}

	return &Table{rows: rows, hasVelocity: withVel}, nil
}

// parseTableRow reads "JDTDB, Calendar, X, Y, Z[, VX, VY, VZ, ...]".
func parseTableRow(line string) (tableRow, bool, error) {
	fields := strings.Split(strings.TrimSuffix(line, ","), ",")
	if len(fields) < 5 {
		return tableRow{}, false, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}

	nums := make([]float64, 0, 7)
	for i, f := range fields {
		if i == 1 {
			continue // calendar date
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return tableRow{}, false, fmt.Errorf("field %d: %w", i+1, err)
		}
		nums = append(nums, v)
		if len(nums) == 7 {
			break
		}
	}

	row := tableRow{jd: nums[0], r: [3]float64{nums[1], nums[2], nums[3]}}
	if len(nums) < 7 {
		return row, false, nil
	}
	row.v = [3]float64{nums[4], nums[5], nums[6]}
	return row, true, nil
}

// Span returns the first and last epochs covered, as TDB Julian dates.
func (t *Table) Span() (first, last float64) {
	return t.rows[0].jd, t.rows[len(t.rows)-1].jd
}

// Moon implements Reader.
func (t *Table) Moon(tdb timescale.TDB) (MoonState, error) {
	jd := tdb.JD()
	first, last := t.Span()
	if jd < first || jd > last {
		return MoonState{}, fmt.Errorf("%w: JD %.6f not in [%.6f, %.6f]", ErrOutOfRange, jd, first, last)
	}

	i := sort.Search(len(t.rows), func(k int) bool { return t.rows[k].jd > jd })
	if i == len(t.rows) {
		i--
	}
	a, b := t.rows[i-1], t.rows[i]

	// Offset from row a in seconds, keeping the two-part precision.
	h := (b.jd - a.jd) * iau.DAYSEC
	s := ((tdb.Whole - a.jd) + tdb.Frac) * iau.DAYSEC / h

	var r, v [3]float64
	if t.hasVelocity {
		r, v = hermite(a, b, h, s)
	} else {
		for k := 0; k < 3; k++ {
			r[k] = a.r[k] + s*(b.r[k]-a.r[k])
			v[k] = (b.r[k] - a.r[k]) / h
		}
	}

	return MoonState{
		Position:    frame.Vec[frame.GCRS](r[0], r[1], r[2]),
		Velocity:    frame.Vec[frame.GCRS](v[0], v[1], v[2]),
		HasVelocity: true,
		Libration:   MeanLibration(tdb),
	}, nil
}

// Close implements Reader. The table is held in memory, so there is nothing
// to release.
func (t *Table) Close() error { return nil }

// hermite evaluates the cubic Hermite spline through a and b at normalized
// time s over an interval of h seconds.
func hermite(a, b tableRow, h, s float64) (r, v [3]float64) {
	s2, s3 := s*s, s*s*s
	h00, h10, h01, h11 := 2*s3-3*s2+1, s3-2*s2+s, -2*s3+3*s2, s3-s2
	d00, d10, d01, d11 := 6*s2-6*s, 3*s2-4*s+1, -6*s2+6*s, 3*s2-2*s

	for k := 0; k < 3; k++ {
		r[k] = h00*a.r[k] + h10*h*a.v[k] + h01*b.r[k] + h11*h*b.v[k]
		v[k] = (d00*a.r[k]+d01*b.r[k])/h + d10*a.v[k] + d11*b.v[k]
	}
	return r, v
}
