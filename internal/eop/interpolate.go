package eop

import (
	"errors"
	"fmt"
	"sort"

	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

var (
	// ErrNoDataset is returned when no EOP dataset has been loaded.
	ErrNoDataset = errors.New("no EOP dataset loaded")

	// ErrOutOfRange is returned for instants outside the dataset's MJD range.
	ErrOutOfRange = errors.New("instant outside EOP dataset range")
)

// At returns the parameters at u, interpolated linearly between the
// bracketing daily rows.
//
// UT1-UTC jumps by one second across a leap second, so it is interpolated as
// UT1-TAI and converted back with the leap offset in force at u.
func (d *Dataset) At(u timescale.UTC) (Params, error) {
	n := len(d.Entries)
	if n == 0 {
		return Params{}, ErrNoDataset
	}

	mjd := u.MJD()
	if mjd < d.Range.Min || mjd > d.Range.Max {
		return Params{}, fmt.Errorf("%w: MJD %.5f not in [%.2f, %.2f]", ErrOutOfRange, mjd, d.Range.Min, d.Range.Max)
	}

	if n == 1 {
		return d.Entries[0].params(), nil
	}

	// First row strictly after mjd; the pair is (i-1, i).
	i := sort.Search(n, func(k int) bool { return d.Entries[k].MJD > mjd })
	if i == n {
		i = n - 1
	}
	a, b := d.Entries[i-1], d.Entries[i]
	f := (mjd - a.MJD) / (b.MJD - a.MJD)

	datA, err := leapAt(a.MJD)
	if err != nil {
		return Params{}, err
	}
	datB, err := leapAt(b.MJD)
	if err != nil {
		return Params{}, err
	}
	dat, err := timescale.Default.LeapOffset(u)
	if err != nil {
		return Params{}, err
	}

	ut1tai := lerp(a.DUT1-datA, b.DUT1-datB, f)

	p := Params{
		XP:        frame.ArcsecToRad(lerp(a.XP, b.XP, f)),
		YP:        frame.ArcsecToRad(lerp(a.YP, b.YP, f)),
		DUT1:      ut1tai + dat,
		DX:        frame.MasToRad(lerp(a.DX, b.DX, f)),
		DY:        frame.MasToRad(lerp(a.DY, b.DY, f)),
		Predicted: a.Predicted || b.Predicted,
	}
	return p, nil
}

func (e Entry) params() Params {
	return Params{
		XP:        frame.ArcsecToRad(e.XP),
		YP:        frame.ArcsecToRad(e.YP),
		DUT1:      e.DUT1,
		DX:        frame.MasToRad(e.DX),
		DY:        frame.MasToRad(e.DY),
		Predicted: e.Predicted,
	}
}

// leapAt returns TAI-UTC at 0h UTC of the given MJD.
func leapAt(mjd float64) (float64, error) {
	iy, im, id, _, err := iau.Jd2cal(iau.DJM0, mjd)
	if err != nil {
		return 0, err
	}
	return iau.Dat(iy, im, id, 0)
}

func lerp(a, b, f float64) float64 { return a + (b-a)*f }
