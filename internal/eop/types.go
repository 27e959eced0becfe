// Package eop supplies Earth-orientation parameters from the IERS
// finals2000A series: polar motion, UT1-UTC and the CIP offsets dX, dY.
//
// The series is fetched over HTTP, kept as timestamped files on disk, parsed
// into a Dataset and published through an atomic Store. Callers ask the
// Dataset for the interpolated Params at a UTC instant.
package eop

import (
	"sort"
	"time"
)

// Entry is one daily row of the finals2000A series.
type Entry struct {
	MJD       float64 // UTC, 0h
	XP        float64 // arcsec
	YP        float64 // arcsec
	DUT1      float64 // UT1-UTC, seconds
	DX        float64 // mas, zero when the row has none
	DY        float64 // mas, zero when the row has none
	Predicted bool
}

// MJDRange is the span of dates covered by a dataset.
type MJDRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Dataset is a parsed finals2000A series, sorted by MJD.
type Dataset struct {
	Source    string
	FetchedAt time.Time
	Range     MJDRange
	Entries   []Entry
}

// NewDataset sorts entries, drops repeated dates (the later row wins) and
// records the MJD range.
func NewDataset(source string, fetchedAt time.Time, entries []Entry) *Dataset {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].MJD < sorted[j].MJD })

	out := sorted[:0]
	for _, e := range sorted {
		if len(out) > 0 && out[len(out)-1].MJD == e.MJD {
			out[len(out)-1] = e
			continue
		}
		out = append(out, e)
	}
	sorted = out

	ds := &Dataset{
		Source:    source,
		FetchedAt: fetchedAt,
		Entries:   sorted,
	}
	if len(sorted) > 0 {
		ds.Range = MJDRange{Min: sorted[0].MJD, Max: sorted[len(sorted)-1].MJD}
	}
	return ds
}

// FirstPredicted returns the MJD of the first predicted row, or zero when the
// dataset is all final values.
func (d *Dataset) FirstPredicted() float64 {
	for _, e := range d.Entries {
		if e.Predicted {
			return e.MJD
		}
	}
	return 0
}

// Params are the orientation parameters at one instant, in the units the
// frame pipeline consumes.
type Params struct {
	XP        float64 `json:"xp"`   // radians
	YP        float64 `json:"yp"`   // radians
	DUT1      float64 `json:"dut1"` // seconds
	DX        float64 `json:"dx"`   // radians
	DY        float64 `json:"dy"`   // radians
	Predicted bool    `json:"predicted"`
}
