package timescale

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexApps99/stardome/internal/iau"
)

func TestNewInstant(t *testing.T) {
	i, err := NewInstant(2000, 1, 1, 12, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2451544.5, i.Whole)
	assert.Equal(t, 0.5, i.Frac)
	assert.Equal(t, 2451545.0, i.JD())
	assert.Equal(t, 51544.5, i.MJD())
}

func TestNewInstantRejectsBadFields(t *testing.T) {
	tests := []struct {
		name            string
		y, mo, d, h, mi int
		sec             float64
		cause           error
	}{
		{"day 32", 2020, 1, 32, 0, 0, 0, iau.ErrBadDay},
		{"month 13", 2020, 13, 1, 0, 0, 0, iau.ErrBadMonth},
		{"hour 24", 2020, 1, 1, 24, 0, 0, iau.ErrBadHour},
		{"minute 60", 2020, 1, 1, 0, 60, 0, iau.ErrBadMinute},
		{"second 60", 2020, 1, 1, 0, 0, 60, iau.ErrBadSecond},
		{"second NaN", 2020, 1, 1, 0, 0, math.NaN(), iau.ErrBadSecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInstant(tt.y, tt.mo, tt.d, tt.h, tt.mi, tt.sec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCalendarDate)
			assert.ErrorIs(t, err, tt.cause)
			assert.True(t, IsKind(err, KindInvalidCalendarDate))
		})
	}
}

func TestInstantFromYMDF(t *testing.T) {
	i, err := InstantFromYMDF(2003, 6, 1, 0.25)
	require.NoError(t, err)
	assert.Equal(t, 52791.25, i.MJD())

	_, err = InstantFromYMDF(2003, 6, 1, 1.5)
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)
}

func TestAddSecondsAndDifference(t *testing.T) {
	a, err := NewInstant(2010, 6, 30, 23, 0, 0)
	require.NoError(t, err)

	b := a.AddSeconds(7200)
	assert.Equal(t, 2455378.5, b.Whole, "whole days carry into the large part")
	assert.InDelta(t, 1.0/24, b.Frac, 1e-15)
	assert.InDelta(t, 7200.0, b.DifferenceSeconds(a), 1e-9)
	assert.InDelta(t, -7200.0, a.DifferenceSeconds(b), 1e-9)
	assert.True(t, a.Before(b))

	// Microsecond steps survive on a two-part value.
	c := a.AddSeconds(1e-6)
	assert.InDelta(t, 1e-6, c.DifferenceSeconds(a), 1e-10)
}

func TestFromWallClock(t *testing.T) {
	u := FromWallClock(time.Date(2004, 4, 6, 7, 51, 28, 386000000, time.UTC))
	want, err := NewUTC(2004, 4, 6, 7, 51, 28.386)
	require.NoError(t, err)
	assert.Equal(t, want.Whole, u.Whole)
	assert.InDelta(t, want.Frac, u.Frac, 1e-12)

	epoch := FromWallClock(time.Unix(0, 0))
	assert.Equal(t, 2440587.5, epoch.Whole)
	assert.Equal(t, 0.0, epoch.Frac)

	before := FromWallClock(time.Unix(-43200, 0))
	assert.Equal(t, 2440586.5, before.Whole)
	assert.Equal(t, 0.5, before.Frac)
}

func TestFromWallClockOnLeapSecondDay(t *testing.T) {
	// 2016-12-31 is 86401 s long; both constructors must agree on it.
	for _, ts := range []time.Time{
		time.Date(2016, 12, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2016, 12, 31, 23, 59, 59, 500000000, time.UTC),
	} {
		u := FromWallClock(ts)
		want, err := NewUTC(ts.Year(), int(ts.Month()), ts.Day(), ts.Hour(), ts.Minute(),
			float64(ts.Second())+float64(ts.Nanosecond())/1e9)
		require.NoError(t, err)
		assert.Equal(t, want.Whole, u.Whole)
		assert.InDelta(t, want.Frac, u.Frac, 1e-15, "%v", ts)
		assert.WithinDuration(t, ts, u.WallClock(), time.Microsecond)
	}

	// The leap second itself has no wall-clock reading; it folds into the
	// first second of the next day.
	leap, err := NewUTC(2016, 12, 31, 23, 59, 60.5)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Date(2017, 1, 1, 0, 0, 0, 500000000, time.UTC), leap.WallClock(), time.Microsecond)
}

func TestNewUTCRejectsNaNSecond(t *testing.T) {
	_, err := NewUTC(2004, 4, 6, 7, 51, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidCalendarDate)
	assert.ErrorIs(t, err, iau.ErrBadSecond)
}

func TestWallClockRoundTrip(t *testing.T) {
	for _, ts := range []time.Time{
		time.Date(2004, 4, 6, 7, 51, 28, 386000000, time.UTC),
		time.Date(1969, 12, 31, 23, 59, 59, 500000000, time.UTC),
		time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	} {
		got := FromWallClock(ts).WallClock()
		assert.WithinDuration(t, ts, got, time.Microsecond, "round trip of %v", ts)
	}
}
