package iau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values are from the IAU SOFA validation suite (2006-01-15 21:24:37.5 UTC).

func TestTwoPartConversions(t *testing.T) {
	type conv func(a, b float64) (float64, float64)
	tests := []struct {
		name string
		fn   conv
		in   float64
		want float64
		tol  float64
	}{
		{"Taitt", Taitt, 0.892482639, 0.892855139, 1e-12},
		{"Tttai", Tttai, 0.892482639, 0.892110139, 1e-12},
		{"Tttcg", Tttcg, 0.892482639, 0.8924900312508587113, 1e-12},
		{"Tcgtt", Tcgtt, 0.892862531, 0.8928551387488816828, 1e-12},
		{"Tdbtcb", Tdbtcb, 0.892855137, 0.8930195997253656716, 1e-12},
		{"Tcbtdb", Tcbtdb, 0.893019599, 0.8928551362746343397, 1e-12},
		{"Taiut1", func(a, b float64) (float64, float64) { return Taiut1(a, b, -32.6659) }, 0.892482639, 0.8921045614537037037, 1e-12},
		{"Ut1tai", func(a, b float64) (float64, float64) { return Ut1tai(a, b, -32.6659) }, 0.892104561, 0.8924826385462962963, 1e-12},
		{"Ttut1", func(a, b float64) (float64, float64) { return Ttut1(a, b, 64.8499) }, 0.892855139, 0.8921045614537037037, 1e-12},
		{"Ut1tt", func(a, b float64) (float64, float64) { return Ut1tt(a, b, 64.8499) }, 0.892104561, 0.8928551385462962963, 1e-12},
		{"Tttdb", func(a, b float64) (float64, float64) { return Tttdb(a, b, -0.000201) }, 0.892855139, 0.8928551366736111111, 1e-12},
		{"Tdbtt", func(a, b float64) (float64, float64) { return Tdbtt(a, b, -0.000201) }, 0.892855137, 0.8928551393263888889, 1e-12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, f := tt.fn(2453750.5, tt.in)
			assert.Equal(t, 2453750.5, w, "whole part must pass through untouched")
			assert.InDelta(t, tt.want, f, tt.tol)

			// Swapped split applies the correction to the other part.
			f2, w2 := tt.fn(tt.in, 2453750.5)
			assert.Equal(t, 2453750.5, w2)
			assert.InDelta(t, tt.want, f2, tt.tol)
		})
	}
}

func TestUtcConversions(t *testing.T) {
	tai1, tai2, err := Utctai(2453750.5, 0.892100694)
	require.NoError(t, err)
	assert.Equal(t, 2453750.5, tai1)
	assert.InDelta(t, 0.8924826384444444444, tai2, 1e-12)

	utc1, utc2, err := Taiutc(2453750.5, 0.892482639)
	require.NoError(t, err)
	assert.Equal(t, 2453750.5, utc1)
	assert.InDelta(t, 0.8921006945555555556, utc2, 1e-12)

	// TAI−UTC is 33 s, so UT1 = TAI + (0.3341 − 33) s.
	ut11, ut12, err := Utcut1(2453750.5, 0.892100694, 0.3341)
	require.NoError(t, err)
	assert.Equal(t, 2453750.5, ut11)
	assert.InDelta(t, 0.8921045608981481, ut12, 1e-12)

	utc1, utc2, err = Ut1utc(2453750.5, 0.892104561, 0.3341)
	require.NoError(t, err)
	assert.Equal(t, 2453750.5, utc1)
	assert.InDelta(t, 0.8921006941018518519, utc2, 1e-12)
}

func TestUtctaiBeforeLeapTable(t *testing.T) {
	djm0, djm, err := Cal2jd(1950, 6, 1)
	require.NoError(t, err)

	_, _, err = Utctai(djm0, djm)
	assert.ErrorIs(t, err, ErrBeforeLeapTable)

	_, _, err = Utcut1(djm0, djm, 0.1)
	assert.ErrorIs(t, err, ErrBeforeLeapTable)
}

func TestUt1utcRoundTrip(t *testing.T) {
	// 2017-01-01 00:00:00.5 UTC sits just after a leap second; dut1 is the
	// post-leap value. 1962-03-14 06:30 is in the rate-offset era, where
	// TAI−UTC grows through the day.
	tests := []struct {
		mjd  float64
		dut1 []float64
	}{
		{52791.25, []float64{-0.439961, 0, 0.4}},
		{57754 + 0.5/86400, []float64{0.4}},
		{37737 + 6.5/24, []float64{-0.439961, 0, 0.3341}},
	}
	for _, tt := range tests {
		for _, dut1 := range tt.dut1 {
			ut11, ut12, err := Utcut1(DJM0, tt.mjd, dut1)
			require.NoError(t, err)
			utc1, utc2, err := Ut1utc(ut11, ut12, dut1)
			require.NoError(t, err)
			assert.Equal(t, DJM0, utc1)
			assert.InDelta(t, tt.mjd, utc2, 1e-12, "mjd %v dut1 %v", tt.mjd, dut1)
		}
	}
}

func TestTaiutcKeepsSplit(t *testing.T) {
	// Round trip through Utctai must not lose the small part to the
	// whole-day part.
	for _, frac := range []float64{0.892482639, 0.25, 0.999} {
		utc1, utc2, err := Taiutc(2453750.5, frac)
		require.NoError(t, err)
		assert.Equal(t, 2453750.5, utc1)
		assert.InDelta(t, frac-33/DAYSEC, utc2, 1e-14)

		tai1, tai2, err := Utctai(utc1, utc2)
		require.NoError(t, err)
		assert.Equal(t, 2453750.5, tai1)
		assert.InDelta(t, frac, tai2, 1e-14)
	}
}

func TestDtdbApprox(t *testing.T) {
	// Peak amplitude of the annual term is about 1.66 ms.
	for mjd := 51544.0; mjd < 51544+366; mjd += 30 {
		assert.LessOrEqual(t, DtdbApprox(DJM0, mjd), 0.0017)
		assert.GreaterOrEqual(t, DtdbApprox(DJM0, mjd), -0.0017)
	}
}
