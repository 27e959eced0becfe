package timescale

import (
	"github.com/AlexApps99/stardome/internal/iau"
)

// Converter implements the conversion graph on top of a set of primitives.
// It holds no state beyond the provider, and every method is pure.
type Converter struct {
	p iau.EarthOrientationProvider
}

// NewConverter returns a Converter backed by p.
func NewConverter(p iau.EarthOrientationProvider) Converter {
	return Converter{p: p}
}

// Default is the Converter used by the convenience methods on the scale types.
var Default = NewConverter(iau.Standard{})

func pair(a, b float64) Instant { return Instant{Whole: a, Frac: b} }

// TAIToTT converts TAI to TT.
func (c Converter) TAIToTT(t TAI) TT { return TT{pair(c.p.Taitt(t.Whole, t.Frac))} }

// TTToTAI converts TT to TAI.
func (c Converter) TTToTAI(t TT) TAI { return TAI{pair(c.p.Tttai(t.Whole, t.Frac))} }

// TAIToUTC converts TAI to UTC. Fails with ErrUnacceptableDate outside the
// leap-second table.
func (c Converter) TAIToUTC(t TAI) (UTC, error) {
	a, b, err := c.p.Taiutc(t.Whole, t.Frac)
	if err != nil {
		return UTC{}, opError("tai_to_utc", KindUnacceptableDate, err)
	}
	return UTC{pair(a, b)}, nil
}

// UTCToTAI converts UTC to TAI. Fails with ErrUnacceptableDate outside the
// leap-second table.
func (c Converter) UTCToTAI(u UTC) (TAI, error) {
	a, b, err := c.p.Utctai(u.Whole, u.Frac)
	if err != nil {
		return TAI{}, opError("utc_to_tai", KindUnacceptableDate, err)
	}
	return TAI{pair(a, b)}, nil
}

// TAIToUT1 converts TAI to UT1 given dta = UT1−TAI in seconds (DUT1 − ΔAT).
func (c Converter) TAIToUT1(t TAI, dta float64) UT1 {
	return UT1{pair(c.p.Taiut1(t.Whole, t.Frac, dta))}
}

// UT1ToTAI converts UT1 to TAI given dta = UT1−TAI in seconds.
func (c Converter) UT1ToTAI(t UT1, dta float64) TAI {
	return TAI{pair(c.p.Ut1tai(t.Whole, t.Frac, dta))}
}

// TTToUT1 converts TT to UT1 given dt = ΔT = TT−UT1 in seconds.
func (c Converter) TTToUT1(t TT, dt float64) UT1 {
	return UT1{pair(c.p.Ttut1(t.Whole, t.Frac, dt))}
}

// UT1ToTT converts UT1 to TT given dt = ΔT = TT−UT1 in seconds.
func (c Converter) UT1ToTT(t UT1, dt float64) TT {
	return TT{pair(c.p.Ut1tt(t.Whole, t.Frac, dt))}
}

// UT1ToUTC converts UT1 to UTC given dut1 = UT1−UTC in seconds.
func (c Converter) UT1ToUTC(t UT1, dut1 float64) (UTC, error) {
	a, b, err := c.p.Ut1utc(t.Whole, t.Frac, dut1)
	if err != nil {
		return UTC{}, opError("ut1_to_utc", KindUnacceptableDate, err)
	}
	return UTC{pair(a, b)}, nil
}

// UTCToUT1 converts UTC to UT1 given dut1 = UT1−UTC in seconds.
func (c Converter) UTCToUT1(u UTC, dut1 float64) (UT1, error) {
	a, b, err := c.p.Utcut1(u.Whole, u.Frac, dut1)
	if err != nil {
		return UT1{}, opError("utc_to_ut1", KindUnacceptableDate, err)
	}
	return UT1{pair(a, b)}, nil
}

// TTToTDB converts TT to TDB given dtr = TDB−TT in seconds.
func (c Converter) TTToTDB(t TT, dtr float64) TDB {
	return TDB{pair(c.p.Tttdb(t.Whole, t.Frac, dtr))}
}

// TDBToTT converts TDB to TT given dtr = TDB−TT in seconds.
func (c Converter) TDBToTT(t TDB, dtr float64) TT {
	return TT{pair(c.p.Tdbtt(t.Whole, t.Frac, dtr))}
}

// TTToTCG converts TT to TCG.
func (c Converter) TTToTCG(t TT) TCG { return TCG{pair(c.p.Tttcg(t.Whole, t.Frac))} }

// TCGToTT converts TCG to TT.
func (c Converter) TCGToTT(t TCG) TT { return TT{pair(c.p.Tcgtt(t.Whole, t.Frac))} }

// TDBToTCB converts TDB to TCB.
func (c Converter) TDBToTCB(t TDB) TCB { return TCB{pair(c.p.Tdbtcb(t.Whole, t.Frac))} }

// TCBToTDB converts TCB to TDB.
func (c Converter) TCBToTDB(t TCB) TDB { return TDB{pair(c.p.Tcbtdb(t.Whole, t.Frac))} }

// LeapOffset returns TAI−UTC in seconds in effect at the start of u's day.
func (c Converter) LeapOffset(u UTC) (float64, error) {
	iy, im, id, _, err := c.p.Jd2cal(u.Whole, u.Frac)
	if err != nil {
		return 0, opError("leap_offset", KindUnacceptableDate, err)
	}
	dat, err := c.p.Dat(iy, im, id, 0.0)
	if err != nil {
		return 0, opError("leap_offset", KindUnacceptableDate, err)
	}
	return dat, nil
}

// DeltaT returns ΔT = TT−UT1 in seconds for u, given dut1.
func (c Converter) DeltaT(u UTC, dut1 float64) (float64, error) {
	dat, err := c.LeapOffset(u)
	if err != nil {
		return 0, err
	}
	return iau.TTMTAI + dat - dut1, nil
}

// UTCToTT converts UTC to TT through TAI.
func (c Converter) UTCToTT(u UTC) (TT, error) {
	tai, err := c.UTCToTAI(u)
	if err != nil {
		return TT{}, err
	}
	return c.TAIToTT(tai), nil
}

// TTToUTC converts TT to UTC through TAI.
func (c Converter) TTToUTC(t TT) (UTC, error) {
	return c.TAIToUTC(c.TTToTAI(t))
}

// TDBToUT1 converts TDB to UT1 through TT.
func (c Converter) TDBToUT1(t TDB, dtr, dt float64) UT1 {
	return c.TTToUT1(c.TDBToTT(t, dtr), dt)
}

// Convenience methods on the scale types, backed by Default.

func (u UTC) TAI() (TAI, error)             { return Default.UTCToTAI(u) }
func (u UTC) TT() (TT, error)               { return Default.UTCToTT(u) }
func (u UTC) UT1(dut1 float64) (UT1, error) { return Default.UTCToUT1(u, dut1) }
func (u UTC) LeapOffset() (float64, error)  { return Default.LeapOffset(u) }
func (t TAI) UTC() (UTC, error)             { return Default.TAIToUTC(t) }
func (t TAI) TT() TT                        { return Default.TAIToTT(t) }
func (t TAI) UT1(dta float64) UT1           { return Default.TAIToUT1(t, dta) }
func (t TT) TAI() TAI                       { return Default.TTToTAI(t) }
func (t TT) UTC() (UTC, error)              { return Default.TTToUTC(t) }
func (t TT) UT1(dt float64) UT1             { return Default.TTToUT1(t, dt) }
func (t TT) TDB(dtr float64) TDB            { return Default.TTToTDB(t, dtr) }
func (t TT) TCG() TCG                       { return Default.TTToTCG(t) }
func (t UT1) TT(dt float64) TT              { return Default.UT1ToTT(t, dt) }
func (t UT1) TAI(dta float64) TAI           { return Default.UT1ToTAI(t, dta) }
func (t UT1) UTC(dut1 float64) (UTC, error) { return Default.UT1ToUTC(t, dut1) }
func (t TDB) TT(dtr float64) TT             { return Default.TDBToTT(t, dtr) }
func (t TDB) TCB() TCB                      { return Default.TDBToTCB(t) }
func (t TDB) UT1(dtr, dt float64) UT1       { return Default.TDBToUT1(t, dtr, dt) }
func (t TCG) TT() TT                        { return Default.TCGToTT(t) }
func (t TCB) TDB() TDB                      { return Default.TCBToTDB(t) }
