package iau

import "math"

// Time-scale constants.
const (
	// TTMTAI is TT−TAI in seconds.
	TTMTAI = 32.184
	// DJM77 is the MJD of 1977 Jan 1.0.
	DJM77 = 43144.0
	// ELG is L_G = 1 − d(TT)/d(TCG).
	ELG = 6.969290134e-10
	// ELB is L_B = 1 − d(TDB)/d(TCB).
	ELB = 1.550519768e-8
	// TDB0 is TDB−TCB at 1977 Jan 1.0 TAI, in seconds.
	TDB0 = -6.55e-5
)

// All two-part conversions below apply the correction to whichever part is
// the smaller in magnitude, so the large part passes through untouched.

// Taitt converts TAI to TT.
func Taitt(tai1, tai2 float64) (tt1, tt2 float64) {
	dtat := TTMTAI / DAYSEC
	if math.Abs(tai1) > math.Abs(tai2) {
		return tai1, tai2 + dtat
	}
	return tai1 + dtat, tai2
}

// Tttai converts TT to TAI.
func Tttai(tt1, tt2 float64) (tai1, tai2 float64) {
	dtat := TTMTAI / DAYSEC
	if math.Abs(tt1) > math.Abs(tt2) {
		return tt1, tt2 - dtat
	}
	return tt1 - dtat, tt2
}

// Taiut1 converts TAI to UT1 given dta = UT1−TAI in seconds.
func Taiut1(tai1, tai2, dta float64) (ut11, ut12 float64) {
	dtad := dta / DAYSEC
	if math.Abs(tai1) > math.Abs(tai2) {
		return tai1, tai2 + dtad
	}
	return tai1 + dtad, tai2
}

// Ut1tai converts UT1 to TAI given dta = UT1−TAI in seconds.
func Ut1tai(ut11, ut12, dta float64) (tai1, tai2 float64) {
	dtad := dta / DAYSEC
	if math.Abs(ut11) > math.Abs(ut12) {
		return ut11, ut12 - dtad
	}
	return ut11 - dtad, ut12
}

// Ttut1 converts TT to UT1 given dt = TT−UT1 in seconds.
func Ttut1(tt1, tt2, dt float64) (ut11, ut12 float64) {
	dtd := dt / DAYSEC
	if math.Abs(tt1) > math.Abs(tt2) {
		return tt1, tt2 - dtd
	}
	return tt1 - dtd, tt2
}

// Ut1tt converts UT1 to TT given dt = TT−UT1 in seconds.
func Ut1tt(ut11, ut12, dt float64) (tt1, tt2 float64) {
	dtd := dt / DAYSEC
	if math.Abs(ut11) > math.Abs(ut12) {
		return ut11, ut12 + dtd
	}
	return ut11 + dtd, ut12
}

// Tttdb converts TT to TDB given dtr = TDB−TT in seconds.
func Tttdb(tt1, tt2, dtr float64) (tdb1, tdb2 float64) {
	dtrd := dtr / DAYSEC
	if math.Abs(tt1) > math.Abs(tt2) {
		return tt1, tt2 + dtrd
	}
	return tt1 + dtrd, tt2
}

// Tdbtt converts TDB to TT given dtr = TDB−TT in seconds.
func Tdbtt(tdb1, tdb2, dtr float64) (tt1, tt2 float64) {
	dtrd := dtr / DAYSEC
	if math.Abs(tdb1) > math.Abs(tdb2) {
		return tdb1, tdb2 - dtrd
	}
	return tdb1 - dtrd, tdb2
}

// Tttcg converts TT to TCG.
func Tttcg(tt1, tt2 float64) (tcg1, tcg2 float64) {
	t77t := DJM77 + TTMTAI/DAYSEC
	elgg := ELG / (1.0 - ELG)
	if math.Abs(tt1) > math.Abs(tt2) {
		return tt1, tt2 + ((tt1-DJM0)+(tt2-t77t))*elgg
	}
	return tt1 + ((tt2-DJM0)+(tt1-t77t))*elgg, tt2
}

// Tcgtt converts TCG to TT.
func Tcgtt(tcg1, tcg2 float64) (tt1, tt2 float64) {
	t77t := DJM77 + TTMTAI/DAYSEC
	if math.Abs(tcg1) > math.Abs(tcg2) {
		return tcg1, tcg2 - ((tcg1-DJM0)+(tcg2-t77t))*ELG
	}
	return tcg1 - ((tcg2-DJM0)+(tcg1-t77t))*ELG, tcg2
}

// Tdbtcb converts TDB to TCB.
func Tdbtcb(tdb1, tdb2 float64) (tcb1, tcb2 float64) {
	t77td := DJM0 + DJM77
	t77tf := TTMTAI / DAYSEC
	tdb0 := TDB0 / DAYSEC
	elbb := ELB / (1.0 - ELB)
	if math.Abs(tdb1) > math.Abs(tdb2) {
		d := t77td - tdb1
		f := tdb2 - tdb0
		return tdb1, f - (d-(f-t77tf))*elbb
	}
	d := t77td - tdb2
	f := tdb1 - tdb0
	return f - (d-(f-t77tf))*elbb, tdb2
}

// Tcbtdb converts TCB to TDB.
func Tcbtdb(tcb1, tcb2 float64) (tdb1, tdb2 float64) {
	t77td := DJM0 + DJM77
	t77tf := TTMTAI / DAYSEC
	tdb0 := TDB0 / DAYSEC
	if math.Abs(tcb1) > math.Abs(tcb2) {
		d := tcb1 - t77td
		return tcb1, tcb2 + tdb0 - (d+(tcb2-t77tf))*ELB
	}
	d := tcb2 - t77td
	return tcb1 + tdb0 - (d+(tcb1-t77tf))*ELB, tcb2
}

// Utctai converts UTC to TAI. UTC is a quasi-JD: on a day that ends in a
// leap second the day fraction spans 86400+Δ SI seconds.
func Utctai(utc1, utc2 float64) (tai1, tai2 float64, err error) {
	big1 := math.Abs(utc1) >= math.Abs(utc2)
	u1, u2 := utc1, utc2
	if !big1 {
		u1, u2 = utc2, utc1
	}

	iy, im, id, fd, err := Jd2cal(u1, u2)
	if err != nil {
		return 0, 0, err
	}
	dat0, err := Dat(iy, im, id, 0.0)
	if err != nil {
		return 0, 0, err
	}
	dat12, err := Dat(iy, im, id, 0.5)
	if err != nil {
		return 0, 0, err
	}
	iyt, imt, idt, _, err := Jd2cal(u1+1.5, u2-fd)
	if err != nil {
		return 0, 0, err
	}
	dat24, err := Dat(iyt, imt, idt, 0.0)
	if err != nil {
		return 0, 0, err
	}

	// Separate TAI−UTC change into per-day (DLOD) and any jump (DLEAP).
	dlod := 2.0 * (dat12 - dat0)
	dleap := dat24 - (dat0 + dlod)

	// Remove any scaling applied to spread leap into preceding day.
	fd *= (DAYSEC + dleap) / DAYSEC
	// Scale from (pre-1972) UTC seconds to SI seconds.
	fd *= (DAYSEC + dlod) / DAYSEC

	z1, z2, err := Cal2jd(iy, im, id)
	if err != nil {
		return 0, 0, err
	}
	a2 := z1 - u1
	a2 += z2
	a2 += fd + dat0/DAYSEC

	if big1 {
		return u1, a2, nil
	}
	return a2, u1, nil
}

// Taiutc converts TAI to UTC by iterating Utctai.
func Taiutc(tai1, tai2 float64) (utc1, utc2 float64, err error) {
	big1 := math.Abs(tai1) >= math.Abs(tai2)
	a1, a2 := tai1, tai2
	if !big1 {
		a1, a2 = tai2, tai1
	}

	u1, u2 := a1, a2
	for i := 0; i < 3; i++ {
		g1, g2, err := Utctai(u1, u2)
		if err != nil {
			return 0, 0, err
		}
		u2 += (a1 - g1) + (a2 - g2)
	}

	if big1 {
		return u1, u2, nil
	}
	return u2, u1, nil
}

// Utcut1 converts UTC to UT1 given dut1 = UT1−UTC in seconds.
func Utcut1(utc1, utc2, dut1 float64) (ut11, ut12 float64, err error) {
	iy, im, id, _, err := Jd2cal(utc1, utc2)
	if err != nil {
		return 0, 0, err
	}
	dat, err := Dat(iy, im, id, 0.0)
	if err != nil {
		return 0, 0, err
	}
	dta := dut1 - dat

	tai1, tai2, err := Utctai(utc1, utc2)
	if err != nil {
		return 0, 0, err
	}
	ut11, ut12 = Taiut1(tai1, tai2, dta)
	return ut11, ut12, nil
}

// Ut1utc converts UT1 to UTC given dut1 = UT1−UTC in seconds. Near a leap
// second dut1 is ramped so that the result matches the quasi-JD form that
// Utctai expects. The result is then refined against Utcut1, which before
// 1972 reads TAI−UTC at the time of day rather than at 0h.
func Ut1utc(ut11, ut12, dut1 float64) (utc1, utc2 float64, err error) {
	big1 := math.Abs(ut11) >= math.Abs(ut12)
	u1, u2 := ut11, ut12
	if !big1 {
		u1, u2 = ut12, ut11
	}

	duts := dut1
	d1 := u1
	var dats1 float64
	for i := -1; i <= 3; i++ {
		d2 := u2 + float64(i)
		iy, im, id, _, err := Jd2cal(d1, d2)
		if err != nil {
			return 0, 0, err
		}
		dats2, err := Dat(iy, im, id, 0.0)
		if err != nil {
			return 0, 0, err
		}
		if i == -1 {
			dats1 = dats2
		}
		ddats := dats2 - dats1
		if math.Abs(ddats) >= 0.5 {
			// Leap second nearby: ensure UT1−UTC is the "before" value.
			if ddats*duts >= 0 {
				duts -= ddats
			}
			// UT1 for the start of the UTC day that ends in a leap.
			d1, d2, err = Cal2jd(iy, im, id)
			if err != nil {
				return 0, 0, err
			}
			us1 := d1
			us2 := d2 - 1.0 + duts/DAYSEC

			du := u1 - us1
			du += u2 - us2
			if du > 0 {
				fd := du * DAYSEC / (DAYSEC + ddats)
				duts += ddats * math.Min(fd, 1.0)
			}
			break
		}
		dats1 = dats2
	}

	r2 := u2 - duts/DAYSEC
	for i := 0; i < 3; i++ {
		g1, g2, err := Utcut1(u1, r2, dut1)
		if err != nil {
			return 0, 0, err
		}
		d := (u1 - g1) + (u2 - g2)
		// A residual of half a second or more means the guess sits across
		// a leap second from the answer; the ramp already handled it.
		if math.Abs(d) < 1e-15 || math.Abs(d) >= 0.5/DAYSEC {
			break
		}
		r2 += d
	}

	if big1 {
		return u1, r2, nil
	}
	return r2, u1, nil
}

// DtdbApprox returns an approximation of TDB−TT in seconds for a TT date,
// keeping only the annual and semi-annual terms (about 10 µs accuracy).
func DtdbApprox(date1, date2 float64) float64 {
	t := (date1 - DJ00) + date2
	g := (357.53 + 0.98560028*t) * math.Pi / 180.0
	return 0.001657*math.Sin(g) + 0.000014*math.Sin(2*g)
}
