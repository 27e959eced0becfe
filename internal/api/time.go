package api

import (
	"net/http"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// scaleValue is one instant on one scale.
type scaleValue struct {
	Formatted string            `json:"formatted"`
	JD        timescale.Instant `json:"jd"`
	MJD       float64           `json:"mjd"`
}

func newScaleValue(i timescale.Instant, formatted string) scaleValue {
	return scaleValue{Formatted: formatted, JD: i, MJD: i.MJD()}
}

type timeResponse struct {
	UTC        scaleValue `json:"utc"`
	TAI        scaleValue `json:"tai"`
	TT         scaleValue `json:"tt"`
	UT1        scaleValue `json:"ut1"`
	TDB        scaleValue `json:"tdb"`
	TCG        scaleValue `json:"tcg"`
	TCB        scaleValue `json:"tcb"`
	LeapOffset float64    `json:"tai_minus_utc"`
	DUT1       float64    `json:"dut1"`
	DUT1Source string     `json:"dut1_source"`
	DTR        float64    `json:"dtr"`
	DeltaT     float64    `json:"delta_t"`
}

// timeHandler reports a UTC instant on every scale.
// GET /api/v1/time?utc=2004-04-06T07:51:28.386Z&dut1=-0.4399619&dtr=0
//
// dut1 defaults to the EOP value, or 0 when no dataset is loaded. dtr
// defaults to the approximate TDB−TT series.
func timeHandler(store *eop.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := queryUTC(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		dut1, hasDUT1, err := queryFloat(r, "dut1")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		dtr, hasDTR, err := queryFloat(r, "dtr")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		source := "query"
		if !hasDUT1 {
			source = "default"
			if p, err := store.At(u); err == nil {
				dut1, source = p.DUT1, "eop"
			}
		}

		resp, err := convertAll(timescale.Default, u, dut1, dtr, hasDTR)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp.DUT1Source = source
		writeJSON(w, http.StatusOK, resp)
	}
}

// convertAll walks the scale graph from u.
func convertAll(conv timescale.Converter, u timescale.UTC, dut1, dtr float64, hasDTR bool) (timeResponse, error) {
	tai, err := conv.UTCToTAI(u)
	if err != nil {
		return timeResponse{}, err
	}
	tt := conv.TAIToTT(tai)
	ut1, err := conv.UTCToUT1(u, dut1)
	if err != nil {
		return timeResponse{}, err
	}
	if !hasDTR {
		dtr = iau.DtdbApprox(tt.Whole, tt.Frac)
	}
	tdb := conv.TTToTDB(tt, dtr)
	tcg, tcb := conv.TTToTCG(tt), conv.TDBToTCB(tdb)
	leap, err := conv.LeapOffset(u)
	if err != nil {
		return timeResponse{}, err
	}
	deltaT, err := conv.DeltaT(u, dut1)
	if err != nil {
		return timeResponse{}, err
	}

	utcText, err := u.Format(3)
	if err != nil {
		return timeResponse{}, err
	}

	return timeResponse{
		UTC:        newScaleValue(u.Instant, utcText),
		TAI:        newScaleValue(tai.Instant, tai.String()),
		TT:         newScaleValue(tt.Instant, tt.String()),
		UT1:        newScaleValue(ut1.Instant, ut1.String()),
		TDB:        newScaleValue(tdb.Instant, tdb.String()),
		TCG:        newScaleValue(tcg.Instant, tcg.String()),
		TCB:        newScaleValue(tcb.Instant, tcb.String()),
		LeapOffset: leap,
		DUT1:       dut1,
		DTR:        dtr,
		DeltaT:     deltaT,
	}, nil
}
