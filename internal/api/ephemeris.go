package api

import (
	"errors"
	"net/http"

	"github.com/AlexApps99/stardome/internal/ephemeris"
	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/iau"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/timescale"
)

type moonResponse struct {
	UTC         string              `json:"utc"`
	TDB         timescale.Instant   `json:"tdb"`
	GCRS        [3]float64          `json:"gcrs_km"`
	Velocity    *[3]float64         `json:"velocity_km_s,omitempty"`
	ITRS        *[3]float64         `json:"itrs_km,omitempty"`
	Horizontal  *frame.Horizontal   `json:"horizontal,omitempty"`
	Libration   ephemeris.Libration `json:"libration"`
	ModelMatrix [16]float64         `json:"model_matrix"`
}

// moonHandler returns the geocentric Moon and its model matrix. The ITRS
// position is included when EOP data covers the instant, and with lat and
// lon (degrees) and optional alt (m) so is the topocentric direction.
// GET /api/v1/ephemeris/moon?utc=...&lat=...&lon=...&alt=...
func moonHandler(eph *ephemeris.Handle, svc *orient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if eph == nil {
			writeError(w, http.StatusServiceUnavailable, "ephemeris not configured")
			return
		}
		u, err := queryUTC(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		observer, hasObserver, err := queryObserver(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		tt, err := timescale.Default.UTCToTT(u)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		tdb := timescale.Default.TTToTDB(tt, iau.DtdbApprox(tt.Whole, tt.Frac))

		moon, err := eph.Moon(tdb)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := moonResponse{
			UTC:         u.String(),
			TDB:         tdb.Instant,
			GCRS:        [3]float64{moon.Position.X, moon.Position.Y, moon.Position.Z},
			Libration:   moon.Libration,
			ModelMatrix: moon.ModelMatrix().Flatten(),
		}
		if moon.HasVelocity {
			resp.Velocity = &[3]float64{moon.Velocity.X, moon.Velocity.Y, moon.Velocity.Z}
		}
		if p, err := svc.Store().At(u); err == nil {
			if snap, err := svc.Calculator().Compute(u, p); err == nil {
				ri := snap.C2T.Apply(moon.Position)
				resp.ITRS = &[3]float64{ri.X, ri.Y, ri.Z}
				if hasObserver {
					hz := frame.LookAngles(observer, ri)
					resp.Horizontal = &hz
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// queryObserver reads lat, lon and alt. Both lat and lon are needed.
func queryObserver(r *http.Request) (frame.Geodetic, bool, error) {
	lat, hasLat, err := queryFloat(r, "lat")
	if err != nil {
		return frame.Geodetic{}, false, err
	}
	lon, hasLon, err := queryFloat(r, "lon")
	if err != nil {
		return frame.Geodetic{}, false, err
	}
	alt, _, err := queryFloat(r, "alt")
	if err != nil {
		return frame.Geodetic{}, false, err
	}
	if hasLat != hasLon {
		return frame.Geodetic{}, false, errors.New("lat and lon must be given together")
	}
	if lat < -90 || lat > 90 {
		return frame.Geodetic{}, false, errors.New("lat must be within [-90, 90]")
	}
	return frame.Geodetic{LatDeg: lat, LonDeg: lon, AltM: alt}, hasLat, nil
}
