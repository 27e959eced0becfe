package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/frame"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/timescale"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

type orientationResponse struct {
	orient.View
	ParamsSource string `json:"params_source"`
}

// paramOverrides reads xp, yp (arcsec), dut1 (s), dx, dy (mas) from the
// query. It reports whether xp, yp and dut1 were all given, in which case no
// EOP dataset is needed.
func paramOverrides(r *http.Request, p *eop.Params) (complete, overridden bool, err error) {
	fields := []struct {
		name string
		dst  *float64
		conv func(float64) float64
	}{
		{"xp", &p.XP, frame.ArcsecToRad},
		{"yp", &p.YP, frame.ArcsecToRad},
		{"dut1", &p.DUT1, nil},
		{"dx", &p.DX, frame.MasToRad},
		{"dy", &p.DY, frame.MasToRad},
	}

	given := 0
	for i, f := range fields {
		v, ok, err := queryFloat(r, f.name)
		if err != nil {
			return false, false, err
		}
		if !ok {
			continue
		}
		if f.conv != nil {
			v = f.conv(v)
		}
		*f.dst = v
		overridden = true
		if i < 3 {
			given++
		}
	}
	return given == 3, overridden, nil
}

// orientationHandler returns the GCRS→ITRS rotation for a UTC instant.
// GET /api/v1/orientation?utc=...&xp=&yp=&dut1=&dx=&dy=
func orientationHandler(svc *orient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := queryUTC(r)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		var p eop.Params
		source := "eop"
		base, storeErr := svc.Store().At(u)
		if storeErr == nil {
			p = base
		}

		complete, overridden, err := paramOverrides(r, &p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		switch {
		case storeErr != nil && !complete:
			writeDomainError(w, storeErr)
			return
		case storeErr != nil:
			source = "query"
		case overridden:
			source = "eop+query"
		}

		snap, err := svc.Calculator().Compute(u, p)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		snap.Timestamp = u.WallClock()
		writeJSON(w, http.StatusOK, orientationResponse{View: snap.View(), ParamsSource: source})
	}
}

// latestHandler serves the cached keyframe for the current step, computing
// it directly when the cache has not caught up.
// GET /api/v1/orientation/latest
func latestHandler(kc *cache.KeyframeCache, svc *orient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source := "cache"
		var snap *orient.Snapshot
		if kc != nil {
			snap = kc.GetLatest()
		}
		if snap == nil {
			var err error
			snap, err = svc.At(time.Now())
			if err != nil {
				writeDomainError(w, err)
				return
			}
			source = "computed"
		}
		writeJSON(w, http.StatusOK, orientationResponse{View: snap.View(), ParamsSource: source})
	}
}

type temeRequest struct {
	UTC  string      `json:"utc"`
	R    [3]float64  `json:"r"`
	V    *[3]float64 `json:"v,omitempty"`
	XP   *float64    `json:"xp,omitempty"` // arcsec
	YP   *float64    `json:"yp,omitempty"` // arcsec
	DUT1 *float64    `json:"dut1,omitempty"`
}

type temeResponse struct {
	UTC       string         `json:"utc"`
	R         [3]float64     `json:"r_itrs"`
	V         *[3]float64    `json:"v_itrs,omitempty"`
	Geodetic  frame.Geodetic `json:"geodetic"`
	Plausible bool           `json:"plausible_orbit"`
	Params    eop.Params     `json:"params"`
}

// temeHandler converts an SGP4 TEME state to ITRS.
// POST /api/v1/teme {"utc":"...","r":[x,y,z],"v":[vx,vy,vz]}
func temeHandler(svc *orient.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req temeRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		if req.UTC == "" {
			writeError(w, http.StatusBadRequest, "utc is required")
			return
		}
		u, err := timescale.ParseUTC(req.UTC)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		p, err := svc.Store().At(u)
		if err != nil && (req.XP == nil || req.YP == nil || req.DUT1 == nil) {
			writeDomainError(w, err)
			return
		}
		if req.XP != nil {
			p.XP = frame.ArcsecToRad(*req.XP)
		}
		if req.YP != nil {
			p.YP = frame.ArcsecToRad(*req.YP)
		}
		if req.DUT1 != nil {
			p.DUT1 = *req.DUT1
		}

		rTEME := frame.Vec[frame.TEME](req.R[0], req.R[1], req.R[2])
		var vTEME frame.Vector[frame.TEME]
		if req.V != nil {
			vTEME = frame.Vec[frame.TEME](req.V[0], req.V[1], req.V[2])
		}

		ri, vi, err := svc.Calculator().TEMEToITRS(u, p, rTEME, vTEME)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := temeResponse{
			UTC:       u.String(),
			R:         [3]float64{ri.X, ri.Y, ri.Z},
			Geodetic:  frame.ToGeodetic(ri),
			Plausible: frame.PlausibleOrbit(ri),
			Params:    p,
		}
		if req.V != nil {
			resp.V = &[3]float64{vi.X, vi.Y, vi.Z}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// cacheStatsHandler reports keyframe cache statistics.
// GET /api/v1/cache/stats
func cacheStatsHandler(kc *cache.KeyframeCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if kc == nil {
			writeError(w, http.StatusServiceUnavailable, "keyframe cache not configured")
			return
		}
		writeJSON(w, http.StatusOK, kc.Stats())
	}
}
