package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/ephemeris"
	"github.com/AlexApps99/stardome/internal/timescale"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case timescale.IsKind(err, timescale.KindUnacceptableDate),
		errors.Is(err, eop.ErrOutOfRange),
		errors.Is(err, ephemeris.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case timescale.IsKind(err, timescale.KindInvalidCalendarDate),
		timescale.IsKind(err, timescale.KindFormat):
		return http.StatusBadRequest
	case errors.Is(err, eop.ErrNoDataset),
		errors.Is(err, ephemeris.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

// queryUTC reads the utc parameter, defaulting to the wall clock.
func queryUTC(r *http.Request) (timescale.UTC, error) {
	v := r.URL.Query().Get("utc")
	if v == "" {
		return timescale.FromWallClock(time.Now()), nil
	}
	return timescale.ParseUTC(v)
}

// queryFloat reads an optional float parameter. ok is false when absent.
func queryFloat(r *http.Request, name string) (val float64, ok bool, err error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, errors.New("invalid " + name + " parameter")
	}
	return f, true, nil
}
