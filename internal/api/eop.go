package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexApps99/stardome/internal/eop"
)

// refreshTimeout bounds a manual refresh, download included.
const refreshTimeout = 60 * time.Second

type eopMetadata struct {
	Source            string       `json:"source"`
	FetchedAt         time.Time    `json:"fetched_at"`
	AgeSeconds        int          `json:"age_seconds"`
	Range             eop.MJDRange `json:"mjd_range"`
	Entries           int          `json:"entries"`
	FirstPredictedMJD float64      `json:"first_predicted_mjd,omitempty"`
}

func newEOPMetadata(ds *eop.Dataset) eopMetadata {
	return eopMetadata{
		Source:            ds.Source,
		FetchedAt:         ds.FetchedAt.UTC(),
		AgeSeconds:        int(time.Since(ds.FetchedAt).Seconds()),
		Range:             ds.Range,
		Entries:           len(ds.Entries),
		FirstPredictedMJD: ds.FirstPredicted(),
	}
}

// eopMetadataHandler describes the loaded EOP dataset.
// GET /api/v1/eop/metadata
func eopMetadataHandler(store *eop.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds := store.Get()
		if ds == nil {
			writeDomainError(w, eop.ErrNoDataset)
			return
		}
		writeJSON(w, http.StatusOK, newEOPMetadata(ds))
	}
}

// eopRefreshHandler downloads and publishes a new series. Requests beyond
// the limiter's budget get 429.
// POST /api/v1/eop/refresh
func eopRefreshHandler(refresher *eop.Refresher, limiter *rate.Limiter, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			retry := int(time.Duration(float64(time.Second)/float64(limiter.Limit())).Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeError(w, http.StatusTooManyRequests, "refresh rate limit exceeded")
			return
		}

		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Now().Add(refreshTimeout + 5*time.Second)); err != nil {
			logger.Debug("could not extend write deadline", "error", err)
		}
		ctx, cancel := context.WithTimeout(r.Context(), refreshTimeout)
		defer cancel()

		ds, err := refresher.Refresh(ctx)
		switch {
		case errors.Is(err, eop.ErrFetchDisabled):
			writeError(w, http.StatusConflict, err.Error())
			return
		case err != nil:
			logger.Warn("manual EOP refresh failed", "component", "api", "error", err)
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, newEOPMetadata(ds))
	}
}
