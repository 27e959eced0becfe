// Package stream implements Server-Sent Events (SSE) streaming of Earth
// orientation keyframes. Clients connect via GET /api/v1/stream/orientation
// and receive one snapshot per step from the keyframe cache.
//
// SSE message format:
//
//	data: {"type":"orientation","t":"2026-02-06T04:00:00Z","gcrs_to_itrs":[...],"earth_model":[...],...}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","stream_id":"...","eop_source":"...","eop_age_seconds":1800,...}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent timeout.
// Reconnecting clients receive a fresh metadata message on each connection.
package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/httputil"
	"github.com/AlexApps99/stardome/internal/metrics"
	"github.com/AlexApps99/stardome/internal/orient"
)

// Config holds streaming configuration.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 10).
	BandwidthLimit     int           // Bytes per second per stream (default: 1048576).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
	TrustProxy         bool          // Take the client IP from X-Forwarded-For.
}

// Handler manages SSE streaming connections.
type Handler struct {
	cache   *cache.KeyframeCache
	store   *eop.Store
	config  Config
	limiter *streamLimiter
	logger  *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(kfCache *cache.KeyframeCache, store *eop.Store, config Config, logger *slog.Logger) *Handler {
	return &Handler{
		cache:   kfCache,
		store:   store,
		config:  config,
		limiter: newStreamLimiter(config.MaxConcurrentPerIP),
		logger:  logger.With("component", "stream"),
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// HandleOrientation serves the SSE orientation stream.
// GET /api/v1/stream/orientation?step=5
func (h *Handler) HandleOrientation(w http.ResponseWriter, r *http.Request) {
	step := int(h.cache.Step() / time.Second)
	if step < 1 {
		step = 1
	}
	if v := r.URL.Query().Get("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "invalid step parameter, must be 1-60")
			return
		}
		step = n
	}

	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.limiter.acquire(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.limiter.count(ip),
			"total_streams", h.limiter.active(),
		)
		w.Header().Set("Retry-After", "30")
		writeError(w, http.StatusTooManyRequests, "too many concurrent streams")
		return
	}

	streamID := uuid.NewString()
	logger := h.logger.With("stream_id", streamID, "remote_ip", ip)

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	startTime := time.Now()
	logger.Info("stream connected",
		"user_agent", r.Header.Get("User-Agent"),
		"step", step,
	)

	c := newClient(w, ip, h.config.BandwidthLimit, logger)

	defer func() {
		h.limiter.release(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		logger.Info("stream disconnected",
			"duration_seconds", int(time.Since(startTime).Seconds()),
			"messages", c.messagesSent,
			"bytes", c.bytesSent,
		)
	}()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	c.flusher = flusher

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.Header().Set("X-Stream-Id", streamID)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Clear the server's WriteTimeout; each write sets its own deadline.
	if err := c.rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Debug("could not clear write deadline", "error", err)
	}

	// Jittered retry interval (3-7s) so a server restart does not cause a
	// reconnection storm.
	retryMs := 3000 + rand.Intn(4000)
	fmt.Fprintf(w, "retry: %d\n\n", retryMs)
	flusher.Flush()

	ctx := r.Context()
	if err := c.sendJSON(ctx, h.metadata(streamID, step)); err != nil {
		metrics.IncStreamErrors("send_error")
		logger.Warn("stream send error (metadata)", "error", err)
		return
	}

	ticker := time.NewTicker(time.Duration(step) * time.Second)
	defer ticker.Stop()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case t := <-ticker.C:
			snap := h.cache.Get(t)
			if snap == nil {
				metrics.IncStreamErrors("cache_miss")
				logger.Debug("stream cache miss",
					"timestamp", h.cache.RoundToStep(t).Format(time.RFC3339),
				)
				continue
			}

			if err := c.sendJSON(ctx, newOrientationMessage(snap)); err != nil {
				metrics.IncStreamErrors("send_error")
				logger.Warn("stream send error", "error", err)
				return
			}

			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := c.sendKeepalive(ctx); err != nil {
				metrics.IncStreamErrors("send_error")
				logger.Warn("stream keepalive error", "error", err)
				return
			}
		}
	}
}

// metadata describes the stream and the EOP dataset behind it.
func (h *Handler) metadata(streamID string, step int) metadataMessage {
	meta := metadataMessage{
		Type:        "metadata",
		StreamID:    streamID,
		StepSeconds: step,
	}
	if ds := h.store.Get(); ds != nil {
		meta.EOPSource = ds.Source
		meta.EOPFetchedAt = ds.FetchedAt.UTC().Format(time.RFC3339)
		meta.EOPAge = int(time.Since(ds.FetchedAt).Seconds())
		meta.EOPRange = &ds.Range
	}
	return meta
}

func newOrientationMessage(s *orient.Snapshot) orientationMessage {
	return orientationMessage{Type: "orientation", View: s.View()}
}

// SSE message payload types.

type metadataMessage struct {
	Type         string        `json:"type"`
	StreamID     string        `json:"stream_id"`
	StepSeconds  int           `json:"step_seconds"`
	EOPSource    string        `json:"eop_source,omitempty"`
	EOPFetchedAt string        `json:"eop_fetched_at,omitempty"`
	EOPAge       int           `json:"eop_age_seconds"`
	EOPRange     *eop.MJDRange `json:"eop_mjd_range,omitempty"`
}

type orientationMessage struct {
	Type string `json:"type"`
	orient.View
}
