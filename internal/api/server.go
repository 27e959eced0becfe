// Package api wires the HTTP surface: probes, metrics, the time and
// orientation endpoints, EOP management, the Moon, cache stats, the
// keyframe stream and the embedded viewer.
package api

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexApps99/stardome/internal/auth"
	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/ephemeris"
	"github.com/AlexApps99/stardome/internal/health"
	"github.com/AlexApps99/stardome/internal/httputil"
	"github.com/AlexApps99/stardome/internal/metrics"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/stream"
)

// Config holds HTTP server settings.
type Config struct {
	Addr       string
	Auth       auth.Config
	TrustProxy bool
	// RefreshInterval is the minimum spacing of manual EOP refreshes.
	RefreshInterval time.Duration
}

// Deps are the components the handlers serve. Cache, Ephemeris, Stream and
// Web may be nil; their routes then answer 503 or are not registered.
type Deps struct {
	Service   *orient.Service
	Refresher *eop.Refresher
	Cache     *cache.KeyframeCache
	Ephemeris *ephemeris.Handle
	Stream    *stream.Handler
	Web       fs.FS
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(cfg Config, deps Deps, logger *slog.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewHandler(cfg, deps, logger),
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewHandler builds the routed handler with its middleware chain:
// metrics -> logging -> auth -> mux.
func NewHandler(cfg Config, deps Deps, logger *slog.Logger) http.Handler {
	store := deps.Service.Store()
	refreshEvery := cfg.RefreshInterval
	if refreshEvery <= 0 {
		refreshEvery = time.Minute
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(store.Ready))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/v1/time", timeHandler(store))
	mux.HandleFunc("GET /api/v1/orientation", orientationHandler(deps.Service))
	mux.HandleFunc("GET /api/v1/orientation/latest", latestHandler(deps.Cache, deps.Service))
	mux.HandleFunc("POST /api/v1/teme", temeHandler(deps.Service))
	mux.HandleFunc("GET /api/v1/eop/metadata", eopMetadataHandler(store))
	if deps.Refresher != nil {
		limiter := rate.NewLimiter(rate.Every(refreshEvery), 1)
		mux.HandleFunc("POST /api/v1/eop/refresh", eopRefreshHandler(deps.Refresher, limiter, logger))
	}
	mux.HandleFunc("GET /api/v1/ephemeris/moon", moonHandler(deps.Ephemeris, deps.Service))
	mux.HandleFunc("GET /api/v1/cache/stats", cacheStatsHandler(deps.Cache))
	if deps.Stream != nil {
		mux.HandleFunc("GET /api/v1/stream/orientation", deps.Stream.HandleOrientation)
	}

	if deps.Web != nil {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(deps.Web)))
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFileFS(w, r, deps.Web, "index.html")
		})
	}

	var handler http.Handler = mux
	handler = auth.Middleware(cfg.Auth)(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)
	return handler
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz" || path == "/metrics"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

// Flush keeps the SSE stream working through the recorder.
func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
