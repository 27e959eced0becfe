// Package metrics exposes the service's Prometheus collectors and the small
// setter functions the other packages call to update them.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "stardome"

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	eopDatasetAgeSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "eop_dataset_age_seconds",
		Help:      "Seconds since the loaded Earth-orientation dataset was fetched.",
	})

	eopDatasetEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "eop_dataset_entries",
		Help:      "Daily rows in the loaded Earth-orientation dataset.",
	})

	eopFetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "eop_fetch_total",
			Help:      "Earth-orientation downloads by result.",
		},
		[]string{"result"},
	)

	orientationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orientation_computations_total",
			Help:      "GCRS to ITRS orientation computations by outcome (ok, reused, error).",
		},
		[]string{"outcome"},
	)

	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Keyframe cache hits.",
	})

	cacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Keyframe cache misses.",
	})

	cacheEvictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_evictions_total",
		Help:      "Keyframes evicted from the trailing edge of the window.",
	})

	cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Keyframes currently cached.",
	})

	cacheSizeBytes = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_size_bytes",
		Help:      "Estimated keyframe cache footprint.",
	})

	cacheRegenerationErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_regeneration_errors_total",
		Help:      "Keyframes that could not be generated.",
	})

	cacheRegenerationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_regeneration_duration_seconds",
		Help:      "Time spent generating keyframes or rebuilding the cache.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	})

	cacheGracePeriodActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_grace_period_active",
		Help:      "1 while the cache is being rebuilt for a new EOP dataset.",
	})

	streamConnectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_connections_total",
			Help:      "SSE connection events (connect, disconnect).",
		},
		[]string{"event"},
	)

	streamsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "streams_active",
		Help:      "Open SSE streams.",
	})

	streamMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_messages_total",
		Help:      "SSE data messages sent.",
	})

	streamBytesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_bytes_total",
		Help:      "Bytes written to SSE streams.",
	})

	streamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_errors_total",
			Help:      "SSE errors by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		eopDatasetAgeSeconds,
		eopDatasetEntries,
		eopFetchTotal,
		orientationTotal,
		cacheHitsTotal,
		cacheMissesTotal,
		cacheEvictionsTotal,
		cacheEntries,
		cacheSizeBytes,
		cacheRegenerationErrors,
		cacheRegenerationSeconds,
		cacheGracePeriodActive,
		streamConnectionsTotal,
		streamsActive,
		streamMessagesTotal,
		streamBytesTotal,
		streamErrorsTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func SetEOPDatasetAge(seconds float64) { eopDatasetAgeSeconds.Set(seconds) }
func SetEOPDatasetEntries(n int)       { eopDatasetEntries.Set(float64(n)) }
func IncEOPFetch(result string)        { eopFetchTotal.WithLabelValues(result).Inc() }

func IncOrientation(outcome string) { orientationTotal.WithLabelValues(outcome).Inc() }

func IncCacheHits()               { cacheHitsTotal.Inc() }
func IncCacheMisses()             { cacheMissesTotal.Inc() }
func AddCacheEvictions(n int)     { cacheEvictionsTotal.Add(float64(n)) }
func SetCacheEntries(n int)       { cacheEntries.Set(float64(n)) }
func SetCacheSizeBytes(n int64)   { cacheSizeBytes.Set(float64(n)) }
func IncCacheRegenerationErrors() { cacheRegenerationErrors.Inc() }

// SetCacheGracePeriodActive flags a rebuild in progress.
func SetCacheGracePeriodActive(b bool) {
	v := 0.0
	if b {
		v = 1
	}
	cacheGracePeriodActive.Set(v)
}

// ObserveCacheRegenerationDuration records the time taken to generate one
// keyframe or rebuild the whole window.
func ObserveCacheRegenerationDuration(d time.Duration) {
	cacheRegenerationSeconds.Observe(d.Seconds())
}

func IncStreamConnections(event string) { streamConnectionsTotal.WithLabelValues(event).Inc() }
func IncStreamsActive()                 { streamsActive.Inc() }
func DecStreamsActive()                 { streamsActive.Dec() }
func IncStreamMessages()                { streamMessagesTotal.Inc() }
func AddStreamBytes(n int64)            { streamBytesTotal.Add(float64(n)) }
func IncStreamErrors(reason string)     { streamErrorsTotal.WithLabelValues(reason).Inc() }

// knownRoutes are the only path labels recorded; anything else is "other" so
// scanners cannot blow up label cardinality.
var knownRoutes = map[string]bool{
	"/":                          true,
	"/healthz":                   true,
	"/readyz":                    true,
	"/metrics":                   true,
	"/api/v1/time":               true,
	"/api/v1/orientation":        true,
	"/api/v1/orientation/latest": true,
	"/api/v1/teme":               true,
	"/api/v1/eop/metadata":       true,
	"/api/v1/eop/refresh":        true,
	"/api/v1/ephemeris/moon":     true,
	"/api/v1/cache/stats":        true,
	"/api/v1/stream/orientation": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE working through the wrapper.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := normalizeRoute(r.URL.Path)
		code := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
