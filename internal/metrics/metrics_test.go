package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		// Known exact routes.
		{"/healthz", "/healthz"},
		{"/readyz", "/readyz"},
		{"/metrics", "/metrics"},
		{"/", "/"},
		{"/api/v1/time", "/api/v1/time"},
		{"/api/v1/orientation", "/api/v1/orientation"},
		{"/api/v1/orientation/latest", "/api/v1/orientation/latest"},
		{"/api/v1/teme", "/api/v1/teme"},
		{"/api/v1/eop/metadata", "/api/v1/eop/metadata"},
		{"/api/v1/eop/refresh", "/api/v1/eop/refresh"},
		{"/api/v1/cache/stats", "/api/v1/cache/stats"},
		{"/api/v1/stream/orientation", "/api/v1/stream/orientation"},

		// Unknown/bot paths collapse to "other".
		{"/wp-admin", "other"},
		{"/robots.txt", "other"},
		{"/.env", "other"},
		{"/api/v2/time", "other"},
		{"/api/v1/orientation/2004-04-06", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizeRoute(tt.path); got != tt.want {
				t.Errorf("normalizeRoute(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// TestMiddlewareKeepsFlusher verifies the wrapper does not hide http.Flusher
// from SSE handlers.
func TestMiddlewareKeepsFlusher(t *testing.T) {
	var flushable bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, flushable = w.(http.Flusher)
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/stream/orientation", nil))

	if !flushable {
		t.Error("wrapped writer does not implement http.Flusher")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	IncOrientation("ok")
	SetEOPDatasetEntries(42)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	for _, name := range []string{
		"stardome_orientation_computations_total",
		"stardome_eop_dataset_entries 42",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
