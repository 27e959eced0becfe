package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/orient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// testStore holds a dataset spanning a few days around the current time.
func testStore() *eop.Store {
	today := float64(time.Now().Unix()/86400 + 40587)
	var entries []eop.Entry
	for d := -2.0; d <= 2; d++ {
		entries = append(entries, eop.Entry{MJD: today + d, XP: 0.1, YP: 0.3, DUT1: 0.02})
	}
	store := eop.NewStore()
	store.Set(eop.NewDataset("test", time.Now().Add(-30*time.Minute), entries))
	return store
}

// testCache returns a cache warmed from store, maintained until the test
// ends.
func testCache(t *testing.T, store *eop.Store) *cache.KeyframeCache {
	t.Helper()
	svc := orient.NewService(orient.Standard, store, testLogger())
	c := cache.NewKeyframeCache(cache.Config{
		Step:    time.Second,
		Horizon: 10 * time.Second,
		Buffer:  5 * time.Second,
		Workers: 2,
	}, svc, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Start(ctx)

	deadline := time.Now().Add(5 * time.Second)
	for c.Stats().Entries == 0 {
		if time.Now().After(deadline) {
			t.Fatal("cache did not warm up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return c
}

func testConfig() Config {
	return Config{
		MaxConcurrentPerIP: 10,
		BandwidthLimit:     1048576,
		KeepaliveInterval:  30 * time.Second,
	}
}

// TestMetadataMessage verifies the first message describes the dataset.
func TestMetadataMessage(t *testing.T) {
	store := testStore()
	h := NewHandler(nil, store, testConfig(), testLogger())

	meta := h.metadata("abc", 5)
	if meta.Type != "metadata" {
		t.Errorf("type = %q, want metadata", meta.Type)
	}
	if meta.StreamID != "abc" {
		t.Errorf("stream_id = %q, want abc", meta.StreamID)
	}
	if meta.EOPSource != "test" {
		t.Errorf("eop_source = %q, want test", meta.EOPSource)
	}
	if meta.EOPAge < 1790 || meta.EOPAge > 1810 {
		t.Errorf("eop_age_seconds = %d, want about 1800", meta.EOPAge)
	}
	if meta.EOPRange == nil || meta.EOPRange.Max-meta.EOPRange.Min != 4 {
		t.Errorf("eop_mjd_range = %+v, want a 4-day span", meta.EOPRange)
	}

	empty := NewHandler(nil, eop.NewStore(), testConfig(), testLogger())
	data, err := json.Marshal(empty.metadata("abc", 5))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "eop_source") {
		t.Errorf("metadata without dataset should omit eop_source: %s", data)
	}
}

// TestOrientationMessageJSON verifies the keyframe payload layout.
func TestOrientationMessageJSON(t *testing.T) {
	store := testStore()
	svc := orient.NewService(orient.Standard, store, testLogger())
	ts := time.Now().UTC().Truncate(time.Second)
	snap, err := svc.Compute(ts)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(newOrientationMessage(snap))
	if err != nil {
		t.Fatal(err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatal(err)
	}

	if parsed["type"] != "orientation" {
		t.Errorf("type = %v, want orientation", parsed["type"])
	}
	if parsed["t"] != ts.Format(time.RFC3339Nano) {
		t.Errorf("t = %v, want %s", parsed["t"], ts.Format(time.RFC3339Nano))
	}
	if m, ok := parsed["earth_model"].([]any); !ok || len(m) != 16 {
		t.Errorf("earth_model = %v, want 16 numbers", parsed["earth_model"])
	}
	if m, ok := parsed["gcrs_to_itrs"].([]any); !ok || len(m) != 3 {
		t.Errorf("gcrs_to_itrs = %v, want 3 rows", parsed["gcrs_to_itrs"])
	}
	if _, ok := parsed["reused"]; ok {
		t.Error("reused should be omitted for a fresh snapshot")
	}
}

// TestSSEMessageFormat verifies the SSE wire format: "data: {json}\n\n".
func TestSSEMessageFormat(t *testing.T) {
	store := testStore()
	handler := NewHandler(testCache(t, store), store, Config{
		MaxConcurrentPerIP: 10,
		BandwidthLimit:     1048576,
		KeepaliveInterval:  5 * time.Second,
	}, testLogger())

	req := httptest.NewRequest("GET", "/api/v1/stream/orientation?step=1", nil)
	req.RemoteAddr = "127.0.0.1:12345"

	ctx, cancel := context.WithTimeout(req.Context(), 2500*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	w := httptest.NewRecorder()
	handler.HandleOrientation(w, req)

	resp := w.Result()
	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("Cache-Control = %q, want no-cache", resp.Header.Get("Cache-Control"))
	}
	streamID := resp.Header.Get("X-Stream-Id")
	if streamID == "" {
		t.Error("missing X-Stream-Id header")
	}

	body := w.Body.String()
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var types []string

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var msg map[string]any
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg); err != nil {
			t.Errorf("invalid JSON in SSE data line: %v", err)
			continue
		}
		typ, _ := msg["type"].(string)
		types = append(types, typ)
		if typ == "metadata" && msg["stream_id"] != streamID {
			t.Errorf("metadata stream_id = %v, want %s", msg["stream_id"], streamID)
		}
	}

	if len(types) == 0 || types[0] != "metadata" {
		t.Fatalf("first message types = %v, want metadata first", types)
	}
	if len(types) < 2 || types[1] != "orientation" {
		t.Errorf("message types = %v, want at least one orientation after metadata", types)
	}

	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "data: ") && !strings.HasPrefix(line, "retry: ") && line != ":" {
			t.Errorf("unexpected SSE line: %q", line)
		}
	}
}

// TestRateLimiting verifies per-IP concurrent stream limits.
func TestRateLimiting(t *testing.T) {
	limiter := newStreamLimiter(3)

	for i := 0; i < 3; i++ {
		if !limiter.acquire("10.0.0.1") {
			t.Fatalf("acquire %d should succeed", i+1)
		}
	}

	if limiter.acquire("10.0.0.1") {
		t.Error("acquire beyond limit should fail")
	}

	if !limiter.acquire("10.0.0.2") {
		t.Error("different IP should not be rate limited")
	}

	limiter.release("10.0.0.1")
	if !limiter.acquire("10.0.0.1") {
		t.Error("acquire after release should succeed")
	}

	if c := limiter.count("10.0.0.1"); c != 3 {
		t.Errorf("count = %d, want 3", c)
	}
	if c := limiter.count("10.0.0.2"); c != 1 {
		t.Errorf("count = %d, want 1", c)
	}
	if c := limiter.active(); c != 4 {
		t.Errorf("active = %d, want 4", c)
	}
}

func TestGlobalStreamCap(t *testing.T) {
	limiter := newStreamLimiter(1)
	limiter.maxTotal = 2

	if !limiter.acquire("10.0.0.1") || !limiter.acquire("10.0.0.2") {
		t.Fatal("acquire under global cap should succeed")
	}
	if limiter.acquire("10.0.0.3") {
		t.Error("acquire beyond global cap should fail")
	}
	limiter.release("10.0.0.1")
	if !limiter.acquire("10.0.0.3") {
		t.Error("acquire after release should succeed")
	}
}

// TestRateLimitingConcurrent verifies rate limiter thread safety.
func TestRateLimitingConcurrent(t *testing.T) {
	limiter := newStreamLimiter(100)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.acquire("10.0.0.1") {
				defer limiter.release("10.0.0.1")
				time.Sleep(10 * time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if c := limiter.count("10.0.0.1"); c != 0 {
		t.Errorf("count after all released = %d, want 0", c)
	}
	if c := limiter.active(); c != 0 {
		t.Errorf("active after all released = %d, want 0", c)
	}
}

// TestRateLimitHTTPResponse verifies 429 response when limit exceeded.
func TestRateLimitHTTPResponse(t *testing.T) {
	store := testStore()
	handler := NewHandler(testCache(t, store), store, Config{
		MaxConcurrentPerIP: 1,
		BandwidthLimit:     1048576,
		KeepaliveInterval:  30 * time.Second,
	}, testLogger())

	ready := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		req := httptest.NewRequest("GET", "/api/v1/stream/orientation", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		ctx, cancel := context.WithCancel(req.Context())
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		go func() {
			time.Sleep(50 * time.Millisecond)
			close(ready)
			time.Sleep(200 * time.Millisecond)
			cancel()
		}()

		handler.HandleOrientation(w, req)
	}()

	<-ready

	req := httptest.NewRequest("GET", "/api/v1/stream/orientation", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	w := httptest.NewRecorder()
	handler.HandleOrientation(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}

	<-done
}

// TestInvalidQueryParams verifies error responses for bad step values.
func TestInvalidQueryParams(t *testing.T) {
	store := testStore()
	handler := NewHandler(testCache(t, store), store, testConfig(), testLogger())

	tests := []struct {
		name  string
		query string
	}{
		{"bad step", "?step=0"},
		{"step too large", "?step=100"},
		{"step non-numeric", "?step=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/stream/orientation"+tt.query, nil)
			req.RemoteAddr = "127.0.0.1:12345"
			w := httptest.NewRecorder()
			handler.HandleOrientation(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

// TestBandwidthThrottle verifies that a stream over its byte budget waits.
func TestBandwidthThrottle(t *testing.T) {
	c := newClient(httptest.NewRecorder(), "127.0.0.1", 1000, testLogger())
	if c.limiter == nil {
		t.Fatal("limiter not configured")
	}
	if c.limiter.Burst() < minBurst {
		t.Errorf("burst = %d, want at least %d", c.limiter.Burst(), minBurst)
	}

	// Shrink the burst so the second write has to wait about a second.
	c.limiter = rate.NewLimiter(1000, 1000)
	ctx := context.Background()

	start := time.Now()
	if err := c.throttle(ctx, 1000); err != nil {
		t.Fatal(err)
	}
	if err := c.throttle(ctx, 1000); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 800*time.Millisecond {
		t.Errorf("second write waited %v, want about 1s", elapsed)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := c.throttle(cancelled, 1000); err == nil {
		t.Error("throttle with cancelled context should fail")
	}

	unlimited := newClient(httptest.NewRecorder(), "127.0.0.1", 0, testLogger())
	if err := unlimited.throttle(cancelled, 1<<30); err != nil {
		t.Errorf("unlimited client throttled: %v", err)
	}
}

// TestKeepaliveFormat verifies keep-alive is an SSE comment.
func TestKeepaliveFormat(t *testing.T) {
	w := httptest.NewRecorder()
	c := newClient(w, "127.0.0.1", 0, testLogger())
	c.flusher = w

	if err := c.sendKeepalive(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := w.Body.String(); got != ":\n\n" {
		t.Errorf("keepalive = %q, want %q", got, ":\n\n")
	}
	if c.bytesSent != 3 {
		t.Errorf("bytesSent = %d, want 3", c.bytesSent)
	}
}
