package eop

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestFetcherBodyLimit verifies that oversized responses return an error
// instead of consuming unbounded memory.
func TestFetcherBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		chunk := strings.Repeat("A", 1024*1024)
		for i := 0; i < 18; i++ {
			if _, err := w.Write([]byte(chunk)); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	_, err := NewFetcher(server.URL, testLogger).Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for oversized response, got nil")
	}
	if !strings.Contains(err.Error(), "byte limit") {
		t.Errorf("expected body limit error, got: %v", err)
	}
}

func TestFetcherSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleSeries))
	}))
	defer server.Close()

	data, err := NewFetcher(server.URL, testLogger).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != sampleSeries {
		t.Errorf("body mismatch: got %d bytes, want %d", len(data), len(sampleSeries))
	}
}

func TestFetcherHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	if _, err := NewFetcher(server.URL, testLogger).Fetch(context.Background()); err == nil {
		t.Fatal("expected error for 503 response, got nil")
	}
}

func TestFetcherDefaultURL(t *testing.T) {
	if got := NewFetcher("", testLogger).SourceURL(); got != DefaultSourceURL {
		t.Errorf("SourceURL = %q, want default", got)
	}
}

func TestRefresherRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleSeries))
	}))
	defer server.Close()

	store := NewStore()
	cache := NewCache(t.TempDir(), 2)
	r := NewRefresher(NewFetcher(server.URL, testLogger), cache, store, testLogger)

	ds, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if len(ds.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(ds.Entries))
	}
	if store.Get() != ds {
		t.Error("refreshed dataset not published to the store")
	}
	if ds.Source != server.URL {
		t.Errorf("Source = %q, want %q", ds.Source, server.URL)
	}

	// A second refresher over the same cache starts from the saved series.
	warm := NewRefresher(nil, cache, NewStore(), testLogger)
	cached, err := warm.LoadCached()
	if err != nil {
		t.Fatalf("LoadCached failed: %v", err)
	}
	if cached.Source != "cache" || len(cached.Entries) != 3 {
		t.Errorf("cached dataset = %q with %d entries", cached.Source, len(cached.Entries))
	}
}

func TestRefresherRejectsEmptySeries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>\n"))
	}))
	defer server.Close()

	store := NewStore()
	r := NewRefresher(NewFetcher(server.URL, testLogger), NewCache(t.TempDir(), 2), store, testLogger)
	if _, err := r.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for a series without rows")
	}
	if store.Get() != nil {
		t.Error("store should stay empty after a failed refresh")
	}
}

func TestRefresherFetchDisabled(t *testing.T) {
	r := NewRefresher(nil, NewCache(t.TempDir(), 2), NewStore(), testLogger)
	if _, err := r.Refresh(context.Background()); !errors.Is(err, ErrFetchDisabled) {
		t.Errorf("error = %v, want ErrFetchDisabled", err)
	}
}

func TestRefresherRunFetchesWhenEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleSeries))
	}))
	defer server.Close()

	store := NewStore()
	r := NewRefresher(NewFetcher(server.URL, testLogger), NewCache(t.TempDir(), 2), store, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour, 24*time.Hour)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for !store.Ready() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if !store.Ready() {
		t.Error("Run did not populate an empty store")
	}
}
