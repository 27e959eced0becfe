package config

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("http.addr = %q, want :8080", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log.level = %v, want INFO", cfg.LogLevel)
	}
	if !cfg.EOP.FetchEnabled {
		t.Error("eop.fetch_enabled should default to true")
	}
	if cfg.EOP.MaxFiles != 3 {
		t.Errorf("eop.max_files = %d, want 3", cfg.EOP.MaxFiles)
	}
	if cfg.EOP.MaxAge != 24*time.Hour {
		t.Errorf("eop.max_age = %v, want 24h", cfg.EOP.MaxAge)
	}
	if cfg.Cache.Step != 5*time.Second || cfg.Cache.Horizon != 10*time.Minute {
		t.Errorf("cache step/horizon = %v/%v, want 5s/10m", cfg.Cache.Step, cfg.Cache.Horizon)
	}
	if cfg.Stream.BandwidthLimit != 1048576 {
		t.Errorf("stream.bandwidth_limit = %d, want 1048576", cfg.Stream.BandwidthLimit)
	}
	if cfg.EphemerisPath != "" {
		t.Errorf("ephemeris.table = %q, want empty", cfg.EphemerisPath)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("STARDOME_HTTP_ADDR", ":9000")
	t.Setenv("STARDOME_LOG_LEVEL", "debug")
	t.Setenv("STARDOME_CACHE_STEP", "10")
	t.Setenv("STARDOME_CACHE_HORIZON", "2m")
	t.Setenv("STARDOME_EOP_FETCH_ENABLED", "false")
	t.Setenv("STARDOME_HTTP_TRUST_PROXY", "true")
	t.Setenv("STARDOME_EPHEMERIS_TABLE", "/data/moon.csv")

	cfg, err := Load("", testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("http.addr = %q, want :9000", cfg.HTTP.Addr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log.level = %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.Cache.Step != 10*time.Second {
		t.Errorf("cache.step = %v, want 10s", cfg.Cache.Step)
	}
	if cfg.Cache.Horizon != 2*time.Minute {
		t.Errorf("cache.horizon = %v, want 2m", cfg.Cache.Horizon)
	}
	if cfg.EOP.FetchEnabled {
		t.Error("eop.fetch_enabled should be false")
	}
	if !cfg.HTTP.TrustProxy || !cfg.Stream.TrustProxy {
		t.Error("trust_proxy should reach both HTTP and stream config")
	}
	if cfg.EphemerisPath != "/data/moon.csv" {
		t.Errorf("ephemeris.table = %q", cfg.EphemerisPath)
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("STARDOME_EOP_MAX_FILES", "-1")
	t.Setenv("STARDOME_CACHE_STEP", "soon")
	t.Setenv("STARDOME_AUTH_ENABLED", "maybe")
	t.Setenv("STARDOME_LOG_LEVEL", "loud")

	var buf bytes.Buffer
	cfg, err := Load("", slog.New(slog.NewJSONHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.EOP.MaxFiles != 3 {
		t.Errorf("eop.max_files = %d, want default 3", cfg.EOP.MaxFiles)
	}
	if cfg.Cache.Step != 5*time.Second {
		t.Errorf("cache.step = %v, want default 5s", cfg.Cache.Step)
	}
	if cfg.Auth.Enabled {
		t.Error("auth.enabled should fall back to false")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("log.level = %v, want INFO", cfg.LogLevel)
	}
	if n := strings.Count(buf.String(), "invalid config value"); n != 4 {
		t.Errorf("logged %d warnings, want 4:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "STARDOME_CACHE_STEP") {
		t.Error("warning should name the environment variable")
	}
}

func TestHorizonShorterThanStep(t *testing.T) {
	t.Setenv("STARDOME_CACHE_STEP", "60s")
	t.Setenv("STARDOME_CACHE_HORIZON", "30s")

	cfg, err := Load("", testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Step != 5*time.Second || cfg.Cache.Horizon != 10*time.Minute {
		t.Errorf("cache step/horizon = %v/%v, want defaults", cfg.Cache.Step, cfg.Cache.Horizon)
	}
}

func TestAuthRequiresToken(t *testing.T) {
	t.Setenv("STARDOME_AUTH_ENABLED", "true")

	if _, err := Load("", testLogger()); err == nil {
		t.Fatal("expected error for auth without token")
	}

	t.Setenv("STARDOME_AUTH_TOKEN", "s3cret")
	cfg, err := Load("", testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Auth.Enabled || cfg.Auth.Token != "s3cret" {
		t.Errorf("auth = %+v", cfg.Auth)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stardome.yaml")
	data := "http:\n  addr: \":9090\"\ncache:\n  step: 2s\n  workers: 8\neop:\n  cache_dir: /var/lib/stardome\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STARDOME_CACHE_WORKERS", "2")

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("http.addr = %q, want :9090", cfg.HTTP.Addr)
	}
	if cfg.Cache.Step != 2*time.Second {
		t.Errorf("cache.step = %v, want 2s", cfg.Cache.Step)
	}
	if cfg.Cache.Workers != 2 {
		t.Errorf("cache.workers = %d, want 2 (env beats file)", cfg.Cache.Workers)
	}
	if cfg.EOP.CacheDir != "/var/lib/stardome" {
		t.Errorf("eop.cache_dir = %q", cfg.EOP.CacheDir)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), testLogger()); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
