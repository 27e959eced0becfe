// Package config loads service configuration from STARDOME_* environment
// variables and an optional config file. Invalid values are logged and
// replaced by their defaults; only a missing auth token is fatal.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AlexApps99/stardome/internal/auth"
	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/stream"
)

// EnvPrefix is prepended to every environment variable: http.addr is read
// from STARDOME_HTTP_ADDR.
const EnvPrefix = "STARDOME"

// HTTP holds listener settings.
type HTTP struct {
	Addr       string
	TrustProxy bool
}

// EOP holds Earth-orientation data settings.
type EOP struct {
	FetchEnabled    bool
	SourceURL       string
	CacheDir        string
	MaxFiles        int
	MaxAge          time.Duration // refetch when the dataset is older
	RefreshInterval time.Duration // how often staleness is checked
	ManualInterval  time.Duration // minimum spacing of POST /api/v1/eop/refresh
}

// Config is the full service configuration.
type Config struct {
	HTTP          HTTP
	LogLevel      slog.Level
	Auth          auth.Config
	EOP           EOP
	Cache         cache.Config
	Stream        stream.Config
	EphemerisPath string // Horizons vector table; empty selects the analytic Moon
}

var defaults = map[string]any{
	"http.addr":                    ":8080",
	"http.trust_proxy":             false,
	"log.level":                    "info",
	"auth.enabled":                 false,
	"auth.token":                   "",
	"eop.fetch_enabled":            true,
	"eop.source_url":               eop.DefaultSourceURL,
	"eop.cache_dir":                "data/eop",
	"eop.max_files":                3,
	"eop.max_age":                  "24h",
	"eop.refresh_interval":         "1h",
	"eop.manual_refresh_interval":  "1m",
	"cache.step":                   "5s",
	"cache.horizon":                "10m",
	"cache.buffer":                 "1m",
	"cache.workers":                4,
	"stream.max_concurrent_per_ip": 10,
	"stream.bandwidth_limit":       1048576,
	"stream.keepalive_interval":    "30s",
	"ephemeris.table":              "",
}

// New returns a viper instance with defaults and environment binding. If
// path is not empty the file is read as well.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return v, nil
}

// Load reads the configuration. Warnings about replaced values go to logger.
func Load(path string, logger *slog.Logger) (Config, error) {
	v, err := New(path)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v, logger)
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper, logger *slog.Logger) (Config, error) {
	r := reader{v: v, logger: logger}

	cfg := Config{
		HTTP: HTTP{
			Addr:       v.GetString("http.addr"),
			TrustProxy: r.boolean("http.trust_proxy"),
		},
		LogLevel: r.level("log.level"),
		Auth: auth.Config{
			Enabled: r.boolean("auth.enabled"),
			Token:   v.GetString("auth.token"),
		},
		EOP: EOP{
			FetchEnabled:    r.boolean("eop.fetch_enabled"),
			SourceURL:       v.GetString("eop.source_url"),
			CacheDir:        v.GetString("eop.cache_dir"),
			MaxFiles:        r.positiveInt("eop.max_files"),
			MaxAge:          r.duration("eop.max_age"),
			RefreshInterval: r.duration("eop.refresh_interval"),
			ManualInterval:  r.duration("eop.manual_refresh_interval"),
		},
		Cache: cache.Config{
			Step:    r.duration("cache.step"),
			Horizon: r.duration("cache.horizon"),
			Buffer:  r.duration("cache.buffer"),
			Workers: r.positiveInt("cache.workers"),
		},
		Stream: stream.Config{
			MaxConcurrentPerIP: r.positiveInt("stream.max_concurrent_per_ip"),
			BandwidthLimit:     r.positiveInt("stream.bandwidth_limit"),
			KeepaliveInterval:  r.duration("stream.keepalive_interval"),
			TrustProxy:         r.boolean("http.trust_proxy"),
		},
		EphemerisPath: v.GetString("ephemeris.table"),
	}

	if cfg.Cache.Horizon < cfg.Cache.Step {
		logger.Warn("cache horizon shorter than step, using defaults",
			"horizon", cfg.Cache.Horizon.String(),
			"step", cfg.Cache.Step.String(),
		)
		cfg.Cache.Step = mustDuration(defaults["cache.step"])
		cfg.Cache.Horizon = mustDuration(defaults["cache.horizon"])
	}

	if cfg.Auth.Enabled {
		if cfg.Auth.Token == "" {
			return cfg, errors.New(EnvPrefix + "_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

// reader converts raw values, falling back to the default with a warning.
type reader struct {
	v      *viper.Viper
	logger *slog.Logger
}

func (r reader) fallback(key string, value any) {
	r.logger.Warn("invalid config value, using default",
		"key", key,
		"env", EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")),
		"value", value,
		"default", defaults[key],
	)
}

// duration accepts Go duration strings ("90s", "1h") or bare seconds.
func (r reader) duration(key string) time.Duration {
	raw := strings.TrimSpace(r.v.GetString(key))
	if d, err := parseDuration(raw); err == nil && d > 0 {
		return d
	}
	r.fallback(key, raw)
	return mustDuration(defaults[key])
}

func (r reader) positiveInt(key string) int {
	raw := strings.TrimSpace(r.v.GetString(key))
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	r.fallback(key, raw)
	return defaults[key].(int)
}

func (r reader) boolean(key string) bool {
	raw := strings.TrimSpace(r.v.GetString(key))
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	r.fallback(key, raw)
	return defaults[key].(bool)
}

func (r reader) level(key string) slog.Level {
	raw := r.v.GetString(key)
	lvl, err := ParseLevel(raw)
	if err != nil {
		r.fallback(key, raw)
		return slog.LevelInfo
	}
	return lvl
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return lvl, nil
}

func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func mustDuration(v any) time.Duration {
	d, err := parseDuration(v.(string))
	if err != nil {
		panic(err)
	}
	return d
}
