package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AlexApps99/stardome/internal/api"
	"github.com/AlexApps99/stardome/internal/cache"
	"github.com/AlexApps99/stardome/internal/config"
	"github.com/AlexApps99/stardome/internal/eop"
	"github.com/AlexApps99/stardome/internal/ephemeris"
	"github.com/AlexApps99/stardome/internal/metrics"
	"github.com/AlexApps99/stardome/internal/orient"
	"github.com/AlexApps99/stardome/internal/stream"
	"github.com/AlexApps99/stardome/web"
)

func serveCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the keyframe cache and the orientation stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.load(os.Stdout)
			if err != nil {
				if logger != nil {
					logger.Error("invalid configuration", "error", err)
				}
				return err
			}

			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store := eop.NewStore()
	var fetcher *eop.Fetcher
	if cfg.EOP.FetchEnabled {
		fetcher = eop.NewFetcher(cfg.EOP.SourceURL, logger)
	}
	refresher := eop.NewRefresher(fetcher, eop.NewCache(cfg.EOP.CacheDir, cfg.EOP.MaxFiles), store, logger)

	if _, err := refresher.LoadCached(); err != nil {
		logger.Info("no usable EOP cache, starting without EOP data", "cache_dir", cfg.EOP.CacheDir, "error", err)
	}

	svc := orient.NewService(orient.Standard, store, logger)
	kfCache := cache.NewKeyframeCache(cfg.Cache, svc, logger)
	streamHandler := stream.NewHandler(kfCache, store, cfg.Stream, logger)

	eph, err := openEphemeris(cfg.EphemerisPath, logger)
	if err != nil {
		logger.Error("failed to load ephemeris table", "path", cfg.EphemerisPath, "error", err)
		return err
	}
	defer eph.Close()

	srv := api.NewServer(api.Config{
		Addr:            cfg.HTTP.Addr,
		Auth:            cfg.Auth,
		TrustProxy:      cfg.HTTP.TrustProxy,
		RefreshInterval: cfg.EOP.ManualInterval,
	}, api.Deps{
		Service:   svc,
		Refresher: refresher,
		Cache:     kfCache,
		Ephemeris: eph,
		Stream:    streamHandler,
		Web:       web.Content,
	}, logger)

	go refresher.Run(ctx, cfg.EOP.RefreshInterval, cfg.EOP.MaxAge)
	go kfCache.Start(ctx)

	// Keep the dataset age gauge current between refresh checks.
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if age := store.AgeSeconds(); age >= 0 {
					metrics.SetEOPDatasetAge(age)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTP.Addr,
			"auth_enabled", cfg.Auth.Enabled,
			"eop_fetch_enabled", cfg.EOP.FetchEnabled,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		logger.Error("server listen error", "error", err)
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

// openEphemeris loads the Horizons table at path, or the analytic lunar
// theory when path is empty.
func openEphemeris(path string, logger *slog.Logger) (*ephemeris.Handle, error) {
	if path == "" {
		logger.Info("using analytic lunar ephemeris")
		return ephemeris.NewHandle(ephemeris.NewAnalytic()), nil
	}

	table, err := ephemeris.LoadTable(path)
	if err != nil {
		return nil, err
	}
	first, last := table.Span()
	logger.Info("loaded ephemeris table", "path", path, "jd_tdb_first", first, "jd_tdb_last", last)
	return ephemeris.NewHandle(table), nil
}
