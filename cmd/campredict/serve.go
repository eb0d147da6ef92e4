package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/campredict/internal/frontend/handlers"
	"github.com/cory-johannsen/campredict/internal/game/ruleset"
	"github.com/cory-johannsen/campredict/internal/game/session"
	"github.com/cory-johannsen/campredict/internal/observability"
	"github.com/cory-johannsen/campredict/internal/server"
	"github.com/cory-johannsen/campredict/internal/storage/postgres"
)

func newServeCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root)
		},
	}
}

// pruneInterval is how often idle sessions are swept for a given TTL.
func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 10
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func runServe(cmd *cobra.Command, root *rootFlags) error {
	start := time.Now()
	ctx := cmd.Context()

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return exitError(exitSetup, "initializing logger: %v", err)
	}
	defer logger.Sync()

	tables, jobs, err := ruleset.Load(cfg.Content.Dir)
	if err != nil {
		return exitError(exitSetup, "loading content: %v", err)
	}
	logger.Info("content loaded",
		zap.String("dir", cfg.Content.Dir),
		zap.Int("buildings", len(tables.Buildings)),
		zap.Int("tiers", len(tables.Tiers)),
		zap.Strings("jobs", jobs.IDs()),
	)

	sessions := session.NewManager()
	opts := handlers.Options{HistoryLimit: cfg.History.ListLimit}
	if cfg.History.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return exitError(exitSetup, "connecting to database: %v", err)
		}
		defer pool.Close()
		opts.History = postgres.NewPredictionRepository(pool.DB())
		opts.Health = pool
	}

	api := handlers.NewAPI(tables, sessions, logger, opts)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr(),
		Handler:      api.Routes(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	ttl := cfg.HTTP.SessionTTL
	pruner := server.NewTickerService(pruneInterval(ttl), func(now time.Time) {
		if n := sessions.Prune(now, ttl); n > 0 {
			logger.Info("pruned idle sessions", zap.Int("removed", n), zap.Int("open", sessions.Count()))
		}
	})

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", server.NewHTTPService(httpSrv, cfg.HTTP.ShutdownTimeout, logger))
	lifecycle.Add("session-pruner", pruner)

	logger.Info("campredict ready",
		zap.String("addr", cfg.HTTP.Addr()),
		zap.Bool("history", cfg.History.Enabled),
		zap.Duration("startup", time.Since(start)),
	)
	return lifecycle.Run(ctx)
}
