package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "playstore/internal/adapters/http_server"
	"playstore/internal/adapters/observability"
	redisad "playstore/internal/adapters/redis"
	"playstore/internal/app"
	"playstore/internal/domain"
	"playstore/internal/shared"
	"playstore/internal/storage/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, os.Stdout)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	repo, db, err := sqlstore.Connect(ctx, sqlstore.Dialect(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("store init failed")
	}
	defer db.Close()
	log.Info().Str("driver", cfg.DBDriver).Msg("database connection ok")

	// deps
	var cache domain.Cache
	if cfg.CacheEnabled() {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, caching disabled")
			_ = rc.Close()
		} else {
			cache = rc
			defer rc.Close()
		}
	}
	stats := app.NewStatsCache(cache, cfg.CacheTTL)
	q := app.NewQueryService(repo, stats)
	c := app.NewCommandService(repo, stats)

	// http
	srv := server.New(cfg.RequestTimeout, log.Logger)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, C: c})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}
}
