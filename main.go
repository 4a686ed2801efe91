// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/mentoria/applog"
	"github.com/danielhkuo/mentoria/cliparse"
	"github.com/danielhkuo/mentoria/db"
	"github.com/danielhkuo/mentoria/lookup"
	"github.com/danielhkuo/mentoria/metrics"
	"github.com/danielhkuo/mentoria/middleware"
	"github.com/danielhkuo/mentoria/query"
	"github.com/danielhkuo/mentoria/router"
	"github.com/danielhkuo/mentoria/students"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		return err
	}

	m := metrics.New()

	logger, err := applog.New(applog.Options{Dir: cfg.LogDir, OnRecord: m.ObserveRecord})
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the mentorship database and verify its tables
	dbConn, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabaseType)
	if err != nil {
		return err
	}
	defer dbConn.Close()
	slog.Info("Database ready", "type", cfg.DatabaseType)

	opts := lookup.Options{TTL: cfg.LookupTTL}
	if cfg.RedisAddr != "" {
		cache := lookup.NewRedisCache(cfg.RedisAddr)
		defer cache.Close()
		if err := cache.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, lookups served from the database", "addr", cfg.RedisAddr, "error", err)
		}
		opts.Cache = cache
	}

	store := students.NewStore(dbConn, query.DialectFor(cfg.DatabaseType))
	catalog := lookup.NewCatalog(store, opts)
	if err := catalog.Load(ctx); err != nil {
		return err
	}

	// Create router
	mux := router.NewRouter(router.Deps{
		DB:      dbConn,
		Config:  cfg,
		Logger:  logger,
		Catalog: catalog,
		Metrics: m,
	})

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port, "logs", logger.Dir())
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}
