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

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/jury-live/cliparse"
	"github.com/danielhkuo/jury-live/db"
	"github.com/danielhkuo/jury-live/gate"
	"github.com/danielhkuo/jury-live/hub"
	"github.com/danielhkuo/jury-live/metrics"
	"github.com/danielhkuo/jury-live/middleware"
	"github.com/danielhkuo/jury-live/router"
	"github.com/danielhkuo/jury-live/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	if err := db.Seed(ctx, dbConn, cfg.SeedParticipants); err != nil {
		return err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	logger := slog.Default()
	m := metrics.New(prometheus.DefaultRegisterer)
	h := hub.New(cfg.SubscriberBuffer, logger, m)
	g := gate.New(store.New(dbConn), h, logger, m, otel.Tracer("jury-live"))

	mux := router.NewRouter(router.Deps{
		Gate:    g,
		Hub:     h,
		Config:  cfg,
		Metrics: m,
	})

	server := &http.Server{
		Handler:           middleware.CORS(cfg.AllowedOrigins)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		slog.Info("Listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	grp.Go(func() error {
		<-gctx.Done()

		// Hijacked live connections are not tracked by Shutdown
		h.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = grp.Wait()
	slog.Info("Server closed", "error", err)
	return err
}
