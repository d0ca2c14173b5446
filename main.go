package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aasthafoundation/careboard/internal/bootstrap"
	"github.com/aasthafoundation/careboard/internal/config"
	"github.com/aasthafoundation/careboard/internal/gelf"
	"github.com/aasthafoundation/careboard/internal/handler"
	"github.com/aasthafoundation/careboard/internal/logging"
	"github.com/aasthafoundation/careboard/internal/metrics"
	"github.com/aasthafoundation/careboard/internal/router"
	"github.com/aasthafoundation/careboard/internal/service"
	"github.com/aasthafoundation/careboard/internal/workbook"
)

func main() {
	cfg, envLoaded := config.Load()

	// GELF UDP logging
	var sinks []io.Writer
	var gelfErr error
	if cfg.GelfAddr != "" {
		w, err := gelf.New(cfg.GelfAddr, "careboard")
		if err != nil {
			gelfErr = err
		} else {
			defer w.Close()
			sinks = append(sinks, w)
		}
	}
	logging.Setup(sinks...)
	if envLoaded {
		log.Info().Msg("Loaded .env")
	}
	if gelfErr != nil {
		log.Warn().Err(gelfErr).Str("addr", cfg.GelfAddr).Msg("GELF init failed")
	} else if cfg.GelfAddr != "" {
		log.Info().Str("addr", cfg.GelfAddr).Msg("GELF logging enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		backend service.Backend
		cache   *workbook.Cache
	)
	switch cfg.Backend {
	case config.BackendSpreadsheet:
		loader, c, err := bootstrap.Loader(ctx, cfg, m)
		if err != nil {
			log.Fatal().Err(err).Msg("Workbook source")
		}
		loader.Verify(ctx)
		cache = c
		backend = service.NewSpreadsheetBackend(loader)
	case config.BackendDatabase:
		store, d, err := bootstrap.Store(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer d.Close()
		backend = service.NewDatabaseBackend(store)
	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("Unknown CAREBOARD_BACKEND")
	}

	authSvc, err := service.NewAuthService(cfg.AdminEmail, cfg.AdminPass, cfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare admin credentials")
	}

	r := router.New(router.Options{
		JWTSecret:    cfg.JWTSecret,
		AuthRequired: cfg.AuthRequired,
		CORSOrigin:   cfg.CORSOrigin,
		Metrics:      m,
	}, router.Handlers{
		Data:      handler.NewDataHandler(backend),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(backend)),
		Auth:      handler.NewAuthHandler(authSvc),
		Admin:     handler.NewAdminHandler(cache),
		Health:    handler.NewHealthHandler(backend),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown")
		}
	}()

	log.Info().
		Str("addr", cfg.HTTPAddr).
		Str("backend", backend.Name()).
		Bool("authRequired", cfg.AuthRequired).
		Msg("careboard server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Server stopped")
}
