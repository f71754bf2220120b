package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/api"
	"github.com/urmzd/patriot/pkg/db"
	"github.com/urmzd/patriot/pkg/hub"
	"github.com/urmzd/patriot/pkg/logger"
	"github.com/urmzd/patriot/pkg/natsbridge"
)

func main() {
	logCfg := logger.DefaultConfig()

	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/patriot/patriot.db)")
	user := flag.String("user", "", "Particle username (overrides the stored account)")
	password := flag.String("password", "", "Particle password (overrides the stored account)")
	natsURL := flag.String("nats", "", "NATS server to mirror fleet events to (overrides the stored URL)")
	flag.StringVar(&logCfg.Level, "log-level", logCfg.Level, "Log level")
	flag.Parse()

	if err := logger.Init(logCfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid log configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Setup(ctx, *dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().
		Str("path", database.Path()).
		Str("profile", cfg.Profile.Name).
		Str("api_address", cfg.APIAddress()).
		Str("event", cfg.EventName()).
		Msg("Configuration loaded")

	h := hub.New(hub.OptionsFromConfig(cfg, *user, *password))
	defer h.Close()

	// The API stays up without a login so /health can report it.
	if err := h.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("Cloud unavailable, serving degraded")
	}

	mirrorURL := cfg.NATSURL()
	if *natsURL != "" {
		mirrorURL = *natsURL
	}
	if mirrorURL != "" {
		bridge, err := natsbridge.Connect(mirrorURL, h.Bus)
		if err != nil {
			log.Warn().Err(err).Msg("NATS mirror disabled")
		} else {
			defer func() { _ = bridge.Close() }()
			go bridge.Run(ctx)
			log.Info().Str("url", mirrorURL).Msg("Mirroring events to NATS")
		}
	}

	router := api.NewRouter(h.Manager, h.Store, h.Bus, h.Validator, api.WithMetrics(h.Metrics.Handler()))

	srv := &http.Server{
		Addr:    cfg.APIAddress(),
		Handler: router.Handler(),
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
	}()

	log.Info().Str("address", srv.Addr).Msg("Starting API server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}
