package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/patriot/pkg/db"
	"github.com/urmzd/patriot/pkg/hub"
	"github.com/urmzd/patriot/pkg/logger"
	patriotmcp "github.com/urmzd/patriot/pkg/mcp"
)

func main() {
	// Logging goes to stderr; stdout is the MCP transport
	logCfg := logger.DefaultConfig()

	dbPath := flag.String("db", "", "Path to database file (default: ~/.config/patriot/patriot.db)")
	user := flag.String("user", "", "Particle username (overrides the stored account)")
	password := flag.String("password", "", "Particle password (overrides the stored account)")
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

	h := hub.New(hub.OptionsFromConfig(cfg, *user, *password))
	defer h.Close()

	if err := h.Start(ctx); err != nil {
		log.Warn().Err(err).Msg("Cloud unavailable, tools will report not logged in")
	}

	mcpServer := patriotmcp.NewServer(h.Manager, h.Store, h.Validator)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
