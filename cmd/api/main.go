package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"datacatalog/internal/config"
	"datacatalog/internal/container"
	"datacatalog/internal/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	log := logger.Component("main")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using system environment variables")
	}

	appConfig, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create application container")
	}
	defer appContainer.Shutdown(context.Background())

	log = logger.Component("main")
	server := appContainer.HTTPServer()
	if err := server.Run(ctx, appConfig.Server.Addr(), appConfig.Server.ShutdownTimeout); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
		appContainer.Shutdown(context.Background())
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
