package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tanmay/placementdesk/internal/pkg/logger"
	"github.com/tanmay/placementdesk/internal/server"
)

// @title PlacementDesk API
// @version 1.0
// @description Administrative API for student placement records: CSV import, statistics, export

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

func main() {
	// A .env file is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		logger.Info().Msg("Loaded environment from .env file")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
