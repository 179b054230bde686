package main

import (
	"os"

	"github.com/anandps/schooldesk/internal/pkg/logger"
	"github.com/anandps/schooldesk/internal/server"
)

// @title SchoolDesk API
// @version 1.0
// @description Role-gated record management API for school administration

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT access token, prefixed with "Bearer "

func main() {
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
