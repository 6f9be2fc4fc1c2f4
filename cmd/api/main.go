package main

import (
	"os"

	"github.com/yigit/studentperf/internal/bootstrap"
	"github.com/yigit/studentperf/internal/pkg/logger"
	"github.com/yigit/studentperf/internal/server"
)

// @title Student Performance Dashboard API
// @version 1.0
// @description Records academic data, predicts pass/fail outcomes and serves role-specific dashboards

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Session token returned by /auth/login

func main() {
	configPath := bootstrap.DefaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	srv, err := server.NewServer(configPath, bootstrap.DefaultDotEnvPath)
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
