// Package main implements the entry point for the identity API server,
// a minimal user-account service handling registration, login, and
// session-token lookups.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/pvollan/identity-api/internal/config"
	"github.com/pvollan/identity-api/internal/platform/logger"
	"github.com/pvollan/identity-api/internal/platform/postgres"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	router := app.setupRouter()
	if err := app.startHTTPServer(context.Background(), router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up application components:
// logging, the database connection, schema migrations, and the service
// dependency graph.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := postgres.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database migrations applied")

	return newApplication(cfg, appLogger, db), nil
}
