package main

import (
	"database/sql"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pvollan/identity-api/internal/config"
	"github.com/pvollan/identity-api/internal/metrics"
	"github.com/pvollan/identity-api/internal/platform/postgres"
	"github.com/pvollan/identity-api/internal/service"
	"github.com/pvollan/identity-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore       store.UserStore
	identityService service.IdentityService

	registry         *prometheus.Registry
	metricsCollector *metrics.Collector
}

// newApplication wires the dependency graph: the postgres-backed user
// store, the identity service on top of it, and the metrics collector.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	userStore := postgres.NewPostgresUserStore(db, logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		identityService:  service.NewIdentityService(userStore, db, logger),
		registry:         registry,
		metricsCollector: collector,
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
