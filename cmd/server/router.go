package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pvollan/identity-api/internal/api"
	apiMiddleware "github.com/pvollan/identity-api/internal/api/middleware"
	"github.com/pvollan/identity-api/internal/metrics"
)

// setupRouter creates and configures the application router with all
// routes and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware(app.metricsCollector))

	userHandler := api.NewUserHandler(app.identityService, app.metricsCollector, app.logger)

	// The route surface mirrors the account API consumed by the client:
	// registration and login are POSTs, token and username operations take
	// the value as the raw request body.
	r.Post("/users", userHandler.Register)
	r.Get("/users", userHandler.ListUsers)
	r.Get("/users/{id}", userHandler.GetUser)
	r.Put("/users", userHandler.UpdateUser)
	r.Post("/usersLogin", userHandler.Login)
	r.Post("/fetchByToken", userHandler.FetchByToken)
	r.Post("/setUserOffline", userHandler.SetOffline)

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	return r
}
