// Package api serves the JSON generation API.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scenforge/adapters/llm"
	"scenforge/app"
	"scenforge/internal"
	"scenforge/internal/config"
)

// App wires the router, the shared provider registry, and the services
// behind the HTTP surface.
type App struct {
	router   *chi.Mux
	registry *llm.Registry
	batch    *app.BatchService
	config   *config.Config
	logger   *internal.Logger
}

// NewApp creates the API application around a shared provider registry.
func NewApp(cfg *config.Config, registry *llm.Registry, batch *app.BatchService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:   chi.NewRouter(),
		registry: registry,
		batch:    batch,
		config:   cfg,
		logger:   logger,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Post("/api/generate", a.handleGenerate)
	a.router.Post("/api/batch", a.handleBatch)
	a.router.Get("/api/providers", a.handleProviders)
	a.router.Get("/healthz", a.handleHealth)
}

// Router exposes the handler tree, mainly for tests and embedding.
func (a *App) Router() http.Handler {
	return a.router
}

// Serve blocks on the configured listen address.
func (a *App) Serve() error {
	server := &http.Server{
		Addr:         ":" + a.config.Server.Port,
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}
	a.logger.Info("listening on :%s", a.config.Server.Port)
	return server.ListenAndServe()
}
