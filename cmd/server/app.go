package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-proformas/internal/config"
	"github.com/diewo77/go-proformas/internal/handlers"
	"github.com/diewo77/go-proformas/internal/metrics"
	"github.com/diewo77/go-proformas/internal/middleware"
	"github.com/diewo77/go-proformas/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	backend handlers.Backend
	log     *zap.Logger
	metrics *metrics.Recorder
	cfg     *config.Config
}

// NewApp creates a new application with all routes configured.
func NewApp(cfg *config.Config, backend handlers.Backend, log *zap.Logger, rec *metrics.Recorder) *App {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{
		mux:     http.NewServeMux(),
		backend: backend,
		log:     log,
		metrics: rec,
		cfg:     cfg,
	}
	// Templates read preferences through resolvers so view doesn't import middleware.
	view.SetThemeResolver(middleware.ThemeFrom)
	view.SetLangResolver(middleware.LangFrom)

	app.setupRoutes()
	app.handler = middleware.Logging(log, rec)(
		middleware.Recover(log)(
			middleware.Prefs(app.mux)))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	handlers.NewPageHandler(a.log, a.cfg.App.Version).Register(a.mux)
	handlers.NewProformaHandler(a.backend, a.log).Register(a.mux)
	handlers.NewHistoryHandler(a.backend, a.log).Register(a.mux)
	handlers.NewReportHandler(a.backend, a.log).Register(a.mux)

	a.mux.Handle("GET /metrics", a.metrics.Handler())
	a.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
}
