// Package server exposes the kitchen companion API over HTTP.
package server

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"kitchen-companion/internal/app"
	"kitchen-companion/internal/config"
	"kitchen-companion/internal/metrics"
)

// UsageReporter reads aggregated provider usage for the admin report.
type UsageReporter interface {
	GetDailyUsage(ctx context.Context, days int) ([]metrics.DailyUsage, error)
}

// Server wires the HTTP routes to the application.
type Server struct {
	cfg    *config.Config
	app    *app.App
	usage  UsageReporter
	prom   *metrics.Prom
	logger *zap.Logger
	router *chi.Mux
}

// New builds the router. usage may be nil, in which case the admin report
// only carries process health.
func New(cfg *config.Config, a *app.App, usage UsageReporter, prom *metrics.Prom, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		app:    a,
		usage:  usage,
		prom:   prom,
		logger: logger.Named("server"),
	}
	s.router = s.setupRouter()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger, s.prom))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if s.prom != nil {
		r.Method(http.MethodGet, "/metrics", s.prom.Handler())
	}

	r.Route(s.prefix(), func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/test-openai", s.handleTestProvider)

		r.Post("/generate-mock-recipe", s.handleMockRecipe)
		r.Post("/substitute-mock-ingredient", s.handleMockSubstitute)
		r.Post("/generate-meal-plan", s.handleMealPlan)

		r.Get("/daily-usage", s.handleRecipeUsage)
		r.Get("/daily-substitution-usage", s.handleSubstitutionUsage)
		r.Post("/get-openai-recipe", s.handleAIRecipe)
		r.Post("/get-openai-substitute", s.handleAISubstitute)

		if s.cfg.AdminJWTSecret != "" {
			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin(s.cfg.AdminJWTSecret, s.logger))
				r.Get("/usage-report", s.handleUsageReport)
			})
		}
	})

	return r
}

func (s *Server) prefix() string {
	return "/" + strings.Trim(s.cfg.APIPrefix, "/")
}

func (s *Server) allowedOrigins() []string {
	origins := []string{}
	if s.cfg.FrontendURL != "" {
		origins = append(origins, s.cfg.FrontendURL)
	}
	return append(origins, s.cfg.AllowedOrigins...)
}

func (s *Server) dataDir() string {
	return filepath.Dir(s.cfg.DatabasePath)
}
