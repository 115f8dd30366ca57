// Package server exposes the HTTP API the web frontend calls.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"careerly/internal/config"
	"careerly/internal/insights"
	"careerly/internal/logger"
	"careerly/internal/persistence"
	"careerly/internal/quiz"
	"careerly/internal/users"
)

// Server represents the HTTP server.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	db         persistence.Database
	sessions   SessionProvider
	insights   *insights.Service
	quizzes    *quiz.Generator
	grader     *quiz.Grader
	users      *users.Service
	config     config.Server
	log        *slog.Logger
}

// Deps bundles the collaborators the server routes to.
type Deps struct {
	DB       persistence.Database
	Sessions SessionProvider
	Insights *insights.Service
	Quizzes  *quiz.Generator
	Grader   *quiz.Grader
	Users    *users.Service
}

// New creates a new HTTP server instance.
func New(deps Deps, cfg config.Server) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		db:       deps.DB,
		sessions: deps.Sessions,
		insights: deps.Insights,
		quizzes:  deps.Quizzes,
		grader:   deps.Grader,
		users:    deps.Users,
		config:   cfg,
		log:      logger.Get(),
	}

	if s.sessions == nil {
		s.sessions = HeaderSessionProvider{}
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	// Generation requests block on a synchronous model call, so the request
	// timeout sits well above typical handler latency.
	s.router.Use(middleware.Timeout(90 * time.Second))

	if s.config.CORS.Enabled {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-User-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/status", s.handleStatus)

	s.router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/insights", s.handleGetInsights)

			r.Post("/quiz", s.handleGenerateQuiz)

			r.Route("/assessments", func(r chi.Router) {
				r.Get("/", s.handleListAssessments)
				r.Post("/", s.handleSubmitAssessment)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Put("/", s.handleUpdateProfile)
				r.Get("/onboarding", s.handleOnboardingStatus)
			})
		})
	})
}

// Start begins serving and blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("HTTP server starting", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
