// Package httpapi exposes the build pipeline over HTTP. Handlers follow
// a load, mutate, save shape: state mutators stay pure and persistence
// happens exactly once per request at this boundary.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/architectd/internal/assemble"
	"github.com/fyrsmithlabs/architectd/internal/chat"
	"github.com/fyrsmithlabs/architectd/internal/config"
	"github.com/fyrsmithlabs/architectd/internal/store"
)

// Server provides the HTTP endpoints for architectd.
type Server struct {
	echo      *echo.Echo
	log       *zap.Logger
	cfg       *config.Config
	store     *store.Store
	engine    *chat.Engine
	assembler *assemble.Assembler
	metrics   *metrics

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewServer wires the pipeline components behind an echo server.
func NewServer(cfg *config.Config, st *store.Store, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if st == nil {
		return nil, fmt.Errorf("store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		log:       log,
		cfg:       cfg,
		store:     st,
		engine:    chat.NewEngine(log),
		assembler: assemble.New(cfg.Storage.OutputDir, log),
		metrics:   newMetrics(),
		limiters:  map[string]*rate.Limiter{},
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)
	e.Use(s.metrics.middleware)

	s.registerRoutes()
	return s, nil
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		// Errors are written by echo after the middleware chain returns,
		// so the response status is not set yet for failed requests.
		status := c.Response().Status
		if httpErr, ok := err.(*echo.HTTPError); ok {
			status = httpErr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}

		s.log.Info("http request",
			zap.String("method", c.Request().Method),
			zap.String("uri", c.Request().RequestURI),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		)
		return err
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")

	v1.POST("/projects", s.handleCreateProject)
	v1.GET("/projects", s.handleListProjects)
	v1.GET("/projects/:slug", s.handleGetProject)
	v1.DELETE("/projects/:slug", s.handleDeleteProject)

	v1.GET("/projects/:slug/navigation", s.handleNavigation)
	v1.POST("/projects/:slug/advance", s.handleAdvancePhase)
	v1.GET("/projects/:slug/validate", s.handleValidateState)

	v1.POST("/projects/:slug/chat", s.handleChat)
	v1.POST("/projects/:slug/depth", s.handleSetDepth)
	v1.GET("/projects/:slug/idea/ambiguity", s.handleIdeaAmbiguity)

	v1.GET("/projects/:slug/catalog", s.handleCatalog)
	v1.POST("/projects/:slug/features", s.handleAddFeature)
	v1.POST("/projects/:slug/features/checks", s.handleFeatureChecks)

	v1.PUT("/projects/:slug/outline", s.handleSetOutline)
	v1.POST("/projects/:slug/outline/validate", s.handleValidateOutline)
	v1.POST("/projects/:slug/outline/lock", s.handleLockOutline)
	v1.POST("/projects/:slug/outline/unlock", s.handleUnlockOutline)
	v1.POST("/projects/:slug/outline/decision", s.handleOutlineDecision)

	v1.POST("/projects/:slug/chapters/:index/submit", s.handleSubmitChapter)
	v1.POST("/projects/:slug/chapters/:index/status", s.handleChapterStatus)
	v1.POST("/projects/:slug/chapters/:index/quality", s.handleChapterQuality)

	v1.POST("/projects/:slug/quality", s.handleFinalQuality)
	v1.POST("/projects/:slug/assemble", s.handleAssemble)
}

// limiter returns the chat rate limiter for a project, creating it on
// first use.
func (s *Server) limiter(slug string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[slug]
	if !ok {
		l = rate.NewLimiter(rate.Limit(s.cfg.Server.ChatRateLimit), s.cfg.Server.ChatRateBurst)
		s.limiters[slug] = l
	}
	return l
}

// dropLimiter discards a project's rate limiter when the project goes
// away, so the limiter map cannot grow past the set of live projects.
func (s *Server) dropLimiter(slug string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, slug)
}

// Handler exposes the root handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.log.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
