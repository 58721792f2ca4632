// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dk-code-insights/storefront/internal/config"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/middleware"
	"github.com/dk-code-insights/storefront/internal/interfaces/http/routes"
)

// HealthChecker is a dependency that can report whether it is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	handlers   *routes.Handlers
	deps       routes.Dependencies
	checks     map[string]HealthChecker
	log        logrus.FieldLogger
	startedAt  time.Time
}

// NewServer creates a new HTTP server instance with its middleware and routes
// registered. checks are probed by /health, keyed by component name.
func NewServer(h *routes.Handlers, deps routes.Dependencies, checks map[string]HealthChecker) *Server {
	if deps.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    deps.Config,
		gin:       gin.New(),
		handlers:  h,
		deps:      deps,
		checks:    checks,
		log:       deps.Log,
		startedAt: time.Now(),
	}
	if err := s.gin.SetTrustedProxies(s.config.Security.TrustedProxies); err != nil {
		s.log.WithError(err).Warn("Invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.log.WithFields(logrus.Fields{
		"port":        s.config.Server.Port,
		"environment": s.config.App.Environment,
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("Shutting down HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	s.gin.Use(middleware.Recovery(s.log))
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.log))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders(s.config.IsProduction()))
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxRequestBytes))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes() {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	apiV1 := s.gin.Group("/api/v1")
	routes.SetupRoutes(apiV1, s.handlers, s.deps)

	s.gin.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}

// healthCheck probes every dependency
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	components := make(gin.H, len(s.checks))
	healthy := true
	for name, check := range s.checks {
		if err := check.Health(ctx); err != nil {
			s.log.WithError(err).WithField("component", name).Warn("Health check failed")
			components[name] = "unhealthy"
			healthy = false
			continue
		}
		components[name] = "healthy"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":      status,
		"components":  components,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck reports that the process is serving
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
