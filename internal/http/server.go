// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/passvault/internal/auth/http"
	authService "github.com/allisson/passvault/internal/auth/service"
	"github.com/allisson/passvault/internal/config"
	"github.com/allisson/passvault/internal/metrics"
	userHTTP "github.com/allisson/passvault/internal/user/http"
	vaultHTTP "github.com/allisson/passvault/internal/vault/http"
)

// Server represents the HTTP server.
type Server struct {
	db     *sql.DB
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new HTTP server. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter builds the gin engine with all routes and middleware.
//
// ctx bounds background goroutines owned by middleware (rate limiter cleanup).
// metricsProvider may be nil when metrics are disabled.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	userHandler *userHTTP.UserHandler,
	itemHandler *vaultHTTP.ItemHandler,
	identityService authService.IdentityTokenService,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	{
		credentialRoutes := auth.Group("")
		if cfg.RateLimitLoginEnabled {
			credentialRoutes.Use(authHTTP.RateLimitMiddleware(
				ctx,
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				s.logger,
			))
		}
		credentialRoutes.POST("/register", userHandler.RegisterHandler)
		credentialRoutes.POST("/login", userHandler.LoginHandler)

		auth.POST("/logout", userHandler.LogoutHandler)
		auth.GET("/me", authHTTP.AuthenticationMiddleware(identityService, s.logger), userHandler.MeHandler)
	}

	items := v1.Group("/vault/items")
	items.Use(authHTTP.AuthenticationMiddleware(identityService, s.logger))
	{
		items.GET("", itemHandler.ListHandler)
		items.POST("", itemHandler.CreateHandler)
		items.GET("/:id", itemHandler.GetHandler)
		items.PUT("/:id", itemHandler.UpdateHandler)
		items.DELETE("/:id", itemHandler.DeleteHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
