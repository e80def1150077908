// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	accessUseCase "github.com/allisson/passvault/internal/access/usecase"
	authService "github.com/allisson/passvault/internal/auth/service"
	"github.com/allisson/passvault/internal/config"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	"github.com/allisson/passvault/internal/database"
	"github.com/allisson/passvault/internal/http"
	"github.com/allisson/passvault/internal/metrics"
	sessionService "github.com/allisson/passvault/internal/session/service"
	userHTTP "github.com/allisson/passvault/internal/user/http"
	userUsecase "github.com/allisson/passvault/internal/user/usecase"
	vaultHTTP "github.com/allisson/passvault/internal/vault/http"
	vaultUsecase "github.com/allisson/passvault/internal/vault/usecase"
)

// userStore is implemented by both user repositories: the user use case reads and writes
// users through it and the access use case loads credentials from it.
type userStore interface {
	userUsecase.UserRepository
	accessUseCase.CredentialRepository
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Key custody
	kmsService     cryptoService.KMSService
	pepper         cryptoDomain.Pepper
	passwordHasher cryptoService.PasswordHasher
	keyDeriver     cryptoService.KeyDeriver
	fieldCipher    cryptoService.FieldCipher
	sessionCache   *sessionService.Cache
	identityTokens authService.IdentityTokenService

	// Repositories
	userRepo userStore
	itemRepo vaultUsecase.ItemRepository

	// Use Cases
	accessUseCase accessUseCase.AccessUseCase
	userUseCase   userUsecase.UseCase
	vaultUseCase  vaultUsecase.VaultUseCase

	// Handlers
	userHandler *userHTTP.UserHandler
	itemHandler *vaultHTTP.ItemHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Background work owned by the container (session sweeper, rate limiter cleanup)
	bgCtx    context.Context
	bgCancel context.CancelFunc

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	txManagerInit       sync.Once
	kmsServiceInit      sync.Once
	pepperInit          sync.Once
	passwordHasherInit  sync.Once
	keyDeriverInit      sync.Once
	fieldCipherInit     sync.Once
	sessionCacheInit    sync.Once
	identityTokensInit  sync.Once
	userRepoInit        sync.Once
	itemRepoInit        sync.Once
	accessUseCaseInit   sync.Once
	userUseCaseInit     sync.Once
	vaultUseCaseInit    sync.Once
	userHandlerInit     sync.Once
	itemHandlerInit     sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	bgCtx, bgCancel := context.WithCancel(context.Background())
	return &Container{
		config:     cfg,
		bgCtx:      bgCtx,
		bgCancel:   bgCancel,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the OpenTelemetry provider backing the /metrics endpoint.
// Returns nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the recorder used by the use case metrics decorators.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router configured.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server. Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down, after the servers stopped.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Stops the session sweeper and the rate limiter cleanup
	c.bgCancel()

	// Zero every cached key
	if c.sessionCache != nil {
		c.sessionCache.Close()
	}

	// Zero the pepper
	if c.pepper != nil {
		c.pepper.Zero()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetricsProvider creates the metrics provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates business metrics on top of the provider, or a no-op
// recorder when metrics are disabled.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and registers every route.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	userHandler, err := c.UserHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get user handler for http server: %w", err)
	}

	itemHandler, err := c.ItemHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get item handler for http server: %w", err)
	}

	identityTokens, err := c.IdentityTokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get identity token service for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(c.bgCtx, c.config, userHandler, itemHandler, identityTokens, metricsProvider)

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
