package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/passvault/internal/app"
	"github.com/allisson/passvault/internal/config"
)

// shutdownTimeout bounds the graceful shutdown of both servers.
const shutdownTimeout = 30 * time.Second

// server is implemented by the API and metrics servers.
type server interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts the API server, and the metrics server when enabled, with graceful
// shutdown support. Configuration is validated before anything is initialized, so a
// missing pepper or JWT secret fails fast. Blocks until SIGINT/SIGTERM or a server error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	// Zeroes the session cache and the pepper on exit
	defer closeContainer(container, logger)

	// Initializes every dependency, including the pepper unwrap through the KMS
	apiServer, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	servers := map[string]server{"api": apiServer}
	if metricsServer != nil {
		servers["metrics"] = metricsServer
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, logger, servers)
}

// serve runs every server until ctx is cancelled or one of them fails, then shuts all
// of them down.
func serve(ctx context.Context, logger *slog.Logger, servers map[string]server) error {
	g, gctx := errgroup.WithContext(ctx)

	for name, srv := range servers {
		g.Go(func() error {
			if err := srv.Start(gctx); err != nil {
				return fmt.Errorf("%s server error: %w", name, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var shutdownErrors []error
		for name, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("%s server shutdown: %w", name, err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
