package http

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/allisson/passvault/internal/httputil"
)

// createCORSMiddleware creates a CORS middleware based on configuration.
// Returns nil if CORS is disabled or no origins configured.
//
// Browser clients need credentials enabled so the session cookie travels with
// cross-origin requests, and the master password header must be allowed.
func createCORSMiddleware(enabled bool, allowOriginsStr string, logger *slog.Logger) gin.HandlerFunc {
	if !enabled {
		return nil
	}

	if allowOriginsStr == "" {
		logger.Warn("CORS enabled but no origins configured - CORS will not be applied")
		return nil
	}

	// Parse comma-separated origins
	origins := parseOrigins(allowOriginsStr)
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origins found")
		return nil
	}

	logger.Info("CORS enabled",
		slog.Int("origin_count", len(origins)),
		slog.Any("origins", origins))

	config := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
		},
		AllowHeaders: []string{
			"Authorization",
			"Content-Type",
			httputil.MasterPasswordHeader,
		},
		ExposeHeaders: []string{
			"X-Request-Id",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	return cors.New(config)
}

// parseOrigins splits a comma-separated origin list, dropping blanks.
func parseOrigins(originsStr string) []string {
	if originsStr == "" {
		return nil
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
