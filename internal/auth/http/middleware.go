package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authService "github.com/allisson/passvault/internal/auth/service"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/httputil"
)

// AuthenticationMiddleware verifies the Bearer identity token in the Authorization header
// and stores the resulting identity in the request context.
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer").
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Invalid or expired token → 401 Unauthorized
func AuthenticationMiddleware(
	identityService authService.IdentityTokenService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		identity, err := identityService.Parse(token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}
