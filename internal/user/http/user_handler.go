// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/passvault/internal/auth/http"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/httputil"
	"github.com/allisson/passvault/internal/user/http/dto"
	"github.com/allisson/passvault/internal/user/usecase"
)

// UserHandler handles registration, login, logout and the caller's profile.
type UserHandler struct {
	userUseCase usecase.UseCase
	cookie      httputil.SessionCookie
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userUseCase usecase.UseCase,
	cookie httputil.SessionCookie,
	logger *slog.Logger,
) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

// RegisterHandler creates a user and opens a vault session.
// POST /v1/auth/register - Returns 201 Created with an identity token and sets the session cookie.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.userUseCase.Register(c.Request.Context(), dto.ToRegisterInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.cookie.Set(c, result.SessionToken)
	c.JSON(http.StatusCreated, dto.ToAuthResponse(result))
}

// LoginHandler verifies the master password and opens a vault session.
// POST /v1/auth/login - Returns 200 OK with an identity token and sets the session cookie.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	result, err := h.userUseCase.Login(c.Request.Context(), dto.ToLoginInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	// A previous session on this client is replaced only once the new one exists
	if previous := h.cookie.Read(c); previous != "" && previous != result.SessionToken {
		h.userUseCase.Logout(c.Request.Context(), previous)
	}

	h.cookie.Set(c, result.SessionToken)
	c.JSON(http.StatusOK, dto.ToAuthResponse(result))
}

// LogoutHandler drops the vault session.
// POST /v1/auth/logout - Returns 204 No Content. Idempotent.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	h.userUseCase.Logout(c.Request.Context(), h.cookie.Read(c))
	h.cookie.Clear(c)
	c.Status(http.StatusNoContent)
}

// MeHandler returns the authenticated user's profile. Needs no vault session.
// GET /v1/auth/me - Returns 200 OK with the user.
func (h *UserHandler) MeHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), identity.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
