// Package http provides HTTP handlers for vault item operations.
//
// Handlers that touch secret fields need the caller's key. It is resolved from the
// session cookie, or from the X-Master-Password header when no live session exists;
// a session opened with the master password is returned as a new cookie.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	authHTTP "github.com/allisson/passvault/internal/auth/http"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/httputil"
	customValidation "github.com/allisson/passvault/internal/validation"
	"github.com/allisson/passvault/internal/vault/http/dto"
	vaultUseCase "github.com/allisson/passvault/internal/vault/usecase"
)

// ItemHandler handles HTTP requests for vault items.
type ItemHandler struct {
	vaultUseCase vaultUseCase.VaultUseCase
	cookie       httputil.SessionCookie
	logger       *slog.Logger
}

// NewItemHandler creates a new vault item handler.
func NewItemHandler(
	vaultUseCase vaultUseCase.VaultUseCase,
	cookie httputil.SessionCookie,
	logger *slog.Logger,
) *ItemHandler {
	return &ItemHandler{
		vaultUseCase: vaultUseCase,
		cookie:       cookie,
		logger:       logger,
	}
}

// CreateHandler encrypts and stores a new item.
// POST /v1/vault/items - Returns 201 Created with item metadata.
func (h *ItemHandler) CreateHandler(c *gin.Context) {
	input, ok := h.resolveInput(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, token, err := h.vaultUseCase.Create(c.Request.Context(), input, req.ToItemInput())
	if !h.finish(c, token, err) {
		return
	}

	c.JSON(http.StatusCreated, dto.MapItemToSummaryResponse(item))
}

// UpdateHandler re-encrypts and replaces an item.
// PUT /v1/vault/items/:id - Returns 200 OK with item metadata.
func (h *ItemHandler) UpdateHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	input, ok := h.resolveInput(c)
	if !ok {
		return
	}

	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	item, token, err := h.vaultUseCase.Update(c.Request.Context(), input, itemID, req.ToItemInput())
	if !h.finish(c, token, err) {
		return
	}

	c.JSON(http.StatusOK, dto.MapItemToSummaryResponse(item))
}

// GetHandler retrieves and decrypts an item.
// GET /v1/vault/items/:id - Returns 200 OK with the decrypted fields.
func (h *ItemHandler) GetHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	input, ok := h.resolveInput(c)
	if !ok {
		return
	}

	item, token, err := h.vaultUseCase.Get(c.Request.Context(), input, itemID)
	if !h.finish(c, token, err) {
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapItemToResponse(item))
}

// ListHandler lists item metadata with pagination support.
// GET /v1/vault/items?offset=0&limit=50 - Returns 200 OK. Needs no key.
func (h *ItemHandler) ListHandler(c *gin.Context) {
	identity, ok := h.identity(c)
	if !ok {
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	items, err := h.vaultUseCase.List(c.Request.Context(), identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapItemsToListResponse(items))
}

// DeleteHandler removes an item.
// DELETE /v1/vault/items/:id - Returns 204 No Content. Needs no key.
func (h *ItemHandler) DeleteHandler(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	identity, ok := h.identity(c)
	if !ok {
		return
	}

	if err := h.vaultUseCase.Delete(c.Request.Context(), identity, itemID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func (h *ItemHandler) identity(c *gin.Context) (uuid.UUID, bool) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return identity.UserID, true
}

func (h *ItemHandler) resolveInput(c *gin.Context) (accessDomain.ResolveInput, bool) {
	userID, ok := h.identity(c)
	if !ok {
		return accessDomain.ResolveInput{}, false
	}
	return accessDomain.ResolveInput{
		Identity:     userID,
		SessionToken: h.cookie.Read(c),
		MasterSecret: c.GetHeader(httputil.MasterPasswordHeader),
	}, true
}

func (h *ItemHandler) parseItemID(c *gin.Context) (uuid.UUID, bool) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid item id: must be a UUID"), h.logger)
		return uuid.Nil, false
	}
	return itemID, true
}

// finish hands a newly minted session token to the client and writes err, if any.
// It reports whether the handler should continue with a success response.
func (h *ItemHandler) finish(c *gin.Context, newToken string, err error) bool {
	h.cookie.Set(c, newToken)
	if err == nil {
		return true
	}
	if apperrors.Is(err, accessDomain.ErrSessionExpired) {
		h.cookie.Clear(c)
	}
	httputil.HandleErrorGin(c, err, h.logger)
	return false
}
