package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	authDomain "github.com/allisson/passvault/internal/auth/domain"
	authHTTP "github.com/allisson/passvault/internal/auth/http"
	"github.com/allisson/passvault/internal/httputil"
	"github.com/allisson/passvault/internal/user/domain"
	"github.com/allisson/passvault/internal/user/http/dto"
	"github.com/allisson/passvault/internal/user/usecase"
	userMocks "github.com/allisson/passvault/internal/user/usecase/mocks"
)

var testCookie = httputil.SessionCookie{Name: "vault_session", MaxAge: time.Hour}

func setupTestHandler(t *testing.T) (*UserHandler, *userMocks.MockUseCase, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockUseCase := &userMocks.MockUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })

	handler := NewUserHandler(mockUseCase, testCookie, slog.New(slog.DiscardHandler))

	router := gin.New()
	router.POST("/v1/auth/register", handler.RegisterHandler)
	router.POST("/v1/auth/login", handler.LoginHandler)
	router.POST("/v1/auth/logout", handler.LogoutHandler)
	router.GET("/v1/auth/me", withIdentity, handler.MeHandler)
	return handler, mockUseCase, router
}

var meUserID = uuid.Must(uuid.NewV7())

// withIdentity authenticates requests carrying an X-Test-Identity header as meUserID.
func withIdentity(c *gin.Context) {
	if c.GetHeader("X-Test-Identity") != "" {
		ctx := authHTTP.WithIdentity(c.Request.Context(), &authDomain.Identity{UserID: meUserID})
		c.Request = c.Request.WithContext(ctx)
	}
	c.Next()
}

func newAuthResult() *usecase.AuthResult {
	return &usecase.AuthResult{
		User: &domain.User{
			ID:       uuid.Must(uuid.NewV7()),
			Username: "alice",
			Email:    "alice@example.com",
		},
		IdentityToken: &authDomain.IssuedToken{Token: "jwt-token", ExpiresAt: time.Now().Add(time.Hour).UTC()},
		SessionToken:  "session-token",
	}
}

func doJSON(router *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionCookieFrom(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie.Name {
			return cookie
		}
	}
	return nil
}

func TestUserHandler_RegisterHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)
		result := newAuthResult()

		mockUseCase.On("Register", mock.Anything, usecase.RegisterInput{
			Username:       "alice",
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		}).Return(result, nil).Once()

		w := doJSON(router, "/v1/auth/register", dto.RegisterRequest{
			Username:       " alice ",
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "jwt-token", response.AccessToken)
		assert.Equal(t, "Bearer", response.TokenType)
		assert.Equal(t, result.User.ID, response.User.ID)
		assert.NotContains(t, w.Body.String(), "session-token")
		assert.NotContains(t, w.Body.String(), "Tr0ub4dor&3")

		cookie := sessionCookieFrom(w)
		require.NotNil(t, cookie)
		assert.Equal(t, "session-token", cookie.Value)
		assert.True(t, cookie.HttpOnly)
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		_, _, router := setupTestHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		_, _, router := setupTestHandler(t)

		w := doJSON(router, "/v1/auth/register", dto.RegisterRequest{Email: "alice@example.com"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Register", mock.Anything, mock.Anything).Return(nil, domain.ErrUserAlreadyExists).Once()

		w := doJSON(router, "/v1/auth/register", dto.RegisterRequest{
			Username:       "alice",
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Nil(t, sessionCookieFrom(w))
	})
}

func TestUserHandler_LoginHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Login", mock.Anything, usecase.LoginInput{
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		}).Return(newAuthResult(), nil).Once()

		w := doJSON(router, "/v1/auth/login", dto.LoginRequest{
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		cookie := sessionCookieFrom(w)
		require.NotNil(t, cookie)
		assert.Equal(t, "session-token", cookie.Value)
	})

	t.Run("Success_ReplacesPreviousSession", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Logout", mock.Anything, "old-session").Once()
		mockUseCase.On("Login", mock.Anything, mock.Anything).Return(newAuthResult(), nil).Once()

		w := doJSON(router, "/v1/auth/login", dto.LoginRequest{
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&3",
		}, &http.Cookie{Name: testCookie.Name, Value: "old-session"})

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_AuthenticationFailure", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Login", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrAuthenticationFailure).Once()

		w := doJSON(router, "/v1/auth/login", dto.LoginRequest{
			Email:          "alice@example.com",
			MasterPassword: "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookieFrom(w))

		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "unauthorized", response.Error)
	})

	t.Run("Error_AuthenticationFailureKeepsLiveSession", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Login", mock.Anything, mock.Anything).
			Return(nil, accessDomain.ErrAuthenticationFailure).Once()

		w := doJSON(router, "/v1/auth/login", dto.LoginRequest{
			Email:          "alice@example.com",
			MasterPassword: "Tr0ub4dor&4",
		}, &http.Cookie{Name: testCookie.Name, Value: "live-session"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, sessionCookieFrom(w))
		mockUseCase.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
	})

	t.Run("Error_Validation", func(t *testing.T) {
		_, _, router := setupTestHandler(t)

		w := doJSON(router, "/v1/auth/login", dto.LoginRequest{Email: "alice@example.com"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestUserHandler_LogoutHandler(t *testing.T) {
	t.Run("WithSession", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Logout", mock.Anything, "session-token").Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: "session-token"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		cookie := sessionCookieFrom(w)
		require.NotNil(t, cookie)
		assert.Empty(t, cookie.Value)
	})

	t.Run("WithoutSession", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("Logout", mock.Anything, "").Once()

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestUserHandler_MeHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("GetUserByID", mock.Anything, meUserID).
			Return(&domain.User{ID: meUserID, Username: "alice", Email: "alice@example.com"}, nil).
			Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("X-Test-Identity", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp dto.UserResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, meUserID, resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.NotContains(t, w.Body.String(), "password_hash")
	})

	t.Run("Error_NoIdentity", func(t *testing.T) {
		_, _, router := setupTestHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_UserGone", func(t *testing.T) {
		_, mockUseCase, router := setupTestHandler(t)

		mockUseCase.On("GetUserByID", mock.Anything, meUserID).Return(nil, domain.ErrUserNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
		req.Header.Set("X-Test-Identity", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
