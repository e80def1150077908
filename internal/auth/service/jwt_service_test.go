package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
	apperrors "github.com/allisson/passvault/internal/errors"
)

func newTestJWTService(t *testing.T, secret string, validity time.Duration) *jwtService {
	t.Helper()
	svc, err := NewJWTService([]byte(secret), "passvault", validity)
	require.NoError(t, err)
	return svc.(*jwtService)
}

func TestNewJWTService(t *testing.T) {
	svc, err := NewJWTService(nil, "passvault", time.Hour)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, authDomain.ErrSigningKeyNotSet)
}

func TestJWTService_IssueAndParse(t *testing.T) {
	svc := newTestJWTService(t, "super-secret", time.Hour)
	userID := uuid.Must(uuid.NewV7())

	issued, err := svc.Issue(userID)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)

	identity, err := svc.Parse(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, identity.UserID)
	assert.WithinDuration(t, issued.ExpiresAt, identity.ExpiresAt, time.Second)
}

func TestJWTService_Parse(t *testing.T) {
	userID := uuid.Must(uuid.NewV7())

	t.Run("Error_Expired", func(t *testing.T) {
		svc := newTestJWTService(t, "secret", time.Minute)
		issued, err := svc.Issue(userID)
		require.NoError(t, err)

		svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		_, err = svc.Parse(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrIdentityTokenExpired)
		assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	})

	t.Run("Error_WrongSecret", func(t *testing.T) {
		issued, err := newTestJWTService(t, "right-secret", time.Hour).Issue(userID)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "wrong-secret", time.Hour).Parse(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidIdentityToken)
	})

	t.Run("Error_WrongIssuer", func(t *testing.T) {
		other, err := NewJWTService([]byte("secret"), "someone-else", time.Hour)
		require.NoError(t, err)
		issued, err := other.Issue(userID)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret", time.Hour).Parse(issued.Token)
		assert.ErrorIs(t, err, authDomain.ErrInvalidIdentityToken)
	})

	t.Run("Error_Garbage", func(t *testing.T) {
		_, err := newTestJWTService(t, "secret", time.Hour).Parse("not-a-jwt")
		assert.ErrorIs(t, err, authDomain.ErrInvalidIdentityToken)
	})

	t.Run("Error_NoneAlgorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "passvault",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: userID.String(),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, authDomain.ErrInvalidIdentityToken)
	})

	t.Run("Error_InvalidUserID", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "passvault",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: "not-a-uuid",
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = newTestJWTService(t, "secret", time.Hour).Parse(signed)
		assert.ErrorIs(t, err, authDomain.ErrInvalidIdentityToken)
	})
}
