package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	authDomain "github.com/allisson/passvault/internal/auth/domain"
)

// Claims are the registered claims plus the user ID.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// jwtService implements IdentityTokenService with HS256 JWTs.
type jwtService struct {
	secret   []byte
	issuer   string
	validity time.Duration
	now      func() time.Time
}

// NewJWTService creates an IdentityTokenService signing with secret.
func NewJWTService(secret []byte, issuer string, validity time.Duration) (IdentityTokenService, error) {
	if len(secret) == 0 {
		return nil, authDomain.ErrSigningKeyNotSet
	}
	return &jwtService{
		secret:   secret,
		issuer:   issuer,
		validity: validity,
		now:      time.Now,
	}, nil
}

// Issue signs a token for userID valid for the configured duration.
func (s *jwtService) Issue(userID uuid.UUID) (*authDomain.IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.validity)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID.String(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign identity token: %w", err)
	}

	return &authDomain.IssuedToken{Token: signed, ExpiresAt: expiresAt.UTC()}, nil
}

// Parse verifies the signature, issuer and expiry of tokenString.
func (s *jwtService) Parse(tokenString string) (*authDomain.Identity, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authDomain.ErrIdentityTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", authDomain.ErrInvalidIdentityToken, err)
	}
	if !token.Valid {
		return nil, authDomain.ErrInvalidIdentityToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil || userID == uuid.Nil {
		return nil, authDomain.ErrInvalidIdentityToken
	}

	identity := &authDomain.Identity{UserID: userID}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.UTC()
	}
	return identity, nil
}
