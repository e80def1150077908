package usecase

import (
	"context"
	"log/slog"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	cryptoService "github.com/allisson/passvault/internal/crypto/service"
	apperrors "github.com/allisson/passvault/internal/errors"
	sessionDomain "github.com/allisson/passvault/internal/session/domain"
	sessionService "github.com/allisson/passvault/internal/session/service"
)

// accessUseCase implements AccessUseCase.
type accessUseCase struct {
	credentialRepo CredentialRepository
	hasher         cryptoService.PasswordHasher
	deriver        cryptoService.KeyDeriver
	cipher         cryptoService.FieldCipher
	cache          SessionKeyCache
	tokenService   sessionService.TokenService
	policy         sessionDomain.Policy
	logger         *slog.Logger

	// Verified against when the user is unknown so both denials cost one full KDF run.
	dummyHash []byte
	dummySalt []byte
}

// NewAccessUseCase creates a new AccessUseCase.
func NewAccessUseCase(
	credentialRepo CredentialRepository,
	hasher cryptoService.PasswordHasher,
	deriver cryptoService.KeyDeriver,
	cipher cryptoService.FieldCipher,
	cache SessionKeyCache,
	tokenService sessionService.TokenService,
	policy sessionDomain.Policy,
	logger *slog.Logger,
) AccessUseCase {
	return &accessUseCase{
		credentialRepo: credentialRepo,
		hasher:         hasher,
		deriver:        deriver,
		cipher:         cipher,
		cache:          cache,
		tokenService:   tokenService,
		policy:         policy,
		logger:         logger,
		dummyHash:      make([]byte, cryptoDomain.HashSize),
		dummySalt:      make([]byte, cryptoDomain.SaltSize),
	}
}

// HashPassword delegates to the password hasher.
func (a *accessUseCase) HashPassword(secret string) (hash, salt []byte, err error) {
	return a.hasher.Hash(secret)
}

// VerifyPassword delegates to the password hasher.
func (a *accessUseCase) VerifyPassword(secret string, hash, salt []byte) bool {
	return a.hasher.Verify(secret, hash, salt)
}

// ResolveKey runs the key resolution state machine.
func (a *accessUseCase) ResolveKey(
	ctx context.Context,
	input accessDomain.ResolveInput,
) (*accessDomain.Resolution, error) {
	switch {
	case input.HasMasterSecret():
		return a.resolveFromMasterSecret(ctx, input)
	case input.HasSessionToken():
		return a.resolveFromSession(input)
	default:
		return nil, accessDomain.ErrSessionExpired
	}
}

func (a *accessUseCase) resolveFromMasterSecret(
	ctx context.Context,
	input accessDomain.ResolveInput,
) (*accessDomain.Resolution, error) {
	credential, err := a.credentialRepo.GetCredential(ctx, input.Identity)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		a.hasher.Verify(input.MasterSecret, a.dummyHash, a.dummySalt)
		a.logger.Debug("key resolution denied", slog.String("user_id", input.Identity.String()))
		return nil, accessDomain.ErrAuthenticationFailure
	}

	if !a.hasher.Verify(input.MasterSecret, credential.PasswordHash, credential.Salt) {
		a.logger.Debug("key resolution denied", slog.String("user_id", input.Identity.String()))
		return nil, accessDomain.ErrAuthenticationFailure
	}

	key, err := a.deriver.Derive(input.MasterSecret, credential.Salt)
	if err != nil {
		return nil, err
	}

	// A request abandoned during derivation must not leave a session behind.
	if err := ctx.Err(); err != nil {
		key.Zero()
		return nil, err
	}

	token, err := a.tokenService.GenerateToken()
	if err != nil {
		key.Zero()
		return nil, err
	}

	if err := a.cache.Put(token, input.Identity, key, a.policy.SlidingTTL, a.policy.AbsoluteTTL); err != nil {
		key.Zero()
		return nil, err
	}

	if input.HasSessionToken() {
		a.cache.Invalidate(input.SessionToken)
	}

	a.logger.Debug("key resolved",
		slog.String("user_id", input.Identity.String()),
		slog.String("source", string(accessDomain.SourceMasterSecret)))

	return &accessDomain.Resolution{
		Key:      key,
		NewToken: token,
		Source:   accessDomain.SourceMasterSecret,
	}, nil
}

func (a *accessUseCase) resolveFromSession(input accessDomain.ResolveInput) (*accessDomain.Resolution, error) {
	key, subject, ok := a.cache.Get(input.SessionToken)
	if !ok {
		return nil, accessDomain.ErrSessionExpired
	}
	if subject != input.Identity {
		key.Zero()
		a.logger.Warn("session token presented by another identity",
			slog.String("user_id", input.Identity.String()))
		return nil, accessDomain.ErrSessionExpired
	}

	return &accessDomain.Resolution{Key: key, Source: accessDomain.SourceSessionCache}, nil
}

// EncryptField encrypts plaintext under key.
func (a *accessUseCase) EncryptField(plaintext string, key cryptoDomain.DerivedKey) (string, error) {
	return a.cipher.Encrypt(plaintext, key)
}

// DecryptField decrypts token under key.
func (a *accessUseCase) DecryptField(token string, key cryptoDomain.DerivedKey) (string, error) {
	return a.cipher.Decrypt(token, key)
}

// InvalidateSession removes the cache entry for token.
func (a *accessUseCase) InvalidateSession(ctx context.Context, token string) {
	a.cache.Invalidate(token)
}
