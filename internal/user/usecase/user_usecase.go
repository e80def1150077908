// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	accessDomain "github.com/allisson/passvault/internal/access/domain"
	accessUseCase "github.com/allisson/passvault/internal/access/usecase"
	authDomain "github.com/allisson/passvault/internal/auth/domain"
	authService "github.com/allisson/passvault/internal/auth/service"
	cryptoDomain "github.com/allisson/passvault/internal/crypto/domain"
	"github.com/allisson/passvault/internal/database"
	apperrors "github.com/allisson/passvault/internal/errors"
	"github.com/allisson/passvault/internal/user/domain"
	appValidation "github.com/allisson/passvault/internal/validation"
)

// RegisterInput contains the input data for user registration
type RegisterInput struct {
	Username       string
	Email          string
	MasterPassword string
}

// LoginInput contains the input data for login
type LoginInput struct {
	Email          string
	MasterPassword string
}

// AuthResult is returned by Register and Login. SessionToken unlocks the vault without
// the master password until the session expires.
type AuthResult struct {
	User          *domain.User
	IdentityToken *authDomain.IssuedToken
	SessionToken  string
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, sessionToken string)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	access          accessUseCase.AccessUseCase
	identityService authService.IdentityTokenService
	logger          *slog.Logger
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	access accessUseCase.AccessUseCase,
	identityService authService.IdentityTokenService,
	logger *slog.Logger,
) UseCase {
	return &UserUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		access:          access,
		identityService: identityService,
		logger:          logger,
	}
}

// masterPasswordRules applies to registration only; login accepts any non-empty value
// so that policy changes never lock existing users out.
var masterPasswordRules = []validation.Rule{
	validation.Required.Error("master password is required"),
	validation.RuneLength(8, 100).Error("master password must be between 8 and 100 characters"),
	appValidation.PasswordStrength{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	},
}

func validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
			appValidation.Username,
			validation.Length(3, 64).Error("username must be between 3 and 64 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 100).Error("email must be between 5 and 100 characters"),
		),
		validation.Field(&input.MasterPassword, masterPasswordRules...),
	)
	return appValidation.WrapValidationError(err)
}

func validateLoginInput(input LoginInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&input.MasterPassword,
			validation.Required.Error("master password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user, issues an identity token and opens a vault session so the
// first vault request does not need the master password again.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, salt, err := uc.access.HashPassword(input.MasterPassword)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     strings.TrimSpace(input.Username),
		Email:        input.Email,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := uc.userRepo.GetByEmail(txCtx, user.Email); err == nil {
			return domain.ErrUserAlreadyExists
		} else if !apperrors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return uc.userRepo.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", slog.String("user_id", user.ID.String()))

	return uc.openSession(ctx, user, input.MasterPassword)
}

// Login verifies the master password and opens a vault session. Unknown emails and
// wrong passwords both return ErrAuthenticationFailure.
func (uc *UserUseCase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	if err := validateLoginInput(input); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if !apperrors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		uc.access.VerifyPassword(
			input.MasterPassword,
			make([]byte, cryptoDomain.HashSize),
			make([]byte, cryptoDomain.SaltSize),
		)
		return nil, accessDomain.ErrAuthenticationFailure
	}

	result, err := uc.openSession(ctx, user, input.MasterPassword)
	if err != nil {
		uc.logger.Info("login failed", slog.String("user_id", user.ID.String()))
		return nil, err
	}

	uc.logger.Info("user logged in", slog.String("user_id", user.ID.String()))
	return result, nil
}

// Logout drops the vault session. The identity token stays valid until it expires but
// no longer unlocks the vault without the master password.
func (uc *UserUseCase) Logout(ctx context.Context, sessionToken string) {
	if sessionToken == "" {
		return
	}
	uc.access.InvalidateSession(ctx, sessionToken)
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *UserUseCase) openSession(ctx context.Context, user *domain.User, masterPassword string) (*AuthResult, error) {
	resolution, err := uc.access.ResolveKey(ctx, accessDomain.ResolveInput{
		Identity:     user.ID,
		MasterSecret: masterPassword,
	})
	if err != nil {
		return nil, err
	}
	resolution.Zero()

	identity, err := uc.identityService.Issue(user.ID)
	if err != nil {
		uc.access.InvalidateSession(ctx, resolution.NewToken)
		return nil, err
	}

	return &AuthResult{
		User:          user,
		IdentityToken: identity,
		SessionToken:  resolution.NewToken,
	}, nil
}
