package dto

import (
	"strings"

	"github.com/allisson/passvault/internal/user/domain"
	"github.com/allisson/passvault/internal/user/usecase"
)

// ToRegisterInput converts a RegisterRequest DTO to a use case input
func ToRegisterInput(req RegisterRequest) usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:       strings.TrimSpace(req.Username),
		Email:          req.Email,
		MasterPassword: req.MasterPassword,
	}
}

// ToLoginInput converts a LoginRequest DTO to a use case input
func ToLoginInput(req LoginRequest) usecase.LoginInput {
	return usecase.LoginInput{
		Email:          req.Email,
		MasterPassword: req.MasterPassword,
	}
}

// ToUserResponse converts a domain User model to a UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// ToAuthResponse converts a use case AuthResult to an AuthResponse DTO
func ToAuthResponse(result *usecase.AuthResult) AuthResponse {
	return AuthResponse{
		User:        ToUserResponse(result.User),
		AccessToken: result.IdentityToken.Token,
		TokenType:   "Bearer",
		ExpiresAt:   result.IdentityToken.ExpiresAt,
	}
}
