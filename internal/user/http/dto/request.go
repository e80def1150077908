// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/passvault/internal/validation"
)

// RegisterRequest represents the API request for user registration
type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	MasterPassword string `json:"master_password"`
}

// Validate checks the request shape. Password policy is enforced by the use case.
func (r *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			appValidation.NotBlank,
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
		),
		validation.Field(&r.MasterPassword,
			validation.Required.Error("master password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}

// LoginRequest represents the API request for login
type LoginRequest struct {
	Email          string `json:"email"`
	MasterPassword string `json:"master_password"`
}

// Validate checks the request shape
func (r *LoginRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&r.MasterPassword,
			validation.Required.Error("master password is required"),
		),
	)
	return appValidation.WrapValidationError(err)
}
