// Package dto provides data transfer objects for the vault HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/passvault/internal/validation"
	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// ItemRequest contains the parameters for creating or replacing a vault item.
type ItemRequest struct {
	SiteName string `json:"site_name"`
	URL      string `json:"url,omitempty"`
	Password string `json:"password"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks the request shape. Length limits are enforced by the use case.
func (r *ItemRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SiteName, validation.Required, customValidation.NotBlank),
		validation.Field(&r.URL, customValidation.URL),
		validation.Field(&r.Password, validation.Required),
	)
}

// ToItemInput converts the request to a domain input.
func (r *ItemRequest) ToItemInput() vaultDomain.ItemInput {
	return vaultDomain.ItemInput{
		SiteName: r.SiteName,
		URL:      r.URL,
		Password: r.Password,
		Notes:    r.Notes,
	}
}
