package dto

import (
	"time"

	vaultDomain "github.com/allisson/passvault/internal/vault/domain"
)

// ItemSummaryResponse represents a vault item without its secret fields.
type ItemSummaryResponse struct {
	ID        string    `json:"id"`
	SiteName  string    `json:"site_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ItemResponse represents a decrypted vault item.
type ItemResponse struct {
	ID        string    `json:"id"`
	SiteName  string    `json:"site_name"`
	URL       string    `json:"url,omitempty"`
	Password  string    `json:"password"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListItemsResponse represents a page of vault item summaries.
type ListItemsResponse struct {
	Data []ItemSummaryResponse `json:"data"`
}

// MapItemToSummaryResponse converts a domain item to a summary response.
func MapItemToSummaryResponse(item *vaultDomain.Item) ItemSummaryResponse {
	return ItemSummaryResponse{
		ID:        item.ID.String(),
		SiteName:  item.SiteName,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// MapItemToResponse converts a decrypted domain item to a response.
func MapItemToResponse(item *vaultDomain.Item) ItemResponse {
	response := ItemResponse{
		ID:        item.ID.String(),
		SiteName:  item.SiteName,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Plaintext != nil {
		response.URL = item.Plaintext.URL
		response.Password = item.Plaintext.Password
		response.Notes = item.Plaintext.Notes
	}
	return response
}

// MapItemsToListResponse converts domain items to a list response.
func MapItemsToListResponse(items []*vaultDomain.Item) ListItemsResponse {
	data := make([]ItemSummaryResponse, 0, len(items))
	for _, item := range items {
		data = append(data, MapItemToSummaryResponse(item))
	}
	return ListItemsResponse{Data: data}
}
