package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/partner"
)

// CreateLocationRequest represents a request to create a location
type CreateLocationRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// UpdateLocationRequest represents a request to update a location's details
type UpdateLocationRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// LocationResponse represents a location in API responses
type LocationResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToLocationResponse converts a Location aggregate to a response DTO
func ToLocationResponse(l *partner.Location) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Type:      l.Type.String(),
		Address:   l.Address,
		IsActive:  l.IsActive,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToLocationResponses converts a slice of locations to response DTOs
func ToLocationResponses(locations []*partner.Location) []LocationResponse {
	responses := make([]LocationResponse, len(locations))
	for i, l := range locations {
		responses[i] = ToLocationResponse(l)
	}
	return responses
}
