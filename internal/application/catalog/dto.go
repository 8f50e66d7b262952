package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/catalog"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Barcode     string          `json:"barcode"`
	DefaultCost decimal.Decimal `json:"default_cost"`
	LotTracked  bool            `json:"lot_tracked"`
}

// UpdateProductRequest represents a request to update a product's details
type UpdateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Barcode     string `json:"barcode"`
}

// SetDefaultCostRequest represents a request to change a product's default cost
type SetDefaultCostRequest struct {
	DefaultCost decimal.Decimal `json:"default_cost" binding:"required"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Barcode     string          `json:"barcode"`
	DefaultCost decimal.Decimal `json:"default_cost"`
	LotTracked  bool            `json:"lot_tracked"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a Product aggregate to a response DTO
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Barcode:     p.Barcode,
		DefaultCost: p.DefaultCost,
		LotTracked:  p.LotTracked,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products to response DTOs
func ToProductResponses(products []*catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}
