package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Product is a sellable or stockable item in the tenant catalog
type Product struct {
	shared.TenantAggregateRoot
	SKU         string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'EA'"`
	Barcode     string          `gorm:"type:varchar(100);index"`
	DefaultCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LotTracked  bool            `gorm:"not null;default:false"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product
func NewProduct(tenantID uuid.UUID, sku, name, unit string) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if unit == "" {
		unit = "EA"
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 sku,
		Name:                name,
		Unit:                unit,
		DefaultCost:         decimal.Zero,
		IsActive:            true,
	}, nil
}

// UpdateDetails updates the descriptive fields
func (p *Product) UpdateDetails(name, description, barcode string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}

	p.Name = name
	p.Description = description
	p.Barcode = barcode
	p.IncrementVersion()

	return nil
}

// SetDefaultCost sets the default unit cost used to prefill order lines
func (p *Product) SetDefaultCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Default cost cannot be negative")
	}

	p.DefaultCost = cost
	p.IncrementVersion()

	return nil
}

// SetLotTracked toggles lot tracking for the product
func (p *Product) SetLotTracked(tracked bool) {
	p.LotTracked = tracked
	p.IncrementVersion()
}

// Activate makes the product available for new documents
func (p *Product) Activate() {
	p.IsActive = true
	p.IncrementVersion()
}

// Deactivate hides the product from new documents; existing stock stays
func (p *Product) Deactivate() {
	p.IsActive = false
	p.IncrementVersion()
}
