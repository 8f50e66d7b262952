package partner

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LocationType classifies a stock-holding location
type LocationType string

const (
	LocationTypeWarehouse LocationType = "WAREHOUSE"
	LocationTypeStore     LocationType = "STORE"
)

// IsValid checks if the type is a valid LocationType
func (t LocationType) IsValid() bool {
	return t == LocationTypeWarehouse || t == LocationTypeStore
}

// String returns the string representation of LocationType
func (t LocationType) String() string {
	return string(t)
}

// Location is a physical place that holds stock for a tenant
type Location struct {
	shared.TenantAggregateRoot
	Code     string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_tenant_code,priority:2"`
	Name     string       `gorm:"type:varchar(200);not null"`
	Type     LocationType `gorm:"type:varchar(20);not null;default:'WAREHOUSE'"`
	Address  string       `gorm:"type:varchar(500)"`
	IsActive bool         `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates an active location
func NewLocation(tenantID uuid.UUID, code, name string, locType LocationType) (*Location, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}
	if locType == "" {
		locType = LocationTypeWarehouse
	}
	if !locType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Invalid location type")
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
		Type:                locType,
		IsActive:            true,
	}, nil
}

// UpdateDetails updates the descriptive fields
func (l *Location) UpdateDetails(name, address string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}

	l.Name = name
	l.Address = address
	l.IncrementVersion()

	return nil
}

// Activate makes the location available for new documents
func (l *Location) Activate() {
	l.IsActive = true
	l.IncrementVersion()
}

// Deactivate hides the location from new documents
func (l *Location) Deactivate() {
	l.IsActive = false
	l.IncrementVersion()
}
