package identity

import (
	"strings"

	"github.com/stockroom/backend/internal/domain/shared"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// IsValid checks if the status is a valid TenantStatus
func (s TenantStatus) IsValid() bool {
	return s == TenantStatusActive || s == TenantStatusSuspended
}

// String returns the string representation of TenantStatus
func (s TenantStatus) String() string {
	return string(s)
}

// Tenant is an isolated customer organization. Every other aggregate in
// the system is scoped to exactly one tenant.
type Tenant struct {
	shared.BaseAggregateRoot
	Name   string       `gorm:"type:varchar(200);not null"`
	Slug   string       `gorm:"type:varchar(100);not null;uniqueIndex"`
	Status TenantStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant provisions an active tenant
func NewTenant(name, slug string) (*Tenant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Tenant slug cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            TenantStatusActive,
	}, nil
}

// Suspend blocks all access for the tenant's users
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already suspended")
	}

	t.Status = TenantStatusSuspended
	t.IncrementVersion()

	return nil
}

// Activate restores access for a suspended tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already active")
	}

	t.Status = TenantStatusActive
	t.IncrementVersion()

	return nil
}

// IsActive returns true when the tenant may use the system
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
