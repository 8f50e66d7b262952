package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// Built-in role names
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

// Role is a named permission bundle scoped to a tenant
type Role struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_role_tenant_name,priority:2"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// NewRole creates a role
func NewRole(tenantID uuid.UUID, name, description string) (*Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Role name cannot be empty")
	}

	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
	}, nil
}
