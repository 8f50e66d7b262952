package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
)

// ProvisionTenantRequest creates a tenant with its built-in roles and
// first administrator account
type ProvisionTenantRequest struct {
	Name          string `json:"name" binding:"required"`
	Slug          string `json:"slug" binding:"required"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminName     string `json:"admin_name" binding:"required"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
}

// TenantResponse is the API representation of a tenant
type TenantResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToTenantResponse converts a tenant aggregate
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Status:    t.Status.String(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToTenantResponses converts a slice of tenants
func ToTenantResponses(tenants []*identity.Tenant) []TenantResponse {
	responses := make([]TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		responses = append(responses, ToTenantResponse(t))
	}
	return responses
}

// CreateUserRequest creates a user within a tenant
type CreateUserRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	DisplayName string   `json:"display_name" binding:"required"`
	Password    string   `json:"password" binding:"required,min=8"`
	Roles       []string `json:"roles"`
}

// UpdateUserRequest updates mutable user fields
type UpdateUserRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// ChangePasswordRequest replaces a user's password
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AssignRoleRequest grants a named role to a user
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	Roles       []string  `json:"roles"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToUserResponse converts a user aggregate
func ToUserResponse(u *identity.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Name)
	}
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
		Roles:       roles,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []*identity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}
	return responses
}
