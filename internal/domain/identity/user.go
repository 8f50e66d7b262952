package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// User is an operator account scoped to one tenant. Authentication is
// delegated to the external identity provider; the local password hash
// exists for the fallback basic login flow only.
type User struct {
	shared.TenantAggregateRoot
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_user_tenant_email,priority:2"`
	DisplayName  string `gorm:"type:varchar(200);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	Roles        []Role `gorm:"many2many:user_roles"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a bcrypt password hash
func NewUser(tenantID uuid.UUID, email, displayName, password string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Display name cannot be empty")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		DisplayName:         displayName,
		PasswordHash:        string(hash),
		IsActive:            true,
		Roles:               make([]Role, 0),
	}, nil
}

// VerifyPassword checks a candidate password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password hash
func (u *User) ChangePassword(newPassword string) error {
	if len(newPassword) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.IncrementVersion()

	return nil
}

// AssignRole grants a role; assigning an already-held role is a no-op
func (u *User) AssignRole(role Role) {
	for _, r := range u.Roles {
		if r.ID == role.ID {
			return
		}
	}
	u.Roles = append(u.Roles, role)
	u.IncrementVersion()
}

// RevokeRole removes a role from the user
func (u *User) RevokeRole(roleID uuid.UUID) error {
	for i, r := range u.Roles {
		if r.ID == roleID {
			u.Roles = append(u.Roles[:i], u.Roles[i+1:]...)
			u.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("ROLE_NOT_FOUND", "User does not hold this role")
}

// HasRole returns true if the user holds the named role
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Activate re-enables a disabled user
func (u *User) Activate() {
	u.IsActive = true
	u.IncrementVersion()
}

// Deactivate disables the user without deleting history
func (u *User) Deactivate() {
	u.IsActive = false
	u.IncrementVersion()
}
