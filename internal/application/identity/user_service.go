package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
)

// UserService handles user accounts and role assignment within a tenant
type UserService struct {
	userRepo identity.UserRepository
	roleRepo identity.RoleRepository
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// List retrieves a paginated list of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]UserResponse, int64, error) {
	total, err := s.userRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	users, err := s.userRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToUserResponses(users), total, nil
}

// Create creates a user, optionally with an initial set of roles
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.userRepo.FindByEmailForTenant(ctx, tenantID, req.Email); err == nil {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "Email is already registered in this tenant")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Email, req.DisplayName, req.Password)
	if err != nil {
		return nil, err
	}
	for _, name := range req.Roles {
		role, err := s.roleRepo.FindByNameForTenant(ctx, tenantID, name)
		if err != nil {
			return nil, err
		}
		user.AssignRole(*role)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Update updates a user's display name
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	user.DisplayName = req.DisplayName
	user.IncrementVersion()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// ChangePassword replaces a user's password
func (s *UserService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(req.NewPassword); err != nil {
		return err
	}

	return s.userRepo.Save(ctx, user)
}

// AssignRole grants a named role to a user
func (s *UserService) AssignRole(ctx context.Context, tenantID, id uuid.UUID, roleName string) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByNameForTenant(ctx, tenantID, roleName)
	if err != nil {
		return nil, err
	}

	user.AssignRole(*role)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// RevokeRole removes a named role from a user
func (s *UserService) RevokeRole(ctx context.Context, tenantID, id uuid.UUID, roleName string) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByNameForTenant(ctx, tenantID, roleName)
	if err != nil {
		return nil, err
	}

	if err := user.RevokeRole(role.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Activate re-enables a user account
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Deactivate disables a user account
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	user.Deactivate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}

// Delete removes a user account
func (s *UserService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, tenantID, id)
}
