package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/identity"
	"github.com/stockroom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// descriptions for the built-in roles seeded at provisioning
var builtInRoles = map[string]string{
	identity.RoleAdmin:    "Full access including tenant administration",
	identity.RoleManager:  "Manage documents, catalog, and locations",
	identity.RoleOperator: "Post receipts, shipments, transfers, and counts",
	identity.RoleViewer:   "Read-only access to balances and documents",
}

// TenantService provisions and administers tenants
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		logger:     logger,
	}
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// GetBySlug retrieves a tenant by its slug
func (s *TenantService) GetBySlug(ctx context.Context, slug string) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// List retrieves a paginated list of tenants
func (s *TenantService) List(ctx context.Context, filter shared.Filter) ([]TenantResponse, int64, error) {
	total, err := s.tenantRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	tenants, err := s.tenantRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToTenantResponses(tenants), total, nil
}

// Provision creates a tenant together with its built-in roles and the
// first administrator account.
func (s *TenantService) Provision(ctx context.Context, req ProvisionTenantRequest) (*TenantResponse, error) {
	if _, err := s.tenantRepo.FindBySlug(ctx, req.Slug); err == nil {
		return nil, shared.NewDomainError("SLUG_EXISTS", "Tenant slug is already taken")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	tenant, err := identity.NewTenant(req.Name, req.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	var adminRole *identity.Role
	for name, description := range builtInRoles {
		role, err := identity.NewRole(tenant.ID, name, description)
		if err != nil {
			return nil, err
		}
		if err := s.roleRepo.Save(ctx, role); err != nil {
			return nil, err
		}
		if name == identity.RoleAdmin {
			adminRole = role
		}
	}

	admin, err := identity.NewUser(tenant.ID, req.AdminEmail, req.AdminName, req.AdminPassword)
	if err != nil {
		return nil, err
	}
	admin.AssignRole(*adminRole)
	if err := s.userRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("tenant provisioned",
			zap.String("tenant_id", tenant.ID.String()),
			zap.String("slug", tenant.Slug))
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Suspend blocks all access for the tenant
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tenant.Suspend(); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}

// Activate restores access for a suspended tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := tenant.Activate(); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return nil, err
	}

	response := ToTenantResponse(tenant)
	return &response, nil
}
