package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/partner"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LocationService handles stock-holding locations for a tenant
type LocationService struct {
	locationRepo partner.LocationRepository
}

// NewLocationService creates a new LocationService
func NewLocationService(locationRepo partner.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

// GetByID retrieves a location by ID
func (s *LocationService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// GetByCode retrieves a location by its code
func (s *LocationService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByCodeForTenant(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// List retrieves a paginated list of locations
func (s *LocationService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]LocationResponse, int64, error) {
	total, err := s.locationRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	locations, err := s.locationRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToLocationResponses(locations), total, nil
}

// Create creates a location; the code must be unique within the tenant
func (s *LocationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateLocationRequest) (*LocationResponse, error) {
	if _, err := s.locationRepo.FindByCodeForTenant(ctx, tenantID, req.Code); err == nil {
		return nil, shared.NewDomainError("CODE_EXISTS", "Location code is already in use in this tenant")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	location, err := partner.NewLocation(tenantID, req.Code, req.Name, partner.LocationType(req.Type))
	if err != nil {
		return nil, err
	}
	location.Address = req.Address

	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Update updates a location's descriptive fields
func (s *LocationService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateLocationRequest) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := location.UpdateDetails(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Activate makes a location available for new documents
func (s *LocationService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	location.Activate()
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Deactivate hides a location from new documents
func (s *LocationService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*LocationResponse, error) {
	location, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	location.Deactivate()
	if err := s.locationRepo.Save(ctx, location); err != nil {
		return nil, err
	}

	response := ToLocationResponse(location)
	return &response, nil
}

// Delete removes a location
func (s *LocationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.locationRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	return s.locationRepo.Delete(ctx, tenantID, id)
}
