package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// BalanceService answers balance and movement queries. All mutations go
// through the document services; this service is read only.
type BalanceService struct {
	balanceRepo  inventory.BalanceRepository
	movementRepo inventory.MovementRepository
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
) *BalanceService {
	return &BalanceService{
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
	}
}

// GetByKey locates a balance by its identifying tuple
func (s *BalanceService) GetByKey(ctx context.Context, tenantID uuid.UUID, query BalanceQuery) (*BalanceResponse, error) {
	lot := valueobject.NewLotKey(query.LotNumber, query.ExpiryDate)
	balance, err := s.balanceRepo.FindByKey(ctx, tenantID, query.ProductID, query.LocationID, lot)
	if err != nil {
		return nil, err
	}

	response := ToBalanceResponse(balance)
	return &response, nil
}

// GetByID loads a balance by ID
func (s *BalanceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BalanceResponse, error) {
	balance, err := s.balanceRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToBalanceResponse(balance)
	return &response, nil
}

// List retrieves a paginated list of balances
func (s *BalanceService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BalanceResponse, int64, error) {
	total, err := s.balanceRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	balances, err := s.balanceRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToBalanceResponses(balances), total, nil
}

// ListByLocation retrieves balances at one location
func (s *BalanceService) ListByLocation(ctx context.Context, tenantID, locationID uuid.UUID, filter shared.Filter) ([]BalanceResponse, error) {
	balances, err := s.balanceRepo.FindByLocation(ctx, tenantID, locationID, filter)
	if err != nil {
		return nil, err
	}

	return ToBalanceResponses(balances), nil
}

// ListMovements queries the movement ledger
func (s *BalanceService) ListMovements(ctx context.Context, tenantID uuid.UUID, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := inventory.MovementFilter{
		ProductID:   filter.ProductID,
		LocationID:  filter.LocationID,
		ReferenceID: filter.ReferenceID,
		From:        filter.From,
		To:          filter.To,
		Page:        filter.Page,
		PageSize:    filter.PageSize,
	}
	if filter.MovementType != "" {
		mt := inventory.MovementType(filter.MovementType)
		if !mt.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Invalid movement type filter")
		}
		domainFilter.MovementType = &mt
	}
	if filter.ReferenceType != "" {
		rt := inventory.ReferenceType(filter.ReferenceType)
		if !rt.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_REFERENCE_TYPE", "Invalid reference type filter")
		}
		domainFilter.ReferenceType = &rt
	}

	movements, total, err := s.movementRepo.FindForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToMovementResponses(movements), total, nil
}
