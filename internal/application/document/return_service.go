package document

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/application/numbering"
	"github.com/stockroom/backend/internal/domain/audit"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ReturnService orchestrates return orders in both directions. Customer
// returns credit stock back at the stated cost; supplier returns deduct
// at the current balance cost.
type ReturnService struct {
	returnRepo document.ReturnOrderRepository
	scope      appinventory.TransactionScope
	idemStore  IdempotencyStore
	recorder   audit.Recorder
	logger     *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo document.ReturnOrderRepository,
	scope appinventory.TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *ReturnService {
	return &ReturnService{
		returnRepo: returnRepo,
		scope:      scope,
		idemStore:  idemStore,
		recorder:   recorder,
		logger:     logger,
	}
}

// GetByID retrieves a return order by ID
func (s *ReturnService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// List retrieves a paginated list of return orders
func (s *ReturnService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ReturnResponse, int64, error) {
	total, err := s.returnRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	returns, err := s.returnRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToReturnResponses(returns), total, nil
}

// Create creates a draft return order
func (s *ReturnService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreateReturnRequest) (*ReturnResponse, error) {
	direction := document.ReturnDirection(req.Direction)
	ret, err := document.NewReturnOrder(tenantID, numbering.Next(numbering.PrefixReturn), direction, req.PartyName, req.LocationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != nil {
		ret.SetCreatedBy(*actor.UserID)
	}
	if req.Remark != "" {
		ret.Remark = req.Remark
	}
	for _, line := range req.Lines {
		lot := valueobject.NewLotKey(line.LotNumber, line.ExpiryDate)
		if err := ret.AddLine(line.ProductID, lot, line.Quantity, line.UnitCost, line.Reason); err != nil {
			return nil, err
		}
	}

	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// AddLine adds a line to a draft return
func (s *ReturnService) AddLine(ctx context.Context, tenantID, returnID uuid.UUID, req ReturnLineRequest) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}

	lot := valueobject.NewLotKey(req.LotNumber, req.ExpiryDate)
	if err := ret.AddLine(req.ProductID, lot, req.Quantity, req.UnitCost, req.Reason); err != nil {
		return nil, err
	}
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	response := ToReturnResponse(ret)
	return &response, nil
}

// Complete posts the return: RETURN_IN credits for customer returns,
// RETURN_OUT deductions for supplier returns, one transaction with the
// status change.
func (s *ReturnService) Complete(ctx context.Context, tenantID, returnID uuid.UUID, actor Actor) (*ReturnResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var ret *document.ReturnOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		ret, err = repos.ReturnOrderRepo().FindByIDForTenant(ctx, tenantID, returnID)
		if err != nil {
			return err
		}

		if err := ret.Complete(); err != nil {
			return err
		}

		for i := range ret.Lines {
			line := &ret.Lines[i]
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     line.ProductID,
				LocationID:    ret.LocationID,
				Lot:           line.LotKey(),
				Quantity:      line.Quantity,
				UnitCost:      line.UnitCost,
				ReferenceType: inventory.ReferenceTypeReturn,
				ReferenceID:   ret.ID,
				ActorID:       actor.UserID,
			}
			if ret.IsInbound() {
				posting.MovementType = inventory.MovementTypeReturnIn
				if err := appinventory.ApplyInbound(ctx, repos, posting); err != nil {
					return err
				}
			} else {
				posting.MovementType = inventory.MovementTypeReturnOut
				if _, err := appinventory.ApplyOutbound(ctx, repos, posting); err != nil {
					return err
				}
			}
		}

		return repos.ReturnOrderRepo().Save(ctx, ret)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"return.completed", string(inventory.ReferenceTypeReturn), ret.ID,
		fmt.Sprintf("return %s (%s) completed", ret.ReturnNumber, ret.Direction))

	response := ToReturnResponse(ret)
	return &response, nil
}

// Cancel cancels a draft return
func (s *ReturnService) Cancel(ctx context.Context, tenantID, returnID uuid.UUID, actor Actor, reason string) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return nil, err
	}

	if err := ret.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.returnRepo.Save(ctx, ret); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"return.cancelled", string(inventory.ReferenceTypeReturn), ret.ID,
		fmt.Sprintf("return %s cancelled: %s", ret.ReturnNumber, reason))

	response := ToReturnResponse(ret)
	return &response, nil
}

// Delete removes a draft return
func (s *ReturnService) Delete(ctx context.Context, tenantID, returnID uuid.UUID) error {
	ret, err := s.returnRepo.FindByIDForTenant(ctx, tenantID, returnID)
	if err != nil {
		return err
	}
	if !ret.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft returns can be deleted")
	}

	return s.returnRepo.Delete(ctx, tenantID, returnID)
}
