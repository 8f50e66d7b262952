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

// AdjustmentService orchestrates manual stock corrections. Completing an
// adjustment applies every signed line delta and appends ADJUSTMENT
// movements, one transaction with the status change.
type AdjustmentService struct {
	adjustmentRepo document.AdjustmentRepository
	scope          appinventory.TransactionScope
	idemStore      IdempotencyStore
	recorder       audit.Recorder
	logger         *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService
func NewAdjustmentService(
	adjustmentRepo document.AdjustmentRepository,
	scope appinventory.TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *AdjustmentService {
	return &AdjustmentService{
		adjustmentRepo: adjustmentRepo,
		scope:          scope,
		idemStore:      idemStore,
		recorder:       recorder,
		logger:         logger,
	}
}

// GetByID retrieves an adjustment by ID
func (s *AdjustmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// List retrieves a paginated list of adjustments
func (s *AdjustmentService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AdjustmentResponse, int64, error) {
	total, err := s.adjustmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	adjustments, err := s.adjustmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToAdjustmentResponses(adjustments), total, nil
}

// Create creates a draft adjustment
func (s *AdjustmentService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreateAdjustmentRequest) (*AdjustmentResponse, error) {
	adj, err := document.NewAdjustment(tenantID, numbering.Next(numbering.PrefixAdjustment), req.LocationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != nil {
		adj.SetCreatedBy(*actor.UserID)
	}
	if req.Remark != "" {
		adj.Remark = req.Remark
	}
	for _, line := range req.Lines {
		lot := valueobject.NewLotKey(line.LotNumber, line.ExpiryDate)
		if err := adj.AddLine(line.ProductID, lot, line.QuantityDelta, line.UnitCost, line.Reason); err != nil {
			return nil, err
		}
	}

	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// AddLine adds a line to a draft adjustment
func (s *AdjustmentService) AddLine(ctx context.Context, tenantID, adjustmentID uuid.UUID, req AdjustmentLineRequest) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
	if err != nil {
		return nil, err
	}

	lot := valueobject.NewLotKey(req.LotNumber, req.ExpiryDate)
	if err := adj.AddLine(req.ProductID, lot, req.QuantityDelta, req.UnitCost, req.Reason); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, err
	}

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// Complete posts the adjustment: positive deltas receive at the line
// cost, negative deltas deduct at the balance cost.
func (s *AdjustmentService) Complete(ctx context.Context, tenantID, adjustmentID uuid.UUID, actor Actor) (*AdjustmentResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var adj *document.Adjustment
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		adj, err = repos.AdjustmentRepo().FindByIDForTenant(ctx, tenantID, adjustmentID)
		if err != nil {
			return err
		}

		if err := adj.Complete(); err != nil {
			return err
		}

		for i := range adj.Lines {
			line := &adj.Lines[i]
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     line.ProductID,
				LocationID:    adj.LocationID,
				Lot:           line.LotKey(),
				MovementType:  inventory.MovementTypeAdjustment,
				ReferenceType: inventory.ReferenceTypeAdjustment,
				ReferenceID:   adj.ID,
				ActorID:       actor.UserID,
			}
			if line.IsIncrease() {
				posting.Quantity = line.QuantityDelta
				posting.UnitCost = line.UnitCost
				if err := appinventory.ApplyInbound(ctx, repos, posting); err != nil {
					return err
				}
			} else {
				posting.Quantity = line.QuantityDelta.Neg()
				if _, err := appinventory.ApplyOutbound(ctx, repos, posting); err != nil {
					return err
				}
			}
		}

		return repos.AdjustmentRepo().Save(ctx, adj)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"adjustment.completed", string(inventory.ReferenceTypeAdjustment), adj.ID,
		fmt.Sprintf("adjustment %s completed", adj.AdjustmentNumber))

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// Cancel cancels a draft adjustment
func (s *AdjustmentService) Cancel(ctx context.Context, tenantID, adjustmentID uuid.UUID, actor Actor, reason string) (*AdjustmentResponse, error) {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
	if err != nil {
		return nil, err
	}

	if err := adj.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.adjustmentRepo.Save(ctx, adj); err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"adjustment.cancelled", string(inventory.ReferenceTypeAdjustment), adj.ID,
		fmt.Sprintf("adjustment %s cancelled: %s", adj.AdjustmentNumber, reason))

	response := ToAdjustmentResponse(adj)
	return &response, nil
}

// Delete removes a draft adjustment
func (s *AdjustmentService) Delete(ctx context.Context, tenantID, adjustmentID uuid.UUID) error {
	adj, err := s.adjustmentRepo.FindByIDForTenant(ctx, tenantID, adjustmentID)
	if err != nil {
		return err
	}
	if !adj.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft adjustments can be deleted")
	}

	return s.adjustmentRepo.Delete(ctx, tenantID, adjustmentID)
}
