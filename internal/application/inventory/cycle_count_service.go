package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/application/numbering"
	"github.com/stockroom/backend/internal/domain/audit"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CycleCountService orchestrates physical inventory counts. Drafting
// happens against the plain repositories; posting a completed count runs
// inside a transaction scope so the variance balance updates, variance
// movements, and the status flip commit together.
type CycleCountService struct {
	cycleCountRepo inventory.CycleCountRepository
	balanceRepo    inventory.BalanceRepository
	scope          TransactionScope
	idemStore      IdempotencyStore
	recorder       audit.Recorder
	logger         *zap.Logger
}

// NewCycleCountService creates a new CycleCountService
func NewCycleCountService(
	cycleCountRepo inventory.CycleCountRepository,
	balanceRepo inventory.BalanceRepository,
	scope TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *CycleCountService {
	return &CycleCountService{
		cycleCountRepo: cycleCountRepo,
		balanceRepo:    balanceRepo,
		scope:          scope,
		idemStore:      idemStore,
		recorder:       recorder,
		logger:         logger,
	}
}

// GetByID retrieves a cycle count by ID
func (s *CycleCountService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// List retrieves a paginated list of cycle counts
func (s *CycleCountService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CycleCountResponse, int64, error) {
	counts, total, err := s.cycleCountRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToCycleCountResponses(counts), total, nil
}

// Create starts a new count at a location
func (s *CycleCountService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCycleCountRequest) (*CycleCountResponse, error) {
	countDate := time.Now()
	if req.CountDate != nil {
		countDate = *req.CountDate
	}

	cc, err := inventory.NewCycleCount(tenantID, req.LocationID, numbering.Next(numbering.PrefixCycleCount), countDate)
	if err != nil {
		return nil, err
	}
	if req.Remark != "" {
		cc.Remark = req.Remark
	}

	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// AddLine snapshots the current system quantity for a balance key onto
// the count sheet. A key with no balance row counts from zero.
func (s *CycleCountService) AddLine(ctx context.Context, tenantID, countID uuid.UUID, req AddCycleCountLineRequest) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}

	lot := valueobject.NewLotKey(req.LotNumber, req.ExpiryDate)
	systemQty := decimal.Zero
	unitCost := decimal.Zero
	balance, err := s.balanceRepo.FindByKey(ctx, tenantID, req.ProductID, cc.LocationID, lot)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	} else {
		systemQty = balance.QtyOnHand
		unitCost = balance.AvgCost
	}

	if err := cc.AddLine(req.ProductID, lot, systemQty, unitCost); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// RecordCount records the physical count for one line
func (s *CycleCountService) RecordCount(ctx context.Context, tenantID, countID uuid.UUID, req RecordCountRequest) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}

	if err := cc.RecordCount(req.LineID, req.CountedQty, req.Remark); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// Complete posts the count. Each counted line forces its balance to the
// counted quantity and appends a COUNT_VARIANCE movement for the delta
// against the balance as it stands at posting time, so the ledger stays
// in step even when stock moved after the sheet was drawn up. Lines whose
// counted quantity already matches the balance produce no movement.
func (s *CycleCountService) Complete(ctx context.Context, tenantID, countID uuid.UUID, actorID *uuid.UUID, idempotencyKey string) (*CycleCountResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, idempotencyKey); err != nil {
		return nil, err
	}

	var cc *inventory.CycleCount

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		cc, err = repos.CycleCountRepo().FindByIDForTenant(ctx, tenantID, countID)
		if err != nil {
			return err
		}

		if err := cc.Complete(); err != nil {
			return err
		}

		for _, line := range cc.Lines {
			if err := s.postLine(ctx, repos, cc, line, actorID); err != nil {
				return err
			}
		}

		return repos.CycleCountRepo().Save(ctx, cc)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, idempotencyKey)
		return nil, err
	}

	s.audit(ctx, cc, actorID, "cycle_count.completed")

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// Cancel abandons a draft count
func (s *CycleCountService) Cancel(ctx context.Context, tenantID, countID uuid.UUID, reason string) (*CycleCountResponse, error) {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return nil, err
	}

	if err := cc.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.cycleCountRepo.Save(ctx, cc); err != nil {
		return nil, err
	}

	response := ToCycleCountResponse(cc)
	return &response, nil
}

// Delete removes a draft count
func (s *CycleCountService) Delete(ctx context.Context, tenantID, countID uuid.UUID) error {
	cc, err := s.cycleCountRepo.FindByIDForTenant(ctx, tenantID, countID)
	if err != nil {
		return err
	}
	if !cc.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Only draft counts can be deleted")
	}

	return s.cycleCountRepo.Delete(ctx, tenantID, countID)
}

// postLine sets the balance to the counted quantity and records the
// signed variance movement. The movement delta is counted minus the
// locked balance's current quantity, not the sheet snapshot, keeping the
// per-key movement sum equal to qty_on_hand. The cost basis never
// changes on a count.
func (s *CycleCountService) postLine(ctx context.Context, repos TransactionalRepositories, cc *inventory.CycleCount, line inventory.CycleCountLine, actorID *uuid.UUID) error {
	lot := line.LotKey()
	balance, err := repos.BalanceRepo().FindByKeyForUpdate(ctx, cc.TenantID, line.ProductID, cc.LocationID, lot)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		if line.CountedQty.IsZero() {
			return nil
		}
		// Found stock with no balance row: create one at the line's cost
		balance, err = inventory.NewInventoryBalance(cc.TenantID, line.ProductID, cc.LocationID, lot)
		if err != nil {
			return err
		}
		balance.AvgCost = line.UnitCost
	}

	delta := line.CountedQty.Sub(balance.QtyOnHand)
	if delta.IsZero() {
		return nil
	}

	if err := balance.SetQuantity(line.CountedQty); err != nil {
		return err
	}
	if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(
		cc.TenantID, line.ProductID, cc.LocationID, lot,
		inventory.MovementTypeCountVariance, delta, balance.AvgCost,
		inventory.ReferenceTypeCycleCount, cc.ID,
	)
	if err != nil {
		return err
	}
	if actorID != nil {
		movement.WithActor(*actorID)
	}

	return repos.MovementRepo().Append(ctx, movement)
}

func (s *CycleCountService) audit(ctx context.Context, cc *inventory.CycleCount, actorID *uuid.UUID, action string) {
	if s.recorder == nil {
		return
	}
	record := audit.NewRecord(cc.TenantID, actorID, action, string(inventory.ReferenceTypeCycleCount), cc.ID,
		fmt.Sprintf("count %s at location %s", cc.CountNumber, cc.LocationID))
	if err := s.recorder.Record(ctx, record); err != nil && s.logger != nil {
		s.logger.Warn("audit record failed",
			zap.String("action", action),
			zap.String("count_number", cc.CountNumber),
			zap.Error(err))
	}
}
