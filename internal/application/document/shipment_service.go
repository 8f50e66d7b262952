package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appinventory "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/application/numbering"
	"github.com/stockroom/backend/internal/domain/audit"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ShipmentService orchestrates outbound shipments. Ship re-validates
// availability under row locks; any short line rejects the whole
// transition and the transaction rolls back.
type ShipmentService struct {
	shipmentRepo document.ShipmentRepository
	scope        appinventory.TransactionScope
	idemStore    IdempotencyStore
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	shipmentRepo document.ShipmentRepository,
	scope appinventory.TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *ShipmentService {
	return &ShipmentService{
		shipmentRepo: shipmentRepo,
		scope:        scope,
		idemStore:    idemStore,
		recorder:     recorder,
		logger:       logger,
	}
}

// GetByID retrieves a shipment by ID
func (s *ShipmentService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// List retrieves a paginated list of shipments
func (s *ShipmentService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ShipmentResponse, int64, error) {
	total, err := s.shipmentRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	shipments, err := s.shipmentRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToShipmentResponses(shipments), total, nil
}

// Create creates a draft shipment
func (s *ShipmentService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreateShipmentRequest) (*ShipmentResponse, error) {
	shipment, err := document.NewShipment(tenantID, numbering.Next(numbering.PrefixShipment), req.CustomerName, req.LocationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != nil {
		shipment.SetCreatedBy(*actor.UserID)
	}
	if req.Remark != "" {
		shipment.Remark = req.Remark
	}
	for _, line := range req.Lines {
		lot := valueobject.NewLotKey(line.LotNumber, line.ExpiryDate)
		if err := shipment.AddLine(line.ProductID, lot, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// AddLine adds a line to a draft shipment
func (s *ShipmentService) AddLine(ctx context.Context, tenantID, shipmentID uuid.UUID, req ShipmentLineRequest) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}

	lot := valueobject.NewLotKey(req.LotNumber, req.ExpiryDate)
	if err := shipment.AddLine(req.ProductID, lot, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// RemoveLine removes a line from a draft shipment
func (s *ShipmentService) RemoveLine(ctx context.Context, tenantID, shipmentID, lineID uuid.UUID) (*ShipmentResponse, error) {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return nil, err
	}

	if err := shipment.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.Save(ctx, shipment); err != nil {
		return nil, err
	}

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// Confirm transitions the shipment to confirmed after checking that
// every line is currently available. Availability is checked again under
// row locks at ship time; this check gives early feedback only.
func (s *ShipmentService) Confirm(ctx context.Context, tenantID, shipmentID uuid.UUID, actor Actor) (*ShipmentResponse, error) {
	var shipment *document.Shipment
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		shipment, err = repos.ShipmentRepo().FindByIDForTenant(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}

		for i := range shipment.Lines {
			line := &shipment.Lines[i]
			if err := checkAvailability(ctx, repos, tenantID, shipment.LocationID, line.ProductID, line.LotKey(), line.Quantity); err != nil {
				return err
			}
		}

		if err := shipment.Confirm(); err != nil {
			return err
		}
		return repos.ShipmentRepo().Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"shipment.confirmed", string(inventory.ReferenceTypeShipment), shipment.ID,
		fmt.Sprintf("shipment %s confirmed", shipment.ShipmentNumber))

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// Ship completes the shipment: every line deducts its balance at the
// current weighted average cost and appends a SHIP movement, all in one
// transaction with the status change. Insufficient stock on any line
// rolls back everything.
func (s *ShipmentService) Ship(ctx context.Context, tenantID, shipmentID uuid.UUID, actor Actor) (*ShipmentResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var shipment *document.Shipment
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		shipment, err = repos.ShipmentRepo().FindByIDForTenant(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}

		if err := shipment.Ship(); err != nil {
			return err
		}

		for i := range shipment.Lines {
			line := &shipment.Lines[i]
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     line.ProductID,
				LocationID:    shipment.LocationID,
				Lot:           line.LotKey(),
				Quantity:      line.Quantity,
				MovementType:  inventory.MovementTypeShip,
				ReferenceType: inventory.ReferenceTypeShipment,
				ReferenceID:   shipment.ID,
				ActorID:       actor.UserID,
			}
			if _, err := appinventory.ApplyOutbound(ctx, repos, posting); err != nil {
				return err
			}
		}

		return repos.ShipmentRepo().Save(ctx, shipment)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"shipment.shipped", string(inventory.ReferenceTypeShipment), shipment.ID,
		fmt.Sprintf("shipment %s shipped", shipment.ShipmentNumber))

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// Cancel cancels the shipment before it ships
func (s *ShipmentService) Cancel(ctx context.Context, tenantID, shipmentID uuid.UUID, actor Actor, reason string) (*ShipmentResponse, error) {
	var shipment *document.Shipment
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		shipment, err = repos.ShipmentRepo().FindByIDForTenant(ctx, tenantID, shipmentID)
		if err != nil {
			return err
		}
		if err := shipment.Cancel(reason); err != nil {
			return err
		}
		return repos.ShipmentRepo().Save(ctx, shipment)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"shipment.cancelled", string(inventory.ReferenceTypeShipment), shipment.ID,
		fmt.Sprintf("shipment %s cancelled: %s", shipment.ShipmentNumber, reason))

	response := ToShipmentResponse(shipment)
	return &response, nil
}

// Delete removes a draft shipment
func (s *ShipmentService) Delete(ctx context.Context, tenantID, shipmentID uuid.UUID) error {
	shipment, err := s.shipmentRepo.FindByIDForTenant(ctx, tenantID, shipmentID)
	if err != nil {
		return err
	}
	if !shipment.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft shipments can be deleted")
	}

	return s.shipmentRepo.Delete(ctx, tenantID, shipmentID)
}

// checkAvailability verifies that the balance for a key can fulfill the
// requested quantity. A missing balance is insufficient stock.
func checkAvailability(ctx context.Context, repos appinventory.TransactionalRepositories,
	tenantID, locationID, productID uuid.UUID, lot valueobject.LotKey, quantity decimal.Decimal) error {
	balance, err := repos.BalanceRepo().FindByKey(ctx, tenantID, productID, locationID, lot)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrInsufficientStock
		}
		return err
	}
	if !balance.CanFulfill(quantity) {
		return shared.ErrInsufficientStock
	}
	return nil
}
