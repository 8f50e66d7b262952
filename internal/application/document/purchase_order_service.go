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

// PurchaseOrderService orchestrates the purchase order lifecycle.
// Drafting works against the plain repository; Receive runs inside a
// transaction scope so the order status, balance credits, and RECEIVE
// movements commit together.
type PurchaseOrderService struct {
	orderRepo document.PurchaseOrderRepository
	scope     appinventory.TransactionScope
	idemStore IdempotencyStore
	recorder  audit.Recorder
	logger    *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo document.PurchaseOrderRepository,
	scope appinventory.TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo: orderRepo,
		scope:     scope,
		idemStore: idemStore,
		recorder:  recorder,
		logger:    logger,
	}
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves a paginated list of purchase orders
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrderResponse, int64, error) {
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToPurchaseOrderResponses(orders), total, nil
}

// Create creates a draft purchase order
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := document.NewPurchaseOrder(tenantID, numbering.Next(numbering.PrefixPurchaseOrder), req.SupplierName, req.LocationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != nil {
		order.SetCreatedBy(*actor.UserID)
	}
	if req.Remark != "" {
		order.Remark = req.Remark
	}
	for _, line := range req.Lines {
		if err := order.AddLine(line.ProductID, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// AddLine adds a line to a draft order
func (s *PurchaseOrderService) AddLine(ctx context.Context, tenantID, orderID uuid.UUID, req PurchaseOrderLineRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.AddLine(req.ProductID, req.Quantity, req.UnitCost); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// RemoveLine removes a line from a draft order
func (s *PurchaseOrderService) RemoveLine(ctx context.Context, tenantID, orderID, lineID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Confirm transitions the order to confirmed
func (s *PurchaseOrderService) Confirm(ctx context.Context, tenantID, orderID uuid.UUID, actor Actor) (*PurchaseOrderResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var order *document.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"purchase_order.confirmed", string(inventory.ReferenceTypePurchaseOrder), order.ID,
		fmt.Sprintf("order %s confirmed", order.OrderNumber))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Receive posts a (possibly partial) receipt: each received line credits
// its balance at the received cost and appends a RECEIVE movement, all
// in one transaction with the order status change.
func (s *PurchaseOrderService) Receive(ctx context.Context, tenantID, orderID uuid.UUID, actor Actor, req ReceivePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	receiveLines := make([]document.ReceiveLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		receiveLines = append(receiveLines, document.ReceiveLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCost:  l.UnitCost,
			Lot:       valueobject.NewLotKey(l.LotNumber, l.ExpiryDate),
		})
	}

	var order *document.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}

		received, err := order.Receive(receiveLines)
		if err != nil {
			return err
		}

		for _, r := range received {
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     r.ProductID,
				LocationID:    order.LocationID,
				Lot:           r.Lot,
				Quantity:      r.Quantity,
				UnitCost:      r.UnitCost,
				MovementType:  inventory.MovementTypeReceive,
				ReferenceType: inventory.ReferenceTypePurchaseOrder,
				ReferenceID:   order.ID,
				ActorID:       actor.UserID,
			}
			if err := appinventory.ApplyInbound(ctx, repos, posting); err != nil {
				return err
			}
		}

		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"purchase_order.received", string(inventory.ReferenceTypePurchaseOrder), order.ID,
		fmt.Sprintf("order %s received, status %s", order.OrderNumber, order.Status))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel cancels the order before any goods arrive
func (s *PurchaseOrderService) Cancel(ctx context.Context, tenantID, orderID uuid.UUID, actor Actor, reason string) (*PurchaseOrderResponse, error) {
	var order *document.PurchaseOrder
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.PurchaseOrderRepo().FindByIDForTenant(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(reason); err != nil {
			return err
		}
		return repos.PurchaseOrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"purchase_order.cancelled", string(inventory.ReferenceTypePurchaseOrder), order.ID,
		fmt.Sprintf("order %s cancelled: %s", order.OrderNumber, reason))

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return err
	}
	if !order.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}

	return s.orderRepo.Delete(ctx, tenantID, orderID)
}
