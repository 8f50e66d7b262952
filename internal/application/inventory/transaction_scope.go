package inventory

import (
	"context"

	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the stock-affecting
// repositories. Every document transition runs inside Execute so the
// status change, the balance mutations, and the movement rows commit or
// roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories touched
// by a document transition. All repositories returned share the same
// underlying database transaction.
//
// Aggregate boundary notes:
//   - BalanceRepo: the InventoryBalance aggregate; lookups during a
//     transition use FindByKeyForUpdate so concurrent transitions on the
//     same balance key serialize at the row lock.
//   - MovementRepo: append-only; movements are never updated.
//   - Document repos: lines are child entities persisted through the
//     aggregate root via GORM association handling.
type TransactionalRepositories interface {
	BalanceRepo() inventory.BalanceRepository
	MovementRepo() inventory.MovementRepository
	CycleCountRepo() inventory.CycleCountRepository
	PurchaseOrderRepo() document.PurchaseOrderRepository
	ShipmentRepo() document.ShipmentRepository
	TransferRepo() document.TransferRepository
	ReturnOrderRepo() document.ReturnOrderRepository
	AdjustmentRepo() document.AdjustmentRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests backed by in-memory repositories.
type NoOpTransactionScope struct {
	balanceRepo       inventory.BalanceRepository
	movementRepo      inventory.MovementRepository
	cycleCountRepo    inventory.CycleCountRepository
	purchaseOrderRepo document.PurchaseOrderRepository
	shipmentRepo      document.ShipmentRepository
	transferRepo      document.TransferRepository
	returnOrderRepo   document.ReturnOrderRepository
	adjustmentRepo    document.AdjustmentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
	cycleCountRepo inventory.CycleCountRepository,
	purchaseOrderRepo document.PurchaseOrderRepository,
	shipmentRepo document.ShipmentRepository,
	transferRepo document.TransferRepository,
	returnOrderRepo document.ReturnOrderRepository,
	adjustmentRepo document.AdjustmentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		balanceRepo:       balanceRepo,
		movementRepo:      movementRepo,
		cycleCountRepo:    cycleCountRepo,
		purchaseOrderRepo: purchaseOrderRepo,
		shipmentRepo:      shipmentRepo,
		transferRepo:      transferRepo,
		returnOrderRepo:   returnOrderRepo,
		adjustmentRepo:    adjustmentRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BalanceRepo returns the balance repository
func (s *NoOpTransactionScope) BalanceRepo() inventory.BalanceRepository {
	return s.balanceRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository {
	return s.movementRepo
}

// CycleCountRepo returns the cycle count repository
func (s *NoOpTransactionScope) CycleCountRepo() inventory.CycleCountRepository {
	return s.cycleCountRepo
}

// PurchaseOrderRepo returns the purchase order repository
func (s *NoOpTransactionScope) PurchaseOrderRepo() document.PurchaseOrderRepository {
	return s.purchaseOrderRepo
}

// ShipmentRepo returns the shipment repository
func (s *NoOpTransactionScope) ShipmentRepo() document.ShipmentRepository {
	return s.shipmentRepo
}

// TransferRepo returns the transfer repository
func (s *NoOpTransactionScope) TransferRepo() document.TransferRepository {
	return s.transferRepo
}

// ReturnOrderRepo returns the return order repository
func (s *NoOpTransactionScope) ReturnOrderRepo() document.ReturnOrderRepository {
	return s.returnOrderRepo
}

// AdjustmentRepo returns the adjustment repository
func (s *NoOpTransactionScope) AdjustmentRepo() document.AdjustmentRepository {
	return s.adjustmentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
