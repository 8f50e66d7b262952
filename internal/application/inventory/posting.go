package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
)

// Posting describes one stock mutation against a single balance key.
// Quantity is always positive; the direction comes from the function
// applying it.
type Posting struct {
	TenantID      uuid.UUID
	ProductID     uuid.UUID
	LocationID    uuid.UUID
	Lot           valueobject.LotKey
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	MovementType  inventory.MovementType
	ReferenceType inventory.ReferenceType
	ReferenceID   uuid.UUID
	ActorID       *uuid.UUID
}

// ApplyInbound credits the balance for the posting key and appends the
// matching movement row. The balance row is created on first receipt.
// Must be called inside a transaction scope.
func ApplyInbound(ctx context.Context, repos TransactionalRepositories, p Posting) error {
	balance, err := repos.BalanceRepo().FindByKeyForUpdate(ctx, p.TenantID, p.ProductID, p.LocationID, p.Lot)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		balance, err = inventory.NewInventoryBalance(p.TenantID, p.ProductID, p.LocationID, p.Lot)
		if err != nil {
			return err
		}
	}

	if err := balance.Receive(p.Quantity, p.UnitCost); err != nil {
		return err
	}
	if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(
		p.TenantID, p.ProductID, p.LocationID, p.Lot,
		p.MovementType, p.Quantity, p.UnitCost,
		p.ReferenceType, p.ReferenceID,
	)
	if err != nil {
		return err
	}
	if p.ActorID != nil {
		movement.WithActor(*p.ActorID)
	}

	return repos.MovementRepo().Append(ctx, movement)
}

// ApplyOutbound deducts the balance for the posting key and appends the
// matching movement row with a negative quantity. The posting's UnitCost
// is ignored; the deduction is booked at the balance's current weighted
// average cost, which is returned to the caller. A missing balance is
// insufficient stock. Must be called inside a transaction scope.
func ApplyOutbound(ctx context.Context, repos TransactionalRepositories, p Posting) (decimal.Decimal, error) {
	balance, err := repos.BalanceRepo().FindByKeyForUpdate(ctx, p.TenantID, p.ProductID, p.LocationID, p.Lot)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, shared.ErrInsufficientStock
		}
		return decimal.Zero, err
	}

	if err := balance.Deduct(p.Quantity); err != nil {
		return decimal.Zero, err
	}
	unitCost := balance.AvgCost
	if err := repos.BalanceRepo().Save(ctx, balance); err != nil {
		return decimal.Zero, err
	}

	movement, err := inventory.NewStockMovement(
		p.TenantID, p.ProductID, p.LocationID, p.Lot,
		p.MovementType, p.Quantity.Neg(), unitCost,
		p.ReferenceType, p.ReferenceID,
	)
	if err != nil {
		return decimal.Zero, err
	}
	if p.ActorID != nil {
		movement.WithActor(*p.ActorID)
	}

	if err := repos.MovementRepo().Append(ctx, movement); err != nil {
		return decimal.Zero, err
	}

	return unitCost, nil
}
