package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the persistence port for purchase orders
type PurchaseOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ShipmentRepository defines the persistence port for shipments
type ShipmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Shipment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Shipment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, shipment *Shipment) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TransferRepository defines the persistence port for transfers
type TransferRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Transfer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Transfer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, transfer *Transfer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// ReturnOrderRepository defines the persistence port for return orders
type ReturnOrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*ReturnOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ReturnOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, ret *ReturnOrder) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// AdjustmentRepository defines the persistence port for adjustments
type AdjustmentRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Adjustment, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Adjustment, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, adjustment *Adjustment) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
