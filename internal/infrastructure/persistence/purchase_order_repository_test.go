package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/document"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPurchaseOrderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&document.PurchaseOrder{}, &document.PurchaseOrderLine{})
	require.NoError(t, err)

	return db
}

func newDraftOrder(t *testing.T, tenantID uuid.UUID, orderNumber string) *document.PurchaseOrder {
	t.Helper()
	order, err := document.NewPurchaseOrder(tenantID, orderNumber, "Acme Supplies", uuid.New())
	require.NoError(t, err)
	require.NoError(t, order.AddLine(uuid.New(), decimal.NewFromInt(10), decimal.NewFromInt(3)))
	require.NoError(t, order.AddLine(uuid.New(), decimal.NewFromInt(5), decimal.NewFromInt(8)))
	return order
}

func TestGormPurchaseOrderRepository_SaveAndFind(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	order := newDraftOrder(t, tenantID, "PO-2026-0001")
	require.NoError(t, repo.Save(ctx, order))

	t.Run("loads the order with its lines", func(t *testing.T) {
		found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "PO-2026-0001", found.OrderNumber)
		assert.Equal(t, document.PurchaseOrderStatusDraft, found.Status)
		assert.Len(t, found.Lines, 2)
	})

	t.Run("finds by order number", func(t *testing.T) {
		found, err := repo.FindByNumberForTenant(ctx, tenantID, "PO-2026-0001")
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
		assert.Len(t, found.Lines, 2)
	})

	t.Run("persists a status change with its lines", func(t *testing.T) {
		require.NoError(t, order.Confirm())
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		assert.Equal(t, document.PurchaseOrderStatusConfirmed, found.Status)
		assert.Len(t, found.Lines, 2)
	})

	t.Run("other tenants cannot see the order", func(t *testing.T) {
		_, err := repo.FindByIDForTenant(ctx, uuid.New(), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormPurchaseOrderRepository_FindAllForTenant(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	draft := newDraftOrder(t, tenantID, "PO-2026-0002")
	require.NoError(t, repo.Save(ctx, draft))

	confirmed := newDraftOrder(t, tenantID, "PO-2026-0003")
	require.NoError(t, confirmed.Confirm())
	require.NoError(t, repo.Save(ctx, confirmed))

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters = map[string]interface{}{"status": document.PurchaseOrderStatusConfirmed}

		orders, err := repo.FindAllForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "PO-2026-0003", orders[0].OrderNumber)

		count, err := repo.CountForTenant(ctx, tenantID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("lists all orders of the tenant", func(t *testing.T) {
		orders, err := repo.FindAllForTenant(ctx, tenantID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})
}

func TestGormPurchaseOrderRepository_Delete(t *testing.T) {
	db := setupPurchaseOrderTestDB(t)
	repo := NewGormPurchaseOrderRepository(db)
	ctx := context.Background()

	tenantID := uuid.New()
	order := newDraftOrder(t, tenantID, "PO-2026-0004")
	require.NoError(t, repo.Save(ctx, order))

	t.Run("removes the order and its lines", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, tenantID, order.ID))

		_, err := repo.FindByIDForTenant(ctx, tenantID, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		var lineCount int64
		require.NoError(t, db.Model(&document.PurchaseOrderLine{}).
			Where("order_id = ?", order.ID).Count(&lineCount).Error)
		assert.Equal(t, int64(0), lineCount)
	})

	t.Run("returns not found for unknown order", func(t *testing.T) {
		err := repo.Delete(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
