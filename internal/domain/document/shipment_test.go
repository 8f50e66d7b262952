package document

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShipment(t *testing.T) *Shipment {
	t.Helper()
	shipment, err := NewShipment(uuid.New(), "SH-2026-0001", "Globex Corp", uuid.New())
	require.NoError(t, err)
	return shipment
}

func TestNewShipment_Validation(t *testing.T) {
	tenantID := uuid.New()
	locationID := uuid.New()

	_, err := NewShipment(tenantID, "", "Globex", locationID)
	assert.Error(t, err)

	_, err = NewShipment(tenantID, "SH-1", "", locationID)
	assert.Error(t, err)

	_, err = NewShipment(tenantID, "SH-1", "Globex", uuid.Nil)
	assert.Error(t, err)
}

func TestShipment_AddLine_DuplicateLotRejected(t *testing.T) {
	shipment := newTestShipment(t)
	productID := uuid.New()
	expiry := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	lotA := valueobject.NewLotKey("LOT-A", &expiry)

	require.NoError(t, shipment.AddLine(productID, lotA, decimal.NewFromInt(5)))

	// Same product and lot is a duplicate
	assert.Error(t, shipment.AddLine(productID, lotA, decimal.NewFromInt(3)))

	// Same product, different lot is fine
	assert.NoError(t, shipment.AddLine(productID, valueobject.NewLotKey("LOT-B", nil), decimal.NewFromInt(3)))
	assert.Len(t, shipment.Lines, 2)
}

func TestShipment_Lifecycle(t *testing.T) {
	shipment := newTestShipment(t)

	// Cannot confirm empty
	assert.Error(t, shipment.Confirm())
	// Cannot ship from draft
	assert.Error(t, shipment.Ship())

	require.NoError(t, shipment.AddLine(uuid.New(), valueobject.NoLot(), decimal.NewFromInt(10)))
	require.NoError(t, shipment.Confirm())
	assert.Equal(t, ShipmentStatusConfirmed, shipment.Status)

	// No line edits after confirm
	assert.Error(t, shipment.AddLine(uuid.New(), valueobject.NoLot(), decimal.NewFromInt(1)))

	require.NoError(t, shipment.Ship())
	assert.Equal(t, ShipmentStatusCompleted, shipment.Status)
	assert.NotNil(t, shipment.ShippedAt)

	// Terminal
	assert.Error(t, shipment.Ship())
	assert.Error(t, shipment.Cancel("too late"))
}

func TestShipment_CancelBeforeShip(t *testing.T) {
	shipment := newTestShipment(t)
	require.NoError(t, shipment.AddLine(uuid.New(), valueobject.NoLot(), decimal.NewFromInt(2)))
	require.NoError(t, shipment.Confirm())

	assert.Error(t, shipment.Cancel(""))
	require.NoError(t, shipment.Cancel("customer withdrew the order"))
	assert.Equal(t, ShipmentStatusCancelled, shipment.Status)
	assert.Error(t, shipment.Ship())
}

func TestShipmentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    ShipmentStatus
		to      ShipmentStatus
		allowed bool
	}{
		{ShipmentStatusDraft, ShipmentStatusConfirmed, true},
		{ShipmentStatusDraft, ShipmentStatusCancelled, true},
		{ShipmentStatusDraft, ShipmentStatusCompleted, false},
		{ShipmentStatusConfirmed, ShipmentStatusCompleted, true},
		{ShipmentStatusConfirmed, ShipmentStatusCancelled, true},
		{ShipmentStatusCompleted, ShipmentStatusCancelled, false},
		{ShipmentStatusCancelled, ShipmentStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}
