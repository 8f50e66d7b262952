package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LocationValuationRow is one location's share of the valuation report
type LocationValuationRow struct {
	LocationID uuid.UUID       `json:"location_id"`
	TotalQty   decimal.Decimal `json:"total_qty"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// ValuationReport aggregates inventory value per location with a
// tenant-wide total
type ValuationReport struct {
	Locations  []LocationValuationRow `json:"locations"`
	TotalQty   decimal.Decimal        `json:"total_qty"`
	TotalValue decimal.Decimal        `json:"total_value"`
}

// Discrepancy is a balance whose on-hand quantity disagrees with the
// signed sum of its ledger movements
type Discrepancy struct {
	BalanceID  uuid.UUID       `json:"balance_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	LocationID uuid.UUID       `json:"location_id"`
	LotNumber  string          `json:"lot_number,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	QtyOnHand  decimal.Decimal `json:"qty_on_hand"`
	LedgerSum  decimal.Decimal `json:"ledger_sum"`
	Difference decimal.Decimal `json:"difference"`
}

// ReconciliationReport is the result of a full ledger-vs-balance check
type ReconciliationReport struct {
	CheckedBalances int           `json:"checked_balances"`
	Discrepancies   []Discrepancy `json:"discrepancies"`
}

// Clean reports whether every checked balance matched its ledger sum
func (r *ReconciliationReport) Clean() bool {
	return len(r.Discrepancies) == 0
}
