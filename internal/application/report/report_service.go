package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ReportService answers valuation and reconciliation queries over the
// balance table and the movement ledger. It never mutates anything.
type ReportService struct {
	balanceRepo  inventory.BalanceRepository
	movementRepo inventory.MovementRepository
}

// NewReportService creates a new ReportService
func NewReportService(
	balanceRepo inventory.BalanceRepository,
	movementRepo inventory.MovementRepository,
) *ReportService {
	return &ReportService{
		balanceRepo:  balanceRepo,
		movementRepo: movementRepo,
	}
}

// ValuationByLocation aggregates on-hand quantity and inventory value per
// location, plus a tenant-wide total row.
func (s *ReportService) ValuationByLocation(ctx context.Context, tenantID uuid.UUID) (*ValuationReport, error) {
	rows, err := s.balanceRepo.SumValueByLocation(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{
		Locations:  make([]LocationValuationRow, 0, len(rows)),
		TotalQty:   decimal.Zero,
		TotalValue: decimal.Zero,
	}
	for _, row := range rows {
		report.Locations = append(report.Locations, LocationValuationRow{
			LocationID: row.LocationID,
			TotalQty:   row.TotalQty,
			TotalValue: row.TotalValue,
		})
		report.TotalQty = report.TotalQty.Add(row.TotalQty)
		report.TotalValue = report.TotalValue.Add(row.TotalValue)
	}
	return report, nil
}

// reconcilePageSize bounds how many balances each reconciliation pass
// loads per page.
const reconcilePageSize = 500

// Reconcile walks every balance of the tenant and compares the on-hand
// quantity against the signed sum of its ledger movements. Balances whose
// sums disagree come back as discrepancies; an empty list means the
// ledger and the balance table agree.
func (s *ReportService) Reconcile(ctx context.Context, tenantID uuid.UUID) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		Discrepancies: make([]Discrepancy, 0),
	}

	filter := shared.Filter{Page: 1, PageSize: reconcilePageSize}
	for {
		balances, err := s.balanceRepo.FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return nil, err
		}
		if len(balances) == 0 {
			break
		}

		for i := range balances {
			b := &balances[i]
			ledgerSum, err := s.movementRepo.SumByBalanceKey(ctx, tenantID, b.ProductID, b.LocationID, b.LotKey())
			if err != nil {
				return nil, err
			}
			report.CheckedBalances++
			if !ledgerSum.Equal(b.QtyOnHand) {
				report.Discrepancies = append(report.Discrepancies, Discrepancy{
					BalanceID:  b.ID,
					ProductID:  b.ProductID,
					LocationID: b.LocationID,
					LotNumber:  b.LotNumber,
					ExpiryDate: b.ExpiryDate,
					QtyOnHand:  b.QtyOnHand,
					LedgerSum:  ledgerSum,
					Difference: b.QtyOnHand.Sub(ledgerSum),
				})
			}
		}

		if len(balances) < reconcilePageSize {
			break
		}
		filter.Page++
	}

	return report, nil
}
