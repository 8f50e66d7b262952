package document

import (
	"context"
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

// TransferService orchestrates inter-location transfers. Send deducts
// the source and captures each line's unit cost; Receive credits the
// destination at exactly those costs, so quantity and value are
// conserved across the two legs.
type TransferService struct {
	transferRepo document.TransferRepository
	scope        appinventory.TransactionScope
	idemStore    IdempotencyStore
	recorder     audit.Recorder
	logger       *zap.Logger
}

// NewTransferService creates a new TransferService
func NewTransferService(
	transferRepo document.TransferRepository,
	scope appinventory.TransactionScope,
	idemStore IdempotencyStore,
	recorder audit.Recorder,
	logger *zap.Logger,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		scope:        scope,
		idemStore:    idemStore,
		recorder:     recorder,
		logger:       logger,
	}
}

// GetByID retrieves a transfer by ID
func (s *TransferService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// List retrieves a paginated list of transfers
func (s *TransferService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]TransferResponse, int64, error) {
	total, err := s.transferRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	transfers, err := s.transferRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransferResponses(transfers), total, nil
}

// Create creates a draft transfer
func (s *TransferService) Create(ctx context.Context, tenantID uuid.UUID, actor Actor, req CreateTransferRequest) (*TransferResponse, error) {
	transfer, err := document.NewTransfer(tenantID, numbering.Next(numbering.PrefixTransfer), req.FromLocationID, req.ToLocationID)
	if err != nil {
		return nil, err
	}
	if actor.UserID != nil {
		transfer.SetCreatedBy(*actor.UserID)
	}
	if req.Remark != "" {
		transfer.Remark = req.Remark
	}
	for _, line := range req.Lines {
		lot := valueobject.NewLotKey(line.LotNumber, line.ExpiryDate)
		if err := transfer.AddLine(line.ProductID, lot, line.Quantity); err != nil {
			return nil, err
		}
	}

	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// AddLine adds a line to a draft transfer
func (s *TransferService) AddLine(ctx context.Context, tenantID, transferID uuid.UUID, req TransferLineRequest) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}

	lot := valueobject.NewLotKey(req.LotNumber, req.ExpiryDate)
	if err := transfer.AddLine(req.ProductID, lot, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// RemoveLine removes a line from a draft transfer
func (s *TransferService) RemoveLine(ctx context.Context, tenantID, transferID, lineID uuid.UUID) (*TransferResponse, error) {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return nil, err
	}

	if err := transfer.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.transferRepo.Save(ctx, transfer); err != nil {
		return nil, err
	}

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Send posts the outbound leg: every line deducts the source balance,
// appends a TRANSFER_OUT movement, and records the deduction cost on the
// line for the receive leg. One transaction with the status change.
func (s *TransferService) Send(ctx context.Context, tenantID, transferID uuid.UUID, actor Actor) (*TransferResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var transfer *document.Transfer
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if transfer.Status != document.TransferStatusDraft {
			return shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("Cannot send transfer in %s status", transfer.Status))
		}

		sentCosts := make(map[uuid.UUID]decimal.Decimal, len(transfer.Lines))
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     line.ProductID,
				LocationID:    transfer.FromLocationID,
				Lot:           line.LotKey(),
				Quantity:      line.Quantity,
				MovementType:  inventory.MovementTypeTransferOut,
				ReferenceType: inventory.ReferenceTypeTransfer,
				ReferenceID:   transfer.ID,
				ActorID:       actor.UserID,
			}
			unitCost, err := appinventory.ApplyOutbound(ctx, repos, posting)
			if err != nil {
				return err
			}
			sentCosts[line.ID] = unitCost
		}

		if err := transfer.Send(sentCosts); err != nil {
			return err
		}
		return repos.TransferRepo().Save(ctx, transfer)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"transfer.sent", string(inventory.ReferenceTypeTransfer), transfer.ID,
		fmt.Sprintf("transfer %s sent from %s", transfer.TransferNumber, transfer.FromLocationID))

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Receive posts the inbound leg: every line credits the destination
// balance at its sent unit cost and appends a TRANSFER_IN movement, in
// one transaction with the status change.
func (s *TransferService) Receive(ctx context.Context, tenantID, transferID uuid.UUID, actor Actor) (*TransferResponse, error) {
	if err := reserveKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey); err != nil {
		return nil, err
	}

	var transfer *document.Transfer
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}

		if err := transfer.Receive(); err != nil {
			return err
		}

		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			posting := appinventory.Posting{
				TenantID:      tenantID,
				ProductID:     line.ProductID,
				LocationID:    transfer.ToLocationID,
				Lot:           line.LotKey(),
				Quantity:      line.Quantity,
				UnitCost:      line.SentUnitCost,
				MovementType:  inventory.MovementTypeTransferIn,
				ReferenceType: inventory.ReferenceTypeTransfer,
				ReferenceID:   transfer.ID,
				ActorID:       actor.UserID,
			}
			if err := appinventory.ApplyInbound(ctx, repos, posting); err != nil {
				return err
			}
		}

		return repos.TransferRepo().Save(ctx, transfer)
	})
	if err != nil {
		releaseKey(ctx, s.idemStore, tenantID, actor.IdempotencyKey)
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"transfer.received", string(inventory.ReferenceTypeTransfer), transfer.ID,
		fmt.Sprintf("transfer %s received at %s", transfer.TransferNumber, transfer.ToLocationID))

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Cancel cancels a draft transfer
func (s *TransferService) Cancel(ctx context.Context, tenantID, transferID uuid.UUID, actor Actor, reason string) (*TransferResponse, error) {
	var transfer *document.Transfer
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		transfer, err = repos.TransferRepo().FindByIDForTenant(ctx, tenantID, transferID)
		if err != nil {
			return err
		}
		if err := transfer.Cancel(reason); err != nil {
			return err
		}
		return repos.TransferRepo().Save(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	recordAudit(ctx, s.recorder, s.logger, tenantID, actor.UserID,
		"transfer.cancelled", string(inventory.ReferenceTypeTransfer), transfer.ID,
		fmt.Sprintf("transfer %s cancelled: %s", transfer.TransferNumber, reason))

	response := ToTransferResponse(transfer)
	return &response, nil
}

// Delete removes a draft transfer
func (s *TransferService) Delete(ctx context.Context, tenantID, transferID uuid.UUID) error {
	transfer, err := s.transferRepo.FindByIDForTenant(ctx, tenantID, transferID)
	if err != nil {
		return err
	}
	if !transfer.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Only draft transfers can be deleted")
	}

	return s.transferRepo.Delete(ctx, tenantID, transferID)
}
