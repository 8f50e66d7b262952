package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/audit"
	"go.uber.org/zap"
)

// Actor identifies who triggered a transition, extracted from the auth
// claims at the HTTP boundary.
type Actor struct {
	UserID *uuid.UUID
	// IdempotencyKey suppresses duplicate posts when non-empty
	IdempotencyKey string
}

// recordAudit writes an audit record after a successful transition.
// Audit failures never fail the business operation.
func recordAudit(ctx context.Context, recorder audit.Recorder, logger *zap.Logger,
	tenantID uuid.UUID, actorID *uuid.UUID, action, refType string, refID uuid.UUID, detail string) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, audit.NewRecord(tenantID, actorID, action, refType, refID, detail)); err != nil && logger != nil {
		logger.Warn("audit record failed",
			zap.String("action", action),
			zap.String("reference_id", refID.String()),
			zap.Error(err))
	}
}
