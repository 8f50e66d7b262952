package persistence

import (
	"context"

	"github.com/stockroom/backend/internal/domain/audit"
	"gorm.io/gorm"
)

// GormAuditRecorder appends audit records to the audit_records table.
// Records are insert-only.
type GormAuditRecorder struct {
	db *gorm.DB
}

// NewGormAuditRecorder creates a new GormAuditRecorder
func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

// Record inserts one audit record
func (r *GormAuditRecorder) Record(ctx context.Context, record *audit.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Ensure GormAuditRecorder implements Recorder
var _ audit.Recorder = (*GormAuditRecorder)(nil)
