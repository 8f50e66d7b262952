package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one append-only audit log entry. Records are written after
// a document transition commits and are never updated or deleted.
type Record struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key"`
	TenantID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_audit_tenant_time,priority:1"`
	ActorID       *uuid.UUID `gorm:"type:uuid;index"`
	Action        string     `gorm:"type:varchar(100);not null"`
	ReferenceType string     `gorm:"type:varchar(30);not null"`
	ReferenceID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Detail        string     `gorm:"type:text"`
	OccurredAt    time.Time  `gorm:"not null;index:idx_audit_tenant_time,priority:2"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "audit_records"
}

// NewRecord creates an audit record stamped with the current time
func NewRecord(tenantID uuid.UUID, actorID *uuid.UUID, action, referenceType string, referenceID uuid.UUID, detail string) *Record {
	return &Record{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ActorID:       actorID,
		Action:        action,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Detail:        detail,
		OccurredAt:    time.Now(),
	}
}

// Recorder is the port for emitting audit records. Implementations must
// not fail the business operation: recording happens after commit and
// errors are logged, not propagated.
type Recorder interface {
	Record(ctx context.Context, record *Record) error
}
