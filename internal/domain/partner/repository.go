package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// LocationRepository defines the persistence port for locations
type LocationRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Location, error)
	FindByCodeForTenant(ctx context.Context, tenantID uuid.UUID, code string) (*Location, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Location, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, location *Location) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
