package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockroom/backend/internal/domain/shared"
)

// IdempotencyStore remembers transition keys so a retried request does
// not post the same count twice. Keys are scoped per tenant and expire
// after a store-defined TTL.
type IdempotencyStore interface {
	// Reserve marks the key as used. It returns false when the key was
	// already reserved within the TTL window.
	Reserve(ctx context.Context, tenantID uuid.UUID, key string) (bool, error)
	// Release frees a key so a failed transition can be retried.
	Release(ctx context.Context, tenantID uuid.UUID, key string) error
}

// reserveKey claims the idempotency key when one is supplied. An empty
// key disables the check.
func reserveKey(ctx context.Context, store IdempotencyStore, tenantID uuid.UUID, key string) error {
	if key == "" || store == nil {
		return nil
	}
	ok, err := store.Reserve(ctx, tenantID, key)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrDuplicateRequest
	}
	return nil
}

// releaseKey frees a reserved key after a failed transition
func releaseKey(ctx context.Context, store IdempotencyStore, tenantID uuid.UUID, key string) {
	if key == "" || store == nil {
		return
	}
	// Best effort: an orphaned key expires with the TTL anyway.
	_ = store.Release(ctx, tenantID, key)
}
