package redemption

import (
	"context"
)

// Repository persists redemption records. Create must be atomic per
// idempotency key: a second create with the same key returns
// ErrAlreadyExists so the caller can treat the retry as a no-op.
type Repository interface {
	Create(ctx context.Context, r *Redemption) error
	GetByIdempotencyKey(ctx context.Context, key string) (*Redemption, error)
	ListByOrder(ctx context.Context, orderID string) ([]*Redemption, error)
}
