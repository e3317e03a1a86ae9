package zone

import (
	"context"

	"github.com/merchantkit/pricing/internal/types"
)

// Repository provides read access to the configured zone set. Implementations
// decode persisted list columns once at the load boundary; the matcher never
// re-parses them per pricing call.
type Repository interface {
	Get(ctx context.Context, id string) (*Zone, error)
	ListByKind(ctx context.Context, kind types.ZoneKind) ([]*Zone, error)
}
