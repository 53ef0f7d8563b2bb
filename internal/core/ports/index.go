package ports

import "context"

// IndexManager provisions storage indexes. Implementations must be idempotent.
type IndexManager interface {
	EnsureIndexes(ctx context.Context) error
}
