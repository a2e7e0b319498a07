package imports

import "context"

// Repository defines persistence for import errors
type Repository interface {
	SaveBatch(ctx context.Context, errs []*ImportError) error
	ListByBatch(ctx context.Context, batchID string, limit int) ([]*ImportError, error)
}
