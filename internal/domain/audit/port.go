package audit

import "context"

// Repository port. A detector run replaces its whole partition: DeleteByModelType
// followed by InsertBatch. The two calls carry no transactional guarantee; a run
// leaves at most one result set per model type.
type Repository interface {
	GetAll(ctx context.Context) ([]*Result, error)
	GetByTenderID(ctx context.Context, tenderID string) ([]*Result, error)
	DeleteByModelType(ctx context.Context, model ModelType) error
	InsertBatch(ctx context.Context, results []*Result) (int, error)
}

// ArtifactStore port (interface untuk penyimpanan artefak)
type ArtifactStore interface {
	UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
