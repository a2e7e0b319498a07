package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/imports"
)

type ImportErrorRepository struct {
	db *sql.DB
}

func NewImportErrorRepository(db *sql.DB) *ImportErrorRepository { return &ImportErrorRepository{db: db} }

// SaveBatch stores one import batch's row rejections.
func (r *ImportErrorRepository) SaveBatch(ctx context.Context, errs []*domain.ImportError) error {
	if len(errs) == 0 {
		return nil
	}
	const q = `
INSERT INTO import_errors (batch_id, data_type, row_number, reason, created_at)
VALUES (?,?,?,?,?);
`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range errs {
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, e.BatchID, e.DataType, e.RowNumber, e.Reason, created); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *ImportErrorRepository) ListByBatch(ctx context.Context, batchID string, limit int) ([]*domain.ImportError, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, batch_id, data_type, row_number, reason, created_at
FROM import_errors
WHERE batch_id = ?
ORDER BY row_number
LIMIT ?;`
	rows, err := r.db.QueryContext(ctx, q, batchID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ImportError
	for rows.Next() {
		var e domain.ImportError
		if err := rows.Scan(&e.ID, &e.BatchID, &e.DataType, &e.RowNumber, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
