package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
)

type AuditResultRepository struct{ db *sql.DB }

func NewAuditResultRepository(db *sql.DB) *AuditResultRepository {
	return &AuditResultRepository{db: db}
}

// GetAll returns every stored verdict across all models.
func (r *AuditResultRepository) GetAll(ctx context.Context) ([]*domain.Result, error) {
	const q = `
SELECT id, tender_id, contract_id, model_type, is_anomaly, anomaly_score, explanation, created_at
FROM audit_results
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResults(rows)
}

// GetByTenderID returns the verdicts for one tender.
func (r *AuditResultRepository) GetByTenderID(ctx context.Context, tenderID string) ([]*domain.Result, error) {
	const q = `
SELECT id, tender_id, contract_id, model_type, is_anomaly, anomaly_score, explanation, created_at
FROM audit_results
WHERE tender_id = $1
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q, tenderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResults(rows)
}

// DeleteByModelType clears the previous run before a new one is stored.
func (r *AuditResultRepository) DeleteByModelType(ctx context.Context, model domain.ModelType) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM audit_results WHERE model_type = $1;`, string(model))
	return err
}

// InsertBatch stores one run's verdicts in a single transaction.
func (r *AuditResultRepository) InsertBatch(ctx context.Context, results []*domain.Result) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}
	const q = `
INSERT INTO audit_results
  (tender_id, contract_id, model_type, is_anomaly, anomaly_score, explanation, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7);`
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, res := range results {
		created := res.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			res.TenderID, nullIfEmpty(res.ContractID), string(res.ModelType),
			res.IsAnomaly, res.AnomalyScore, res.Explanation, created,
		); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(results), nil
}

func collectResults(rows *sql.Rows) ([]*domain.Result, error) {
	var out []*domain.Result
	for rows.Next() {
		var res domain.Result
		var contractID sql.NullString
		if err := rows.Scan(
			&res.ID, &res.TenderID, &contractID, &res.ModelType,
			&res.IsAnomaly, &res.AnomalyScore, &res.Explanation, &res.CreatedAt,
		); err != nil {
			return nil, err
		}
		res.ContractID = orEmpty(contractID)
		out = append(out, &res)
	}
	return out, rows.Err()
}
