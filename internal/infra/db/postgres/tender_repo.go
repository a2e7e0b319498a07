package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

type TenderRepository struct{ db *sql.DB }

func NewTenderRepository(db *sql.DB) *TenderRepository { return &TenderRepository{db: db} }

// GetAll returns every tender in insertion order.
func (r *TenderRepository) GetAll(ctx context.Context) ([]*domain.Tender, error) {
	const q = `
SELECT id, tender_id, procuring_entity, tender_title, category,
       procurement_method, tender_duration_days, number_of_bidders,
       tender_description, technical_specs, created_at
FROM tenders
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Tender
	for rows.Next() {
		var t domain.Tender
		var specs sql.NullString
		if err := rows.Scan(
			&t.ID, &t.TenderID, &t.ProcuringEntity, &t.Title, &t.Category,
			&t.Method, &t.DurationDays, &t.BidderCount,
			&t.Description, &specs, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		t.TechnicalSpecs = orEmpty(specs)
		out = append(out, &t)
	}
	return out, rows.Err()
}

// InsertBatch stores one batch of tenders inside a transaction.
func (r *TenderRepository) InsertBatch(ctx context.Context, tenders []*domain.Tender) (int, error) {
	if len(tenders) == 0 {
		return 0, nil
	}
	const q = `
INSERT INTO tenders
  (tender_id, procuring_entity, tender_title, category, procurement_method,
   tender_duration_days, number_of_bidders, tender_description, technical_specs, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (tender_id) DO UPDATE SET
  procuring_entity = EXCLUDED.procuring_entity,
  tender_title = EXCLUDED.tender_title,
  category = EXCLUDED.category,
  procurement_method = EXCLUDED.procurement_method,
  tender_duration_days = EXCLUDED.tender_duration_days,
  number_of_bidders = EXCLUDED.number_of_bidders,
  tender_description = EXCLUDED.tender_description,
  technical_specs = EXCLUDED.technical_specs;`
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

	for _, t := range tenders {
		created := t.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx,
			t.TenderID, t.ProcuringEntity, t.Title, t.Category, string(t.Method),
			t.DurationDays, t.BidderCount, t.Description,
			nullIfEmpty(t.TechnicalSpecs), created,
		); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(tenders), nil
}

func (r *TenderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tenders;`)
	return err
}

func (r *TenderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenders;`).Scan(&n)
	return n, err
}
