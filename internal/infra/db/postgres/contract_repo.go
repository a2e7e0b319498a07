package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

type ContractRepository struct{ db *sql.DB }

func NewContractRepository(db *sql.DB) *ContractRepository { return &ContractRepository{db: db} }

// GetAll returns every awarded contract in insertion order.
func (r *ContractRepository) GetAll(ctx context.Context) ([]*domain.Contract, error) {
	const q = `
SELECT id, contract_id, tender_id, supplier_name, item_description,
       unit_price, quantity, total_value, created_at
FROM contracts
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Contract
	for rows.Next() {
		var c domain.Contract
		if err := rows.Scan(
			&c.ID, &c.ContractID, &c.TenderID, &c.SupplierName, &c.ItemDescription,
			&c.UnitPrice, &c.Quantity, &c.TotalValue, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// InsertBatch stores one batch of contracts inside a transaction.
func (r *ContractRepository) InsertBatch(ctx context.Context, contracts []*domain.Contract) (int, error) {
	if len(contracts) == 0 {
		return 0, nil
	}
	const q = `
INSERT INTO contracts
  (contract_id, tender_id, supplier_name, item_description,
   unit_price, quantity, total_value, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (contract_id) DO UPDATE SET
  tender_id = EXCLUDED.tender_id,
  supplier_name = EXCLUDED.supplier_name,
  item_description = EXCLUDED.item_description,
  unit_price = EXCLUDED.unit_price,
  quantity = EXCLUDED.quantity,
  total_value = EXCLUDED.total_value;`
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

	for _, c := range contracts {
		created := c.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		total := c.TotalValue
		if total == 0 {
			total = c.UnitPrice * float64(c.Quantity)
		}
		if _, err := stmt.ExecContext(ctx,
			c.ContractID, c.TenderID, c.SupplierName, c.ItemDescription,
			c.UnitPrice, c.Quantity, total, created,
		); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(contracts), nil
}

func (r *ContractRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM contracts;`)
	return err
}
