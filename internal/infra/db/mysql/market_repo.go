package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

type MarketPriceRepository struct {
	db *sql.DB
}

func NewMarketPriceRepository(db *sql.DB) *MarketPriceRepository {
	return &MarketPriceRepository{db: db}
}

// GetAll returns every reference price point.
func (r *MarketPriceRepository) GetAll(ctx context.Context) ([]*domain.MarketPrice, error) {
	const q = `
SELECT id, item_name, category, unit_price, source, created_at
FROM market_prices
ORDER BY id;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.MarketPrice
	for rows.Next() {
		var p domain.MarketPrice
		if err := rows.Scan(&p.ID, &p.ItemName, &p.Category, &p.UnitPrice, &p.Source, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// InsertBatch menyimpan batch harga pasar dalam satu transaksi
func (r *MarketPriceRepository) InsertBatch(ctx context.Context, prices []*domain.MarketPrice) (int, error) {
	if len(prices) == 0 {
		return 0, nil
	}
	const q = `
INSERT INTO market_prices (item_name, category, unit_price, source, created_at)
VALUES (?,?,?,?,?);
`
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

	for _, p := range prices {
		created := p.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, p.ItemName, p.Category, p.UnitPrice, p.Source, created); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(prices), nil
}

func (r *MarketPriceRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM market_prices;`)
	return err
}
