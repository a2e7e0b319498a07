package sqlite

import (
	"context"
	"database/sql"
	"strings"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/analyst"
)

type AnalystRepository struct{ db *sql.DB }

func NewAnalystRepository(db *sql.DB) *AnalystRepository { return &AnalystRepository{db: db} }

// Save inserts or updates an analysis record
func (r *AnalystRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses (id, scope, report_url, result_json, created_at)
VALUES (?,?,?,?,?)
ON CONFLICT (id) DO UPDATE SET
  scope = excluded.scope,
  report_url = excluded.report_url,
  result_json = excluded.result_json;`
	result := a.Result
	if strings.TrimSpace(result) == "" {
		result = "{}"
	}
	_, err := r.db.ExecContext(ctx, q, a.ID, a.Scope, a.ReportURL, result, formatTime(a.CreatedAt))
	return err
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalystRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, scope, report_url, result_json, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		var created string
		if err := rows.Scan(&a.ID, &a.Scope, &a.ReportURL, &a.Result, &created); err != nil {
			return nil, err
		}
		a.CreatedAt = parseTime(created)
		out = append(out, &a)
	}
	return out, rows.Err()
}
