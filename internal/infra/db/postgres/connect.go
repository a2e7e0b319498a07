package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenders (
  id BIGSERIAL PRIMARY KEY,
  tender_id VARCHAR(64) NOT NULL UNIQUE,
  procuring_entity VARCHAR(255) NOT NULL,
  tender_title VARCHAR(512) NOT NULL,
  category VARCHAR(128) NOT NULL,
  procurement_method VARCHAR(32) NOT NULL,
  tender_duration_days INT NOT NULL,
  number_of_bidders INT NOT NULL,
  tender_description TEXT NOT NULL,
  technical_specs TEXT,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS contracts (
  id BIGSERIAL PRIMARY KEY,
  contract_id VARCHAR(64) NOT NULL UNIQUE,
  tender_id VARCHAR(64) NOT NULL,
  supplier_name VARCHAR(255) NOT NULL,
  item_description VARCHAR(512) NOT NULL,
  unit_price DOUBLE PRECISION NOT NULL,
  quantity INT NOT NULL,
  total_value DOUBLE PRECISION NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_tender ON contracts (tender_id);`,
	`CREATE TABLE IF NOT EXISTS market_prices (
  id BIGSERIAL PRIMARY KEY,
  item_name VARCHAR(255) NOT NULL,
  category VARCHAR(128) NOT NULL,
  unit_price DOUBLE PRECISION NOT NULL,
  source VARCHAR(255) NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_market_item ON market_prices (item_name);`,
	`CREATE TABLE IF NOT EXISTS audit_results (
  id BIGSERIAL PRIMARY KEY,
  tender_id VARCHAR(64) NOT NULL,
  contract_id VARCHAR(64),
  model_type VARCHAR(16) NOT NULL,
  is_anomaly BOOLEAN NOT NULL,
  anomaly_score DOUBLE PRECISION NOT NULL,
  explanation TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_results_tender ON audit_results (tender_id);`,
	`CREATE INDEX IF NOT EXISTS idx_results_model ON audit_results (model_type);`,
	`CREATE TABLE IF NOT EXISTS import_errors (
  id BIGSERIAL PRIMARY KEY,
  batch_id VARCHAR(64) NOT NULL,
  data_type VARCHAR(32) NOT NULL,
  row_number INT NOT NULL,
  reason TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_import_errors_batch ON import_errors (batch_id);`,
	`CREATE TABLE IF NOT EXISTS analyses (
  id VARCHAR(64) PRIMARY KEY,
  scope VARCHAR(16) NOT NULL,
  report_url VARCHAR(512) NOT NULL DEFAULT '',
  result_json JSONB NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`,
}

// EnsureSchema creates the tables and indexes on first boot.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
