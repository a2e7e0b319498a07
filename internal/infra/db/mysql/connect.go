package mysql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
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
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  tender_id VARCHAR(64) NOT NULL UNIQUE,
  procuring_entity VARCHAR(255) NOT NULL,
  tender_title VARCHAR(512) NOT NULL,
  category VARCHAR(128) NOT NULL,
  procurement_method VARCHAR(32) NOT NULL,
  tender_duration_days INT NOT NULL,
  number_of_bidders INT NOT NULL,
  tender_description TEXT NOT NULL,
  technical_specs TEXT,
  created_at DATETIME NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS contracts (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  contract_id VARCHAR(64) NOT NULL UNIQUE,
  tender_id VARCHAR(64) NOT NULL,
  supplier_name VARCHAR(255) NOT NULL,
  item_description VARCHAR(512) NOT NULL,
  unit_price DOUBLE NOT NULL,
  quantity INT NOT NULL,
  total_value DOUBLE NOT NULL,
  created_at DATETIME NOT NULL,
  INDEX idx_contracts_tender (tender_id)
);`,
	`CREATE TABLE IF NOT EXISTS market_prices (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  item_name VARCHAR(255) NOT NULL,
  category VARCHAR(128) NOT NULL,
  unit_price DOUBLE NOT NULL,
  source VARCHAR(255) NOT NULL,
  created_at DATETIME NOT NULL,
  INDEX idx_market_item (item_name)
);`,
	`CREATE TABLE IF NOT EXISTS audit_results (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  tender_id VARCHAR(64) NOT NULL,
  contract_id VARCHAR(64),
  model_type VARCHAR(16) NOT NULL,
  is_anomaly TINYINT(1) NOT NULL,
  anomaly_score DOUBLE NOT NULL,
  explanation TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  INDEX idx_results_tender (tender_id),
  INDEX idx_results_model (model_type)
);`,
	`CREATE TABLE IF NOT EXISTS import_errors (
  id BIGINT AUTO_INCREMENT PRIMARY KEY,
  batch_id VARCHAR(64) NOT NULL,
  data_type VARCHAR(32) NOT NULL,
  row_number INT NOT NULL,
  reason TEXT NOT NULL,
  created_at DATETIME NOT NULL,
  INDEX idx_import_errors_batch (batch_id)
);`,
	`CREATE TABLE IF NOT EXISTS analyses (
  id VARCHAR(64) PRIMARY KEY,
  scope VARCHAR(16) NOT NULL,
  report_url VARCHAR(512) NOT NULL DEFAULT '',
  result_json JSON NOT NULL,
  created_at DATETIME NOT NULL
);`,
}

// EnsureSchema creates the tables on first boot. Statements run one at a time
// because the driver does not enable multi-statements.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
