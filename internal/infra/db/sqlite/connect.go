package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// Connect opens (creating if needed) the database file, applies pragmas, and
// bootstraps the schema. The file is fully owned by this service.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// the driver serializes writes; one connection avoids SQLITE_BUSY storms
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL;`,
		`PRAGMA foreign_keys = ON;`,
		`PRAGMA busy_timeout = 5000;`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tender_id TEXT NOT NULL UNIQUE,
  procuring_entity TEXT NOT NULL,
  tender_title TEXT NOT NULL,
  category TEXT NOT NULL,
  procurement_method TEXT NOT NULL,
  tender_duration_days INTEGER NOT NULL,
  number_of_bidders INTEGER NOT NULL,
  tender_description TEXT NOT NULL,
  technical_specs TEXT,
  created_at TEXT NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS contracts (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  contract_id TEXT NOT NULL UNIQUE,
  tender_id TEXT NOT NULL,
  supplier_name TEXT NOT NULL,
  item_description TEXT NOT NULL,
  unit_price REAL NOT NULL,
  quantity INTEGER NOT NULL,
  total_value REAL NOT NULL,
  created_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_tender ON contracts (tender_id);`,
	`CREATE TABLE IF NOT EXISTS market_prices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  item_name TEXT NOT NULL,
  category TEXT NOT NULL,
  unit_price REAL NOT NULL,
  source TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_market_item ON market_prices (item_name);`,
	`CREATE TABLE IF NOT EXISTS audit_results (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tender_id TEXT NOT NULL,
  contract_id TEXT,
  model_type TEXT NOT NULL,
  is_anomaly INTEGER NOT NULL,
  anomaly_score REAL NOT NULL,
  explanation TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_results_tender ON audit_results (tender_id);`,
	`CREATE INDEX IF NOT EXISTS idx_results_model ON audit_results (model_type);`,
	`CREATE TABLE IF NOT EXISTS import_errors (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch_id TEXT NOT NULL,
  data_type TEXT NOT NULL,
  row_number INTEGER NOT NULL,
  reason TEXT NOT NULL,
  created_at TEXT NOT NULL
);`,
	`CREATE INDEX IF NOT EXISTS idx_import_errors_batch ON import_errors (batch_id);`,
	`CREATE TABLE IF NOT EXISTS analyses (
  id TEXT PRIMARY KEY,
  scope TEXT NOT NULL,
  report_url TEXT NOT NULL DEFAULT '',
  result_json TEXT NOT NULL,
  created_at TEXT NOT NULL
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
