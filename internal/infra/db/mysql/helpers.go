package mysql

import "database/sql"

// nullIfEmpty maps "" onto SQL NULL for optional columns
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// orEmpty unwraps a nullable text column
func orEmpty(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
