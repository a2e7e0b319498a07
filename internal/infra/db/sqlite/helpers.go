package sqlite

import (
	"database/sql"
	"time"
)

// Timestamps live in TEXT columns so they round-trip identically regardless of
// driver defaults.
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

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
