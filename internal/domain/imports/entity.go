package imports

import "time"

// ImportError is a persisted record of a CSV row rejected during import.
type ImportError struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id"`
	DataType  string    `json:"data_type"`
	RowNumber int       `json:"row_number"` // 1-based data row, header excluded
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
