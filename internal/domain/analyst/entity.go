package analyst

import "time"

// AnalysisID identifier type
type AnalysisID string

// Analysis represents an AI summary of an audit run stored for auditing and retrieval
type Analysis struct {
	ID        AnalysisID `json:"id"`
	Scope     string     `json:"scope"` // "all" or a single model type
	ReportURL string     `json:"report_url,omitempty"`
	Result    string     `json:"result"` // JSON string from AI
	CreatedAt time.Time  `json:"created_at"`
}
