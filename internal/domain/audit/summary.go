package audit

// RunSummary hasil satu kali jalan model
type RunSummary struct {
	ModelType      ModelType `json:"model_type"`
	TotalProcessed int       `json:"total_processed"`
	AnomaliesFound int       `json:"anomalies_found"`
	TotalOverspend float64   `json:"total_overspend,omitempty"` // price model only
}

// RunAllSummary bundles the three sequential model runs.
type RunAllSummary struct {
	Process RunSummary `json:"process"`
	Price   RunSummary `json:"price"`
	Text    RunSummary `json:"text"`
}
