package audit

import (
	"fmt"
	"time"
)

// ModelType enum
type ModelType string

const (
	ModelProcess ModelType = "process"
	ModelPrice   ModelType = "price"
	ModelText    ModelType = "text"
)

// Valid reports whether the model type is one of the three detectors.
func (m ModelType) Valid() bool {
	return m == ModelProcess || m == ModelPrice || m == ModelText
}

// Result is one detector verdict for a tender (and, for the price model, a contract).
// Construct through the New*Result helpers; only price results carry a contract id.
type Result struct {
	ID           int64     `json:"id"`
	TenderID     string    `json:"tender_id"`
	ContractID   string    `json:"contract_id,omitempty"`
	ModelType    ModelType `json:"model_type"`
	IsAnomaly    bool      `json:"is_anomaly"`
	AnomalyScore float64   `json:"anomaly_score"`
	Explanation  string    `json:"explanation"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProcessResult verdict dari model proses
func NewProcessResult(tenderID string, anomaly bool, score float64, explanation string, at time.Time) *Result {
	return &Result{
		TenderID:     tenderID,
		ModelType:    ModelProcess,
		IsAnomaly:    anomaly,
		AnomalyScore: score,
		Explanation:  explanation,
		CreatedAt:    at,
	}
}

// NewPriceResult verdict dari model harga, per kontrak
func NewPriceResult(tenderID, contractID string, anomaly bool, score float64, explanation string, at time.Time) *Result {
	return &Result{
		TenderID:     tenderID,
		ContractID:   contractID,
		ModelType:    ModelPrice,
		IsAnomaly:    anomaly,
		AnomalyScore: score,
		Explanation:  explanation,
		CreatedAt:    at,
	}
}

// NewTextResult verdict dari model teks
func NewTextResult(tenderID string, anomaly bool, score float64, explanation string, at time.Time) *Result {
	return &Result{
		TenderID:     tenderID,
		ModelType:    ModelText,
		IsAnomaly:    anomaly,
		AnomalyScore: score,
		Explanation:  explanation,
		CreatedAt:    at,
	}
}

// Validate enforces the per-variant shape before persistence.
func (r *Result) Validate() error {
	if r.TenderID == "" {
		return fmt.Errorf("audit result missing tender_id")
	}
	if !r.ModelType.Valid() {
		return fmt.Errorf("invalid model_type: %s", r.ModelType)
	}
	if r.ModelType != ModelPrice && r.ContractID != "" {
		return fmt.Errorf("contract_id only allowed on price results, got %s", r.ModelType)
	}
	return nil
}
