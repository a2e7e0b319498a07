package procurement

import (
	"time"
)

// Method enum untuk metode pengadaan
type Method string

const (
	MethodOpen       Method = "Open"
	MethodRestricted Method = "Restricted"
)

// Encoded maps the method onto the numeric feature used by the detectors.
func (m Method) Encoded() float64 {
	if m == MethodOpen {
		return 1
	}
	return 0
}

// Valid reports whether the method is one of the allowed values.
func (m Method) Valid() bool {
	return m == MethodOpen || m == MethodRestricted
}

// Aggregate Root: Tender
type Tender struct {
	ID              int64     `json:"id"`
	TenderID        string    `json:"tender_id"`
	ProcuringEntity string    `json:"procuring_entity"`
	Title           string    `json:"tender_title"`
	Category        string    `json:"category"`
	Method          Method    `json:"procurement_method"`
	DurationDays    int       `json:"tender_duration_days"`
	BidderCount     int       `json:"number_of_bidders"`
	Description     string    `json:"tender_description"`
	TechnicalSpecs  string    `json:"technical_specs,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Document gabungan teks deskripsi + spesifikasi teknis
func (t *Tender) Document() string {
	if t.TechnicalSpecs == "" {
		return t.Description
	}
	return t.Description + " " + t.TechnicalSpecs
}

// Contract is an awarded line item under a tender.
type Contract struct {
	ID              int64     `json:"id"`
	ContractID      string    `json:"contract_id"`
	TenderID        string    `json:"tender_id"`
	SupplierName    string    `json:"supplier_name"`
	ItemDescription string    `json:"item_description"`
	UnitPrice       float64   `json:"unit_price"`
	Quantity        int       `json:"quantity"`
	TotalValue      float64   `json:"total_value"`
	CreatedAt       time.Time `json:"created_at"`
}

// MarketPrice is a reference price point for an item.
type MarketPrice struct {
	ID        int64     `json:"id"`
	ItemName  string    `json:"item_name"`
	Category  string    `json:"category"`
	UnitPrice float64   `json:"unit_price"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
