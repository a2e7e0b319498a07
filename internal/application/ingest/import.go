package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/tender-audit/internal/domain/imports"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

// ImportCommand is the parsed import request body.
type ImportCommand struct {
	DataType      string
	CSVContent    string
	ClearExisting bool
}

// ImportResult reports what an import batch did. Row errors come back inline
// and are also persisted under BatchID.
type ImportResult struct {
	DataType   string   `json:"data_type"`
	Imported   int      `json:"imported"`
	Skipped    int      `json:"skipped"`
	BatchID    string   `json:"batch_id"`
	Errors     []string `json:"errors,omitempty"`
	ArchiveURL string   `json:"archive_url,omitempty"`
}

var requiredColumns = map[string][]string{
	"tenders": {
		"tender_id", "procuring_entity", "tender_title", "category",
		"procurement_method", "tender_duration_days", "number_of_bidders",
		"tender_description",
	},
	"contracts": {
		"contract_id", "tender_id", "supplier_name", "item_description",
		"unit_price", "quantity",
	},
	"market_prices": {
		"item_name", "category", "unit_price", "source",
	},
}

// ImportCSV validates and loads one CSV payload. Invalid rows are skipped and
// reported by 1-based data row number; the import only fails when no row at
// all is valid (or when a required column is missing entirely).
func (s *Service) ImportCSV(ctx context.Context, cmd ImportCommand) (*ImportResult, error) {
	required, ok := requiredColumns[cmd.DataType]
	if !ok {
		return nil, fmt.Errorf("%w: dataType must be one of tenders, contracts, market_prices", ErrInvalidRequest)
	}

	rd := csv.NewReader(strings.NewReader(cmd.CSVContent))
	rd.FieldsPerRecord = -1
	rd.TrimLeadingSpace = true
	records, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", ErrInvalidRequest, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: CSV must contain a header row and at least one data row", ErrInvalidRequest)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing required column: %s", ErrInvalidRequest, c)
		}
	}

	batchID := uuid.New().String()
	now := s.Clock.Now()
	res := &ImportResult{DataType: cmd.DataType, BatchID: batchID}

	var tenders []*procurement.Tender
	var contracts []*procurement.Contract
	var prices []*procurement.MarketPrice
	var rowErrors []*imports.ImportError

	for i, record := range records[1:] {
		rowNum := i + 1
		get := func(col string) string {
			idx, ok := cols[col]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		var msg string
		switch cmd.DataType {
		case "tenders":
			var t *procurement.Tender
			if t, msg = parseTenderRow(get); msg == "" {
				t.CreatedAt = now
				tenders = append(tenders, t)
			}
		case "contracts":
			var c *procurement.Contract
			if c, msg = parseContractRow(get); msg == "" {
				c.CreatedAt = now
				contracts = append(contracts, c)
			}
		case "market_prices":
			var p *procurement.MarketPrice
			if p, msg = parseMarketPriceRow(get); msg == "" {
				p.CreatedAt = now
				prices = append(prices, p)
			}
		}

		if msg != "" {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", rowNum, msg))
			rowErrors = append(rowErrors, &imports.ImportError{
				BatchID:   batchID,
				DataType:  cmd.DataType,
				RowNumber: rowNum,
				Reason:    msg,
				CreatedAt: now,
			})
		}
	}

	if len(rowErrors) > 0 {
		// row errors are useful even when the whole batch fails
		_ = s.ImportLog.SaveBatch(ctx, rowErrors)
	}

	valid := len(tenders) + len(contracts) + len(prices)
	if valid == 0 {
		return nil, fmt.Errorf("%w: no valid records found", ErrInvalidRequest)
	}

	if cmd.ClearExisting {
		if err := s.clearTable(ctx, cmd.DataType); err != nil {
			return nil, err
		}
	}

	switch cmd.DataType {
	case "tenders":
		res.Imported, err = s.Tenders.InsertBatch(ctx, tenders)
	case "contracts":
		res.Imported, err = s.Contracts.InsertBatch(ctx, contracts)
	case "market_prices":
		res.Imported, err = s.Market.InsertBatch(ctx, prices)
	}
	if err != nil {
		return nil, err
	}

	if s.Artifacts != nil {
		key := fmt.Sprintf("imports/%s.csv", batchID)
		if url, err := s.Artifacts.UploadBytes(ctx, key, []byte(cmd.CSVContent), "text/csv"); err == nil {
			res.ArchiveURL = url
		}
	}

	return res, nil
}

func (s *Service) clearTable(ctx context.Context, dataType string) error {
	switch dataType {
	case "tenders":
		return s.Tenders.DeleteAll(ctx)
	case "contracts":
		return s.Contracts.DeleteAll(ctx)
	case "market_prices":
		return s.Market.DeleteAll(ctx)
	}
	return nil
}

func parseTenderRow(get func(string) string) (*procurement.Tender, string) {
	for _, f := range requiredColumns["tenders"] {
		if get(f) == "" {
			return nil, "Missing required field: " + f
		}
	}

	method := procurement.Method(get("procurement_method"))
	if !method.Valid() {
		return nil, "procurement_method must be 'Open' or 'Restricted'"
	}
	duration, err := strconv.Atoi(get("tender_duration_days"))
	if err != nil || duration <= 0 {
		return nil, "tender_duration_days must be a positive integer"
	}
	bidders, err := strconv.Atoi(get("number_of_bidders"))
	if err != nil || bidders < 0 {
		return nil, "number_of_bidders must be a non-negative integer"
	}

	return &procurement.Tender{
		TenderID:        get("tender_id"),
		ProcuringEntity: get("procuring_entity"),
		Title:           get("tender_title"),
		Category:        get("category"),
		Method:          method,
		DurationDays:    duration,
		BidderCount:     bidders,
		Description:     get("tender_description"),
		TechnicalSpecs:  get("technical_specs"),
	}, ""
}

func parseContractRow(get func(string) string) (*procurement.Contract, string) {
	for _, f := range requiredColumns["contracts"] {
		if get(f) == "" {
			return nil, "Missing required field: " + f
		}
	}

	unitPrice, err := strconv.ParseFloat(get("unit_price"), 64)
	if err != nil || unitPrice <= 0 {
		return nil, "unit_price must be a positive number"
	}
	quantity, err := strconv.Atoi(get("quantity"))
	if err != nil || quantity <= 0 {
		return nil, "quantity must be a positive integer"
	}

	return &procurement.Contract{
		ContractID:      get("contract_id"),
		TenderID:        get("tender_id"),
		SupplierName:    get("supplier_name"),
		ItemDescription: get("item_description"),
		UnitPrice:       unitPrice,
		Quantity:        quantity,
		TotalValue:      unitPrice * float64(quantity),
	}, ""
}

func parseMarketPriceRow(get func(string) string) (*procurement.MarketPrice, string) {
	for _, f := range requiredColumns["market_prices"] {
		if get(f) == "" {
			return nil, "Missing required field: " + f
		}
	}

	unitPrice, err := strconv.ParseFloat(get("unit_price"), 64)
	if err != nil || unitPrice <= 0 {
		return nil, "unit_price must be a positive number"
	}

	return &procurement.MarketPrice{
		ItemName:  get("item_name"),
		Category:  get("category"),
		UnitPrice: unitPrice,
		Source:    get("source"),
	}, ""
}
