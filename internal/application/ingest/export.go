package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
)

// ExportCSV dumps one table as CSV. It returns the file content plus a
// suggested filename for the Content-Disposition header.
func (s *Service) ExportCSV(ctx context.Context, dataType string) ([]byte, string, error) {
	var rows [][]string

	switch dataType {
	case "tenders":
		tenders, err := s.Tenders.GetAll(ctx)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, []string{
			"tender_id", "procuring_entity", "tender_title", "category",
			"procurement_method", "tender_duration_days", "number_of_bidders",
			"tender_description", "technical_specs",
		})
		for _, t := range tenders {
			rows = append(rows, []string{
				t.TenderID, t.ProcuringEntity, t.Title, t.Category,
				string(t.Method), strconv.Itoa(t.DurationDays), strconv.Itoa(t.BidderCount),
				t.Description, t.TechnicalSpecs,
			})
		}
	case "contracts":
		contracts, err := s.Contracts.GetAll(ctx)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, []string{
			"contract_id", "tender_id", "supplier_name", "item_description",
			"unit_price", "quantity", "total_value",
		})
		for _, c := range contracts {
			rows = append(rows, []string{
				c.ContractID, c.TenderID, c.SupplierName, c.ItemDescription,
				formatFloat(c.UnitPrice), strconv.Itoa(c.Quantity), formatFloat(c.TotalValue),
			})
		}
	case "market_prices":
		prices, err := s.Market.GetAll(ctx)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, []string{"item_name", "category", "unit_price", "source"})
		for _, p := range prices {
			rows = append(rows, []string{p.ItemName, p.Category, formatFloat(p.UnitPrice), p.Source})
		}
	case "audit_results":
		results, err := s.Results.GetAll(ctx)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, []string{
			"tender_id", "contract_id", "model_type", "is_anomaly",
			"anomaly_score", "explanation", "created_at",
		})
		for _, r := range results {
			rows = append(rows, []string{
				r.TenderID, r.ContractID, string(r.ModelType),
				strconv.FormatBool(r.IsAnomaly),
				strconv.FormatFloat(r.AnomalyScore, 'f', 4, 64),
				r.Explanation, r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
	default:
		return nil, "", fmt.Errorf("%w: dataType must be one of tenders, contracts, market_prices, audit_results", ErrInvalidRequest)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), dataType + ".csv", nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
