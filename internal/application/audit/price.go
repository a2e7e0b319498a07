package audit

import (
	"context"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/stats"
)

// Contract prices beyond this many standard deviations from the market mean
// are flagged.
const priceZThreshold = 2.5

type marketStats struct {
	mean   float64
	stddev float64
}

// RunPriceModel compares every contract unit price against market statistics
// for the exact same item name and replaces the price result partition.
func (s *Service) RunPriceModel(ctx context.Context) (domain.RunSummary, error) {
	contracts, err := s.Contracts.GetAll(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(contracts) == 0 {
		return domain.RunSummary{}, procurement.ErrNoContracts
	}
	prices, err := s.Market.GetAll(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(prices) == 0 {
		return domain.RunSummary{}, procurement.ErrNoMarketPrices
	}

	market := groupMarket(prices)

	now := s.Clock.Now()
	results := make([]*domain.Result, 0, len(contracts))
	flagged := 0
	var overspend float64
	for _, c := range contracts {
		st, ok := market[c.ItemDescription]
		if !ok {
			// no reference data, never flagged
			results = append(results, domain.NewPriceResult(
				c.TenderID, c.ContractID, false, 0,
				fmt.Sprintf("No market data available for %s", c.ItemDescription), now))
			continue
		}

		z := stats.ZScore(c.UnitPrice, st.mean, st.stddev)
		anomalous := math.Abs(z) > priceZThreshold
		var expl string
		switch {
		case z > priceZThreshold:
			over := (c.UnitPrice - st.mean) * float64(c.Quantity)
			overspend += over
			pct := (c.UnitPrice - st.mean) / st.mean * 100
			expl = fmt.Sprintf("Price %.1f%% ABOVE market average (Z-score: %.2f). Potential overpayment of KES %s",
				pct, z, humanize.Comma(int64(math.Round(over))))
		case z < -priceZThreshold:
			pct := (st.mean - c.UnitPrice) / st.mean * 100
			expl = fmt.Sprintf("Price %.1f%% BELOW market average (Z-score: %.2f). Unusually low price may indicate quality concerns",
				pct, z)
		default:
			expl = fmt.Sprintf("Price within normal range (Z-score: %.2f)", z)
		}
		if anomalous {
			flagged++
		}
		results = append(results, domain.NewPriceResult(
			c.TenderID, c.ContractID, anomalous, math.Abs(z), expl, now))
	}

	if err := s.replaceResults(ctx, domain.ModelPrice, results); err != nil {
		return domain.RunSummary{}, err
	}

	return domain.RunSummary{
		ModelType:      domain.ModelPrice,
		TotalProcessed: len(contracts),
		AnomaliesFound: flagged,
		TotalOverspend: overspend,
	}, nil
}

// groupMarket aggregates market prices by exact item-name match. Population
// stddev keeps single-sample groups at 0, which ZScore then treats as normal.
func groupMarket(prices []*procurement.MarketPrice) map[string]marketStats {
	byItem := make(map[string][]float64)
	for _, p := range prices {
		byItem[p.ItemName] = append(byItem[p.ItemName], p.UnitPrice)
	}
	out := make(map[string]marketStats, len(byItem))
	for item, xs := range byItem {
		out[item] = marketStats{mean: stats.Mean(xs), stddev: stats.StdDev(xs)}
	}
	return out
}
