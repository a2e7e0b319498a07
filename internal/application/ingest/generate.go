package ingest

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/stats"
)

// GenerateSummary reports what a synthetic data run produced.
type GenerateSummary struct {
	Tenders   int `json:"tenders"`
	Contracts int `json:"contracts"`
}

var descriptionTemplates = []string{
	"Supply and delivery of %s to %s",
	"Procurement of %s for use by %s",
	"Provision of %s including installation and commissioning for %s",
	"Framework contract for the supply of %s to %s",
}

var specTemplates = []string{
	"Standard specifications as per the attached schedule of requirements.",
	"Units must meet KEBS certification and carry a 12 month warranty.",
	"Delivery within 30 days of contract signature to the procuring entity stores.",
}

var supplierPool = []string{
	"Savannah Supplies Ltd",
	"Uhuru Office Solutions",
	"Kilimanjaro Traders",
	"Nairobi Tech Distributors",
	"Baraka General Merchants",
	"Pwani Equipment Co",
	"Highlands Procurement Services",
	"Jambo Logistics Ltd",
}

// GeneratePPIP wipes tenders and contracts, then seeds a synthetic
// procurement plan: mostly clean records plus a minority of rigged ones
// (short windows, few bidders, brand-locked specs, copied documents) so the
// detectors have something to find.
func (s *Service) GeneratePPIP(ctx context.Context, count int) (*GenerateSummary, error) {
	if count <= 0 {
		count = 50
	}
	rng := s.rng()
	now := s.Clock.Now()

	tenders := make([]*procurement.Tender, 0, count)
	var contracts []*procurement.Contract
	contractNo := 0

	for i := 0; i < count; i++ {
		category := pick(rng.Intn, s.Catalog.Categories)
		entity := pick(rng.Intn, s.Catalog.Entities)
		item := category
		if pool := s.Catalog.Items[category]; len(pool) > 0 {
			item = pool[rng.Intn(len(pool))]
		}

		t := &procurement.Tender{
			TenderID:        fmt.Sprintf("TND-2024-%05d", i+1),
			ProcuringEntity: entity,
			Title:           fmt.Sprintf("%s - %s", category, item),
			Category:        category,
			Method:          procurement.MethodOpen,
			DurationDays:    7 + rng.Intn(54),
			BidderCount:     3 + rng.Intn(6),
			Description:     fmt.Sprintf(pick(rng.Intn, descriptionTemplates), item, entity),
			TechnicalSpecs:  pick(rng.Intn, specTemplates),
			CreatedAt:       now,
		}
		if rng.Float64() >= 0.7 {
			t.Method = procurement.MethodRestricted
		}

		switch {
		case rng.Float64() < 0.12:
			// rigged: tight window, minimal competition
			t.Method = procurement.MethodOpen
			t.DurationDays = 3 + rng.Intn(7)
			t.BidderCount = 1 + rng.Intn(2)
		case rng.Float64() < 0.10 && len(s.Catalog.Brands) > 0:
			brand := pick(rng.Intn, s.Catalog.Brands)
			t.TechnicalSpecs = fmt.Sprintf("Only %s models will be accepted, no equivalents considered.", brand)
		case rng.Float64() < 0.08 && len(tenders) > 0:
			// copied bid documents
			src := tenders[rng.Intn(len(tenders))]
			t.Description = src.Description
			t.TechnicalSpecs = src.TechnicalSpecs
		}

		tenders = append(tenders, t)

		for n := 1 + rng.Intn(3); n > 0; n-- {
			contractNo++
			base, ok := s.Catalog.BasePrices[item]
			if !ok || base <= 0 {
				base = 1_000 + rng.Float64()*99_000
			}
			price := base * (0.9 + 0.2*rng.Float64())
			if rng.Float64() < 0.07 {
				price = base * (1.5 + 1.5*rng.Float64()) // overpriced award
			}
			qty := 1 + rng.Intn(50)

			contracts = append(contracts, &procurement.Contract{
				ContractID:      fmt.Sprintf("CNT-2024-%05d", contractNo),
				TenderID:        t.TenderID,
				SupplierName:    pick(rng.Intn, supplierPool),
				ItemDescription: item,
				UnitPrice:       price,
				Quantity:        qty,
				TotalValue:      price * float64(qty),
				CreatedAt:       now,
			})
		}
	}

	if err := s.Tenders.DeleteAll(ctx); err != nil {
		return nil, err
	}
	if err := s.Contracts.DeleteAll(ctx); err != nil {
		return nil, err
	}
	nt, err := s.Tenders.InsertBatch(ctx, tenders)
	if err != nil {
		return nil, err
	}
	nc, err := s.Contracts.InsertBatch(ctx, contracts)
	if err != nil {
		return nil, err
	}

	return &GenerateSummary{Tenders: nt, Contracts: nc}, nil
}

// GenerateMarketPrices wipes the reference table and seeds count quotes, each
// a normal sample around the item's base price.
func (s *Service) GenerateMarketPrices(ctx context.Context, count int) (int, error) {
	if count <= 0 {
		count = 1000
	}
	rng := s.rng()
	now := s.Clock.Now()

	prices := make([]*procurement.MarketPrice, 0, count)
	for i := 0; i < count; i++ {
		category := pick(rng.Intn, s.Catalog.Categories)
		item := category
		if pool := s.Catalog.Items[category]; len(pool) > 0 {
			item = pool[rng.Intn(len(pool))]
		}
		base, ok := s.Catalog.BasePrices[item]
		if !ok || base <= 0 {
			base = 10_000
		}
		price := stats.NormFloat64(rng, base, base*0.08)
		if price < 1 {
			price = 1
		}

		prices = append(prices, &procurement.MarketPrice{
			ItemName:  item,
			Category:  category,
			UnitPrice: price,
			Source:    pick(rng.Intn, s.Catalog.Sources),
			CreatedAt: now,
		})
	}

	if err := s.Market.DeleteAll(ctx); err != nil {
		return 0, err
	}
	return s.Market.InsertBatch(ctx, prices)
}

func pick(intn func(int) int, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[intn(len(list))]
}
