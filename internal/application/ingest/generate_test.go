package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

func TestGeneratePPIP(t *testing.T) {
	svc, tenders, contracts, _, _ := newIngestService()
	tenders.tenders = []*procurement.Tender{{TenderID: "TND-STALE"}}
	contracts.contracts = []*procurement.Contract{{ContractID: "CNT-STALE"}}

	sum, err := svc.GeneratePPIP(context.Background(), 20)
	require.NoError(t, err)

	assert.Equal(t, 20, sum.Tenders)
	assert.GreaterOrEqual(t, sum.Contracts, 20)
	assert.LessOrEqual(t, sum.Contracts, 60)

	assert.True(t, tenders.cleared)
	assert.True(t, contracts.cleared)
	require.Len(t, tenders.tenders, 20)
	require.Len(t, contracts.contracts, sum.Contracts)

	catalog := testCatalog()
	knownItems := map[string]bool{}
	for _, pool := range catalog.Items {
		for _, item := range pool {
			knownItems[item] = true
		}
	}
	tenderIDs := map[string]bool{}
	for i, tn := range tenders.tenders {
		assert.Equal(t, fmt.Sprintf("TND-2024-%05d", i+1), tn.TenderID)
		assert.True(t, tn.Method.Valid())
		assert.GreaterOrEqual(t, tn.DurationDays, 3)
		assert.GreaterOrEqual(t, tn.BidderCount, 1)
		assert.Contains(t, catalog.Entities, tn.ProcuringEntity)
		assert.Contains(t, catalog.Categories, tn.Category)
		assert.NotEmpty(t, tn.Description)
		assert.Equal(t, svc.Clock.Now(), tn.CreatedAt)
		tenderIDs[tn.TenderID] = true
	}
	for _, c := range contracts.contracts {
		assert.True(t, tenderIDs[c.TenderID], "contract %s references unknown tender %s", c.ContractID, c.TenderID)
		assert.True(t, knownItems[c.ItemDescription])
		assert.Greater(t, c.UnitPrice, 0.0)
		assert.GreaterOrEqual(t, c.Quantity, 1)
		assert.InDelta(t, c.UnitPrice*float64(c.Quantity), c.TotalValue, 1e-6)
	}
}

func TestGeneratePPIP_DefaultCount(t *testing.T) {
	svc, tenders, _, _, _ := newIngestService()

	sum, err := svc.GeneratePPIP(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 50, sum.Tenders)
	assert.Len(t, tenders.tenders, 50)
}

func TestGenerateMarketPrices(t *testing.T) {
	svc, _, _, market, _ := newIngestService()
	market.prices = []*procurement.MarketPrice{{ItemName: "Stale"}}

	n, err := svc.GenerateMarketPrices(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, 100, n)
	assert.True(t, market.cleared)
	require.Len(t, market.prices, 100)

	catalog := testCatalog()
	for _, p := range market.prices {
		assert.GreaterOrEqual(t, p.UnitPrice, 1.0)
		assert.Contains(t, catalog.Categories, p.Category)
		assert.Contains(t, catalog.Sources, p.Source)
		assert.NotEmpty(t, p.ItemName)
	}
}

func TestGenerateMarketPrices_DefaultCount(t *testing.T) {
	svc, _, _, market, _ := newIngestService()

	n, err := svc.GenerateMarketPrices(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 1000, n)
	assert.Len(t, market.prices, 1000)
}
