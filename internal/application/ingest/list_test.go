package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

func TestListTenders_EmptyTableIsNotNil(t *testing.T) {
	svc, _, _, _, _ := newIngestService()

	list, err := svc.ListTenders(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListAuditResults_FilterByTender(t *testing.T) {
	svc, _, _, _, _ := newIngestService()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.Results = &memResultRepo{results: []*domain.Result{
		domain.NewProcessResult("TND-1", true, 0.8, "flagged", now),
		domain.NewProcessResult("TND-2", false, 0.3, "clean", now),
		domain.NewTextResult("TND-1", false, 0.1, "clean", now),
	}}

	all, err := svc.ListAuditResults(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := svc.ListAuditResults(context.Background(), "TND-1")
	require.NoError(t, err)
	require.Len(t, one, 2)
	for _, r := range one {
		assert.Equal(t, "TND-1", r.TenderID)
	}
}

func TestListMarketPrices(t *testing.T) {
	svc, _, _, market, _ := newIngestService()
	market.prices = []*procurement.MarketPrice{{ItemName: "Laptop", UnitPrice: 65000}}

	list, err := svc.ListMarketPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Laptop", list[0].ItemName)
}
