package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/tender-audit/internal/domain/analyst"
	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/imports"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTenderRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewTenderRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	n, err := repo.InsertBatch(ctx, []*procurement.Tender{
		{
			TenderID:        "TND-1",
			ProcuringEntity: "Ministry of Health",
			Title:           "Laptops for clinics",
			Category:        "IT Equipment",
			Method:          procurement.MethodOpen,
			DurationDays:    30,
			BidderCount:     5,
			Description:     "Supply of laptops",
			TechnicalSpecs:  "KEBS certified units",
			CreatedAt:       created,
		},
		{
			TenderID:        "TND-2",
			ProcuringEntity: "Nairobi County Government",
			Title:           "Office desks",
			Category:        "Office Furniture",
			Method:          procurement.MethodRestricted,
			DurationDays:    21,
			BidderCount:     4,
			Description:     "Supply of desks",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "TND-1", first.TenderID)
	assert.Equal(t, procurement.MethodOpen, first.Method)
	assert.Equal(t, 30, first.DurationDays)
	assert.Equal(t, 5, first.BidderCount)
	assert.Equal(t, "KEBS certified units", first.TechnicalSpecs)
	assert.True(t, first.CreatedAt.Equal(created))

	// empty specs persist as NULL and come back empty
	second := got[1]
	assert.Equal(t, "", second.TechnicalSpecs)
	// zero CreatedAt is replaced at write time
	assert.False(t, second.CreatedAt.IsZero())

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	require.NoError(t, repo.DeleteAll(ctx))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestTenderRepository_UpsertOnTenderID(t *testing.T) {
	db := testDB(t)
	repo := NewTenderRepository(db)
	ctx := context.Background()

	base := &procurement.Tender{
		TenderID: "TND-1", ProcuringEntity: "Ministry of Health", Title: "Laptops",
		Category: "IT Equipment", Method: procurement.MethodOpen,
		DurationDays: 10, BidderCount: 3, Description: "Supply of laptops",
	}
	_, err := repo.InsertBatch(ctx, []*procurement.Tender{base})
	require.NoError(t, err)

	updated := *base
	updated.DurationDays = 20
	updated.BidderCount = 6
	_, err = repo.InsertBatch(ctx, []*procurement.Tender{&updated})
	require.NoError(t, err)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 20, got[0].DurationDays)
	assert.Equal(t, 6, got[0].BidderCount)
}

func TestContractRepository_ComputesMissingTotal(t *testing.T) {
	db := testDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []*procurement.Contract{{
		ContractID: "CNT-1", TenderID: "TND-1", SupplierName: "Savannah Supplies Ltd",
		ItemDescription: "Laptop", UnitPrice: 100, Quantity: 3,
	}})
	require.NoError(t, err)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 300, got[0].TotalValue, 1e-9)
}

func TestContractRepository_UpsertOnContractID(t *testing.T) {
	db := testDB(t)
	repo := NewContractRepository(db)
	ctx := context.Background()

	_, err := repo.InsertBatch(ctx, []*procurement.Contract{{
		ContractID: "CNT-1", TenderID: "TND-1", SupplierName: "Savannah Supplies Ltd",
		ItemDescription: "Laptop", UnitPrice: 100, Quantity: 3, TotalValue: 300,
	}})
	require.NoError(t, err)

	_, err = repo.InsertBatch(ctx, []*procurement.Contract{{
		ContractID: "CNT-1", TenderID: "TND-1", SupplierName: "Pwani Equipment Co",
		ItemDescription: "Laptop", UnitPrice: 120, Quantity: 3, TotalValue: 360,
	}})
	require.NoError(t, err)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pwani Equipment Co", got[0].SupplierName)
	assert.InDelta(t, 120, got[0].UnitPrice, 1e-9)
}

func TestMarketPriceRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewMarketPriceRepository(db)
	ctx := context.Background()

	n, err := repo.InsertBatch(ctx, []*procurement.MarketPrice{
		{ItemName: "Laptop", Category: "IT Equipment", UnitPrice: 65000, Source: "KEBS"},
		{ItemName: "Desk", Category: "Office Furniture", UnitPrice: 18000, Source: "Market Survey 2024"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Laptop", got[0].ItemName)
	assert.InDelta(t, 65000, got[0].UnitPrice, 1e-9)

	require.NoError(t, repo.DeleteAll(ctx))
	got, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAuditResultRepository_PartitionLifecycle(t *testing.T) {
	db := testDB(t)
	repo := NewAuditResultRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.InsertBatch(ctx, []*domain.Result{
		domain.NewProcessResult("TND-1", true, 0.8, "Single bidder only", now),
		domain.NewProcessResult("TND-2", false, 0.3, "Normal procurement process (score: 0.30)", now),
		domain.NewPriceResult("TND-1", "CNT-1", true, 3.2, "Price 60.0% ABOVE market average", now),
	})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// contract id only set on the price row, NULL elsewhere
	assert.Equal(t, "", all[0].ContractID)
	assert.Equal(t, "CNT-1", all[2].ContractID)
	assert.True(t, all[0].CreatedAt.Equal(now))

	byTender, err := repo.GetByTenderID(ctx, "TND-1")
	require.NoError(t, err)
	require.Len(t, byTender, 2)
	for _, r := range byTender {
		assert.Equal(t, "TND-1", r.TenderID)
	}

	require.NoError(t, repo.DeleteByModelType(ctx, domain.ModelProcess))
	all, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.ModelPrice, all[0].ModelType)
}

func TestImportErrorRepository_SaveAndList(t *testing.T) {
	db := testDB(t)
	repo := NewImportErrorRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	err := repo.SaveBatch(ctx, []*imports.ImportError{
		{BatchID: "batch-a", DataType: "tenders", RowNumber: 7, Reason: "tender_duration_days must be a positive integer", CreatedAt: now},
		{BatchID: "batch-a", DataType: "tenders", RowNumber: 2, Reason: "Missing required field: tender_id", CreatedAt: now},
		{BatchID: "batch-b", DataType: "contracts", RowNumber: 1, Reason: "quantity must be a positive integer", CreatedAt: now},
	})
	require.NoError(t, err)

	got, err := repo.ListByBatch(ctx, "batch-a", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// ordered by row number regardless of insert order
	assert.Equal(t, 2, got[0].RowNumber)
	assert.Equal(t, 7, got[1].RowNumber)
	assert.Equal(t, "Missing required field: tender_id", got[0].Reason)

	limited, err := repo.ListByBatch(ctx, "batch-a", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 2, limited[0].RowNumber)
}

func TestAnalystRepository_SaveAndPaginate(t *testing.T) {
	db := testDB(t)
	repo := NewAnalystRepository(db)
	ctx := context.Background()

	older := &analyst.Analysis{
		ID:        "a1",
		Scope:     "all",
		Result:    "",
		CreatedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	newer := &analyst.Analysis{
		ID:        "a2",
		Scope:     "price",
		Result:    `{"risk_level":"high"}`,
		ReportURL: "https://archive.local/reports/a2.json",
		CreatedAt: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	got, err := repo.Paginate(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, analyst.AnalysisID("a2"), got[0].ID)
	assert.Equal(t, analyst.AnalysisID("a1"), got[1].ID)
	// blank results are stored as an empty JSON object
	assert.Equal(t, "{}", got[1].Result)
	assert.Equal(t, `{"risk_level":"high"}`, got[0].Result)

	// saving the same id replaces the record
	older.Result = `{"risk_level":"low"}`
	require.NoError(t, repo.Save(ctx, older))
	got, err = repo.Paginate(ctx, 1, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, `{"risk_level":"low"}`, got[1].Result)

	empty, err := repo.Paginate(ctx, 2, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
