package httpserver

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/tender-audit/internal/application"
	appai "github.com/bryanwahyu/tender-audit/internal/application/ai"
	appaudit "github.com/bryanwahyu/tender-audit/internal/application/audit"
	appeval "github.com/bryanwahyu/tender-audit/internal/application/evaluation"
	appingest "github.com/bryanwahyu/tender-audit/internal/application/ingest"
	"github.com/bryanwahyu/tender-audit/internal/config"
	"github.com/bryanwahyu/tender-audit/internal/infra/ai/prompt"
	"github.com/bryanwahyu/tender-audit/internal/infra/db/sqlite"
)

// newTestServer wires the full stack against a throwaway sqlite file, the
// same shape main assembles.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	db, err := sqlite.Connect(context.Background(), filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	tenders := sqlite.NewTenderRepository(db)
	contracts := sqlite.NewContractRepository(db)
	market := sqlite.NewMarketPriceRepository(db)
	results := sqlite.NewAuditResultRepository(db)
	importLog := sqlite.NewImportErrorRepository(db)
	analyses := sqlite.NewAnalystRepository(db)

	auditSvc := &appaudit.Service{
		Tenders:       tenders,
		Contracts:     contracts,
		Market:        market,
		Results:       results,
		Clock:         application.SystemClock{},
		Rand:          rand.New(rand.NewSource(11)),
		BrandKeywords: cfg.Audit.BrandKeywords,
	}
	evalSvc := &appeval.Service{Tenders: tenders, Results: results}
	ingestSvc := &appingest.Service{
		Tenders:   tenders,
		Contracts: contracts,
		Market:    market,
		Results:   results,
		ImportLog: importLog,
		Clock:     application.SystemClock{},
		Catalog: appingest.Catalog{
			Entities:   cfg.Generator.Entities,
			Categories: cfg.Generator.Categories,
			Sources:    cfg.Generator.Sources,
			Brands:     cfg.Audit.BrandKeywords,
			Items:      cfg.Generator.Items,
			BasePrices: cfg.Generator.BasePrices,
		},
		Rand: rand.New(rand.NewSource(11)),
	}
	aiSvc := &appai.Service{
		Client:  prompt.NewLocalAnalyst(),
		Repo:    analyses,
		Results: results,
		Clock:   application.SystemClock{},
	}

	return NewRouter(auditSvc, evalSvc, ingestSvc, aiSvc, db)
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:40000"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestRouter_FullLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// seed synthetic data
	rec := doRequest(t, srv, http.MethodPost, "/api/data/generate-ppip?count=30", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 30, body["tenders"])

	rec = doRequest(t, srv, http.MethodPost, "/api/data/generate-market-prices?count=200", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.EqualValues(t, 200, body["count"])

	// run every detector
	rec = doRequest(t, srv, http.MethodPost, "/api/models/run-all", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	results := body["results"].(map[string]any)
	process := results["process"].(map[string]any)
	assert.EqualValues(t, 30, process["total_processed"])
	price := results["price"].(map[string]any)
	assert.Contains(t, price["total_overspend"], "KES ")

	// stored data is visible through the read endpoints
	rec = doRequest(t, srv, http.MethodGet, "/api/data/tenders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Len(t, body["data"], 30)

	rec = doRequest(t, srv, http.MethodGet, "/api/data/audit-results?tender_id=TND-2024-00001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	rows := body["data"].([]any)
	require.GreaterOrEqual(t, len(rows), 2)
	for _, row := range rows {
		assert.Equal(t, "TND-2024-00001", row.(map[string]any)["tender_id"])
	}

	// evaluation over the stored run
	rec = doRequest(t, srv, http.MethodPost, "/api/evaluation/evaluate", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	processModel := body["processModel"].(map[string]any)
	assert.Equal(t, "Isolation Forest (Process Anomaly Detector)", processModel["name"])
	coverage := body["coverageMetrics"].(map[string]any)
	assert.EqualValues(t, 30, coverage["totalTenders"])

	// AI summary via the local analyst
	rec = doRequest(t, srv, http.MethodPost, "/api/ai/summarize", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decodeBody(t, rec)
	assert.Equal(t, "all", body["scope"])
	assert.Contains(t, body["result"], "executive_summary")

	rec = doRequest(t, srv, http.MethodGet, "/api/ai/summaries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "all", summaries[0]["scope"])

	// CSV export round trip
	rec = doRequest(t, srv, http.MethodGet, "/api/data/export?dataType=tenders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=tenders.csv", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "tender_id,procuring_entity,"))

	// the run above shows up in the scrape output
	rec = doRequest(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tender_audit_http_requests_total")
	assert.Contains(t, rec.Body.String(), "tender_audit_model_runs_total")
}

func TestRouter_ModelRunWithoutData(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/models/process-anomaly", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no tenders found", body["error"])
}

func TestRouter_ImportTenders(t *testing.T) {
	srv := newTestServer(t)

	csvContent := "tender_id,procuring_entity,tender_title,category,procurement_method,tender_duration_days,number_of_bidders,tender_description\n" +
		"TND-1,Ministry of Health,Laptops,IT Equipment,Open,30,5,Supply of laptops\n" +
		"TND-2,Ministry of Health,Desks,Office Furniture,Sealed,21,4,Supply of desks\n"
	payload, err := json.Marshal(map[string]any{
		"dataType":   "tenders",
		"csvContent": csvContent,
	})
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodPost, "/api/data/import", string(payload))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Imported 1 records, skipped 1", body["message"])
	assert.EqualValues(t, 1, body["imported"])
	assert.EqualValues(t, 1, body["skipped"])
	assert.NotEmpty(t, body["batch_id"])
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "Row 2: procurement_method must be 'Open' or 'Restricted'", errs[0])

	rec = doRequest(t, srv, http.MethodGet, "/api/data/tenders", "")
	body = decodeBody(t, rec)
	assert.Len(t, body["data"], 1)
}

func TestRouter_ImportRejectsBadDataType(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/data/import",
		`{"dataType":"suppliers","csvContent":"a,b\n1,2\n"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "invalid dataType: suppliers")
}

func TestRouter_ExportRejectsBadDataType(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/data/export?dataType=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SummarizeWithoutResults(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/ai/summarize", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "no audit results found", body["error"])
}

func TestRouter_SummarizeRejectsBadScope(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/ai/summarize", `{"scope":"weather"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EvaluateWithoutData(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/evaluation/evaluate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "no data available for evaluation", body["error"])
}

func TestRouter_BannerAndProbes(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tender-audit", body["service"])

	rec = doRequest(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
