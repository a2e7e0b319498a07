package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/tender-audit/internal/application/ai"
	appaudit "github.com/bryanwahyu/tender-audit/internal/application/audit"
	appeval "github.com/bryanwahyu/tender-audit/internal/application/evaluation"
	appingest "github.com/bryanwahyu/tender-audit/internal/application/ingest"
	domai "github.com/bryanwahyu/tender-audit/internal/domain/ai"
	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/middleware"
)

type Router struct {
	auditSvc  *appaudit.Service
	evalSvc   *appeval.Service
	ingestSvc *appingest.Service
	aiSvc     *appai.Service
}

func NewRouter(auditSvc *appaudit.Service, evalSvc *appeval.Service, ingestSvc *appingest.Service, aiSvc *appai.Service, db *sql.DB) http.Handler {
	rt := &Router{auditSvc: auditSvc, evalSvc: evalSvc, ingestSvc: ingestSvc, aiSvc: aiSvc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(100, 10))
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service": "tender-audit",
			"message": "Procurement tender anomaly detection API",
			"health":  "/health",
			"metrics": "/metrics",
		})
	})

	mux.Get("/health", middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}))
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Handle("/metrics", middleware.MetricsHandler())

	mux.Route("/api", func(api chi.Router) {
		api.Route("/models", func(m chi.Router) {
			m.Post("/process-anomaly", rt.wrap(rt.handleRunProcess))
			m.Post("/price-anomaly", rt.wrap(rt.handleRunPrice))
			m.Post("/text-anomaly", rt.wrap(rt.handleRunText))
			m.Post("/run-all", rt.wrap(rt.handleRunAll))
		})

		api.Post("/evaluation/evaluate", rt.wrap(rt.handleEvaluate))

		api.Route("/data", func(d chi.Router) {
			d.Get("/tenders", rt.wrap(rt.handleListTenders))
			d.Get("/contracts", rt.wrap(rt.handleListContracts))
			d.Get("/market-prices", rt.wrap(rt.handleListMarketPrices))
			d.Get("/audit-results", rt.wrap(rt.handleListAuditResults))
			d.Post("/import", rt.wrap(rt.handleImport))
			d.Get("/export", rt.wrap(rt.handleExport))
			d.Post("/generate-ppip", rt.wrap(rt.handleGeneratePPIP))
			d.Post("/generate-market-prices", rt.wrap(rt.handleGenerateMarketPrices))
		})

		api.Route("/ai", func(a chi.Router) {
			a.Post("/summarize", rt.wrap(rt.handleSummarize))
			a.Get("/summaries", rt.wrap(rt.handleListSummaries))
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (rt *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows),
				errors.Is(err, procurement.ErrNoTenders),
				errors.Is(err, procurement.ErrNoContracts),
				errors.Is(err, procurement.ErrNoMarketPrices),
				errors.Is(err, domain.ErrNoEvaluationData),
				errors.Is(err, domain.ErrNoResults):
				writeError(w, http.StatusNotFound, err)
			case errors.Is(err, appingest.ErrInvalidRequest):
				writeError(w, http.StatusBadRequest, err)
			case errors.Is(err, domai.ErrQuotaExceeded):
				writeError(w, http.StatusTooManyRequests, err)
			default:
				writeError(w, http.StatusInternalServerError, err)
			}
		}
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}

type runResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	TotalProcessed int    `json:"total_processed"`
	AnomaliesFound int    `json:"anomalies_found"`
	TotalOverspend string `json:"total_overspend,omitempty"`
}

func runResponseFrom(sum domain.RunSummary) runResponse {
	resp := runResponse{
		Success:        true,
		Message:        fmt.Sprintf("Processed %d tenders, found %d anomalies", sum.TotalProcessed, sum.AnomaliesFound),
		TotalProcessed: sum.TotalProcessed,
		AnomaliesFound: sum.AnomaliesFound,
	}
	if sum.ModelType == domain.ModelPrice {
		resp.TotalOverspend = "KES " + humanize.CommafWithDigits(sum.TotalOverspend, 2)
	}
	return resp
}

// POST /api/models/process-anomaly
func (rt *Router) handleRunProcess(w http.ResponseWriter, req *http.Request) error {
	sum, err := rt.auditSvc.RunProcessModel(req.Context())
	middleware.RecordModelRun(string(domain.ModelProcess), err)
	if err != nil {
		return err
	}
	middleware.RecordAnomalies(string(domain.ModelProcess), sum.AnomaliesFound)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(runResponseFrom(sum))
}

// POST /api/models/price-anomaly
func (rt *Router) handleRunPrice(w http.ResponseWriter, req *http.Request) error {
	sum, err := rt.auditSvc.RunPriceModel(req.Context())
	middleware.RecordModelRun(string(domain.ModelPrice), err)
	if err != nil {
		return err
	}
	middleware.RecordAnomalies(string(domain.ModelPrice), sum.AnomaliesFound)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(runResponseFrom(sum))
}

// POST /api/models/text-anomaly
func (rt *Router) handleRunText(w http.ResponseWriter, req *http.Request) error {
	sum, err := rt.auditSvc.RunTextModel(req.Context())
	middleware.RecordModelRun(string(domain.ModelText), err)
	if err != nil {
		return err
	}
	middleware.RecordAnomalies(string(domain.ModelText), sum.AnomaliesFound)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(runResponseFrom(sum))
}

// POST /api/models/run-all
func (rt *Router) handleRunAll(w http.ResponseWriter, req *http.Request) error {
	all, err := rt.auditSvc.RunAll(req.Context())
	middleware.RecordModelRun("all", err)
	if err != nil {
		return err
	}
	for _, sum := range []domain.RunSummary{all.Process, all.Price, all.Text} {
		middleware.RecordAnomalies(string(sum.ModelType), sum.AnomaliesFound)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": "All models executed successfully",
		"results": map[string]any{
			"process": runResponseFrom(all.Process),
			"price":   runResponseFrom(all.Price),
			"text":    runResponseFrom(all.Text),
		},
	})
}

// POST /api/evaluation/evaluate
func (rt *Router) handleEvaluate(w http.ResponseWriter, req *http.Request) error {
	report, err := rt.evalSvc.Evaluate(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(report)
}

// GET /api/data/tenders
func (rt *Router) handleListTenders(w http.ResponseWriter, req *http.Request) error {
	list, err := rt.ingestSvc.ListTenders(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"data": list})
}

// GET /api/data/contracts
func (rt *Router) handleListContracts(w http.ResponseWriter, req *http.Request) error {
	list, err := rt.ingestSvc.ListContracts(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"data": list})
}

// GET /api/data/market-prices
func (rt *Router) handleListMarketPrices(w http.ResponseWriter, req *http.Request) error {
	list, err := rt.ingestSvc.ListMarketPrices(req.Context())
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"data": list})
}

// GET /api/data/audit-results?tender_id=TND-2024-00001
func (rt *Router) handleListAuditResults(w http.ResponseWriter, req *http.Request) error {
	tenderID := req.URL.Query().Get("tender_id")
	list, err := rt.ingestSvc.ListAuditResults(req.Context(), tenderID)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{"data": list})
}

// POST /api/data/import
// Body: {"dataType": "tenders", "csvContent": "...", "clearExisting": false}
func (rt *Router) handleImport(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		DataType      string `json:"dataType"`
		CSVContent    string `json:"csvContent"`
		ClearExisting bool   `json:"clearExisting"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", appingest.ErrInvalidRequest, err)
	}
	if err := middleware.ValidateImportDataType(body.DataType); err != nil {
		return fmt.Errorf("%w: %v", appingest.ErrInvalidRequest, err)
	}

	res, err := rt.ingestSvc.ImportCSV(req.Context(), appingest.ImportCommand{
		DataType:      body.DataType,
		CSVContent:    body.CSVContent,
		ClearExisting: body.ClearExisting,
	})
	if err != nil {
		return err
	}

	resp := map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("Imported %d records, skipped %d", res.Imported, res.Skipped),
		"imported": res.Imported,
		"skipped":  res.Skipped,
		"batch_id": res.BatchID,
		"errors":   res.Errors,
	}
	if res.ArchiveURL != "" {
		resp["archive_url"] = res.ArchiveURL
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// GET /api/data/export?dataType=tenders
func (rt *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	dataType := req.URL.Query().Get("dataType")
	if err := middleware.ValidateExportDataType(dataType); err != nil {
		return fmt.Errorf("%w: %v", appingest.ErrInvalidRequest, err)
	}

	data, filename, err := rt.ingestSvc.ExportCSV(req.Context(), dataType)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	_, err = w.Write(data)
	return err
}

// POST /api/data/generate-ppip?count=50
func (rt *Router) handleGeneratePPIP(w http.ResponseWriter, req *http.Request) error {
	count, _ := strconv.Atoi(req.URL.Query().Get("count"))
	count = middleware.ValidateCount(count, 50, 1000)

	sum, err := rt.ingestSvc.GeneratePPIP(req.Context(), count)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Generated %d tenders and %d contracts", sum.Tenders, sum.Contracts),
		"tenders":   sum.Tenders,
		"contracts": sum.Contracts,
	})
}

// POST /api/data/generate-market-prices?count=1000
func (rt *Router) handleGenerateMarketPrices(w http.ResponseWriter, req *http.Request) error {
	count, _ := strconv.Atoi(req.URL.Query().Get("count"))
	count = middleware.ValidateCount(count, 1000, 10000)

	n, err := rt.ingestSvc.GenerateMarketPrices(req.Context(), count)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"message": fmt.Sprintf("Generated %d market price records", n),
		"count":   n,
	})
}

// POST /api/ai/summarize
// Body: {"scope": "all"} (optional, defaults to all models)
func (rt *Router) handleSummarize(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Scope string `json:"scope"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: invalid JSON body: %v", appingest.ErrInvalidRequest, err)
	}
	if err := middleware.ValidateScope(body.Scope); err != nil {
		return fmt.Errorf("%w: %v", appingest.ErrInvalidRequest, err)
	}

	analysis, err := rt.aiSvc.Summarize(req.Context(), body.Scope)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(analysis)
}

// GET /api/ai/summaries?page=&page_size=
func (rt *Router) handleListSummaries(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	page = middleware.ValidatePage(page)
	size = middleware.ValidatePageSize(size)

	list, err := rt.aiSvc.ListAnalyses(req.Context(), page, size)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(list)
}
