package ai

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/tender-audit/internal/domain/analyst"
	"github.com/bryanwahyu/tender-audit/internal/domain/audit"
)

type cannedClient struct {
	summary string
	err     error
	gotDoc  string
}

func (c *cannedClient) Summarize(ctx context.Context, findingsJSON string) (string, error) {
	c.gotDoc = findingsJSON
	return c.summary, c.err
}

type recordingAnalystRepo struct {
	saved    []*analyst.Analysis
	page     int
	pageSize int
}

func (r *recordingAnalystRepo) Save(ctx context.Context, a *analyst.Analysis) error {
	r.saved = append(r.saved, a)
	return nil
}

func (r *recordingAnalystRepo) Paginate(ctx context.Context, page, pageSize int) ([]*analyst.Analysis, error) {
	r.page, r.pageSize = page, pageSize
	return r.saved, nil
}

type frozenResults struct{ results []*audit.Result }

func (f *frozenResults) GetAll(ctx context.Context) ([]*audit.Result, error) { return f.results, nil }
func (f *frozenResults) GetByTenderID(ctx context.Context, tenderID string) ([]*audit.Result, error) {
	return nil, nil
}
func (f *frozenResults) DeleteByModelType(ctx context.Context, model audit.ModelType) error {
	return nil
}
func (f *frozenResults) InsertBatch(ctx context.Context, results []*audit.Result) (int, error) {
	return 0, nil
}

type frozenClock struct{ t time.Time }

func (c frozenClock) Now() time.Time { return c.t }

type captureStore struct{ keys []string }

func (s *captureStore) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.keys = append(s.keys, key)
	return "https://archive.local/" + key, nil
}

func seedResults() []*audit.Result {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return []*audit.Result{
		audit.NewProcessResult("TND-1", true, 0.8, "Single bidder only", now),
		audit.NewProcessResult("TND-2", false, 0.3, "Normal procurement process (score: 0.30)", now),
		audit.NewPriceResult("TND-3", "CNT-3", true, 3.2, "Price 60.0% ABOVE market average", now),
		audit.NewTextResult("TND-4", false, 0, "No text anomalies detected", now),
	}
}

func newAIService(results []*audit.Result) (*Service, *cannedClient, *recordingAnalystRepo) {
	client := &cannedClient{summary: `{"risk_level":"high"}`}
	repo := &recordingAnalystRepo{}
	svc := &Service{
		Client:  client,
		Repo:    repo,
		Results: &frozenResults{results: results},
		Clock:   frozenClock{t: time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC)},
	}
	return svc, client, repo
}

func TestSummarize_AllScope(t *testing.T) {
	svc, client, repo := newAIService(seedResults())

	a, err := svc.Summarize(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "all", a.Scope)
	assert.Equal(t, `{"risk_level":"high"}`, a.Result)
	assert.Equal(t, svc.Clock.Now(), a.CreatedAt)
	_, err = uuid.Parse(string(a.ID))
	assert.NoError(t, err)

	require.Len(t, repo.saved, 1)
	assert.Same(t, a, repo.saved[0])

	var doc struct {
		Scope        string `json:"scope"`
		TotalResults int    `json:"total_results"`
		Models       []struct {
			ModelType   string   `json:"model_type"`
			Processed   int      `json:"processed"`
			Anomalies   int      `json:"anomalies"`
			TopFindings []string `json:"top_findings"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(client.gotDoc), &doc))
	assert.Equal(t, "all", doc.Scope)
	assert.Equal(t, 4, doc.TotalResults)
	require.Len(t, doc.Models, 3)
	assert.Equal(t, "process", doc.Models[0].ModelType)
	assert.Equal(t, 2, doc.Models[0].Processed)
	assert.Equal(t, 1, doc.Models[0].Anomalies)
	assert.Equal(t, []string{"TND-1: Single bidder only"}, doc.Models[0].TopFindings)
	assert.Equal(t, "text", doc.Models[2].ModelType)
	assert.Empty(t, doc.Models[2].TopFindings)
}

func TestSummarize_SingleModelScope(t *testing.T) {
	svc, client, _ := newAIService(seedResults())

	a, err := svc.Summarize(context.Background(), "price")
	require.NoError(t, err)
	assert.Equal(t, "price", a.Scope)

	var doc struct {
		TotalResults int `json:"total_results"`
		Models       []struct {
			ModelType string `json:"model_type"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(client.gotDoc), &doc))
	assert.Equal(t, 1, doc.TotalResults)
	require.Len(t, doc.Models, 1)
	assert.Equal(t, "price", doc.Models[0].ModelType)
}

func TestSummarize_UnknownScope(t *testing.T) {
	svc, _, _ := newAIService(seedResults())

	_, err := svc.Summarize(context.Background(), "weather")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown scope "weather"`)
}

func TestSummarize_NoResults(t *testing.T) {
	svc, _, _ := newAIService(nil)
	_, err := svc.Summarize(context.Background(), "all")
	assert.ErrorIs(t, err, audit.ErrNoResults)

	// results exist but none for the requested scope
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, _, _ = newAIService([]*audit.Result{
		audit.NewProcessResult("TND-1", true, 0.8, "Single bidder only", now),
	})
	_, err = svc.Summarize(context.Background(), "price")
	assert.ErrorIs(t, err, audit.ErrNoResults)
}

func TestSummarize_UploadsReport(t *testing.T) {
	svc, _, _ := newAIService(seedResults())
	store := &captureStore{}
	svc.Artifacts = store

	a, err := svc.Summarize(context.Background(), "all")
	require.NoError(t, err)

	require.Len(t, store.keys, 1)
	assert.Equal(t, "reports/"+string(a.ID)+".json", store.keys[0])
	assert.Equal(t, "https://archive.local/reports/"+string(a.ID)+".json", a.ReportURL)
}

func TestListAnalyses_ClampsPaging(t *testing.T) {
	svc, _, repo := newAIService(seedResults())

	_, err := svc.ListAnalyses(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.page)
	assert.Equal(t, 20, repo.pageSize)

	_, err = svc.ListAnalyses(context.Background(), 3, 500)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.page)
	assert.Equal(t, 20, repo.pageSize)
}
