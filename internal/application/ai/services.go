package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	aidomain "github.com/bryanwahyu/tender-audit/internal/domain/ai"
	"github.com/bryanwahyu/tender-audit/internal/domain/analyst"
	"github.com/bryanwahyu/tender-audit/internal/domain/audit"
)

const maxFindingsPerModel = 10

// Service turns stored detector output into an executive summary via the
// configured ai.Client and keeps the history in the analyst repository.
type Service struct {
	Client    aidomain.Client
	Repo      analyst.Repository
	Results   audit.Repository
	Artifacts audit.ArtifactStore // optional, nil disables report upload
	Clock     Clock
}

// Clock abstraction supaya gampang ditest
type Clock interface {
	Now() time.Time
}

type modelFindings struct {
	ModelType   string   `json:"model_type"`
	Processed   int      `json:"processed"`
	Anomalies   int      `json:"anomalies"`
	TopFindings []string `json:"top_findings"`
}

type findingsDocument struct {
	GeneratedAt  string          `json:"generated_at"`
	Scope        string          `json:"scope"`
	TotalResults int             `json:"total_results"`
	Models       []modelFindings `json:"models"`
}

// Summarize collects the latest audit results for scope ("all" or one model
// type), asks the client for a narrative, and stores the analysis.
func (s *Service) Summarize(ctx context.Context, scope string) (*analyst.Analysis, error) {
	if scope == "" {
		scope = "all"
	}
	if scope != "all" && !audit.ModelType(scope).Valid() {
		return nil, fmt.Errorf("unknown scope %q", scope)
	}

	results, err := s.Results.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	doc := findingsDocument{
		GeneratedAt: s.Clock.Now().Format(time.RFC3339),
		Scope:       scope,
	}
	for _, mt := range []audit.ModelType{audit.ModelProcess, audit.ModelPrice, audit.ModelText} {
		if scope != "all" && scope != string(mt) {
			continue
		}
		mf := modelFindings{ModelType: string(mt), TopFindings: []string{}}
		for _, r := range results {
			if r.ModelType != mt {
				continue
			}
			mf.Processed++
			if r.IsAnomaly {
				mf.Anomalies++
				if len(mf.TopFindings) < maxFindingsPerModel {
					mf.TopFindings = append(mf.TopFindings, fmt.Sprintf("%s: %s", r.TenderID, r.Explanation))
				}
			}
		}
		doc.TotalResults += mf.Processed
		doc.Models = append(doc.Models, mf)
	}
	if doc.TotalResults == 0 {
		return nil, audit.ErrNoResults
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal findings: %w", err)
	}

	summary, err := s.Client.Summarize(ctx, string(payload))
	if err != nil {
		return nil, err
	}

	a := &analyst.Analysis{
		ID:        analyst.AnalysisID(uuid.New().String()),
		Scope:     scope,
		Result:    summary,
		CreatedAt: s.Clock.Now(),
	}
	if s.Artifacts != nil {
		key := fmt.Sprintf("reports/%s.json", a.ID)
		if url, err := s.Artifacts.UploadBytes(ctx, key, []byte(summary), "application/json"); err == nil {
			a.ReportURL = url
		}
	}
	if err := s.Repo.Save(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAnalyses returns stored summaries, newest first.
func (s *Service) ListAnalyses(ctx context.Context, page, pageSize int) ([]*analyst.Analysis, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.Repo.Paginate(ctx, page, pageSize)
}
