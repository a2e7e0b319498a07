package audit

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/isoforest"
)

// RunProcessModel fits a fresh isolation forest over the tender features
// [duration, bidders, method] and replaces the process result partition.
func (s *Service) RunProcessModel(ctx context.Context) (domain.RunSummary, error) {
	tenders, err := s.Tenders.GetAll(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(tenders) == 0 {
		return domain.RunSummary{}, procurement.ErrNoTenders
	}

	features := make([][]float64, len(tenders))
	for i, t := range tenders {
		features[i] = []float64{
			float64(t.DurationDays),
			float64(t.BidderCount),
			t.Method.Encoded(),
		}
	}

	forest := isoforest.New(s.rng())
	if err := forest.Fit(features); err != nil {
		return domain.RunSummary{}, err
	}

	now := s.Clock.Now()
	results := make([]*domain.Result, 0, len(tenders))
	flagged := 0
	for i, t := range tenders {
		score, err := forest.Score(features[i])
		if err != nil {
			return domain.RunSummary{}, err
		}
		anomalous := isoforest.Anomalous(score)
		if anomalous {
			flagged++
		}
		results = append(results, domain.NewProcessResult(
			t.TenderID, anomalous, score, processExplanation(t, score, anomalous), now))
	}

	if err := s.replaceResults(ctx, domain.ModelProcess, results); err != nil {
		return domain.RunSummary{}, err
	}

	return domain.RunSummary{
		ModelType:      domain.ModelProcess,
		TotalProcessed: len(tenders),
		AnomaliesFound: flagged,
	}, nil
}

// processExplanation translates a flagged tender into audit language. Rule
// matches are joined by " | "; a flag with no matching rule falls back to a
// generic statistical message.
func processExplanation(t *procurement.Tender, score float64, anomalous bool) string {
	if !anomalous {
		return fmt.Sprintf("Normal procurement process (score: %.2f)", score)
	}

	open := t.Method == procurement.MethodOpen
	var reasons []string
	if t.DurationDays < 14 && open {
		reasons = append(reasons, fmt.Sprintf("Short tender window (%d days) for an open tender", t.DurationDays))
	}
	if t.BidderCount == 1 {
		reasons = append(reasons, "Single bidder only")
	}
	if t.BidderCount <= 2 && open {
		reasons = append(reasons, fmt.Sprintf("Low competition (%d bidders) for an open tender", t.BidderCount))
	}
	if t.DurationDays < 10 && t.BidderCount <= 2 && open {
		reasons = append(reasons, "Short window and minimal competition suggest specifications may be wired for a preferred supplier")
	}
	if len(reasons) == 0 {
		return fmt.Sprintf("Statistical deviation from typical procurement patterns (score: %.2f)", score)
	}
	return strings.Join(reasons, " | ")
}
