package audit

import (
	"context"
	"fmt"
	"math"
	"strings"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/textmine"
)

// Cosine similarity above this marks two tender documents as suspiciously
// close. Identical documents (similarity 1.0) are included.
const collusionThreshold = 0.85

// RunTextModel scans tender documents for brand-biased specifications and
// near-duplicate text across tenders, then replaces the text result partition.
func (s *Service) RunTextModel(ctx context.Context) (domain.RunSummary, error) {
	tenders, err := s.Tenders.GetAll(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(tenders) == 0 {
		return domain.RunSummary{}, procurement.ErrNoTenders
	}

	docs := make([]string, len(tenders))
	for i, t := range tenders {
		docs[i] = t.Document()
	}
	vectors := textmine.Vectorize(docs)

	now := s.Clock.Now()
	results := make([]*domain.Result, 0, len(tenders))
	seenPairs := make(map[string]bool)
	flagged := 0
	for i, t := range tenders {
		brands := matchBrands(docs[i], s.BrandKeywords)

		// track only the single highest-similarity partner
		var bestSim float64
		var bestPartner string
		for j := range tenders {
			if j == i {
				continue
			}
			if sim := textmine.Cosine(vectors[i], vectors[j]); sim > bestSim {
				bestSim = sim
				bestPartner = tenders[j].TenderID
			}
		}

		hasBias := len(brands) > 0
		hasCollusion := bestSim > collusionThreshold

		var score float64
		var expl string
		switch {
		case hasBias && hasCollusion:
			score = math.Max(0.9, bestSim)
			expl = fmt.Sprintf("Brand bias detected: %s ALSO: High similarity to tender %s (%.1f%% match)",
				strings.Join(brands, ", "), bestPartner, bestSim*100)
		case hasBias:
			score = 0.9
			expl = fmt.Sprintf("Brand bias detected: %s", strings.Join(brands, ", "))
		case hasCollusion:
			score = bestSim
			expl = fmt.Sprintf("High similarity to tender %s (%.1f%% match). Possible bid coordination or shared documents",
				bestPartner, bestSim*100)
		default:
			expl = "No text anomalies detected"
		}

		// Both members of a near-duplicate pair get a flagged row, but the
		// run summary counts each pair once.
		pairNew := false
		if hasCollusion {
			key := pairKey(t.TenderID, bestPartner)
			if !seenPairs[key] {
				seenPairs[key] = true
				pairNew = true
			}
		}
		if hasBias || (hasCollusion && pairNew) {
			flagged++
		}

		results = append(results, domain.NewTextResult(
			t.TenderID, hasBias || hasCollusion, score, expl, now))
	}

	if err := s.replaceResults(ctx, domain.ModelText, results); err != nil {
		return domain.RunSummary{}, err
	}

	return domain.RunSummary{
		ModelType:      domain.ModelText,
		TotalProcessed: len(tenders),
		AnomaliesFound: flagged,
	}, nil
}

// matchBrands returns the catalog entries appearing in the document,
// case-insensitive substring match.
func matchBrands(doc string, brands []string) []string {
	lower := strings.ToLower(doc)
	var out []string
	for _, b := range brands {
		if strings.Contains(lower, strings.ToLower(b)) {
			out = append(out, b)
		}
	}
	return out
}

// pairKey canonicalizes a tender pair so (a,b) and (b,a) collapse to one key.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}
