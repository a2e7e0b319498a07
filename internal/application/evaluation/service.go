package evaluation

import (
	"context"
	"fmt"
	"math"
	"sort"

	domain "github.com/bryanwahyu/tender-audit/internal/domain/audit"
	"github.com/bryanwahyu/tender-audit/internal/domain/procurement"
	"github.com/bryanwahyu/tender-audit/internal/stats"
)

// Ground truth proxy: a tender counts as truly suspicious when the window is
// short and competition minimal. The proxy is heuristic, not labeled data.
const (
	truthMaxDuration = 14
	truthMaxBidders  = 2
)

// epsilon keeps the ratio-style importance and SHAP formulas defined when a
// baseline average is zero.
const epsilon = 1e-6

// Service scores the stored detector output against the ground truth proxy
// and reports cross-model coverage.
type Service struct {
	Tenders procurement.TenderRepository
	Results domain.Repository
}

type Report struct {
	ProcessModel    ProcessModelReport `json:"processModel"`
	PriceModel      SimpleModelReport  `json:"priceModel"`
	TextModel       SimpleModelReport  `json:"textModel"`
	ShapAnalysis    *ShapAnalysis      `json:"shapAnalysis"`
	CoverageMetrics CoverageMetrics    `json:"coverageMetrics"`
}

type ProcessModelReport struct {
	Name              string              `json:"name"`
	Metrics           Metrics             `json:"metrics"`
	FeatureImportance []FeatureImportance `json:"featureImportance"`
	Description       string              `json:"description"`
}

type Metrics struct {
	Accuracy        float64   `json:"accuracy"`
	Precision       float64   `json:"precision"`
	Recall          float64   `json:"recall"`
	F1Score         float64   `json:"f1Score"`
	TruePositives   int       `json:"truePositives"`
	TrueNegatives   int       `json:"trueNegatives"`
	FalsePositives  int       `json:"falsePositives"`
	FalseNegatives  int       `json:"falseNegatives"`
	ConfusionMatrix [2][2]int `json:"confusionMatrix"`
}

type FeatureImportance struct {
	Feature     string  `json:"feature"`
	Importance  float64 `json:"importance"`
	Description string  `json:"description"`
}

type SimpleModelReport struct {
	Name              string `json:"name"`
	AnomaliesDetected int    `json:"anomaliesDetected"`
	Description       string `json:"description"`
}

type ShapAnalysis struct {
	SampleTenderID string      `json:"sampleTenderId"`
	Values         []ShapValue `json:"values"`
	Description    string      `json:"description"`
}

type ShapValue struct {
	Feature      string  `json:"feature"`
	ShapValue    float64 `json:"shapValue"`
	Contribution string  `json:"contribution"`
}

type CoverageMetrics struct {
	TotalTenders     int             `json:"totalTenders"`
	ProcessAnomalies int             `json:"processAnomalies"`
	PriceAnomalies   int             `json:"priceAnomalies"`
	TextAnomalies    int             `json:"textAnomalies"`
	OverallCoverage  OverallCoverage `json:"overallCoverage"`
}

type OverallCoverage struct {
	FlaggedByAnyModel       int `json:"flaggedByAnyModel"`
	FlaggedByMultipleModels int `json:"flaggedByMultipleModels"`
}

// Evaluate builds the full report over the current tenders and stored audit
// results. Either table being empty is a caller-visible error.
func (s *Service) Evaluate(ctx context.Context) (*Report, error) {
	tenders, err := s.Tenders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	results, err := s.Results.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(tenders) == 0 || len(results) == 0 {
		return nil, domain.ErrNoEvaluationData
	}

	byID := make(map[string]*procurement.Tender, len(tenders))
	for _, t := range tenders {
		byID[t.TenderID] = t
	}

	var processResults []*domain.Result
	anomalyRows := map[domain.ModelType]int{}
	flaggedTenders := map[domain.ModelType]map[string]bool{
		domain.ModelProcess: {},
		domain.ModelPrice:   {},
		domain.ModelText:    {},
	}
	for _, r := range results {
		if r.ModelType == domain.ModelProcess {
			processResults = append(processResults, r)
		}
		if r.IsAnomaly {
			anomalyRows[r.ModelType]++
			flaggedTenders[r.ModelType][r.TenderID] = true
		}
	}

	report := &Report{
		ProcessModel: ProcessModelReport{
			Name:              "Isolation Forest (Process Anomaly Detector)",
			Metrics:           confusionMetrics(processResults, byID),
			FeatureImportance: featureImportance(processResults, byID),
			Description:       "Random-partition isolation forest over tender duration, bidder count and procurement method; scores above 0.6 are flagged",
		},
		PriceModel: SimpleModelReport{
			Name:              "Z-Score Analysis (Price Anomaly Detector)",
			AnomaliesDetected: anomalyRows[domain.ModelPrice],
			Description:       "Flags contract prices more than 2.5 standard deviations from the market average for the same item",
		},
		TextModel: SimpleModelReport{
			Name:              "NLP (Text & Collusion Detector)",
			AnomaliesDetected: anomalyRows[domain.ModelText],
			Description:       "Detects brand-biased specifications and near-duplicate tender documents via TF-IDF similarity",
		},
		ShapAnalysis:    shapAnalysis(processResults, tenders, byID),
		CoverageMetrics: coverage(tenders, anomalyRows, flaggedTenders),
	}
	return report, nil
}

func truth(t *procurement.Tender) bool {
	return t.DurationDays < truthMaxDuration && t.BidderCount <= truthMaxBidders
}

// confusionMetrics matches process predictions to tenders by id; results for
// unknown tenders are skipped. Every ratio falls back to 0 on a zero
// denominator.
func confusionMetrics(processResults []*domain.Result, byID map[string]*procurement.Tender) Metrics {
	var tp, tn, fp, fn int
	for _, r := range processResults {
		t, ok := byID[r.TenderID]
		if !ok {
			continue
		}
		switch {
		case r.IsAnomaly && truth(t):
			tp++
		case r.IsAnomaly && !truth(t):
			fp++
		case !r.IsAnomaly && truth(t):
			fn++
		default:
			tn++
		}
	}

	total := tp + tn + fp + fn
	var m Metrics
	m.TruePositives, m.TrueNegatives = tp, tn
	m.FalsePositives, m.FalseNegatives = fp, fn
	m.ConfusionMatrix = [2][2]int{{tn, fp}, {fn, tp}}
	if total > 0 {
		m.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1Score = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// featureImportance contrasts the flagged and normal groups per feature and
// normalizes the raw gaps to percentages summing to 100.
func featureImportance(processResults []*domain.Result, byID map[string]*procurement.Tender) []FeatureImportance {
	var durA, durN, bidA, bidN, openA, openN []float64
	for _, r := range processResults {
		t, ok := byID[r.TenderID]
		if !ok {
			continue
		}
		if r.IsAnomaly {
			durA = append(durA, float64(t.DurationDays))
			bidA = append(bidA, float64(t.BidderCount))
			openA = append(openA, t.Method.Encoded())
		} else {
			durN = append(durN, float64(t.DurationDays))
			bidN = append(bidN, float64(t.BidderCount))
			openN = append(openN, t.Method.Encoded())
		}
	}

	durMeanA, durMeanN := stats.Mean(durA), stats.Mean(durN)
	bidMeanA, bidMeanN := stats.Mean(bidA), stats.Mean(bidN)
	openFracA, openFracN := stats.Mean(openA), stats.Mean(openN)

	rawDur := math.Abs(durMeanA-durMeanN) / (durMeanN + epsilon)
	rawBid := math.Abs(bidMeanA-bidMeanN) / (bidMeanN + epsilon)
	rawOpen := math.Abs(openFracA - openFracN)
	total := rawDur + rawBid + rawOpen + epsilon

	out := []FeatureImportance{
		{
			Feature:     "tender_duration_days",
			Importance:  rawDur / total * 100,
			Description: fmt.Sprintf("Avg anomalous: %.1f days vs normal: %.1f days", durMeanA, durMeanN),
		},
		{
			Feature:     "number_of_bidders",
			Importance:  rawBid / total * 100,
			Description: fmt.Sprintf("Avg anomalous: %.1f bidders vs normal: %.1f bidders", bidMeanA, bidMeanN),
		},
		{
			Feature:     "procurement_method",
			Importance:  rawOpen / total * 100,
			Description: fmt.Sprintf("Anomalous open: %.1f%% vs normal: %.1f%%", openFracA*100, openFracN*100),
		},
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

// shapAnalysis explains the first flagged process tender as signed deviations
// from the dataset baseline. Nil when nothing is flagged.
func shapAnalysis(processResults []*domain.Result, tenders []*procurement.Tender, byID map[string]*procurement.Tender) *ShapAnalysis {
	var exemplar *procurement.Tender
	for _, r := range processResults {
		if !r.IsAnomaly {
			continue
		}
		if t, ok := byID[r.TenderID]; ok {
			exemplar = t
			break
		}
	}
	if exemplar == nil {
		return nil
	}

	var durs, bids []float64
	for _, t := range tenders {
		durs = append(durs, float64(t.DurationDays))
		bids = append(bids, float64(t.BidderCount))
	}
	baseDur, baseBid := stats.Mean(durs), stats.Mean(bids)

	durShap := (float64(exemplar.DurationDays) - baseDur) / (baseDur + epsilon)
	bidShap := (float64(exemplar.BidderCount) - baseBid) / (baseBid + epsilon)
	methodShap := 0.1
	methodContribution := "Neutral to positive"
	if exemplar.Method != procurement.MethodOpen {
		methodShap = -0.1
		methodContribution = "Slightly negative"
	}

	durContribution := "Increases anomaly score"
	if durShap < 0 {
		durContribution = "Decreases anomaly score"
	}
	bidContribution := "Decreases anomaly score"
	if bidShap < 0 {
		bidContribution = "Increases anomaly score (fewer bidders)"
	}

	return &ShapAnalysis{
		SampleTenderID: exemplar.TenderID,
		Values: []ShapValue{
			{Feature: "tender_duration_days", ShapValue: durShap, Contribution: durContribution},
			{Feature: "number_of_bidders", ShapValue: bidShap, Contribution: bidContribution},
			{Feature: "procurement_method", ShapValue: methodShap, Contribution: methodContribution},
		},
		Description: "Per-feature deviation from the dataset baseline for a sample flagged tender",
	}
}

func coverage(tenders []*procurement.Tender, anomalyRows map[domain.ModelType]int, flagged map[domain.ModelType]map[string]bool) CoverageMetrics {
	any := make(map[string]bool)
	for _, set := range flagged {
		for id := range set {
			any[id] = true
		}
	}
	multiple := 0
	for id := range flagged[domain.ModelProcess] {
		if flagged[domain.ModelPrice][id] || flagged[domain.ModelText][id] {
			multiple++
		}
	}

	return CoverageMetrics{
		TotalTenders:     len(tenders),
		ProcessAnomalies: anomalyRows[domain.ModelProcess],
		PriceAnomalies:   anomalyRows[domain.ModelPrice],
		TextAnomalies:    anomalyRows[domain.ModelText],
		OverallCoverage: OverallCoverage{
			FlaggedByAnyModel:       len(any),
			FlaggedByMultipleModels: multiple,
		},
	}
}
