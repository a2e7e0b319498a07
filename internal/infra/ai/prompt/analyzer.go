package prompt

import (
	"context"
	"encoding/json"
	"fmt"
)

// LocalAnalyst produces summaries without calling any external service. It is
// wired in as the ai.Client when no OpenAI key is configured.
type LocalAnalyst struct{}

func NewLocalAnalyst() *LocalAnalyst { return &LocalAnalyst{} }

func (LocalAnalyst) Summarize(_ context.Context, findingsJSON string) (string, error) {
	return BuildSummary(findingsJSON), nil
}

// BuildSummary composes the executive summary JSON from a findings document.
// It never prints; it only returns the JSON string.
func BuildSummary(findingsJSON string) string {
	type ModelFindings struct {
		ModelType   string   `json:"model_type"`
		Processed   int      `json:"processed"`
		Anomalies   int      `json:"anomalies"`
		TopFindings []string `json:"top_findings"`
	}

	type Input struct {
		Scope        string          `json:"scope"`
		TotalResults int             `json:"total_results"`
		Models       []ModelFindings `json:"models"`
	}

	type Output struct {
		ExecutiveSummary string   `json:"executive_summary"`
		RiskLevel        string   `json:"risk_level"`
		TopFindings      []string `json:"top_findings"`
		Recommendations  []string `json:"recommendations"`
	}

	var in Input
	if err := json.Unmarshal([]byte(findingsJSON), &in); err != nil {
		fb := Output{
			ExecutiveSummary: "The findings document could not be parsed; re-run the detectors and try again.",
			RiskLevel:        "low",
			TopFindings:      []string{},
			Recommendations:  []string{"Re-run the detection models and regenerate the summary."},
		}
		data, _ := json.Marshal(fb)
		return string(data)
	}

	totalAnomalies := 0
	findings := make([]string, 0, 10)
	recommendations := make([]string, 0, 6)

	for _, m := range in.Models {
		totalAnomalies += m.Anomalies
		for _, f := range m.TopFindings {
			if len(findings) < 10 {
				findings = append(findings, f)
			}
		}
		if m.Anomalies == 0 {
			continue
		}
		switch m.ModelType {
		case "process":
			recommendations = append(recommendations, "Re-examine tenders flagged for short windows or minimal competition before award decisions are finalized.")
		case "price":
			recommendations = append(recommendations, "Request price justifications from suppliers on contracts priced far from market reference data.")
		case "text":
			recommendations = append(recommendations, "Review near-identical bid documents and brand-locked specifications with the originating entities.")
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "Keep reference market prices current and re-run the detectors after the next import.")
	}

	// Risk scales with the share of flagged results
	rate := 0.0
	if in.TotalResults > 0 {
		rate = float64(totalAnomalies) / float64(in.TotalResults)
	}
	risk := "low"
	switch {
	case rate >= 0.3:
		risk = "critical"
	case rate >= 0.15:
		risk = "high"
	case rate >= 0.05:
		risk = "medium"
	}

	out := Output{
		ExecutiveSummary: fmt.Sprintf(
			"Automated review of %d detector results (scope: %s) flagged %d anomalies across %d models. Risk is assessed as %s based on the share of flagged results.",
			in.TotalResults, in.Scope, totalAnomalies, len(in.Models), risk,
		),
		RiskLevel:       risk,
		TopFindings:     findings,
		Recommendations: recommendations,
	}

	b, err := json.Marshal(out)
	if err != nil {
		fb := Output{
			ExecutiveSummary: "Summary generation failed; re-run the detectors and try again.",
			RiskLevel:        "low",
			TopFindings:      []string{},
			Recommendations:  []string{},
		}
		data, _ := json.Marshal(fb)
		return string(data)
	}
	return string(b)
}
