package prompt

import "fmt"

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior public procurement auditor. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Use lowercase risk_level values: critical, high, medium, low.
- executive_summary is 2-4 sentences covering the overall state of the audited tenders.
- top_findings is an array of short strings, most severe first, at most 10 items.
- recommendations is an array of concrete next actions for the audit team, at most 6 items.
- Base everything strictly on the findings document provided; do not invent tender ids or amounts.

Schema (example with empty values):
{
  "executive_summary": "<string>",
  "risk_level": "<critical|high|medium|low>",
  "top_findings": ["<string>"],
  "recommendations": ["<string>"]
}`
}

// GetUserPrompt wraps the findings document produced by the detectors.
func GetUserPrompt(findingsJSON string) string {
	return fmt.Sprintf("Summarize this procurement audit findings document and respond with the JSON per schema. Findings: %s", findingsJSON)
}
