package backend

import (
	"encoding/json"
	"strings"
)

// unparsableIssue is the issue recorded when a review reply is not valid JSON.
const unparsableIssue = "review response format unparsable"

// parseReview turns a raw model reply into a ReviewResult. The JSON shape
// requested by the review prompt is a contract with the model, not a
// guarantee: markdown code fences are tolerated, and anything that still
// fails strict parsing degrades to a mid-range result carrying the verbatim
// reply. A malformed review must never block the translation pipeline.
func parseReview(raw, translated string) *ReviewResult {
	text := stripCodeFence(strings.TrimSpace(raw))

	var res ReviewResult
	if err := json.Unmarshal([]byte(text), &res); err != nil {
		return &ReviewResult{
			QualityScore:        5,
			IsAcceptable:        true,
			Issues:              []string{unparsableIssue},
			Suggestions:         []string{"check the model output format"},
			ImprovedTranslation: translated,
			RawResponse:         raw,
		}
	}

	if res.QualityScore < 1 {
		res.QualityScore = 1
	} else if res.QualityScore > 10 {
		res.QualityScore = 10
	}
	if res.ImprovedTranslation == "" {
		res.ImprovedTranslation = translated
	}
	return &res
}

// stripCodeFence removes a surrounding ```json … ``` fence when the whole
// text is wrapped in one.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	body := strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		// drop the info string ("json") on the opening fence line
		body = body[idx+1:]
	}
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body)
}
