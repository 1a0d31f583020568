// Package backend abstracts the LLM providers used for translation and
// review behind one capability set. Cloud chat-completion providers
// (openai, deepseek, qwen) share a single implementation differing only in
// endpoint, auth and default model; a locally hosted Ollama server gets its
// own generate-style client.
package backend

import (
	"context"

	"github.com/locforge/locforge/internal/langs"
	"github.com/locforge/locforge/internal/placeholder"
	"github.com/locforge/locforge/internal/postprocess"
	"github.com/locforge/locforge/internal/prompt"
)

// Backend is the capability set every provider variant implements. Both
// calls are single blocking network round trips bounded by the provider's
// HTTP client timeout.
type Backend interface {
	// Name identifies the provider ("openai", "deepseek", "qwen", "ollama").
	Name() string

	// ModelName reports the model the backend is configured to use.
	ModelName() string

	// TranslateText translates text between two language codes. A transport
	// failure, non-2xx status or malformed body is a hard error; partial
	// results are never returned.
	TranslateText(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// ReviewTranslation scores a translation and may propose an improved one.
	// A reply that cannot be parsed as the expected JSON degrades to a
	// synthetic mid-range ReviewResult instead of failing; only transport
	// faults produce an error.
	ReviewTranslation(ctx context.Context, original, translated, sourceLang, targetLang string) (*ReviewResult, error)
}

// translationPrompt builds the translation prompt for text with format
// tokens ({name}, %d, rich-text tags) swapped for [PHn] markers, so the
// model cannot mangle them. The returned markers feed restoreTranslation.
func translationPrompt(text, sourceLang, targetLang string) (string, []string) {
	protected, markers := placeholder.Protect(text)
	p := prompt.Translation(protected, langs.DisplayName(sourceLang), langs.DisplayName(targetLang))
	if len(markers) > 0 {
		p = placeholder.InstructionHint() + "\n\n" + p
	}
	return p, markers
}

// restoreTranslation cleans a raw model reply and puts protected tokens back.
func restoreTranslation(reply string, markers []string) string {
	return placeholder.Restore(postprocess.CleanTranslation(reply), markers)
}

// ReviewResult is the outcome of one review call.
type ReviewResult struct {
	QualityScore        int      `json:"quality_score"`
	IsAcceptable        bool     `json:"is_acceptable"`
	Issues              []string `json:"issues"`
	Suggestions         []string `json:"suggestions"`
	ImprovedTranslation string   `json:"improved_translation"`

	// RawResponse holds the verbatim model reply when it could not be parsed.
	// Diagnostic only.
	RawResponse string `json:"raw_response,omitempty"`

	// Err marks this result as a degraded fallback rather than a genuine
	// model judgment.
	Err string `json:"error,omitempty"`
}

// Degraded reports whether the result was synthesized after a failure rather
// than produced by the model.
func (r *ReviewResult) Degraded() bool {
	return r.Err != ""
}

// FailedReview builds the stand-in result recorded when the review call
// itself fails. The translation pipeline must keep moving, so a broken
// review never escalates past this marker.
func FailedReview(translated string, err error) *ReviewResult {
	return &ReviewResult{
		QualityScore:        5,
		IsAcceptable:        true,
		Issues:              []string{"review failed: " + err.Error()},
		Suggestions:         []string{"check the backend configuration"},
		ImprovedTranslation: translated,
		Err:                 err.Error(),
	}
}
