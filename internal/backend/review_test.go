package backend

import (
	"strings"
	"testing"
)

func TestParseReview_Strict(t *testing.T) {
	raw := `{"quality_score":7,"is_acceptable":true,"issues":["minor tone drift"],"suggestions":["soften the wording"],"improved_translation":"改良版"}`

	res := parseReview(raw, "原版")
	if res.QualityScore != 7 {
		t.Errorf("expected score 7, got %d", res.QualityScore)
	}
	if res.ImprovedTranslation != "改良版" {
		t.Errorf("unexpected improved translation %q", res.ImprovedTranslation)
	}
	if len(res.Issues) != 1 || res.Issues[0] != "minor tone drift" {
		t.Errorf("unexpected issues %v", res.Issues)
	}
}

func TestParseReview_CodeFence(t *testing.T) {
	raw := "```json\n{\"quality_score\":6,\"is_acceptable\":false,\"issues\":[],\"suggestions\":[],\"improved_translation\":\"\"}\n```"

	res := parseReview(raw, "译文")
	if res.QualityScore != 6 {
		t.Errorf("expected score 6, got %d", res.QualityScore)
	}
	if res.IsAcceptable {
		t.Error("expected is_acceptable false")
	}
	if res.ImprovedTranslation != "译文" {
		t.Errorf("empty improved_translation must default to the input, got %q", res.ImprovedTranslation)
	}
}

func TestParseReview_UnparsableDegrades(t *testing.T) {
	res := parseReview("looks fine to me", "译文")

	if res.QualityScore != 5 || !res.IsAcceptable {
		t.Errorf("expected degraded 5/acceptable result, got %+v", res)
	}
	if len(res.Issues) == 0 || !strings.Contains(res.Issues[0], "unparsable") {
		t.Errorf("expected unparsable issue, got %v", res.Issues)
	}
	if res.RawResponse != "looks fine to me" {
		t.Errorf("expected raw response preserved, got %q", res.RawResponse)
	}
	if res.ImprovedTranslation != "译文" {
		t.Errorf("expected improved defaulted to input, got %q", res.ImprovedTranslation)
	}
}

func TestParseReview_ClampsScore(t *testing.T) {
	low := parseReview(`{"quality_score":-3,"is_acceptable":false,"improved_translation":"x"}`, "y")
	if low.QualityScore != 1 {
		t.Errorf("expected clamp to 1, got %d", low.QualityScore)
	}
	high := parseReview(`{"quality_score":42,"is_acceptable":true,"improved_translation":"x"}`, "y")
	if high.QualityScore != 10 {
		t.Errorf("expected clamp to 10, got %d", high.QualityScore)
	}
}

func TestFailedReview(t *testing.T) {
	res := FailedReview("译文", errContext("backend exploded"))

	if !res.Degraded() {
		t.Error("failed review must be marked degraded")
	}
	if res.Err != "backend exploded" {
		t.Errorf("unexpected Err %q", res.Err)
	}
	if res.ImprovedTranslation != "译文" {
		t.Errorf("expected improved defaulted to input, got %q", res.ImprovedTranslation)
	}
}

// errContext is a trivial error for constructor tests.
type errContext string

func (e errContext) Error() string { return string(e) }

func TestRegistry(t *testing.T) {
	providers := Providers()
	want := []string{"deepseek", "ollama", "openai", "qwen"}
	if len(providers) != len(want) {
		t.Fatalf("expected %d providers, got %v", len(want), providers)
	}
	for i, p := range want {
		if providers[i] != p {
			t.Errorf("providers[%d] = %q, want %q", i, providers[i], p)
		}
	}

	for _, p := range want {
		b, err := New(p, Options{APIKey: "k"})
		if err != nil {
			t.Errorf("New(%q) failed: %v", p, err)
		}
		if b.Name() != p {
			t.Errorf("New(%q).Name() = %q", p, b.Name())
		}
	}

	if _, err := New("skynet", Options{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
