package prompt

import (
	"strings"
	"testing"
)

func TestTranslation_InterpolatesAllParts(t *testing.T) {
	p := Translation("Dragon Slayer", "English", "Chinese")

	for _, want := range []string{"English", "Chinese", "Dragon Slayer"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(p, "Translation:") {
		t.Error("prompt should end with the completion cue")
	}
}

func TestTranslation_Deterministic(t *testing.T) {
	a := Translation("HP", "English", "Japanese")
	b := Translation("HP", "English", "Japanese")
	if a != b {
		t.Error("same inputs must produce identical prompts")
	}
}

func TestReview_DeclaresJSONContract(t *testing.T) {
	p := Review("Boss", "首领", "English", "Chinese")

	for _, key := range []string{
		`"quality_score"`,
		`"is_acceptable"`,
		`"issues"`,
		`"suggestions"`,
		`"improved_translation"`,
	} {
		if !strings.Contains(p, key) {
			t.Errorf("review prompt missing JSON key %s", key)
		}
	}
	if !strings.Contains(p, "Boss") || !strings.Contains(p, "首领") {
		t.Error("review prompt must embed both original and translated text")
	}
}
