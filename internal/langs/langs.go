// Package langs resolves the language codes accepted by the CLI into the
// display names used inside LLM prompts.
package langs

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// displayNames covers the language set the assistant is tuned for. Codes
// outside this set are still accepted; they fall back to the canonical BCP 47
// tag so prompts remain well-formed.
var displayNames = map[string]string{
	"zh": "Chinese",
	"en": "English",
	"ja": "Japanese",
	"ko": "Korean",
	"fr": "French",
	"de": "German",
	"es": "Spanish",
	"ru": "Russian",
	"pt": "Portuguese",
	"it": "Italian",
}

// Supported returns the language codes with a curated display name, in no
// particular order.
func Supported() []string {
	codes := make([]string, 0, len(displayNames))
	for code := range displayNames {
		codes = append(codes, code)
	}
	return codes
}

// DisplayName returns the human-readable name for a language code, used when
// interpolating languages into prompt templates. Unknown but parseable codes
// are canonicalized ("EN-us" → "en-US"); unparseable input is returned as-is.
func DisplayName(code string) string {
	if name, ok := displayNames[code]; ok {
		return name
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, conf := tag.Base()
	if conf != language.No {
		if name, ok := displayNames[base.String()]; ok {
			return name
		}
	}
	return tag.String()
}

// Detector guesses the language of a text sample. Building the underlying
// lingua model is expensive; construct once and reuse.
type Detector struct {
	det lingua.LanguageDetector
}

// NewDetector builds a detector restricted to the supported language set,
// which keeps the model small and avoids confusions with languages the
// assistant never handles.
func NewDetector() *Detector {
	targets := []lingua.Language{
		lingua.Chinese, lingua.English, lingua.Japanese, lingua.Korean,
		lingua.French, lingua.German, lingua.Spanish, lingua.Russian,
		lingua.Portuguese, lingua.Italian,
	}
	return &Detector{
		det: lingua.NewLanguageDetectorBuilder().FromLanguages(targets...).Build(),
	}
}

// DetectCode returns the ISO 639-1 code of the detected language in lower
// case, or ok=false when the sample is empty or ambiguous.
func (d *Detector) DetectCode(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	lang, ok := d.det.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	// lingua reports upper-case ISO codes.
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
