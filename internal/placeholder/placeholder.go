// Package placeholder protects structured tokens in game text (printf
// verbs, {name} substitutions, rich-text tags) during translation by
// replacing them with numbered markers ([PH0], [PH1], …) that LLMs are
// instructed to preserve. After translation, Restore substitutes the
// markers back.
package placeholder

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// printf-style format verbs: %s, %d, %.2f, %1$s, %%
	reFormatVerb = regexp.MustCompile(`%(?:\d+\$)?[-+ #0]*(?:\d+)?(?:\.\d+)?[a-zA-Z%]`)

	// curly substitutions: {0}, {name}, {player_level}
	reCurlyToken = regexp.MustCompile(`\{[A-Za-z0-9_]+\}`)

	// engine rich-text tags: <color=#ff0000>, </color>, <b>, <size=24>
	reRichTag = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)

	// escape sequences that must survive verbatim
	reEscape = regexp.MustCompile(`\\[nrt]`)

	// placeholder reference in translated text
	rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protect replaces format tokens and markup with numbered placeholders
// [PH0], [PH1], … in the order they appear in text. It returns the modified
// text and the slice of captured originals so Restore can put them back.
// Text without any tokens is returned unchanged with a nil slice.
func Protect(text string) (string, []string) {
	var markers []string
	counter := 0

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", counter)
		markers = append(markers, match)
		counter++
		return id
	}

	// Tags first: a tag body may itself contain format verbs.
	text = reRichTag.ReplaceAllStringFunc(text, replace)
	text = reFormatVerb.ReplaceAllStringFunc(text, replace)
	text = reCurlyToken.ReplaceAllStringFunc(text, replace)
	text = reEscape.ReplaceAllStringFunc(text, replace)

	return text, markers
}

// Restore substitutes [PHn] markers in text back with the originals captured
// by Protect. Unrecognised indices leave the marker as-is.
func Restore(text string, markers []string) string {
	if len(markers) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		if len(sub) < 2 {
			return match
		}
		idx := 0
		fmt.Sscanf(sub[1], "%d", &idx)
		if idx < 0 || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint returns a sentence to append to a translation prompt so
// the model knows to leave the markers intact.
func InstructionHint() string {
	return "Preserve all [PHn] markers exactly as they appear — do not translate, move, or remove them."
}

// Validate checks whether all markers created by Protect are still present
// in the translated text. It returns the list of missing indices.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
