// Package postprocess strips common LLM artifacts from backend output.
//
// Cloud chat models occasionally prepend introductions or wrap the answer in
// quotes; locally hosted reasoning models may emit inline <think> traces.
// Neither belongs in a translation cell or a review payload.
package postprocess

import (
	"regexp"
	"strings"
)

// reasoningBlockRe matches complete reasoning-trace blocks. Each tag variant
// is listed explicitly because RE2 has no backreferences.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// truncatedReasoningRe matches an opened reasoning tag that never closes
// (model hit its token limit mid-thought).
var truncatedReasoningRe = regexp.MustCompile(
	`(?is)(?:<think>|<thinking>|<reasoning>).*$`,
)

// StripReasoning removes reasoning-trace markup and returns the trimmed
// remainder. Text without such markup passes through unchanged apart from
// trimming.
func StripReasoning(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = truncatedReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// echoRe matches introductory phrases models prepend even when told not to,
// anchored at the start and requiring a colon to avoid eating real content.
var echoRe = regexp.MustCompile(
	`(?i)^(?:(?:certainly|sure|of course)[,.]? )?(?:here(?:'s| is)(?: the)? )?(?:the )?translation\s*[:：]`,
)

// CleanTranslation prepares a raw model reply for use as a translation cell:
// reasoning traces, instruction echoes, and a matching pair of wrapping
// quotes are removed.
func CleanTranslation(text string) string {
	text = StripReasoning(text)
	if loc := echoRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}
	return unwrapQuotes(text)
}

// unwrapQuotes strips one matching pair of outer quotes when the entire text
// is wrapped in them.
func unwrapQuotes(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') ||
		(first == '「' && last == '」') { // 「 」
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
