// Package prompt builds the instruction templates sent to translation
// backends. Both builders are pure: same inputs, same output, no failure
// modes.
package prompt

import "fmt"

// Translation renders the game-localization translation prompt. Language
// arguments are display names ("English", "Chinese"), not codes.
func Translation(text, sourceName, targetName string) string {
	return fmt.Sprintf(`Translate the following %[1]s text into %[2]s, precisely and professionally.

[Role]
You are a senior game-localization translator, fluent in both %[1]s and %[2]s, familiar with the cultural differences between the two regions and experienced with game-industry terminology.

[Requirements]
1. Understand the source in context and convey its meaning accurately.
2. Preserve the tone, style and formatting of the source, with special care for standardized game terms and proper nouns.
3. Phrase the result the way %[2]s-speaking players naturally would; avoid word-for-word renderings.
4. Output only the final translation, with no explanations, notes or extra text.

Source: %[3]s

Translation:`, sourceName, targetName, text)
}

// Review renders the quality-review prompt. The JSON shape it demands is a
// contract with the model, not a guarantee; callers must treat the reply as
// untrusted text.
func Review(original, translated, sourceName, targetName string) string {
	return fmt.Sprintf(`As a professional game-localization reviewer, assess the quality of the following translation and suggest improvements.

[Role]
You are a senior game-localization reviewer with a strong command of both %[1]s and %[2]s, familiar with game-industry terminology and skilled at spotting translation problems.

[Criteria]
1. Accuracy: does the translation convey the source meaning?
2. Fluency: does it read naturally in %[2]s?
3. Consistency: are game terms translated uniformly?
4. Cultural fit: is it appropriate for %[2]s-speaking players?
5. Formatting: are the source formatting and tone preserved?

[Output format]
Respond with a JSON object in exactly this shape:
{
  "quality_score": <integer 1-10>,
  "is_acceptable": <true/false>,
  "issues": [<problems found>],
  "suggestions": [<improvement suggestions>],
  "improved_translation": "<the improved translation, if changes are needed>"
}

Source (%[1]s): %[3]s

Translation (%[2]s): %[4]s

Review result:`, sourceName, targetName, original, translated)
}
