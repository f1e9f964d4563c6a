package sentence

import (
	"regexp"
	"strings"
)

var (
	baseWordAnnotation   = regexp.MustCompile(`\(\s*base word:[^)]*\)`)
	dictionaryFormPhrase = regexp.MustCompile(`(?i)dictionary form`)
	emptyParens          = regexp.MustCompile(`\(\s*\)`)
	leadingMarker        = regexp.MustCompile(`^(?i:the|a|an|to|in|on|at|by|for|with|of)\s+`)
	trailingPunctuation  = regexp.MustCompile(`[.,;:!?]+$`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// NormalizeTranslation reduces a free-text gloss to a single English
// base-form token: "(base word: ...)" annotations and the phrase
// "dictionary form" are removed, a leading article or infinitive marker
// (the/a/an/to) and a leading preposition (in/on/at/by/for/with/of) are
// stripped, trailing punctuation is dropped and whitespace is collapsed.
// Normalizing an already-normalized gloss returns it unchanged.
func NormalizeTranslation(raw string) string {
	s := baseWordAnnotation.ReplaceAllString(raw, "")
	s = dictionaryFormPhrase.ReplaceAllString(s, "")
	s = emptyParens.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// Markers can stack ("to the store"), so strip to a fixed point to
	// keep the result stable under repeated normalization.
	for {
		stripped := leadingMarker.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	s = trailingPunctuation.ReplaceAllString(s, "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
