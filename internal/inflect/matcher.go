package inflect

import (
	"regexp"
	"strings"
)

// inflectionSuffixes lists the suffix-derived candidate forms in their
// fixed trial order. The empty suffix is the base word itself.
var inflectionSuffixes = []string{"", "en", "et", "erne", "ne", "er", "ed", "ede", "t", "te", "tes", "s", "e"}

// Matcher decides whether a word occurs in a sentence as a whole token and
// enumerates candidate inflected forms for a base word. Callers that need
// real Danish morphology can swap in another implementation behind the same
// methods.
type Matcher struct{}

// NewMatcher creates a new inflection matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Matches reports whether word occurs in sentence as a whole token,
// case-insensitively. A character adjacent to the occurrence must not be a
// letter, so "is" matches in "This is a test" but never inside "island".
// Danish letters (æ, ø, å) count as letters on both sides of the boundary.
func (m *Matcher) Matches(word, sentence string) bool {
	re, ok := wordPattern(word)
	if !ok || sentence == "" {
		return false
	}
	return re.MatchString(sentence)
}

// CandidateInflections returns the candidate surface forms for base in a
// fixed order: the base itself, then base+en, base+et, base+erne, base+ne,
// base+er, base+ed, base+ede, base+t, base+te, base+tes, base+s and
// base+e. The final base+e entry is omitted when base already ends in "e"
// ("tale" would otherwise yield "talee"). The order doubles as the
// tie-break order when several forms occur in the same sentence.
func (m *Matcher) CandidateInflections(base string) []string {
	base = strings.TrimSpace(base)
	if base == "" {
		return nil
	}
	forms := make([]string, 0, len(inflectionSuffixes))
	for _, suffix := range inflectionSuffixes {
		if suffix == "e" && strings.HasSuffix(base, "e") {
			continue
		}
		forms = append(forms, base+suffix)
	}
	return forms
}

// FindUsedInflection scans sentences for an inflected form of base. When
// the bare base itself occurs in any sentence, no substitution is needed
// and ok is false regardless of what else appears. Otherwise candidates
// are tried in CandidateInflections order and the first surface form found
// is returned with the casing it carries in the sentence.
func (m *Matcher) FindUsedInflection(sentences []string, base string) (form string, ok bool) {
	base = strings.TrimSpace(base)
	if base == "" || len(sentences) == 0 {
		return "", false
	}
	for _, sentence := range sentences {
		if m.Matches(base, sentence) {
			return "", false
		}
	}
	for _, candidate := range m.CandidateInflections(base)[1:] {
		re, reOK := wordPattern(candidate)
		if !reOK {
			continue
		}
		for _, sentence := range sentences {
			if match := re.FindStringSubmatch(sentence); match != nil {
				return match[1], true
			}
		}
	}
	return "", false
}

// wordPattern compiles a case-insensitive whole-token pattern for word.
// \p{L} keeps æ/ø/å letter-valued, which Go's ASCII-only \b would not.
func wordPattern(word string) (*regexp.Regexp, bool) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, false
	}
	re, err := regexp.Compile(`(?i)(?:^|[^\p{L}])(` + regexp.QuoteMeta(word) + `)(?:[^\p{L}]|$)`)
	if err != nil {
		return nil, false
	}
	return re, true
}
