package sentence

import "codeberg.org/tlinquata/ordkort/internal/inflect"

// Validator checks generated sentences for exact containment of the
// target word before they are accepted onto a card.
type Validator struct {
	matcher  *inflect.Matcher
	required int
	logf     func(format string, args ...any)
}

// NewValidator returns a validator that accepts a word once at least
// required sentences contain it. A nil logf silences rejection logging.
func NewValidator(required int, logf func(format string, args ...any)) *Validator {
	if required < 1 {
		required = 1
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Validator{
		matcher:  inflect.NewMatcher(),
		required: required,
		logf:     logf,
	}
}

// Required reports how many accepted sentences a word needs.
func (v *Validator) Required() int {
	return v.required
}

// Validate splits candidates into those whose Danish text contains
// target as a whole word and those that do not. Rejections are logged
// as a count so a batch run shows why a word is being retried.
func (v *Validator) Validate(candidates []SentenceCandidate, target string) (accepted []SentenceCandidate, rejected int) {
	for _, cand := range candidates {
		if v.matcher.Matches(target, cand.Danish) {
			accepted = append(accepted, cand)
		} else {
			rejected++
		}
	}
	if rejected > 0 {
		v.logf("rejected %d of %d sentences for %q: word not present as a whole word", rejected, len(candidates), target)
	}
	return accepted, rejected
}

// Passes reports whether enough sentences were accepted for the word.
func (v *Validator) Passes(accepted []SentenceCandidate) bool {
	return len(accepted) >= v.required
}
