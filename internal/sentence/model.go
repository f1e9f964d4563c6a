package sentence

import (
	"fmt"
	"strings"
)

// CEFRLevel is a Common European Framework language proficiency tier used
// to calibrate generated sentence difficulty.
type CEFRLevel string

const (
	LevelA1 CEFRLevel = "A1"
	LevelA2 CEFRLevel = "A2"
	LevelB1 CEFRLevel = "B1"
	LevelB2 CEFRLevel = "B2"
	LevelC1 CEFRLevel = "C1"
	LevelC2 CEFRLevel = "C2"
)

// DefaultLevel is used when no proficiency level is configured.
const DefaultLevel = LevelB1

// ParseCEFRLevel normalizes and validates a level string such as "b1".
func ParseCEFRLevel(s string) (CEFRLevel, error) {
	level := CEFRLevel(strings.ToUpper(strings.TrimSpace(s)))
	switch level {
	case LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2:
		return level, nil
	}
	return "", fmt.Errorf("invalid CEFR level %q (valid: A1, A2, B1, B2, C1, C2)", s)
}

// WordTask pairs a requested word with the proficiency level its sentences
// should target. Tasks are immutable once issued.
type WordTask struct {
	RequestedWord string
	Level         CEFRLevel
}

// SentenceCandidate is one generated example sentence with its English
// translation.
type SentenceCandidate struct {
	Danish  string `json:"danish"`
	English string `json:"english"`
}

// StatusKind is the lifecycle stage of a WordRecord.
type StatusKind int

const (
	StatusOK StatusKind = iota
	StatusNeedsRetry
	StatusError
)

// String returns a human-readable status name.
func (k StatusKind) String() string {
	switch k {
	case StatusOK:
		return "ok"
	case StatusNeedsRetry:
		return "needs_retry"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// RetryReason classifies why a record needs another attempt.
type RetryReason int

const (
	ReasonNone RetryReason = iota
	ReasonWrongWord
	ReasonInsufficientSentences
)

// String returns a human-readable reason name.
func (r RetryReason) String() string {
	switch r {
	case ReasonWrongWord:
		return "wrong_word_returned"
	case ReasonInsufficientSentences:
		return "insufficient_sentences"
	default:
		return "none"
	}
}

// Status tags a WordRecord with its pipeline outcome. Keeping kind, retry
// reason and error message in one value means a record can never carry a
// contradictory flag/reason combination.
type Status struct {
	Kind    StatusKind
	Reason  RetryReason
	Message string
}

// OKStatus marks a record as successfully completed.
func OKStatus() Status {
	return Status{Kind: StatusOK}
}

// RetryStatus marks a record as needing another attempt for reason.
func RetryStatus(reason RetryReason) Status {
	return Status{Kind: StatusNeedsRetry, Reason: reason}
}

// ErrorStatus marks a record as terminally failed with message.
func ErrorStatus(message string) Status {
	return Status{Kind: StatusError, Message: message}
}

// GrammarInfo holds the optional dictionary fields merged into a record.
type GrammarInfo struct {
	Pronunciation      string
	WordType           string
	Gender             string
	Plural             string
	Inflections        string
	DanishDefinition   string
	EnglishTranslation string
}

// WordRecord is the unit that survives the whole pipeline: one per
// requested word, mutated through the parse/validate/retry stages and
// frozen once its status reaches ok or error.
type WordRecord struct {
	RequestedWord      string
	ResolvedWord       string
	EnglishTranslation string
	ExampleSentences   []SentenceCandidate
	Grammar            GrammarInfo
	Status             Status
	InflectedFormUsed  bool
	BaseWord           string
}

// maxAcceptedSentences bounds how many validated sentences a record keeps.
const maxAcceptedSentences = 2

// NewWordRecord creates an empty record for word. The resolved word
// defaults to the requested word and is overwritten only on a successful
// inflected-form substitution.
func NewWordRecord(word string) *WordRecord {
	return &WordRecord{
		RequestedWord: word,
		ResolvedWord:  word,
		BaseWord:      word,
		Status:        RetryStatus(ReasonNone),
	}
}

// Terminal reports whether the record reached a final status.
func (r *WordRecord) Terminal() bool {
	return r.Status.Kind == StatusOK || r.Status.Kind == StatusError
}

// DanishSentences returns the Danish text of the accepted sentences.
func (r *WordRecord) DanishSentences() []string {
	out := make([]string, 0, len(r.ExampleSentences))
	for _, s := range r.ExampleSentences {
		out = append(out, s.Danish)
	}
	return out
}

// MergeGrammar fills empty grammar fields from g without overwriting
// fields already populated by the generation step. A missing English
// translation on the record may be filled from g as well.
func (r *WordRecord) MergeGrammar(g GrammarInfo) {
	if r.Grammar.Pronunciation == "" {
		r.Grammar.Pronunciation = g.Pronunciation
	}
	if r.Grammar.WordType == "" {
		r.Grammar.WordType = g.WordType
	}
	if r.Grammar.Gender == "" {
		r.Grammar.Gender = g.Gender
	}
	if r.Grammar.Plural == "" {
		r.Grammar.Plural = g.Plural
	}
	if r.Grammar.Inflections == "" {
		r.Grammar.Inflections = g.Inflections
	}
	if r.Grammar.DanishDefinition == "" {
		r.Grammar.DanishDefinition = g.DanishDefinition
	}
	if r.Grammar.EnglishTranslation == "" {
		r.Grammar.EnglishTranslation = g.EnglishTranslation
	}
	if r.EnglishTranslation == "" {
		r.EnglishTranslation = g.EnglishTranslation
	}
}

// BatchResult collects the outcome of one processing run: exactly one
// terminal record per input word (absent cancellation) and the normalized
// English base form for every word that produced one.
type BatchResult struct {
	Records      []*WordRecord
	Translations map[string]string
}

// NewBatchResult creates an empty result.
func NewBatchResult() *BatchResult {
	return &BatchResult{Translations: make(map[string]string)}
}

// OKRecords returns the records that completed successfully.
func (b *BatchResult) OKRecords() []*WordRecord {
	var out []*WordRecord
	for _, rec := range b.Records {
		if rec.Status.Kind == StatusOK {
			out = append(out, rec)
		}
	}
	return out
}

// FailedWords returns the requested words whose records ended in error.
func (b *BatchResult) FailedWords() []string {
	var out []string
	for _, rec := range b.Records {
		if rec.Status.Kind == StatusError {
			out = append(out, rec.RequestedWord)
		}
	}
	return out
}
