package sentence

import (
	"context"
	"errors"
	"strings"
	"time"

	"codeberg.org/tlinquata/ordkort/internal/inflect"
)

// DefaultRequiredSentences is how many validated sentences a word needs
// unless configured otherwise.
const DefaultRequiredSentences = 2

// DefaultRequestDelay paces consecutive generation requests for one word.
const DefaultRequestDelay = time.Second

// state is the position of one word inside the retry ladder.
type state int

const (
	stateFresh state = iota
	stateWrongWord
	stateInsufficient
	stateInflectionSearch
	stateInflectionRetry
)

// EngineConfig tunes the retry ladder.
type EngineConfig struct {
	RequiredSentences int           // accepted sentences needed per word
	TokenBudgetCap    int           // upper bound on per-request completion budgets
	RequestDelay      time.Duration // slept between consecutive requests for one word
}

// Engine walks a single word through the retry ladder until its record
// is terminal. Danish words are often requested in a base form the model
// then conjugates inside a natural sentence, so the ladder first looks
// for an inflected form already present in retrieved text before paying
// for explicit per-form requests.
type Engine struct {
	client    Client
	parser    *Parser
	validator *Validator
	matcher   *inflect.Matcher
	obs       Observer
	budgetCap int
	delay     time.Duration
}

// NewEngine creates a retry engine on top of client. A zero RequestDelay
// disables pacing, which keeps tests fast.
func NewEngine(client Client, config EngineConfig, obs Observer) *Engine {
	if obs == nil {
		obs = NopObserver{}
	}
	required := config.RequiredSentences
	if required <= 0 {
		required = DefaultRequiredSentences
	}
	return &Engine{
		client:    client,
		parser:    NewParser(),
		validator: NewValidator(required, obs.Logf),
		matcher:   inflect.NewMatcher(),
		obs:       obs,
		budgetCap: config.TokenBudgetCap,
		delay:     config.RequestDelay,
	}
}

// Resolve walks task through the retry ladder and returns its terminal
// record. entry is the word's record from an already-parsed batch
// response, or nil when the word is processed individually, in which
// case the engine issues the initial request itself.
//
// The returned error is non-nil only for conditions the orchestrator
// must handle at batch level: context cancellation, rate limiting and
// the batch-fatal authentication/model failures. Exhausted retries are
// not an error; they yield a terminal error record.
func (e *Engine) Resolve(ctx context.Context, task WordTask, entry *Entry) (*WordRecord, error) {
	r := &resolution{task: task}

	st := stateFresh
	if entry != nil {
		r.absorb(entry)
		if !sameWord(entry.Word, task.RequestedWord) {
			e.obs.Logf("%v", &WrongWordError{Requested: task.RequestedWord, Returned: entry.Word})
			r.reason = ReasonWrongWord
			st = stateWrongWord
		}
	}

	for {
		switch st {
		case stateFresh:
			if entry == nil {
				got, err := e.fetch(ctx, r, SingleWordPrompt(task.RequestedWord, task.Level))
				if err != nil {
					if !recoverable(err) {
						return nil, err
					}
					e.obs.Logf("request for %q failed: %v", task.RequestedWord, err)
					r.reason = ReasonInsufficientSentences
					st = stateInsufficient
					continue
				}
				r.absorb(got)
				if !sameWord(got.Word, task.RequestedWord) {
					e.obs.Logf("%v", &WrongWordError{Requested: task.RequestedWord, Returned: got.Word})
					r.reason = ReasonWrongWord
					st = stateWrongWord
					continue
				}
			}
			rec, verr := e.acceptExact(r)
			if verr == nil {
				return rec, nil
			}
			e.obs.Logf("%v, retrying", verr)
			r.reason = ReasonInsufficientSentences
			st = stateInsufficient

		case stateWrongWord:
			got, err := e.fetch(ctx, r, WrongWordRetryPrompt(task.RequestedWord, r.returned, task.Level))
			if err != nil {
				if !recoverable(err) {
					return nil, err
				}
				e.obs.Logf("request for %q failed: %v", task.RequestedWord, err)
				st = stateInflectionSearch
				continue
			}
			r.absorb(got)
			if sameWord(got.Word, task.RequestedWord) {
				if rec, verr := e.acceptExact(r); verr == nil {
					return rec, nil
				}
			}
			st = stateInflectionSearch

		case stateInsufficient:
			got, err := e.fetch(ctx, r, SingleWordPrompt(task.RequestedWord, task.Level))
			if err != nil {
				if !recoverable(err) {
					return nil, err
				}
				e.obs.Logf("request for %q failed: %v", task.RequestedWord, err)
				st = stateInflectionSearch
				continue
			}
			r.absorb(got)
			if rec, verr := e.acceptExact(r); verr == nil {
				return rec, nil
			}
			st = stateInflectionSearch

		case stateInflectionSearch:
			if rec, found := e.acceptFoundInflection(r); found {
				return rec, nil
			}
			st = stateInflectionRetry

		case stateInflectionRetry:
			return e.inflectionLadder(ctx, r)
		}
	}
}

// acceptExact validates every retrieved sentence against the requested
// word and finalizes the record when enough pass.
func (e *Engine) acceptExact(r *resolution) (*WordRecord, error) {
	accepted, _ := e.validator.Validate(r.pool, r.task.RequestedWord)
	if e.validator.Passes(accepted) {
		return r.finalize(r.task.RequestedWord, accepted, false), nil
	}
	return nil, &InsufficientSentencesError{
		Word:     r.task.RequestedWord,
		Accepted: len(accepted),
		Required: e.validator.Required(),
	}
}

// acceptFoundInflection scans already-retrieved sentences for an
// inflected form of the requested word. A form counts only when enough
// sentences validate against it, so a record never ships with fewer
// sentences than required.
func (e *Engine) acceptFoundInflection(r *resolution) (*WordRecord, bool) {
	form, found := e.matcher.FindUsedInflection(r.danish(), r.task.RequestedWord)
	if !found {
		return nil, false
	}
	accepted, _ := e.validator.Validate(r.pool, form)
	if !e.validator.Passes(accepted) {
		return nil, false
	}
	e.obs.Logf("using inflected form %q of %q found in existing sentences", form, r.task.RequestedWord)
	return r.finalize(form, accepted, true), true
}

// inflectionLadder issues one request per candidate inflection, skipping
// the bare base form since that already failed, and stops at the first
// candidate whose returned sentences validate against the literal form.
func (e *Engine) inflectionLadder(ctx context.Context, r *resolution) (*WordRecord, error) {
	word := r.task.RequestedWord
	for _, form := range e.matcher.CandidateInflections(word)[1:] {
		got, err := e.fetch(ctx, r, InflectionPrompt(word, form, r.task.Level))
		if err != nil {
			if !recoverable(err) {
				return nil, err
			}
			e.obs.Logf("request for %q failed: %v", word, err)
			continue
		}
		r.absorb(got)
		accepted, _ := e.validator.Validate(got.ExampleSentences, form)
		if !e.validator.Passes(accepted) {
			continue
		}
		e.obs.Logf("inflected form %q accepted for %q", form, word)
		return r.finalize(form, accepted, true), nil
	}

	e.obs.Logf("giving up on %v", &ExhaustedRetriesError{Word: word, Attempts: r.requests})
	return r.fail(ExhaustedRetriesMessage), nil
}

// fetch issues one generation request and parses the first entry of the
// response. Cancellation is checked before each request; the configured
// delay applies between consecutive requests, never before the first.
func (e *Engine) fetch(ctx context.Context, r *resolution, prompt string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.requests > 0 && e.delay > 0 {
		time.Sleep(e.delay)
	}
	r.requests++

	raw, err := e.client.Complete(ctx, SystemPrompt, prompt, tokenBudget(1, e.budgetCap))
	if err != nil {
		return nil, err
	}

	entries, err := e.parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &ParseError{Reason: "response contained no word records"}
	}
	return &entries[0], nil
}

// recoverable reports whether the retry ladder may continue past err.
// Context, rate-limit and batch-fatal failures surface to the
// orchestrator instead.
func recoverable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !isFatal(err) && !isRateLimit(err)
}

// sameWord compares two words ignoring case and surrounding whitespace.
func sameWord(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// resolution accumulates the working state for one word: every sentence
// retrieved so far, the most recent returned word and the request count.
// Terminal records are materialized from it exactly once, so a failed
// attempt never leaves a half-mutated record behind.
type resolution struct {
	task     WordTask
	pool     []SentenceCandidate
	english  string
	returned string
	reason   RetryReason
	requests int
}

// absorb folds a parsed entry into the working state. Sentences already
// seen are skipped so repeated model output cannot double-count during
// validation.
func (r *resolution) absorb(entry *Entry) {
	r.returned = entry.Word
	if r.english == "" {
		r.english = strings.TrimSpace(entry.EnglishTranslation)
	}
	for _, cand := range entry.ExampleSentences {
		if r.seen(cand.Danish) {
			continue
		}
		r.pool = append(r.pool, cand)
	}
}

func (r *resolution) seen(danish string) bool {
	for _, cand := range r.pool {
		if cand.Danish == danish {
			return true
		}
	}
	return false
}

// danish returns the Danish text of every pooled sentence.
func (r *resolution) danish() []string {
	out := make([]string, 0, len(r.pool))
	for _, cand := range r.pool {
		out = append(out, cand.Danish)
	}
	return out
}

// finalize freezes a successful record.
func (r *resolution) finalize(resolved string, accepted []SentenceCandidate, inflected bool) *WordRecord {
	if len(accepted) > maxAcceptedSentences {
		accepted = accepted[:maxAcceptedSentences]
	}
	rec := NewWordRecord(r.task.RequestedWord)
	rec.ResolvedWord = resolved
	rec.EnglishTranslation = r.english
	rec.ExampleSentences = accepted
	rec.InflectedFormUsed = inflected
	rec.Status = OKStatus()
	return rec
}

// fail freezes a terminal error record carrying the last retry reason
// the ladder classified.
func (r *resolution) fail(message string) *WordRecord {
	rec := NewWordRecord(r.task.RequestedWord)
	rec.Status = Status{Kind: StatusError, Reason: r.reason, Message: message}
	return rec
}
