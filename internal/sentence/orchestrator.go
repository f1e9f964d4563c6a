package sentence

import (
	"context"
	"errors"
	"time"
)

// Defaults for batch processing. The chunk limit is a hard bound: no
// single request carries more words than that, whatever the
// configuration says.
const (
	DefaultBatchThreshold   = 5
	DefaultMaxChunkSize     = 10
	DefaultChunkPause       = time.Second
	DefaultRateLimitBackoff = 20 * time.Second
	DefaultPerWordDelay     = time.Second

	maxChunkLimit = 25
)

// Config holds batch processing configuration
type Config struct {
	BatchThreshold    int           // word count at or below which one combined request is used
	MaxChunkSize      int           // words per chunk above the threshold, capped at 25
	RequiredSentences int           // accepted sentences needed per word
	TokenBudgetCap    int           // upper bound on per-request completion budgets
	Level             CEFRLevel     // proficiency level for generated sentences
	ChunkPause        time.Duration // sleep between consecutive chunks
	RateLimitBackoff  time.Duration // sleep before per-word fallback after throttling
	PerWordDelay      time.Duration // sleep between words during individual reprocessing
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		BatchThreshold:    DefaultBatchThreshold,
		MaxChunkSize:      DefaultMaxChunkSize,
		RequiredSentences: DefaultRequiredSentences,
		TokenBudgetCap:    DefaultTokenBudgetCap,
		Level:             DefaultLevel,
		ChunkPause:        DefaultChunkPause,
		RateLimitBackoff:  DefaultRateLimitBackoff,
		PerWordDelay:      DefaultPerWordDelay,
	}
}

// Orchestrator drives sentence generation for a whole word list: it
// partitions the list into chunks, issues one request per chunk and
// walks every word that needs it through the retry engine. Chunks are
// processed strictly sequentially; the generation service's rate limits
// make concurrent requests counter-productive.
type Orchestrator struct {
	client Client
	engine *Engine
	parser *Parser
	config Config
	obs    Observer
}

// NewOrchestrator creates an orchestrator on top of client. A nil config
// uses defaults; a nil observer silences progress and log output.
func NewOrchestrator(client Client, config *Config, obs Observer) *Orchestrator {
	if config == nil {
		config = DefaultConfig()
	}
	if obs == nil {
		obs = NopObserver{}
	}

	cfg := *config
	if cfg.Level == "" {
		cfg.Level = DefaultLevel
	}

	engine := NewEngine(client, EngineConfig{
		RequiredSentences: cfg.RequiredSentences,
		TokenBudgetCap:    cfg.TokenBudgetCap,
		RequestDelay:      cfg.PerWordDelay,
	}, obs)

	return &Orchestrator{
		client: client,
		engine: engine,
		parser: NewParser(),
		config: cfg,
		obs:    obs,
	}
}

// Process generates and validates sentences for every word in words.
// The returned BatchResult carries exactly one terminal record per input
// word. On cancellation the records accumulated so far are returned
// without error and the remaining words are simply dropped. On an
// authentication or model failure every unprocessed word is marked
// failed with the cause, the observer is notified once, and the error is
// returned alongside the complete result.
func (o *Orchestrator) Process(ctx context.Context, words []string) (*BatchResult, error) {
	result := NewBatchResult()
	if len(words) == 0 {
		return result, nil
	}

	chunks := chunkWords(words, o.config.BatchThreshold, o.config.MaxChunkSize)
	total := len(words)
	completed := 0

	for i, chunk := range chunks {
		if ctx.Err() != nil {
			return result, nil
		}
		if i > 0 && o.config.ChunkPause > 0 {
			time.Sleep(o.config.ChunkPause)
		}

		records, err := o.processChunk(ctx, chunk)
		o.fold(result, records)
		completed += len(records)

		if err != nil {
			if canceled(err) {
				return result, nil
			}
			o.obs.RunError(err)
			o.failRest(result, chunk[len(records):], chunks[i+1:], err)
			return result, err
		}

		o.obs.Progress(completed, total)
	}

	return result, nil
}

// processChunk issues the combined request for one chunk and resolves
// every word in it. Chunk-level failures are routed through the
// deterministic fallbacks in recoverChunk.
func (o *Orchestrator) processChunk(ctx context.Context, chunk []string) ([]*WordRecord, error) {
	raw, err := o.requestChunk(ctx, chunk)
	if err == nil {
		var entries []Entry
		entries, err = o.parser.Parse(raw)
		if err == nil {
			return o.resolveEntries(ctx, chunk, entries)
		}
	}
	return o.recoverChunk(ctx, chunk, err)
}

func (o *Orchestrator) requestChunk(ctx context.Context, chunk []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var prompt string
	if len(chunk) == 1 {
		prompt = SingleWordPrompt(chunk[0], o.config.Level)
	} else {
		prompt = BatchPrompt(chunk, o.config.Level)
	}

	o.obs.Logf("requesting sentences for %d word(s)", len(chunk))
	return o.client.Complete(ctx, SystemPrompt, prompt, tokenBudget(len(chunk), o.config.TokenBudgetCap))
}

// resolveEntries walks every chunk word through the retry engine, paired
// with its entry from the chunk response when one could be matched.
func (o *Orchestrator) resolveEntries(ctx context.Context, chunk []string, entries []Entry) ([]*WordRecord, error) {
	matched := matchEntries(chunk, entries)

	var records []*WordRecord
	for i, word := range chunk {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		rec, err := o.resolveWord(ctx, word, matched[i])
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// recoverChunk applies the chunk-level fallbacks: parse and generic
// service failures reprocess every word individually, throttling backs
// off first and paces the words, authentication and model failures
// abort the run.
func (o *Orchestrator) recoverChunk(ctx context.Context, chunk []string, err error) ([]*WordRecord, error) {
	switch {
	case canceled(err):
		return nil, err

	case isFatal(err):
		return nil, err

	case isRateLimit(err):
		o.obs.Logf("rate limited on a chunk of %d, backing off %s before per-word fallback", len(chunk), o.config.RateLimitBackoff)
		if o.config.RateLimitBackoff > 0 {
			time.Sleep(o.config.RateLimitBackoff)
		}
		return o.resolveIndividually(ctx, chunk, o.config.PerWordDelay)

	default:
		o.obs.Logf("chunk of %d failed (%v), reprocessing each word individually", len(chunk), err)
		return o.resolveIndividually(ctx, chunk, 0)
	}
}

// resolveIndividually reprocesses words one at a time, sleeping delay
// between consecutive words.
func (o *Orchestrator) resolveIndividually(ctx context.Context, words []string, delay time.Duration) ([]*WordRecord, error) {
	var records []*WordRecord
	for i, word := range words {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if i > 0 && delay > 0 {
			time.Sleep(delay)
		}
		rec, err := o.resolveWord(ctx, word, nil)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolveWord runs one word through the retry engine. A throttled word
// gets a single backoff and one more attempt; if the service is still
// throttling after that, the word is marked failed so the rest of the
// batch can continue.
func (o *Orchestrator) resolveWord(ctx context.Context, word string, entry *Entry) (*WordRecord, error) {
	task := WordTask{RequestedWord: word, Level: o.config.Level}

	rec, err := o.engine.Resolve(ctx, task, entry)
	if err == nil {
		return rec, nil
	}
	if !isRateLimit(err) {
		return nil, err
	}

	o.obs.Logf("rate limited while resolving %q, backing off %s", word, o.config.RateLimitBackoff)
	if o.config.RateLimitBackoff > 0 {
		time.Sleep(o.config.RateLimitBackoff)
	}

	rec, err = o.engine.Resolve(ctx, task, entry)
	if err == nil {
		return rec, nil
	}
	if isRateLimit(err) {
		return failedRecord(word, err), nil
	}
	return nil, err
}

// fold appends chunk records to the running result and collects the
// normalized English base form for every word that produced one.
func (o *Orchestrator) fold(result *BatchResult, records []*WordRecord) {
	for _, rec := range records {
		result.Records = append(result.Records, rec)
		if rec.EnglishTranslation != "" {
			result.Translations[rec.RequestedWord] = NormalizeTranslation(rec.EnglishTranslation)
		}
	}
}

// failRest marks every word that never got a record with the batch-fatal
// cause: the unprocessed tail of the current chunk plus all later chunks.
func (o *Orchestrator) failRest(result *BatchResult, tail []string, rest [][]string, cause error) {
	for _, word := range tail {
		result.Records = append(result.Records, failedRecord(word, cause))
	}
	for _, chunk := range rest {
		for _, word := range chunk {
			result.Records = append(result.Records, failedRecord(word, cause))
		}
	}
}

func failedRecord(word string, cause error) *WordRecord {
	rec := NewWordRecord(word)
	rec.Status = ErrorStatus(cause.Error())
	return rec
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// chunkWords partitions words for request sizing: at or below the
// threshold the whole list travels in one combined request, above it the
// list is split into fixed-size chunks.
func chunkWords(words []string, threshold, size int) [][]string {
	if threshold < 1 {
		threshold = DefaultBatchThreshold
	}
	if size < 1 {
		size = DefaultMaxChunkSize
	}
	if size > maxChunkLimit {
		size = maxChunkLimit
	}

	if len(words) <= threshold {
		return [][]string{words}
	}

	var chunks [][]string
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, words[start:end])
	}
	return chunks
}

// matchEntries pairs chunk words with parsed entries. Words are matched
// by the entry's word field first; when the response has exactly one
// entry per requested word, leftover entries are paired positionally so
// the retry engine sees a substituted word instead of starting from
// nothing.
func matchEntries(chunk []string, entries []Entry) []*Entry {
	matched := make([]*Entry, len(chunk))
	used := make([]bool, len(entries))

	for i, word := range chunk {
		for j := range entries {
			if !used[j] && sameWord(entries[j].Word, word) {
				matched[i] = &entries[j]
				used[j] = true
				break
			}
		}
	}

	if len(entries) == len(chunk) {
		for i := range chunk {
			if matched[i] != nil {
				continue
			}
			for j := range entries {
				if !used[j] {
					matched[i] = &entries[j]
					used[j] = true
					break
				}
			}
		}
	}

	return matched
}
