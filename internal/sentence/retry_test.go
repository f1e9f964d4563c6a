package sentence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"codeberg.org/tlinquata/ordkort/internal/inflect"
	"codeberg.org/tlinquata/ordkort/internal/testutil"
)

// mockRule answers prompts containing match with a canned response or
// error. Rules are checked in order before the mock's default.
type mockRule struct {
	match    string
	response string
	err      error
}

// mockClient is a scripted generation backend for tests
type mockClient struct {
	rules    []mockRule
	response string
	err      error
	onCall   func(call int)
	calls    []string
}

func (m *mockClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	m.calls = append(m.calls, user)
	if m.onCall != nil {
		m.onCall(len(m.calls))
	}

	for _, rule := range m.rules {
		if strings.Contains(user, rule.match) {
			return rule.response, rule.err
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockClient) Name() string { return "mock" }

func (m *mockClient) IsAvailable() error { return nil }

// recordingObserver captures log, progress and run-error events
type recordingObserver struct {
	logs     []string
	progress [][2]int
	runErrs  []error
}

func (o *recordingObserver) Logf(format string, args ...any) {
	o.logs = append(o.logs, fmt.Sprintf(format, args...))
}

func (o *recordingObserver) Progress(completed, total int) {
	o.progress = append(o.progress, [2]int{completed, total})
}

func (o *recordingObserver) RunError(err error) {
	o.runErrs = append(o.runErrs, err)
}

func (o *recordingObserver) logContaining(substr string) bool {
	for _, line := range o.logs {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func newTestEngine(client Client, obs Observer) *Engine {
	return NewEngine(client, EngineConfig{RequiredSentences: 2}, obs)
}

func TestResolveAcceptsValidBatchEntry(t *testing.T) {
	client := &mockClient{}
	engine := newTestEngine(client, nil)

	entry := &Entry{
		Word:               "hund",
		EnglishTranslation: "dog",
		ExampleSentences: []SentenceCandidate{
			{Danish: "Min hund er stor.", English: "My dog is big."},
			{Danish: "Jeg har en hund.", English: "I have a dog."},
			{Danish: "Min hund sover.", English: "My dog sleeps."},
		},
	}

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.ResolvedWord != "hund" {
		t.Errorf("ResolvedWord = %q, want hund", rec.ResolvedWord)
	}
	if rec.InflectedFormUsed {
		t.Error("InflectedFormUsed = true, want false")
	}
	if rec.EnglishTranslation != "dog" {
		t.Errorf("EnglishTranslation = %q, want dog", rec.EnglishTranslation)
	}
	if len(rec.ExampleSentences) != 2 {
		t.Errorf("kept %d sentences, want 2", len(rec.ExampleSentences))
	}
	if len(client.calls) != 0 {
		t.Errorf("issued %d requests, want 0", len(client.calls))
	}
}

func TestResolveWrongWordEntry(t *testing.T) {
	client := &mockClient{
		rules: []mockRule{
			{
				match: "previously returned a different word",
				response: testutil.WordResponse("hund", "dog",
					[2]string{"Min hund er stor.", "My dog is big."},
					[2]string{"Jeg har en hund.", "I have a dog."},
				),
			},
		},
	}
	obs := &recordingObserver{}
	engine := newTestEngine(client, obs)

	entry := &Entry{
		Word: "kat",
		ExampleSentences: []SentenceCandidate{
			{Danish: "Katten sover."},
			{Danish: "Min kat er sort."},
		},
	}

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.ResolvedWord != "hund" {
		t.Errorf("ResolvedWord = %q, want hund", rec.ResolvedWord)
	}
	if len(client.calls) != 1 {
		t.Fatalf("issued %d requests, want 1", len(client.calls))
	}
	if !strings.Contains(client.calls[0], `"kat"`) {
		t.Errorf("retry prompt does not name the wrong word: %s", client.calls[0])
	}
	if !obs.logContaining(`instead of "hund"`) {
		t.Errorf("missing wrong-word log line, got %v", obs.logs)
	}
}

func TestResolveInsufficientSentencesRetry(t *testing.T) {
	client := &mockClient{
		response: testutil.WordResponse("hund", "dog",
			[2]string{"Jeg har en hund.", "I have a dog."},
			[2]string{"Min hund sover.", "My dog sleeps."},
		),
	}
	engine := newTestEngine(client, nil)

	// Only one of the batch sentences contains the exact word.
	entry := &Entry{
		Word: "hund",
		ExampleSentences: []SentenceCandidate{
			{Danish: "Min hund er stor."},
			{Danish: "Hunden løber i parken."},
		},
	}

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.InflectedFormUsed {
		t.Error("InflectedFormUsed = true, want false")
	}
	if len(client.calls) != 1 {
		t.Errorf("issued %d requests, want 1", len(client.calls))
	}
}

func TestResolveFindsInflectionInExistingSentences(t *testing.T) {
	// The retry returns the same sentences, so the inflected form must be
	// discovered in already-retrieved text without further requests.
	client := &mockClient{
		response: testutil.WordResponse("hund", "dog",
			[2]string{"Hunden løber hurtigt.", "The dog runs fast."},
			[2]string{"Hunden er glad.", "The dog is happy."},
		),
	}
	engine := newTestEngine(client, nil)

	entry := &Entry{
		Word:               "hund",
		EnglishTranslation: "dog",
		ExampleSentences: []SentenceCandidate{
			{Danish: "Hunden løber hurtigt.", English: "The dog runs fast."},
			{Danish: "Hunden er glad.", English: "The dog is happy."},
		},
	}

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, entry)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.ResolvedWord != "Hunden" {
		t.Errorf("ResolvedWord = %q, want Hunden", rec.ResolvedWord)
	}
	if !rec.InflectedFormUsed {
		t.Error("InflectedFormUsed = false, want true")
	}
	if rec.BaseWord != "hund" {
		t.Errorf("BaseWord = %q, want hund", rec.BaseWord)
	}
	if len(client.calls) != 1 {
		t.Errorf("issued %d requests, want 1 (the insufficient-sentences retry)", len(client.calls))
	}
}

func TestResolveInflectionLadder(t *testing.T) {
	// Every plain response uses the base form "rejse", which is not a
	// candidate inflection of "rejser", so the engine must walk the
	// explicit per-form ladder until a form validates.
	client := &mockClient{
		rules: []mockRule{
			{
				match: `the inflected form "rejserne"`,
				response: testutil.WordResponse("rejser", "travels",
					[2]string{"Rejserne til Spanien var lange.", "The travels to Spain were long."},
					[2]string{"Vi taler om rejserne.", "We talk about the travels."},
				),
			},
		},
		response: testutil.WordResponse("rejser", "travels",
			[2]string{"Vi elsker at rejse sammen.", "We love to travel together."},
			[2]string{"De vil rejse til Spanien.", "They want to travel to Spain."},
		),
	}
	engine := newTestEngine(client, nil)

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "rejser", Level: LevelB1}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.ResolvedWord != "rejserne" {
		t.Errorf("ResolvedWord = %q, want rejserne", rec.ResolvedWord)
	}
	if rec.BaseWord != "rejser" {
		t.Errorf("BaseWord = %q, want rejser", rec.BaseWord)
	}
	if !rec.InflectedFormUsed {
		t.Error("InflectedFormUsed = false, want true")
	}

	// initial + insufficient retry + the ladder up to "rejserne":
	// rejseren, rejseret, rejsererne, rejserne.
	if len(client.calls) != 6 {
		t.Errorf("issued %d requests, want 6", len(client.calls))
	}
}

func TestResolveExhaustsRetries(t *testing.T) {
	// No response ever contains the word or any candidate inflection.
	client := &mockClient{
		response: testutil.WordResponse("hund", "dog",
			[2]string{"Katten sover.", "The cat sleeps."},
			[2]string{"Det regner i dag.", "It rains today."},
		),
	}
	obs := &recordingObserver{}
	engine := newTestEngine(client, obs)

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusError {
		t.Fatalf("Resolve() status = %v, want error", rec.Status.Kind)
	}
	if rec.Status.Message != ExhaustedRetriesMessage {
		t.Errorf("Status.Message = %q, want %q", rec.Status.Message, ExhaustedRetriesMessage)
	}

	// One initial request whose word field is checked, one plain retry,
	// then one request per candidate inflection except the bare base.
	wantCalls := 1 + 1 + len(inflect.NewMatcher().CandidateInflections("hund")) - 1
	if len(client.calls) != wantCalls {
		t.Errorf("issued %d requests, want %d", len(client.calls), wantCalls)
	}
	if !obs.logContaining("giving up") {
		t.Errorf("missing exhaustion log line, got %v", obs.logs)
	}
}

func TestResolveAdvancesPastServiceErrors(t *testing.T) {
	client := &mockClient{
		rules: []mockRule{
			{
				match: "showing how the word is used",
				err:   &ServiceError{Err: errors.New("boom")},
			},
			{
				match: `the inflected form "hunden"`,
				response: testutil.WordResponse("hund", "dog",
					[2]string{"Hunden løber.", "The dog runs."},
					[2]string{"Hunden sover.", "The dog sleeps."},
				),
			},
		},
		response: testutil.WordResponse("hund", "dog",
			[2]string{"Katten sover.", "The cat sleeps."},
		),
	}
	engine := newTestEngine(client, nil)

	rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if rec.Status.Kind != StatusOK {
		t.Fatalf("Resolve() status = %v, want ok", rec.Status.Kind)
	}
	if rec.ResolvedWord != "hunden" {
		t.Errorf("ResolvedWord = %q, want hunden", rec.ResolvedWord)
	}

	// Two failed single-word attempts, then the first ladder request
	// succeeds.
	if len(client.calls) != 3 {
		t.Errorf("issued %d requests, want 3", len(client.calls))
	}
}

func TestResolveFatalErrorsPropagate(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "authentication", err: &AuthenticationError{Err: errors.New("401")}},
		{name: "model unavailable", err: &ModelUnavailableError{Model: "gpt-x", Err: errors.New("404")}},
		{name: "rate limit", err: &RateLimitError{Err: errors.New("429")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &mockClient{err: tt.err}
			engine := newTestEngine(client, nil)

			rec, err := engine.Resolve(context.Background(), WordTask{RequestedWord: "hund", Level: LevelB1}, nil)
			if rec != nil {
				t.Errorf("Resolve() record = %+v, want nil", rec)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.err)
			}
			if len(client.calls) != 1 {
				t.Errorf("issued %d requests, want 1", len(client.calls))
			}
		})
	}
}

func TestResolveCancelledContext(t *testing.T) {
	client := &mockClient{}
	engine := newTestEngine(client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := engine.Resolve(ctx, WordTask{RequestedWord: "hund", Level: LevelB1}, nil)
	if rec != nil {
		t.Errorf("Resolve() record = %+v, want nil", rec)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
	if len(client.calls) != 0 {
		t.Errorf("issued %d requests, want 0", len(client.calls))
	}
}
