package sentence

import (
	"errors"
	"reflect"
	"testing"

	"codeberg.org/tlinquata/ordkort/internal/testutil"
)

func TestParseSingleWord(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Entry
	}{
		{
			name: "plain JSON object",
			raw:  `{"word": "hund", "english_translation": "dog", "example_sentences": [{"danish": "Min hund er stor.", "english": "My dog is big."}]}`,
			want: Entry{
				Word:               "hund",
				EnglishTranslation: "dog",
				ExampleSentences: []SentenceCandidate{
					{Danish: "Min hund er stor.", English: "My dog is big."},
				},
			},
		},
		{
			name: "code fence wrapping",
			raw:  testutil.FencedResponse(`{"word": "kat", "english_translation": "cat", "example_sentences": []}`),
			want: Entry{Word: "kat", EnglishTranslation: "cat", ExampleSentences: []SentenceCandidate{}},
		},
		{
			name: "missing optional fields",
			raw:  `{"word": "hus"}`,
			want: Entry{Word: "hus"},
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := parser.Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("Parse() returned %d entries, want 1", len(entries))
			}
			if !reflect.DeepEqual(entries[0], tt.want) {
				t.Errorf("Parse() = %+v, want %+v", entries[0], tt.want)
			}
		})
	}
}

func TestParseBatch(t *testing.T) {
	raw := testutil.BatchResponse(
		testutil.WordResponse("hund", "dog", [2]string{"Min hund er stor.", "My dog is big."}),
		testutil.WordResponse("kat", "cat", [2]string{"Katten sover.", "The cat sleeps."}),
	)

	entries, err := NewParser().Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Parse() returned %d entries, want 2", len(entries))
	}
	if entries[0].Word != "hund" || entries[1].Word != "kat" {
		t.Errorf("Parse() words = %q, %q, want hund, kat", entries[0].Word, entries[1].Word)
	}
}

func TestParseEmptyBatch(t *testing.T) {
	entries, err := NewParser().Parse(`{"words": []}`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Parse() returned %d entries, want 0", len(entries))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty input", raw: ""},
		{name: "whitespace only", raw: "  \n\t "},
		{name: "not JSON", raw: "Here are some sentences for you!"},
		{name: "JSON null", raw: "null"},
		{name: "JSON array", raw: `[{"word": "hund"}]`},
		{name: "words bound to null", raw: `{"words": null}`},
		{name: "words bound to a string", raw: `{"words": "hund"}`},
		{name: "garbled word field", raw: `{"word": 5}`},
		{name: "one garbled batch item rejects all", raw: `{"words": [{"word": "hund"}, 5]}`},
		{name: "truncated payload", raw: `{"word": "hund", "example_sentences": [{"danish":`},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.raw)
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Parse() error = %T, want *ParseError", err)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n{\"word\": \"hund\"}\n```", want: `{"word": "hund"}`},
		{name: "bare fence", input: "```\n{}\n```", want: "{}"},
		{name: "no fence", input: `{"word": "hund"}`, want: `{"word": "hund"}`},
		{name: "surrounding whitespace", input: "  \n```json\n{}\n```\n  ", want: "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFences(tt.input); got != tt.want {
				t.Errorf("StripCodeFences() = %q, want %q", got, tt.want)
			}
		})
	}
}
