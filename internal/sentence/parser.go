package sentence

import (
	"encoding/json"
	"strings"
)

// Entry is one raw per-word record decoded from a generation-service
// response.
type Entry struct {
	Word               string              `json:"word"`
	EnglishTranslation string              `json:"english_translation"`
	ExampleSentences   []SentenceCandidate `json:"example_sentences"`
}

// Parser decodes generation-service responses. Responses carry either a
// single-word object or a {"words": [...]} batch; both may arrive wrapped
// in a markdown code fence.
type Parser struct{}

// NewParser creates a response parser.
func NewParser() *Parser {
	return &Parser{}
}

// StripCodeFences removes a markdown code fence wrapped around s, if any.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Parse decodes raw into per-word entries. Malformed payloads are rejected
// wholesale with a *ParseError; there is no best-effort field recovery.
func (p *Parser) Parse(raw string) ([]Entry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParseError{Reason: "empty response"}
	}

	stripped := StripCodeFences(raw)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripped), &probe); err != nil {
		return nil, &ParseError{Reason: "response is not valid JSON: " + err.Error()}
	}
	if probe == nil {
		return nil, &ParseError{Reason: "response is not a JSON object"}
	}

	wordsRaw, isBatch := probe["words"]
	if !isBatch {
		var entry Entry
		if err := json.Unmarshal([]byte(stripped), &entry); err != nil {
			return nil, &ParseError{Reason: "malformed word record: " + err.Error()}
		}
		return []Entry{entry}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(wordsRaw, &items); err != nil || items == nil {
		return nil, &ParseError{Reason: `"words" is not a list`}
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		var entry Entry
		if err := json.Unmarshal(item, &entry); err != nil {
			return nil, &ParseError{Reason: "malformed word record in batch: " + err.Error()}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
