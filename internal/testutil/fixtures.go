package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wordPayload mirrors the JSON shape the generation service returns for
// one word.
type wordPayload struct {
	Word               string            `json:"word"`
	EnglishTranslation string            `json:"english_translation"`
	ExampleSentences   []sentencePayload `json:"example_sentences"`
}

type sentencePayload struct {
	Danish  string `json:"danish"`
	English string `json:"english"`
}

// WordResponse builds the generation-service JSON payload for a single
// word. Each sentence is a danish/english pair.
func WordResponse(word, english string, sentences ...[2]string) string {
	payload := wordPayload{
		Word:               word,
		EnglishTranslation: english,
	}
	for _, s := range sentences {
		payload.ExampleSentences = append(payload.ExampleSentences, sentencePayload{
			Danish:  s[0],
			English: s[1],
		})
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

// BatchResponse wraps per-word payloads into the batch response shape.
func BatchResponse(wordPayloads ...string) string {
	return fmt.Sprintf(`{"words": [%s]}`, strings.Join(wordPayloads, ", "))
}

// FencedResponse wraps a payload in the markdown code fence models like
// to emit.
func FencedResponse(payload string) string {
	return "```json\n" + payload + "\n```"
}

// MP3Data generates mock MP3 audio data large enough to pass file
// validation
func MP3Data() []byte {
	data := make([]byte, 2048)
	copy(data, []byte{0xFF, 0xFB, 0x90, 0x00})
	return data
}

// ID3Data generates mock MP3 audio data with an ID3 tag header
func ID3Data() []byte {
	data := make([]byte, 2048)
	copy(data, []byte("ID3"))
	return data
}

// JPEGData generates mock image data
func JPEGData() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
}
