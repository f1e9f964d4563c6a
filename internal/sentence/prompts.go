package sentence

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SystemPrompt is sent with every generation request.
const SystemPrompt = "You are a helpful Danish language teacher who provides accurate example sentences and usage tips for Danish words."

// responseSchema describes the JSON object expected back for one word.
const responseSchema = `{"word": "<the Danish word>", "english_translation": "<short English translation>", "example_sentences": [{"danish": "<Danish sentence>", "english": "<English translation>"}, ...]}`

// SingleWordPrompt asks for example sentences for one Danish word.
func SingleWordPrompt(word string, level CEFRLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the Danish word %q, provide exactly 3 different example sentences showing how the word is used.\n\n", word)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Use the exact word %q in each sentence (not inflected forms)\n", word)
	fmt.Fprintf(&b, "- Sentences must be appropriate for %s level Danish learners\n", level)
	fmt.Fprintf(&b, "- Include an English translation for each sentence\n")
	fmt.Fprintf(&b, "- Include a short English translation of the word itself\n\n")
	fmt.Fprintf(&b, "Respond with ONLY a JSON object of the form:\n%s", responseSchema)
	return b.String()
}

// BatchPrompt asks for example sentences for several words in one
// request. The word list is embedded as JSON so the model returns the
// same spelling it was given.
func BatchPrompt(words []string, level CEFRLevel) string {
	encoded, _ := json.Marshal(words)
	var b strings.Builder
	fmt.Fprintf(&b, "For each Danish word in the following JSON list, provide exactly 3 different example sentences showing how the word is used.\n\n")
	fmt.Fprintf(&b, "Words: %s\n\n", encoded)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Use each exact word in its sentences (not inflected forms)\n")
	fmt.Fprintf(&b, "- Sentences must be appropriate for %s level Danish learners\n", level)
	fmt.Fprintf(&b, "- Include an English translation for each sentence\n")
	fmt.Fprintf(&b, "- Include a short English translation of each word\n\n")
	fmt.Fprintf(&b, "Respond with ONLY a JSON object of the form:\n")
	fmt.Fprintf(&b, `{"words": [%s, ...]}`, responseSchema)
	fmt.Fprintf(&b, "\nwith one entry per requested word, in the same order.")
	return b.String()
}

// WrongWordRetryPrompt is used after the model answered for a word
// other than the one requested.
func WrongWordRetryPrompt(requested, returned string, level CEFRLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You previously returned a different word (%q) when asked about the Danish word %q.\n\n", returned, requested)
	fmt.Fprintf(&b, "Provide exactly 3 different example sentences for the Danish word %q.\n\n", requested)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- The \"word\" field in your answer MUST be exactly %q\n", requested)
	fmt.Fprintf(&b, "- Use the exact word %q in each sentence (not inflected forms)\n", requested)
	fmt.Fprintf(&b, "- Sentences must be appropriate for %s level Danish learners\n", level)
	fmt.Fprintf(&b, "- Include an English translation for each sentence\n\n")
	fmt.Fprintf(&b, "Respond with ONLY a JSON object of the form:\n%s", responseSchema)
	return b.String()
}

// InflectionPrompt asks for sentences using one specific inflected
// surface form of a base word.
func InflectionPrompt(base, form string, level CEFRLevel) string {
	var b strings.Builder
	fmt.Fprintf(&b, "For the Danish word %q, provide exactly 3 different example sentences that each use the inflected form %q.\n\n", base, form)
	fmt.Fprintf(&b, "Requirements:\n")
	fmt.Fprintf(&b, "- Every sentence MUST contain the literal form %q\n", form)
	fmt.Fprintf(&b, "- Sentences must be appropriate for %s level Danish learners\n", level)
	fmt.Fprintf(&b, "- Include an English translation for each sentence\n")
	fmt.Fprintf(&b, "- Include a short English translation of the word itself\n\n")
	fmt.Fprintf(&b, "Respond with ONLY a JSON object of the form:\n%s", responseSchema)
	return b.String()
}
