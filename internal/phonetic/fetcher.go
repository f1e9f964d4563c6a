package phonetic

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const fetchTimeout = 30 * time.Second

const systemPrompt = "You are a Danish language expert helping language learners understand pronunciation. " +
	"Provide detailed phonetic information using the International Phonetic Alphabet (IPA). " +
	"For each IPA symbol used, give concrete examples of how it sounds using familiar English words or sounds when possible."

// Fetcher asks a chat model for an IPA breakdown of a Danish word. Used
// as the fallback when ordnet.dk has no pronunciation entry.
type Fetcher struct {
	apiKey string
	client *openai.Client
}

// NewFetcher creates a phonetic information fetcher.
func NewFetcher(apiKey string) *Fetcher {
	return &Fetcher{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

func wordPrompt(word string) string {
	return fmt.Sprintf(`For the Danish word '%s':
1. Provide the complete IPA transcription
2. Break down EACH phonetic symbol used in the transcription
3. For EVERY symbol, explain how it's pronounced with examples:
   - If similar to an English sound, give English word examples
   - If not in English, describe tongue/mouth position or compare to similar sounds
   - Include stress marks and explain which syllable is stressed
   - Mark stød with ˀ and explain where it occurs

Example format:
Word: [IPA transcription]
• /p/ - like 'p' in English 'pot'
• /a/ - like 'a' in 'father'
• /ˈ/ - stress mark (following syllable is stressed)`, word)
}

// FetchAndSave writes the model's phonetic breakdown for word into
// wordDir/phonetic.txt.
func (f *Fetcher) FetchAndSave(word, wordDir string) error {
	info, err := f.fetch(word)
	if err != nil {
		return err
	}

	phoneticFile := filepath.Join(wordDir, "phonetic.txt")
	if err := os.WriteFile(phoneticFile, []byte(info), 0644); err != nil {
		return fmt.Errorf("failed to write phonetic file: %w", err)
	}
	return nil
}

func (f *Fetcher) fetch(word string) (string, error) {
	if f.apiKey == "" {
		return "", fmt.Errorf("OpenAI API key not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: wordPrompt(word)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
