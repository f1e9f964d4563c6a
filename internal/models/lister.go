package models

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Lister queries the OpenAI API for the models an API key can use and
// prints them grouped by purpose.
type Lister struct {
	apiKey string
	client *openai.Client
	out    io.Writer
}

// NewLister creates a model lister that prints to stdout.
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
		out:    os.Stdout,
	}
}

// modelGroups holds model IDs bucketed by what they are good for.
type modelGroups struct {
	tts   []string
	image []string
	chat  []string
}

func groupModels(ids []string) modelGroups {
	var g modelGroups
	for _, id := range ids {
		switch {
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			g.tts = append(g.tts, id)
		case strings.Contains(id, "dall-e"):
			g.image = append(g.image, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			g.chat = append(g.chat, id)
		}
	}
	sort.Strings(g.tts)
	sort.Strings(g.image)
	sort.Strings(g.chat)
	return g
}

// ListAvailableModels fetches the model list and prints the TTS, image
// and chat models relevant to flashcard generation.
func (l *Lister) ListAvailableModels() error {
	if l.apiKey == "" {
		return fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .ordkort.yaml")
	}

	resp, err := l.client.ListModels(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, m.ID)
	}
	groups := groupModels(ids)

	fmt.Fprintln(l.out, "Available OpenAI Models:")

	fmt.Fprintln(l.out, "\nText-to-Speech (TTS) Models:")
	l.printGroup(groups.tts, "No TTS models found")

	fmt.Fprintln(l.out, "\nImage Generation Models:")
	l.printGroup(groups.image, "No image models found")

	fmt.Fprintln(l.out, "\nChat/Translation Models (for Danish translation):")
	l.printChat(groups.chat)

	return nil
}

func (l *Lister) printGroup(ids []string, empty string) {
	if len(ids) == 0 {
		fmt.Fprintf(l.out, "  %s\n", empty)
		return
	}
	for _, id := range ids {
		fmt.Fprintf(l.out, "  %s\n", id)
	}
}

// printChat trims the chat list down to the GPT families worth using
// for translation when the full list would be noise.
func (l *Lister) printChat(ids []string) {
	if len(ids) <= 10 {
		for _, id := range ids {
			fmt.Fprintf(l.out, "  %s\n", id)
		}
		return
	}

	shown := 0
	for _, id := range ids {
		if strings.Contains(id, "gpt-4") || strings.Contains(id, "gpt-3.5") {
			fmt.Fprintf(l.out, "  %s\n", id)
			shown++
		}
	}
	fmt.Fprintf(l.out, "  ... and %d more models\n", len(ids)-shown)
}
