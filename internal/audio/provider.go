package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider defines the interface for pronunciation audio providers
type Provider interface {
	// GenerateAudio produces audio for the given Danish text and saves it
	// to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "ordnet", "forvo", "openai" or "espeak"
	OutputDir    string // Directory for output files
	OutputFormat string // Output format: "mp3" or "wav"

	// Forvo-specific settings
	ForvoKey string

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "ballad", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer", "verse"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model
	EnableCache       bool
	CacheDir          string
}

// DefaultProviderConfig returns default configuration. Real speaker
// recordings from ordnet.dk are the default source; the TTS providers
// cover words the dictionary has no audio for.
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:     "ordnet",
		OutputDir:    "./",
		OutputFormat: "mp3",
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAIVoice:  "nova",
		OpenAISpeed:  0.9,
		OpenAIInstruction: "You are speaking Danish (dansk). Pronounce the Danish text " +
			"with authentic Danish phonetics, including stød where it belongs. " +
			"Speak slowly and clearly for language learners.",
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "ordnet", "":
		return NewOrdnetProvider(), nil

	case "forvo":
		if config.ForvoKey == "" {
			return nil, fmt.Errorf("Forvo API key is required")
		}
		return NewForvoProvider(config), nil

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "espeak":
		return NewESpeakProvider(DefaultConfig())

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		fmt.Printf("Primary provider (%s) failed: %v. Falling back to %s\n",
			p.primary.Name(), err, p.fallback.Name())

		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}

// CopyToAnkiMedia copies an audio file into an Anki collection.media
// directory under the lowercased word name, which is the name the card
// templates reference in their [sound:] tags.
func CopyToAnkiMedia(audioFile, word, mediaDir string) error {
	if mediaDir == "" {
		return fmt.Errorf("anki media directory not set")
	}

	info, err := os.Stat(mediaDir)
	if err != nil {
		return fmt.Errorf("anki media directory does not exist: %s", mediaDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("anki media path is not a directory: %s", mediaDir)
	}

	data, err := os.ReadFile(audioFile)
	if err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}

	dest := filepath.Join(mediaDir, strings.ToLower(word)+".mp3")
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to copy audio into anki media: %w", err)
	}
	return nil
}
