package sentence

import (
	"context"
	"fmt"
)

// Client defines the interface for text generation backends
type Client interface {
	// Complete sends a system instruction plus user prompt and returns the raw response text
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)

	// Name returns the backend name
	Name() string

	// IsAvailable checks if the backend is properly configured and available
	IsAvailable() error
}

// ClientConfig holds common configuration for generation backends
type ClientConfig struct {
	Provider    string // Backend name: "openai" or "gemini"
	APIKey      string
	Model       string  // Chat model, e.g. "gpt-4o-mini" or "gemini-2.0-flash"
	Temperature float32 // Sampling temperature
}

// DefaultClientConfig returns default configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Provider:    "openai",
		Model:       defaultOpenAIModel,
		Temperature: defaultTemperature,
	}
}

const (
	defaultOpenAIModel = "gpt-4o-mini"
	defaultGeminiModel = "gemini-2.0-flash"
	defaultTemperature = 0.7
)

// NewClient creates the appropriate generation backend based on configuration
func NewClient(config *ClientConfig) (Client, error) {
	if config == nil {
		config = DefaultClientConfig()
	}

	switch config.Provider {
	case "openai", "":
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return newOpenAIClient(config), nil

	case "gemini":
		if config.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return newGeminiClient(config), nil

	default:
		return nil, fmt.Errorf("unknown generation provider: %s", config.Provider)
	}
}

// Token budget sizing: a single word fits comfortably in the base
// budget; each additional word in a batch request adds a fixed slice,
// bounded by the configured cap so oversized chunks cannot request an
// unbounded completion.
const (
	baseTokenBudget       = 800
	perWordTokenBudget    = 150
	DefaultTokenBudgetCap = 4000
)

func tokenBudget(words, limit int) int {
	if limit <= 0 {
		limit = DefaultTokenBudgetCap
	}
	if words < 1 {
		words = 1
	}
	budget := baseTokenBudget + perWordTokenBudget*(words-1)
	if budget > limit {
		budget = limit
	}
	return budget
}
