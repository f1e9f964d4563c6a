package sentence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// geminiClient generates sentences through the Gemini API
type geminiClient struct {
	apiKey      string
	model       string
	temperature float32
	client      *genai.Client
}

func newGeminiClient(config *ClientConfig) *geminiClient {
	model := config.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &geminiClient{
		apiKey:      config.APIKey,
		model:       model,
		temperature: config.Temperature,
	}
}

// ensureClient creates the underlying API client on first use so the
// same session is reused for every request in a run.
func (c *geminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	if c.client != nil {
		return c.client, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("Gemini API error: %w", err)}
	}

	c.client = client
	return client, nil
}

// Complete sends one generation request and returns the response text
func (c *geminiClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		MaxOutputTokens:   int32(maxTokens),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		return "", c.classifyError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &ServiceError{Err: fmt.Errorf("no completion returned")}
	}

	return text, nil
}

// Name returns the backend name
func (c *geminiClient) Name() string {
	return "gemini"
}

// IsAvailable checks if the backend is properly configured
func (c *geminiClient) IsAvailable() error {
	if c.apiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}

func (c *geminiClient) classifyError(err error) error {
	wrapped := fmt.Errorf("Gemini API error: %w", err)

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return &AuthenticationError{Err: wrapped}
		case 404:
			return &ModelUnavailableError{Model: c.model, Err: wrapped}
		case 429:
			return &RateLimitError{Err: wrapped}
		}
	}

	return &ServiceError{Err: wrapped}
}
