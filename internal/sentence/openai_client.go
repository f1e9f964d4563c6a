package sentence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// openaiClient generates sentences through the OpenAI chat API
type openaiClient struct {
	apiKey      string
	model       string
	temperature float32
	client      *openai.Client
}

func newOpenAIClient(config *ClientConfig) *openaiClient {
	model := config.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openaiClient{
		apiKey:      config.APIKey,
		model:       model,
		temperature: config.Temperature,
		client:      openai.NewClient(config.APIKey),
	}
}

// Complete sends one chat completion request and returns the response text
func (c *openaiClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", c.classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ServiceError{Err: fmt.Errorf("no completion returned")}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Name returns the backend name
func (c *openaiClient) Name() string {
	return "openai"
}

// IsAvailable checks if the backend is properly configured
func (c *openaiClient) IsAvailable() error {
	if c.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// classifyError maps transport errors onto the failure modes the
// orchestrator branches on.
func (c *openaiClient) classifyError(err error) error {
	wrapped := fmt.Errorf("OpenAI API error: %w", err)

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return &AuthenticationError{Err: wrapped}
		case 404:
			return &ModelUnavailableError{Model: c.model, Err: wrapped}
		case 429:
			return &RateLimitError{Err: wrapped}
		}
		if code, ok := apiErr.Code.(string); ok && code == "model_not_found" {
			return &ModelUnavailableError{Model: c.model, Err: wrapped}
		}
	}

	return &ServiceError{Err: wrapped}
}
