package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	forvoAPIBase = "https://apifree.forvo.com"
	forvoTimeout = 30 * time.Second
)

// ForvoProvider downloads crowd-sourced pronunciations from the Forvo
// free API.
type ForvoProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// forvoResponse represents the API response structure
type forvoResponse struct {
	Items []forvoPronunciation `json:"items"`
}

// forvoPronunciation represents a single pronunciation in the response
type forvoPronunciation struct {
	ID       int    `json:"id"`
	Word     string `json:"word"`
	PathMP3  string `json:"pathmp3"`
	Username string `json:"username"`
	Country  string `json:"country"`
	NumVotes int    `json:"num_votes"`
	Sex      string `json:"sex"`
}

// NewForvoProvider creates a new Forvo provider
func NewForvoProvider(config *Config) *ForvoProvider {
	return &ForvoProvider{
		apiKey:  config.ForvoKey,
		baseURL: forvoAPIBase,
		httpClient: &http.Client{
			Timeout: forvoTimeout,
		},
	}
}

// GenerateAudio downloads the best-rated Danish pronunciation for word.
func (p *ForvoProvider) GenerateAudio(ctx context.Context, word string, outputFile string) error {
	if err := ValidateDanishText(word); err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/key/%s/format/json/action/word-pronunciations/word/%s/language/da/",
		p.baseURL, p.apiKey, url.PathEscape(word))

	body, err := p.fetch(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("Forvo API error: %w", err)
	}

	var forvoResp forvoResponse
	if err := json.Unmarshal(body, &forvoResp); err != nil {
		return fmt.Errorf("failed to decode Forvo response: %w", err)
	}

	best := bestPronunciation(forvoResp.Items)
	if best == nil {
		return fmt.Errorf("no Forvo pronunciations for %q", word)
	}

	audio, err := p.fetch(ctx, best.PathMP3)
	if err != nil {
		return fmt.Errorf("failed to download pronunciation by %s: %w", best.Username, err)
	}

	return WriteValidatedAudio(outputFile, audio)
}

func (p *ForvoProvider) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// bestPronunciation prefers native Danish speakers, then vote count, then
// newer recordings.
func bestPronunciation(items []forvoPronunciation) *forvoPronunciation {
	var best *forvoPronunciation
	var bestScore float64

	for i := range items {
		item := &items[i]
		if item.PathMP3 == "" {
			continue
		}

		score := float64(item.NumVotes) * 10
		if strings.EqualFold(item.Country, "Denmark") {
			score += 1000
		}
		score += float64(item.ID) * 0.001

		if best == nil || score > bestScore {
			best = item
			bestScore = score
		}
	}

	return best
}

// Name returns the provider name
func (p *ForvoProvider) Name() string {
	return "forvo"
}

// IsAvailable checks if the Forvo API key is configured
func (p *ForvoProvider) IsAvailable() error {
	if p.apiKey == "" {
		return fmt.Errorf("Forvo API key not configured")
	}
	return nil
}
