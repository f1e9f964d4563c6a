package image

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const pixabayEndpoint = "https://pixabay.com/api/"

// PixabayClient searches pixabay.com. It works without an API key but
// the free tier is throttled to 100 requests per minute, so searches
// go through a shared limiter.
type PixabayClient struct {
	apiKey     string
	httpClient *http.Client
	limiter    *throttle
}

// NewPixabayClient creates a Pixabay search client. An empty apiKey is
// allowed; results then require attribution.
func NewPixabayClient(apiKey string) *PixabayClient {
	return &PixabayClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newThrottle(100, time.Minute),
	}
}

type pixabayHit struct {
	ID             int    `json:"id"`
	PageURL        string `json:"pageURL"`
	Tags           string `json:"tags"`
	PreviewURL     string `json:"previewURL"`
	WebformatURL   string `json:"webformatURL"`
	WebformatWidth int    `json:"webformatWidth"`
	WebformatHt    int    `json:"webformatHeight"`
	User           string `json:"user"`
}

type pixabayPage struct {
	Total     int          `json:"total"`
	TotalHits int          `json:"totalHits"`
	Hits      []pixabayHit `json:"hits"`
}

func (p *PixabayClient) searchURL(opts *SearchOptions) string {
	q := url.Values{}
	if p.apiKey != "" {
		q.Set("key", p.apiKey)
	}
	q.Set("q", opts.Query)
	q.Set("lang", opts.Language)
	q.Set("image_type", opts.ImageType)
	q.Set("safesearch", strconv.FormatBool(opts.SafeSearch))
	q.Set("per_page", strconv.Itoa(opts.PerPage))
	q.Set("page", strconv.Itoa(opts.Page))
	if opts.Orientation != "" && opts.Orientation != "all" {
		q.Set("orientation", opts.Orientation)
	}
	return pixabayEndpoint + "?" + q.Encode()
}

// Search queries Pixabay and returns webformat-sized results.
func (p *PixabayClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	p.limiter.wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.searchURL(opts), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:     "pixabay",
			RetryAfter:   60,
			LimitPerHour: 5000,
		}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, &SearchError{
			Provider: "pixabay",
			Code:     strconv.Itoa(resp.StatusCode),
			Message:  string(body),
		}
	}

	var page pixabayPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(page.Hits))
	for _, hit := range page.Hits {
		results = append(results, SearchResult{
			ID:           strconv.Itoa(hit.ID),
			URL:          hit.WebformatURL,
			ThumbnailURL: hit.PreviewURL,
			Width:        hit.WebformatWidth,
			Height:       hit.WebformatHt,
			Description:  hit.Tags,
			Attribution:  fmt.Sprintf("Image by %s from Pixabay", hit.User),
			Source:       "pixabay",
		})
	}
	return results, nil
}

// Download fetches the image bytes behind a search result URL.
func (p *PixabayClient) Download(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// GetAttribution returns the attribution text. Keyless access requires it;
// with an API key Pixabay treats attribution as optional.
func (p *PixabayClient) GetAttribution(result *SearchResult) string {
	if p.apiKey == "" {
		return result.Attribution
	}
	return ""
}

func (p *PixabayClient) Name() string {
	return "pixabay"
}
