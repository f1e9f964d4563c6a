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

const unsplashEndpoint = "https://api.unsplash.com"

// UnsplashClient searches unsplash.com. The demo tier allows 50 requests
// per hour and every displayed photo must carry attribution and trigger
// the download endpoint.
type UnsplashClient struct {
	accessKey  string
	httpClient *http.Client
	limiter    *throttle
}

// NewUnsplashClient creates an Unsplash search client. The access key is
// mandatory; Unsplash has no keyless tier.
func NewUnsplashClient(accessKey string) (*UnsplashClient, error) {
	if accessKey == "" {
		return nil, fmt.Errorf("Unsplash access key is required")
	}
	return &UnsplashClient{
		accessKey:  accessKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    newThrottle(50, time.Hour),
	}, nil
}

type unsplashPhoto struct {
	ID          string `json:"id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Description string `json:"description"`
	AltDesc     string `json:"alt_description"`
	URLs        struct {
		Small string `json:"small"`
		Thumb string `json:"thumb"`
	} `json:"urls"`
	Links struct {
		Download string `json:"download"`
	} `json:"links"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

type unsplashPage struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []unsplashPhoto `json:"results"`
}

// Search queries Unsplash and returns small-sized results, which are
// plenty for a flashcard.
func (u *UnsplashClient) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	u.limiter.wait()

	q := url.Values{}
	q.Set("query", opts.Query)
	q.Set("per_page", strconv.Itoa(opts.PerPage))
	q.Set("page", strconv.Itoa(opts.Page))
	if o := unsplashOrientation(opts.Orientation); o != "" {
		q.Set("orientation", o)
	}

	reqURL := unsplashEndpoint + "/search/photos?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+u.accessKey)
	req.Header.Set("Accept-Version", "v1")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return nil, &RateLimitError{
			Provider:     "unsplash",
			RetryAfter:   3600,
			LimitPerHour: 50,
		}
	case http.StatusUnauthorized:
		return nil, &SearchError{
			Provider: "unsplash",
			Code:     "401",
			Message:  "Invalid access key",
		}
	case http.StatusOK:
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, &SearchError{
			Provider: "unsplash",
			Code:     strconv.Itoa(resp.StatusCode),
			Message:  string(body),
		}
	}

	var page unsplashPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]SearchResult, 0, len(page.Results))
	for _, photo := range page.Results {
		desc := photo.Description
		if desc == "" {
			desc = photo.AltDesc
		}
		results = append(results, SearchResult{
			ID:           photo.ID,
			URL:          photo.URLs.Small,
			ThumbnailURL: photo.URLs.Thumb,
			Width:        photo.Width,
			Height:       photo.Height,
			Description:  desc,
			Attribution:  fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name),
			Source:       "unsplash",
		})
	}

	// Unsplash guidelines require hitting the download endpoint for
	// photos that end up being used. Fire and forget.
	go u.trackDownloads(page.Results)

	return results, nil
}

// Download fetches the image bytes behind a search result URL.
func (u *UnsplashClient) Download(ctx context.Context, imageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// GetAttribution returns the attribution text. Unsplash always requires it.
func (u *UnsplashClient) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

func (u *UnsplashClient) Name() string {
	return "unsplash"
}

func unsplashOrientation(orientation string) string {
	switch orientation {
	case "horizontal":
		return "landscape"
	case "vertical":
		return "portrait"
	default:
		return ""
	}
}

func (u *UnsplashClient) trackDownloads(photos []unsplashPhoto) {
	for _, photo := range photos {
		go func(downloadURL string) {
			req, err := http.NewRequest(http.MethodGet, downloadURL, nil)
			if err != nil {
				return
			}
			req.Header.Set("Authorization", "Client-ID "+u.accessKey)
			if resp, err := u.httpClient.Do(req); err == nil {
				resp.Body.Close()
			}
		}(photo.Links.Download)
	}
}
