package ordnet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultBaseURL is the Den Danske Ordbog search endpoint.
	DefaultBaseURL = "https://ordnet.dk/ddo/ordbog"

	requestTimeout = 30 * time.Second

	// ordnet.dk serves a degraded page to clients without browser headers.
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader   = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9,da;q=0.8"

	// Circuit breaker thresholds: stop hitting ordnet.dk after repeated
	// failures and let it recover before retrying.
	breakerFailureLimit = 5
	breakerOpenTimeout  = 60 * time.Second
)

// Client looks up words on ordnet.dk. All requests share one circuit
// breaker, so a run against an unreachable ordnet.dk fails fast instead
// of stalling on every word.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a client for the public ordnet.dk endpoint.
func NewClient() *Client {
	return NewClientWithURL(DefaultBaseURL)
}

// NewClientWithURL creates a client against a custom endpoint.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "ordnet.dk",
			Timeout: breakerOpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerFailureLimit
			},
		}),
	}
}

// Lookup fetches and parses the dictionary entry for word. A word that
// ordnet.dk does not know yields WordData with Found == false and a nil
// error; only transport and server failures are errors.
func (c *Client) Lookup(ctx context.Context, word string) (*WordData, error) {
	reqURL := c.baseURL + "?query=" + url.QueryEscape(word)
	page, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("ordnet.dk lookup for %q failed: %w", word, err)
	}

	data, err := ParseWordData(bytes.NewReader(page), word)
	if err != nil {
		return nil, fmt.Errorf("ordnet.dk lookup for %q failed: %w", word, err)
	}
	return data, nil
}

// DownloadAudio fetches the pronunciation mp3 at audioURL, which should
// come from WordData.AudioURL.
func (c *Client) DownloadAudio(ctx context.Context, audioURL string) ([]byte, error) {
	data, err := c.get(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", acceptHeader)
		req.Header.Set("Accept-Language", acceptLanguage)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}
