package image

import (
	"context"
	"fmt"
	"io"
)

// SearchResult represents a single image search result
type SearchResult struct {
	ID           string // Unique identifier
	URL          string // Direct URL to the image
	ThumbnailURL string // URL to thumbnail version
	Width        int    // Image width in pixels
	Height       int    // Image height in pixels
	Description  string // Image description or tags
	Attribution  string // Attribution text if required
	Source       string // Source provider (e.g., "pixabay", "unsplash")
}

// SearchOptions configures the image search
type SearchOptions struct {
	Query       string // Search query (Danish word or its English translation)
	Language    string // Language code (default: "da")
	SafeSearch  bool   // Enable safe search filtering
	PerPage     int    // Number of results per page
	Page        int    // Page number (1-based)
	ImageType   string // Type: "photo", "illustration", "vector", "all"
	Orientation string // Orientation: "horizontal", "vertical", "all"
}

// DefaultSearchOptions returns sensible defaults for Danish word searches
func DefaultSearchOptions(query string) *SearchOptions {
	return &SearchOptions{
		Query:       query,
		Language:    "da",
		SafeSearch:  true,
		PerPage:     10,
		Page:        1,
		ImageType:   "photo",
		Orientation: "all",
	}
}

// ImageSearcher defines the interface for image search providers
type ImageSearcher interface {
	// Search performs an image search with the given options
	Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error)

	// Download downloads an image from the given URL
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// GetAttribution returns the required attribution text for an image
	GetAttribution(result *SearchResult) string

	// Name returns the name of the search provider
	Name() string
}

// ProviderConfig selects and configures an image search provider.
type ProviderConfig struct {
	Provider    string // "pixabay" (default) or "unsplash"
	PixabayKey  string
	UnsplashKey string
}

// NewSearcher creates the appropriate image search provider based on
// configuration.
func NewSearcher(config *ProviderConfig) (ImageSearcher, error) {
	if config == nil {
		config = &ProviderConfig{}
	}

	switch config.Provider {
	case "pixabay", "":
		return NewPixabayClient(config.PixabayKey), nil

	case "unsplash":
		return NewUnsplashClient(config.UnsplashKey)

	default:
		return nil, fmt.Errorf("unknown image provider: %s", config.Provider)
	}
}

// SearchError represents an error from an image search provider
type SearchError struct {
	Provider string
	Code     string
	Message  string
}

func (e *SearchError) Error() string {
	return e.Provider + ": " + e.Message
}

// RateLimitError indicates that the API rate limit has been exceeded
type RateLimitError struct {
	Provider     string
	RetryAfter   int // Seconds to wait before retry
	LimitPerHour int
	LimitPerDay  int
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded"
}
