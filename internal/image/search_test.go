package image

import (
	"context"
	"io"
	"strings"
	"testing"
)

// mockSearcher implements ImageSearcher for testing
type mockSearcher struct {
	name          string
	searchResults []SearchResult
	searchErr     error
	downloadErr   error
}

func (m *mockSearcher) Search(ctx context.Context, opts *SearchOptions) ([]SearchResult, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchResults, nil
}

func (m *mockSearcher) Download(ctx context.Context, url string) (io.ReadCloser, error) {
	if m.downloadErr != nil {
		return nil, m.downloadErr
	}
	return io.NopCloser(strings.NewReader("mock image data")), nil
}

func (m *mockSearcher) GetAttribution(result *SearchResult) string {
	return result.Attribution
}

func (m *mockSearcher) Name() string {
	return m.name
}

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions("æble")

	if opts.Query != "æble" {
		t.Errorf("Expected query 'æble', got '%s'", opts.Query)
	}

	if opts.Language != "da" {
		t.Errorf("Expected language 'da', got '%s'", opts.Language)
	}

	if !opts.SafeSearch {
		t.Error("Expected SafeSearch to be true")
	}

	if opts.PerPage != 10 {
		t.Errorf("Expected PerPage 10, got %d", opts.PerPage)
	}

	if opts.Page != 1 {
		t.Errorf("Expected Page 1, got %d", opts.Page)
	}

	if opts.ImageType != "photo" {
		t.Errorf("Expected ImageType 'photo', got '%s'", opts.ImageType)
	}
}

func TestNewSearcher(t *testing.T) {
	tests := []struct {
		name     string
		config   *ProviderConfig
		wantName string
		wantErr  bool
	}{
		{
			name:     "default is pixabay",
			config:   nil,
			wantName: "pixabay",
		},
		{
			name:     "explicit pixabay",
			config:   &ProviderConfig{Provider: "pixabay", PixabayKey: "key"},
			wantName: "pixabay",
		},
		{
			name:     "unsplash with key",
			config:   &ProviderConfig{Provider: "unsplash", UnsplashKey: "key"},
			wantName: "unsplash",
		},
		{
			name:    "unsplash without key",
			config:  &ProviderConfig{Provider: "unsplash"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			config:  &ProviderConfig{Provider: "imgur"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, err := NewSearcher(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewSearcher() failed: %v", err)
			}
			if searcher.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", searcher.Name(), tt.wantName)
			}
		})
	}
}

func TestTranslateDanishQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"æble", "apple"},
		{"Hund", "dog"},
		{"  kat  ", "cat"},
		{"xylofon", "xylofon"}, // unknown passes through
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := translateDanishQuery(tt.query); got != tt.want {
				t.Errorf("translateDanishQuery(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestQueryTranslator_NoAPIKey(t *testing.T) {
	qt := NewQueryTranslator("")

	// Without a key the translator must fall back to the static map.
	if got := qt.TranslateQuery(context.Background(), "æble"); got != "apple" {
		t.Errorf("TranslateQuery = %q, want 'apple'", got)
	}

	if got := qt.TranslateQuery(context.Background(), "ukendtord"); got != "ukendtord" {
		t.Errorf("TranslateQuery = %q, want passthrough 'ukendtord'", got)
	}
}

func TestSearchError(t *testing.T) {
	err := &SearchError{
		Provider: "test",
		Code:     "404",
		Message:  "Not found",
	}

	expected := "test: Not found"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{
		Provider:     "test",
		RetryAfter:   60,
		LimitPerHour: 100,
	}

	expected := "test: rate limit exceeded"
	if err.Error() != expected {
		t.Errorf("Expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestMockSearcher(t *testing.T) {
	mockResults := []SearchResult{
		{
			ID:          "1",
			URL:         "https://example.com/image1.jpg",
			Width:       800,
			Height:      600,
			Description: "Test image",
			Source:      "mock",
		},
	}

	searcher := &mockSearcher{
		name:          "mock",
		searchResults: mockResults,
	}

	ctx := context.Background()
	opts := DefaultSearchOptions("test")

	results, err := searcher.Search(ctx, opts)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if results[0].ID != "1" {
		t.Errorf("Expected ID '1', got '%s'", results[0].ID)
	}
}

func TestDownloadOptions(t *testing.T) {
	opts := DefaultDownloadOptions()

	if opts.OutputDir != "./images" {
		t.Errorf("Expected output dir './images', got '%s'", opts.OutputDir)
	}

	if opts.OverwriteExisting {
		t.Error("Expected OverwriteExisting to be false")
	}

	if !opts.CreateDir {
		t.Error("Expected CreateDir to be true")
	}

	if opts.MaxSizeBytes != 10*1024*1024 {
		t.Errorf("Expected MaxSizeBytes 10MB, got %d", opts.MaxSizeBytes)
	}
}
