package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DownloadImage fetches an image URL straight to a file, verifying that
// the response actually carries an image content type.
func DownloadImage(ctx context.Context, imageURL, outputPath string) error {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("unexpected content type %q for image URL", contentType)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// DownloadOptions configures how the Downloader names and stores files.
type DownloadOptions struct {
	OutputDir         string // directory to save images
	OverwriteExisting bool
	CreateDir         bool   // create OutputDir if missing
	FileNamePattern   string // pattern with {word}/{source}/{id}/{index} placeholders
	MaxSizeBytes      int64  // 0 = no limit
}

// DefaultDownloadOptions returns sensible defaults for image downloads.
func DefaultDownloadOptions() *DownloadOptions {
	return &DownloadOptions{
		OutputDir:       "./images",
		CreateDir:       true,
		FileNamePattern: "{word}_{source}",
		MaxSizeBytes:    10 * 1024 * 1024,
	}
}

// Downloader saves search results to disk, walking down the result list
// until one download succeeds.
type Downloader struct {
	searcher ImageSearcher
	options  *DownloadOptions
}

// NewDownloader creates an image downloader. A nil options uses defaults.
func NewDownloader(searcher ImageSearcher, options *DownloadOptions) *Downloader {
	if options == nil {
		options = DefaultDownloadOptions()
	}
	return &Downloader{searcher: searcher, options: options}
}

// DownloadImage saves a single search result to outputPath, enforcing the
// configured size limit and writing an attribution file when the provider
// requires one.
func (d *Downloader) DownloadImage(ctx context.Context, result *SearchResult, outputPath string) error {
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if !d.options.OverwriteExisting {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("file already exists: %s", outputPath)
		}
	}

	reader, err := d.searcher.Download(ctx, result.URL)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer reader.Close()

	if err := d.writeCapped(reader, outputPath); err != nil {
		return err
	}

	if attribution := d.searcher.GetAttribution(result); attribution != "" {
		attrPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "_attribution.txt"
		if err := os.WriteFile(attrPath, []byte(attribution), 0644); err != nil {
			// The image itself made it, so only warn.
			fmt.Fprintf(os.Stderr, "Warning: failed to save attribution: %v\n", err)
		}
	}

	return nil
}

func (d *Downloader) writeCapped(reader io.Reader, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if d.options.MaxSizeBytes <= 0 {
		if _, err := io.Copy(file, reader); err != nil {
			os.Remove(outputPath)
			return fmt.Errorf("failed to write file: %w", err)
		}
		return nil
	}

	written, err := io.CopyN(file, reader, d.options.MaxSizeBytes)
	if err != nil && err != io.EOF {
		os.Remove(outputPath)
		return fmt.Errorf("failed to write file: %w", err)
	}
	if written == d.options.MaxSizeBytes {
		// Peek one byte to tell "exactly at the cap" from "over it".
		if _, err := reader.Read(make([]byte, 1)); err != io.EOF {
			os.Remove(outputPath)
			return fmt.Errorf("image exceeds maximum size of %d bytes", d.options.MaxSizeBytes)
		}
	}
	return nil
}

// DownloadBestMatch searches for query and downloads the first result
// that can be fetched. Returns the chosen result and the saved path.
func (d *Downloader) DownloadBestMatch(ctx context.Context, query string) (*SearchResult, string, error) {
	return d.DownloadBestMatchWithOptions(ctx, DefaultSearchOptions(query))
}

// DownloadBestMatchWithOptions is DownloadBestMatch with full control over
// the search options.
func (d *Downloader) DownloadBestMatchWithOptions(ctx context.Context, opts *SearchOptions) (*SearchResult, string, error) {
	searchOpts := *opts
	searchOpts.PerPage = 5

	results, err := d.searcher.Search(ctx, &searchOpts)
	if err != nil {
		return nil, "", fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, "", fmt.Errorf("no images found for query: %s", opts.Query)
	}

	for i, result := range results {
		filename := d.generateFileName(opts.Query, &result, i)
		outputPath := filepath.Join(d.options.OutputDir, filename)

		err := d.DownloadImage(ctx, &result, outputPath)
		if err == nil {
			return &result, outputPath, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: failed to download image %d: %v\n", i+1, err)
	}

	return nil, "", fmt.Errorf("failed to download any images for query: %s", opts.Query)
}

func (d *Downloader) generateFileName(word string, result *SearchResult, index int) string {
	filename := d.options.FileNamePattern
	filename = strings.ReplaceAll(filename, "{word}", sanitizeFileName(word))
	filename = strings.ReplaceAll(filename, "{source}", result.Source)
	filename = strings.ReplaceAll(filename, "{id}", result.ID)
	filename = strings.ReplaceAll(filename, "{index}", fmt.Sprintf("%d", index))

	if filepath.Ext(filename) == "" {
		ext := filepath.Ext(result.URL)
		if ext == "" || len(ext) > 5 {
			ext = ".jpg"
		}
		filename += ext
	}

	return filename
}

// sanitizeFileName replaces characters that are unsafe in filenames.
func sanitizeFileName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "_",
		".", "_",
	)

	sanitized := replacer.Replace(name)
	if len(sanitized) > 50 {
		sanitized = sanitized[:50]
	}
	return sanitized
}
