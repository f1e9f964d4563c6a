package audio

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/tlinquata/ordkort/internal/ordnet"
)

const (
	ordnetDownloadAttempts = 3
	ordnetRetryDelay       = 2 * time.Second
)

// OrdnetProvider downloads real speaker recordings from ordnet.dk. It is
// the only provider that yields native pronunciations instead of
// synthesized ones.
type OrdnetProvider struct {
	client     *ordnet.Client
	attempts   int
	retryDelay time.Duration
}

// NewOrdnetProvider creates a provider with its own dictionary client.
func NewOrdnetProvider() *OrdnetProvider {
	return NewOrdnetProviderWithClient(ordnet.NewClient())
}

// NewOrdnetProviderWithClient creates a provider sharing an existing
// dictionary client, so audio downloads and grammar lookups count against
// the same circuit breaker.
func NewOrdnetProviderWithClient(client *ordnet.Client) *OrdnetProvider {
	return &OrdnetProvider{
		client:     client,
		attempts:   ordnetDownloadAttempts,
		retryDelay: ordnetRetryDelay,
	}
}

// GenerateAudio downloads the pronunciation mp3 for word into outputFile.
// Transport failures are retried; a word the dictionary does not know is
// reported immediately.
func (p *OrdnetProvider) GenerateAudio(ctx context.Context, word string, outputFile string) error {
	if err := ValidateDanishText(word); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.retryDelay):
			}
		}

		retry, err := p.download(ctx, word, outputFile)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("ordnet.dk audio for %q failed after %d attempts: %w",
		word, p.attempts, lastErr)
}

// download reports whether a failure is worth retrying. Transport errors
// and bogus payloads are; a word ordnet.dk simply does not know is not.
func (p *OrdnetProvider) download(ctx context.Context, word, outputFile string) (bool, error) {
	data, err := p.client.Lookup(ctx, word)
	if err != nil {
		return true, err
	}
	if !data.Found {
		return false, fmt.Errorf("no ordnet.dk entry for %q", word)
	}
	if data.AudioURL == "" {
		return false, fmt.Errorf("%q has no pronunciation audio on ordnet.dk", word)
	}

	audio, err := p.client.DownloadAudio(ctx, data.AudioURL)
	if err != nil {
		return true, err
	}

	if err := WriteValidatedAudio(outputFile, audio); err != nil {
		return true, err
	}
	return false, nil
}

// Name returns the provider name
func (p *OrdnetProvider) Name() string {
	return "ordnet"
}

// IsAvailable checks if the provider is usable; ordnet.dk needs no API key.
func (p *OrdnetProvider) IsAvailable() error {
	return nil
}
