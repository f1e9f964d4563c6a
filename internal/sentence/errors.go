package sentence

import (
	"errors"
	"fmt"
)

// ExhaustedRetriesMessage is the terminal error message for a word whose
// every retry strategy failed.
const ExhaustedRetriesMessage = "Could not generate valid sentences containing the exact word or inflected forms"

// ParseError reports a malformed generation-service payload. Partial or
// garbled payloads are rejected wholesale, so a ParseError always covers
// the entire response.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Reason)
}

// WrongWordError reports that the service answered for a different word
// than the one requested.
type WrongWordError struct {
	Requested string
	Returned  string
}

func (e *WrongWordError) Error() string {
	return fmt.Sprintf("service returned %q instead of %q", e.Returned, e.Requested)
}

// InsufficientSentencesError reports that fewer sentences than required
// passed exact-form validation.
type InsufficientSentencesError struct {
	Word     string
	Accepted int
	Required int
}

func (e *InsufficientSentencesError) Error() string {
	return fmt.Sprintf("only %d of %d required sentences contain %q", e.Accepted, e.Required, e.Word)
}

// RateLimitError reports that the generation service throttled the request.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by generation service: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// AuthenticationError reports rejected credentials. It aborts the whole
// batch: retrying other words cannot succeed either.
type AuthenticationError struct {
	Err error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("generation service authentication failed: %v", e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// ModelUnavailableError reports that the configured model does not exist or
// is not accessible. Batch-fatal, like AuthenticationError.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %q is not available: %v", e.Model, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// ServiceError is the catch-all for transport-level failures that do not
// fit a more specific classification.
type ServiceError struct {
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("generation service error: %v", e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ExhaustedRetriesError reports that every retry strategy failed for a
// word. It only ever becomes a terminal per-word record, never a run
// failure.
type ExhaustedRetriesError struct {
	Word     string
	Attempts int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("%q after %d attempts: %s", e.Word, e.Attempts, ExhaustedRetriesMessage)
}

// isFatal reports whether err must abort the whole batch.
func isFatal(err error) bool {
	var auth *AuthenticationError
	var model *ModelUnavailableError
	return errors.As(err, &auth) || errors.As(err, &model)
}

// isRateLimit reports whether err is a throttling response.
func isRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
