package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the LLM returned content that does not
// conform to the requested schema. Schema names the quiz or course schema
// that rejected it, when one was requested.
type ErrInvalidResponse struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	if e.Schema != "" {
		return fmt.Sprintf("invalid LLM response for %s: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "LLM response truncated: max tokens exceeded"
}

// ErrUnsupportedAttachment indicates the provider cannot read a document
// of the given type.
type ErrUnsupportedAttachment struct {
	Provider string
	MIMEType string
}

func (e *ErrUnsupportedAttachment) Error() string {
	return fmt.Sprintf("%s provider cannot read %s attachments", e.Provider, e.MIMEType)
}

// errorClass is how the retry decorator treats a failed request.
type errorClass int

const (
	errTransient errorClass = iota
	errRetryOnce
	errFatal
)

// classifyError sorts provider failures. Cancellation, truncation and
// unreadable documents are fatal. A schema rejection earns one more try.
// Everything else, including network errors, is transient.
func classifyError(err error) errorClass {
	var (
		maxTok *ErrMaxTokensExceeded
		attach *ErrUnsupportedAttachment
		inv    *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errFatal
	case errors.As(err, &maxTok), errors.As(err, &attach):
		return errFatal
	case errors.As(err, &inv):
		return errRetryOnce
	}
	return errTransient
}
