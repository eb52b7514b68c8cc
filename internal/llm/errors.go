package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion is returned when a vendor reply carries no text.
var ErrEmptyCompletion = errors.New("model returned no text")

// RateLimitError is a 429 from the vendor.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// UnavailableError covers transport failures and 5xx replies.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return "model unavailable"
	}
	return "model unavailable: " + e.Err.Error()
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// FormatError means a structured reply did not match the requested format.
type FormatError struct {
	Format string
	Text   string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("reply does not match format %q: %v", e.Format, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP status from a vendor SDK error.
func classifyStatus(status int, err error) error {
	if status == 429 {
		return &RateLimitError{Err: err}
	}
	return &UnavailableError{Err: err}
}
