package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSlideNotFound       = errors.New("slide not found")
	ErrInvalidVersionIndex = errors.New("invalid version index")
	ErrJobNotFound         = errors.New("job not found")
	ErrQuotaExceeded       = errors.New("quota exceeded")
	ErrNoProviderAvailable = errors.New("no provider available")
	ErrContentUnparseable  = errors.New("provider content unparseable")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNoSlidesGenerated   = errors.New("no slides generated yet")
)

// QuotaExceededError reports a rejected reservation together with the
// user's remaining allowance so clients can render a precise message.
type QuotaExceededError struct {
	Requested int
	Remaining int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: requested %d slides, %d remaining", e.Requested, e.Remaining)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// NoProviderAvailableError wraps the last underlying provider failure for
// diagnostics while still matching ErrNoProviderAvailable.
type NoProviderAvailableError struct {
	Last error
}

func (e *NoProviderAvailableError) Error() string {
	if e.Last == nil {
		return "all providers are currently unavailable"
	}
	return fmt.Sprintf("all providers failed, last error: %v", e.Last)
}

func (e *NoProviderAvailableError) Is(target error) bool {
	return target == ErrNoProviderAvailable
}

func (e *NoProviderAvailableError) Unwrap() error {
	return e.Last
}
