package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRateNotFound        = errors.New("rate not found")
	ErrRateExists          = errors.New("rate already stored")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrProviderUnavailable = errors.New("provider not available or inactive")
	ErrNoActiveProviders   = errors.New("no active providers available")
	ErrInvalidDateRange    = errors.New("invalid date range")
	ErrBackfillRunning     = errors.New("backfill already running")
)

// ProviderError is an adapter-level failure: transport, bad status, malformed or missing data.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("provider error: %v", e.Err)
	}
	return fmt.Sprintf("provider %q: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
