package model

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory marks a series with fewer bars than an indicator's
// minimum window. The ticker stays in the store; rules that need the
// indicator exclude it.
var ErrInsufficientHistory = errors.New("insufficient history")

// ErrUniverseUnavailable means the listing provider failed entirely.
// Fatal for the run.
var ErrUniverseUnavailable = errors.New("universe unavailable")

// ErrModelUnavailable means model-mode screening was requested but no
// trained model is present. Screening falls back to rule mode.
var ErrModelUnavailable = errors.New("trained model unavailable")

// DataUnavailableError records a per-ticker fetch failure. Sibling fetches
// and the batch continue.
type DataUnavailableError struct {
	Ticker string
	Reason error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s: %v", e.Ticker, e.Reason)
}

func (e *DataUnavailableError) Unwrap() error { return e.Reason }
