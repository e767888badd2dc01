/*
errors.go - Centralized error kinds for the apportionment core

PURPOSE:
  All error types of the calculation engine in one place. The core never
  retries and never masks: a malformed window or a missing rate is surfaced
  to the caller as-is.

ERROR CATEGORIES:
  1. Window errors  - start after end, always a caller bug
  2. Data errors    - missing pay-rate data for a required date
  3. Usage errors   - operations that are undefined for a record type

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, finance.ErrNoApplicableRate) {
        // data-entry gap: person has no rate on or before the date
    }
*/
package finance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a time window has start after end.
	// Never recovered inside the core; callers validate windows up front.
	ErrInvalidRange = errors.New("invalid range: start date after end date")

	// ErrNoApplicableRate is returned when a person has no pay rate starting
	// on or before a date the computation needs. This is a data-entry gap and
	// must reach the caller rather than be zeroed.
	ErrNoApplicableRate = errors.New("no applicable rate")

	// ErrUndefinedOperation is returned when an operation does not exist for
	// a record type, e.g. a daily rate for a one-off cost.
	ErrUndefinedOperation = errors.New("undefined operation for cost type")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidRangeError reports the offending window.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// NoApplicableRateError identifies the person and date missing rate data.
type NoApplicableRateError struct {
	PersonID string
	At       Date
}

func (e *NoApplicableRateError) Error() string {
	return fmt.Sprintf("no applicable rate for person %s at %s", e.PersonID, e.At)
}

func (e *NoApplicableRateError) Unwrap() error { return ErrNoApplicableRate }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUndefinedOperation)
}

// IsDataGap returns true if the error indicates missing reference data rather
// than a malformed request.
func IsDataGap(err error) bool {
	return errors.Is(err, ErrNoApplicableRate)
}
