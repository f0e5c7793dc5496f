/*
errors.go - Centralized error types for the scheduling engine

PURPOSE:
  All shared error types in one place. Engine packages wrap these with
  additional context; the API layer classifies them into HTTP statuses.

ERROR CATEGORIES:
  1. Lookup errors  - missing people/groups/shifts
  2. Range errors   - values outside their invariant ranges
  3. Shape errors   - malformed schedule trees

USAGE:
  if errors.Is(err, domain.ErrPersonNotFound) { ... }

SEE ALSO:
  - hrrules: accumulates human-readable validation strings instead of
    short-circuiting, so one invalid employee never hides the rest
  - api: maps IsClientError/IsNotFound to 400/404
*/
package domain

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPersonNotFound is returned when a referenced person doesn't exist.
	ErrPersonNotFound = errors.New("person not found")

	// ErrGroupNotFound is returned when a referenced group doesn't exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrShiftNotFound is returned when a referenced shift template doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrAgreementNotFound is returned when a collective agreement id is unknown.
	ErrAgreementNotFound = errors.New("collective agreement not found")

	// ErrUnknownSector is returned for sectors outside private/municipal.
	ErrUnknownSector = errors.New("unknown sector")

	// ErrInvalidStatus is returned when an entry status is outside the
	// fixed vocabulary.
	ErrInvalidStatus = errors.New("invalid entry status")

	// ErrDemandOutOfRange is returned when a demand headcount leaves [0,50].
	ErrDemandOutOfRange = errors.New("demand out of range")

	// ErrScheduleShape is returned when the schedule tree violates its
	// structural invariants.
	ErrScheduleShape = errors.New("invalid schedule shape")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DemandRangeError reports a headcount outside [0,MaxDemandPerSlot].
type DemandRangeError struct {
	Key   string // group id or role name
	Count int
}

func (e *DemandRangeError) Error() string {
	return fmt.Sprintf("demand for %s out of range: %d", e.Key, e.Count)
}

func (e *DemandRangeError) Unwrap() error { return ErrDemandOutOfRange }

// ScheduleShapeError reports a structural violation in the tree.
type ScheduleShapeError struct {
	Year   int
	Month  time.Month
	Detail string
}

func (e *ScheduleShapeError) Error() string {
	if e.Month != 0 {
		return fmt.Sprintf("schedule %d-%02d: %s", e.Year, int(e.Month), e.Detail)
	}
	return fmt.Sprintf("schedule %d: %s", e.Year, e.Detail)
}

func (e *ScheduleShapeError) Unwrap() error { return ErrScheduleShape }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrAgreementNotFound)
}

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownSector) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrDemandOutOfRange) ||
		errors.Is(err, ErrScheduleShape)
}
