/*
errors.go - Centralized error types for the calculation engine

PURPOSE:
  All validation outcomes in one place. Nothing in this package panics or
  throws across the engine boundary: every operation produces either a
  typed success or one of these typed failures.

ERROR CATEGORIES:
  1. Input errors - missing or non-numeric required values
  2. Policy errors - departure violates a window or a statutory limit
  3. Planning errors - overtime draw-down requests that cannot work

USAGE:
  Callers branch with errors.Is():

    if errors.Is(err, flextime.ErrBeforeCoreEnd) {
        var e *flextime.BeforeCoreEndError
        errors.As(err, &e)
        // e.CoreEnd carries the boundary for the user-facing message
    }

SEE ALSO:
  - validate.go: returns the policy errors
  - planner.go: returns the planning errors
*/
package flextime

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for missing or non-numeric required fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDepartureBeforeArrival is returned when the desired departure lies
	// before the observed arrival.
	ErrDepartureBeforeArrival = errors.New("departure before arrival")

	// ErrBeforeCoreEnd is returned when the desired departure lies inside
	// the mandatory core hours.
	ErrBeforeCoreEnd = errors.New("departure before core-hours end")

	// ErrAfterFlexEnd is returned when the desired departure lies past the
	// end of the flex window.
	ErrAfterFlexEnd = errors.New("departure after flex-window end")

	// ErrExceedsMaxDailyWork is returned when a day would exceed the
	// statutory work-time ceiling (8h minors / 10h adults).
	ErrExceedsMaxDailyWork = errors.New("exceeds maximum daily work time")

	// ErrInsufficientBalance is returned when a draw-down plan wants more
	// overtime than is currently banked.
	ErrInsufficientBalance = errors.New("insufficient overtime balance")

	// ErrUnrealisticRate is returned when a plan needs more than a 10h/day
	// adjustment.
	ErrUnrealisticRate = errors.New("unrealistic daily rate")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the formatted boundary for the message
// =============================================================================

// BeforeCoreEndError reports a departure inside core hours.
type BeforeCoreEndError struct {
	Desired Minutes
	CoreEnd Minutes
}

func (e *BeforeCoreEndError) Error() string {
	return fmt.Sprintf("leaving not possible: core hours end at %s", e.CoreEnd.Clock())
}

func (e *BeforeCoreEndError) Unwrap() error { return ErrBeforeCoreEnd }

// AfterFlexEndError reports a departure outside the flex window.
type AfterFlexEndError struct {
	Desired Minutes
	FlexEnd Minutes
}

func (e *AfterFlexEndError) Error() string {
	return fmt.Sprintf("departure lies outside the flex window (after %s)", e.FlexEnd.Clock())
}

func (e *AfterFlexEndError) Unwrap() error { return ErrAfterFlexEnd }

// MaxDailyWorkError reports a day exceeding the statutory ceiling.
type MaxDailyWorkError struct {
	WorkedMinutes int
	LimitMinutes  int
}

func (e *MaxDailyWorkError) Error() string {
	return fmt.Sprintf("maximum daily work time of %dh exceeded", e.LimitMinutes/60)
}

func (e *MaxDailyWorkError) Unwrap() error { return ErrExceedsMaxDailyWork }

// InsufficientBalanceError reports a draw-down beyond the banked overtime.
type InsufficientBalanceError struct {
	Requested decimal.Decimal // hours to draw down (positive)
	Available decimal.Decimal // hours currently banked
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("cannot draw down %sh, only %sh banked",
		e.Requested.StringFixed(2), e.Available.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsValidation reports whether the error is one of the policy or planning
// validation outcomes (as opposed to malformed input).
func IsValidation(err error) bool {
	return errors.Is(err, ErrDepartureBeforeArrival) ||
		errors.Is(err, ErrBeforeCoreEnd) ||
		errors.Is(err, ErrAfterFlexEnd) ||
		errors.Is(err, ErrExceedsMaxDailyWork) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrUnrealisticRate)
}
