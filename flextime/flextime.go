/*
Package flextime provides the work-time policy calculation engine.

PURPOSE:
  This package contains the arithmetic and boundary rules of a flexible
  working time ("Gleitzeit") scheme with mandatory core hours ("Kernzeit"):
  when may I leave, what happens to my overtime balance, and is a planned
  departure even permitted.

KEY CONCEPTS IN THIS FILE (flextime.go):
  - Minutes: a time of day (or a signed span) in minutes since midnight
  - PolicyConfig: the window and break rules in effect for a worker
  - Window: the resolved flex/core boundaries for one weekday

DESIGN PRINCIPLES:
  1. Purity: every operation is a function over explicit inputs; the engine
     holds no state and performs no storage reads.
  2. Precision: hour-valued quantities use decimal.Decimal to avoid
     floating-point drift in the running balance.
  3. Typed outcomes: validation failures are returned as error values from
     errors.go, never as panics.

USAGE:
  cfg := flextime.DefaultPolicy()
  res := flextime.EarliestDeparture(cfg, time.Wednesday, arrival, target)
  bal := flextime.ComputeBalance(res.CalcStart, res.Departure,
      cfg.BreakMinutes(), target, currentBalance)

SEE ALSO:
  - departure.go: earliest-departure and balance calculations
  - validate.go: desired-departure validation
  - planner.go: overtime draw-down planning
*/
package flextime

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MINUTES - Time of day in minutes since midnight
// =============================================================================

// Minutes is a time of day expressed as minutes since midnight (0-1439),
// or a signed span of minutes where the context says so.
type Minutes int

// ParseClock converts an "HH:MM" string into Minutes since midnight. The
// whole string must be the clock time; trailing characters are an error.
func ParseClock(s string) (Minutes, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: clock time %q", ErrInvalidInput, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: clock time %q", ErrInvalidInput, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: clock time %q", ErrInvalidInput, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: clock time %q out of range", ErrInvalidInput, s)
	}
	return Minutes(h*60 + m), nil
}

// Clock formats Minutes as "HH:MM". Values beyond one day wrap around.
func (m Minutes) Clock() string {
	h := (int(m) / 60) % 24
	return fmt.Sprintf("%02d:%02d", h, int(m)%60)
}

// FormatSigned renders a signed minute span for display, e.g. "-1 Std. 30 Min.".
// The wording matches the log files the tool has always produced.
func FormatSigned(total int) string {
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	h := total / 60
	m := total % 60
	switch {
	case h == 0:
		return fmt.Sprintf("%s%d Min.", sign, m)
	case m == 0:
		return fmt.Sprintf("%s%d Std.", sign, h)
	default:
		return fmt.Sprintf("%s%d Std. %d Min.", sign, h, m)
	}
}

// HoursToMinutes converts an hour-valued decimal (e.g. a 7.5h target) into
// whole minutes, rounded to the nearest minute.
func HoursToMinutes(hours decimal.Decimal) int {
	return int(hours.Mul(decimal.NewFromInt(60)).Round(0).IntPart())
}

// MinutesToHours converts whole minutes into an hour-valued decimal,
// rounded to two places (the precision the stored balance carries).
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// =============================================================================
// POLICY CONFIG - Window and break rules in effect for one worker
// =============================================================================

// PolicyConfig is the complete rule set for one worker. It is provided by the
// configuration collaborator and passed explicitly into every engine call.
//
// Invariant (caller's responsibility, not enforced here):
//   FlexStart <= CoreStart <= CoreEnd* <= FlexEnd
// The engine stays well-defined when it is violated; results are then
// visibly wrong rather than silently corrected.
type PolicyConfig struct {
	FlexStart      Minutes
	CoreStart      Minutes
	CoreEndWeekday Minutes
	CoreEndFriday  Minutes
	FlexEnd        Minutes

	// IsMinor selects the longer statutory break and the lower daily
	// work-time ceiling for workers under legal adult age.
	IsMinor bool
}

// BreakMinutes returns the mandatory unpaid break: 60 minutes for minors,
// 45 otherwise.
func (c PolicyConfig) BreakMinutes() int {
	if c.IsMinor {
		return 60
	}
	return 45
}

// MaxDailyWorkMinutes returns the statutory daily work-time ceiling:
// 8 hours for minors, 10 otherwise.
func (c PolicyConfig) MaxDailyWorkMinutes() int {
	if c.IsMinor {
		return 8 * 60
	}
	return 10 * 60
}

// DefaultPolicy returns the windows the tool ships with.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		FlexStart:      6*60 + 45,  // 06:45
		CoreStart:      8*60 + 45,  // 08:45
		CoreEndWeekday: 15*60 + 30, // 15:30
		CoreEndFriday:  15 * 60,    // 15:00
		FlexEnd:        19 * 60,    // 19:00
	}
}

// =============================================================================
// WINDOW - Resolved boundaries for one weekday
// =============================================================================

// Window is the flex and core window applying on a concrete weekday.
// Fridays use the shorter core end.
type Window struct {
	FlexStart Minutes
	CoreStart Minutes
	CoreEnd   Minutes
	FlexEnd   Minutes
}
