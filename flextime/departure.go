/*
departure.go - "When can I leave?" and the daily balance

PURPOSE:
  Computes the earliest permissible departure for a day and the balance
  bookkeeping that follows from it. This is the calculation the whole tool
  exists for.

THE RULES (in order):
  1. Work before the flex window is not credited: the calculation starts at
     max(arrival, flexStart).
  2. The raw departure is start + target + mandatory break.
  3. If the raw departure runs past the flex-window end, the flex end wins
     unconditionally - the worker must leave then, target met or not.
  4. Otherwise the worker may never be told to leave before core hours end,
     even when the target was already reached.
  5. Arriving after core-hours start is flagged, but only ever advisory.

BALANCE:
  workedMinutes = presence - break; dailyDelta = worked - target. There is
  deliberately no clamping: pathological input produces visibly wrong
  numbers instead of a silent correction, because the arithmetic path has
  no failure channel.
*/
package flextime

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WINDOW RESOLUTION
// =============================================================================

// WindowFor resolves the flex and core boundaries for a weekday.
// Fridays use the shorter core end. Pure, no failure modes.
func WindowFor(cfg PolicyConfig, day time.Weekday) Window {
	coreEnd := cfg.CoreEndWeekday
	if day == time.Friday {
		coreEnd = cfg.CoreEndFriday
	}
	return Window{
		FlexStart: cfg.FlexStart,
		CoreStart: cfg.CoreStart,
		CoreEnd:   coreEnd,
		FlexEnd:   cfg.FlexEnd,
	}
}

// =============================================================================
// EARLIEST DEPARTURE
// =============================================================================

// DepartureResult is the outcome of an earliest-departure calculation.
type DepartureResult struct {
	// CalcStart is the effective start: arrival clamped forward to the
	// flex-window start.
	CalcStart Minutes

	// Departure is the earliest permissible departure.
	Departure Minutes

	// HardStop is true when the departure was clamped to the flex-window
	// end: the worker must leave then regardless of the target. The
	// user-facing message differs from the normal case.
	HardStop bool

	// ViolatesCore is true when the arrival lies after core-hours start.
	// Advisory only; it never changes the departure.
	ViolatesCore bool

	// ClampedToFlexStart is true when the arrival was before the flex
	// window and the calculation started later than the arrival.
	ClampedToFlexStart bool

	BreakMinutes int
}

// EarliestDeparture computes the earliest permissible departure for the
// given policy, weekday, arrival and daily target.
//
// Edge cases: with a zero target the departure collapses to
// max(calcStart+break, coreEnd). An arrival already past the flex end still
// yields Departure == FlexEnd with HardStop set - the boundary condition is
// surfaced as is, not corrected.
func EarliestDeparture(cfg PolicyConfig, day time.Weekday, arrival Minutes, targetHours decimal.Decimal) DepartureResult {
	win := WindowFor(cfg, day)

	calcStart := arrival
	if calcStart < win.FlexStart {
		calcStart = win.FlexStart
	}

	breakMin := cfg.BreakMinutes()
	raw := calcStart + Minutes(HoursToMinutes(targetHours)) + Minutes(breakMin)

	res := DepartureResult{
		CalcStart:          calcStart,
		ViolatesCore:       arrival > win.CoreStart,
		ClampedToFlexStart: calcStart != arrival,
		BreakMinutes:       breakMin,
	}

	if raw > win.FlexEnd {
		res.Departure = win.FlexEnd
		res.HardStop = true
		return res
	}

	res.Departure = raw
	if res.Departure < win.CoreEnd {
		res.Departure = win.CoreEnd
	}
	return res
}

// =============================================================================
// BALANCE
// =============================================================================

// BalanceResult is the bookkeeping for one day.
type BalanceResult struct {
	WorkedMinutes     int
	DailyDelta        int // signed contribution to the running balance
	NewBalanceMinutes int
}

// ComputeBalance derives worked minutes, the day's delta and the updated
// running balance. No clamping: negative presence propagates as a large
// negative delta on purpose.
func ComputeBalance(calcStart, departure Minutes, breakMinutes int, targetHours decimal.Decimal, currentBalanceMinutes int) BalanceResult {
	present := int(departure) - int(calcStart)
	worked := present - breakMinutes
	delta := worked - HoursToMinutes(targetHours)
	return BalanceResult{
		WorkedMinutes:     worked,
		DailyDelta:        delta,
		NewBalanceMinutes: currentBalanceMinutes + delta,
	}
}

// RemainingUntil returns the minutes left from now until the target clock
// time, or 0 when the target has already passed. Used by the countdown and
// the "you must still work N minutes" message.
func RemainingUntil(now time.Time, target Minutes) int {
	nowMin := now.Hour()*60 + now.Minute()
	rest := int(target) - nowMin
	if rest < 0 {
		return 0
	}
	return rest
}
