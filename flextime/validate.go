/*
validate.go - Desired-departure validation

PURPOSE:
  The "plus/minus at my desired departure" scenario: the worker names a
  departure time and the engine answers whether it is permitted and what it
  does to the balance.

CHECK ORDER (short-circuits at the first failure):
  1. departure before arrival
  2. departure inside core hours
  3. departure past the flex-window end
  4. resulting work time above the statutory ceiling

Each failure carries the formatted boundary so the caller can render the
message without re-deriving policy values.
*/
package flextime

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidateDesiredDeparture checks a desired departure against the policy
// and, when permitted, returns the day's balance result.
func ValidateDesiredDeparture(cfg PolicyConfig, day time.Weekday, arrival, desired Minutes, targetHours decimal.Decimal, currentBalanceMinutes int) (BalanceResult, error) {
	win := WindowFor(cfg, day)

	if desired < arrival {
		return BalanceResult{}, ErrDepartureBeforeArrival
	}
	if desired < win.CoreEnd {
		return BalanceResult{}, &BeforeCoreEndError{Desired: desired, CoreEnd: win.CoreEnd}
	}
	if desired > win.FlexEnd {
		return BalanceResult{}, &AfterFlexEndError{Desired: desired, FlexEnd: win.FlexEnd}
	}

	calcStart := arrival
	if calcStart < win.FlexStart {
		calcStart = win.FlexStart
	}

	breakMin := cfg.BreakMinutes()
	worked := int(desired) - int(calcStart) - breakMin
	if limit := cfg.MaxDailyWorkMinutes(); worked > limit {
		return BalanceResult{}, &MaxDailyWorkError{WorkedMinutes: worked, LimitMinutes: limit}
	}

	return ComputeBalance(calcStart, desired, breakMin, targetHours, currentBalanceMinutes), nil
}
