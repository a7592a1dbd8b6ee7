/*
planner.go - Overtime planner

PURPOSE:
  Answers "how much more (or less) must I work per day to reach an overtime
  goal in N days", and the inverse projection "what do N days at this daily
  rate add up to".

LIMITS:
  - A draw-down (negative goal) may not exceed the banked balance.
  - More than +/-10h of adjustment per day is rejected as unrealistic.
  - When the nominal daily target is known, adjustment + target may not
    exceed the 10h statutory day either.
*/
package flextime

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	sixty     = decimal.NewFromInt(60)
	maxPerDay = decimal.NewFromInt(600) // 10h in minutes
	zeroHours = decimal.Zero
)

// DailyPlan is the outcome of PlanDailySurplus.
type DailyPlan struct {
	// PerDayMinutes is the signed daily adjustment. Fractional minutes are
	// kept; display code rounds.
	PerDayMinutes decimal.Decimal
}

// PlanDailySurplus distributes an overtime goal over a number of days.
//
// nominalTargetHours is the daily target in effect, or zero when unknown;
// when known it tightens the 10h/day ceiling to adjustment + target.
func PlanDailySurplus(targetTotalHours decimal.Decimal, numberOfDays int, currentBalanceHours, nominalTargetHours decimal.Decimal) (DailyPlan, error) {
	if numberOfDays <= 0 {
		return DailyPlan{}, fmt.Errorf("%w: number of days must be positive", ErrInvalidInput)
	}

	if targetTotalHours.IsNegative() {
		drawDown := targetTotalHours.Abs()
		if drawDown.GreaterThan(currentBalanceHours) {
			return DailyPlan{}, &InsufficientBalanceError{
				Requested: drawDown,
				Available: currentBalanceHours,
			}
		}
	}

	perDay := targetTotalHours.Mul(sixty).Div(decimal.NewFromInt(int64(numberOfDays)))
	if perDay.Abs().GreaterThan(maxPerDay) {
		return DailyPlan{}, ErrUnrealisticRate
	}

	if !nominalTargetHours.Equal(zeroHours) {
		if perDay.Add(nominalTargetHours.Mul(sixty)).GreaterThan(maxPerDay) {
			return DailyPlan{}, &MaxDailyWorkError{
				WorkedMinutes: int(perDay.Add(nominalTargetHours.Mul(sixty)).Round(0).IntPart()),
				LimitMinutes:  600,
			}
		}
	}

	return DailyPlan{PerDayMinutes: perDay}, nil
}

// ProjectTotalSurplus multiplies a daily adjustment out over a number of
// days. Rejects non-positive day counts; nothing else can fail.
func ProjectTotalSurplus(perDayMinutes int, numberOfDays int) (int, error) {
	if numberOfDays <= 0 {
		return 0, fmt.Errorf("%w: number of days must be positive", ErrInvalidInput)
	}
	return perDayMinutes * numberOfDays, nil
}
