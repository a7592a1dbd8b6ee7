package flextime_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

func TestPlanDailySurplus_BuildUp(t *testing.T) {
	// GIVEN: Goal of +10h over 20 days
	// THEN: 30 minutes extra per day

	plan, err := flextime.PlanDailySurplus(hours(10), 20, hours(0), hours(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.PerDayMinutes.Equal(decimal.NewFromInt(30)) {
		t.Errorf("per day = %v, want 30", plan.PerDayMinutes)
	}
}

func TestPlanDailySurplus_FractionalMinutesKept(t *testing.T) {
	// 1h over 7 days is 8.57... minutes per day; the fraction survives.
	plan, err := flextime.PlanDailySurplus(hours(1), 7, hours(0), hours(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := decimal.NewFromInt(60).Div(decimal.NewFromInt(7))
	if !plan.PerDayMinutes.Equal(want) {
		t.Errorf("per day = %v, want %v", plan.PerDayMinutes, want)
	}
}

func TestPlanDailySurplus_DrawDownWithinBalance(t *testing.T) {
	// GIVEN: 5h banked, drawing down 4h over 8 days
	plan, err := flextime.PlanDailySurplus(hours(-4), 8, hours(5), hours(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.PerDayMinutes.Equal(decimal.NewFromInt(-30)) {
		t.Errorf("per day = %v, want -30", plan.PerDayMinutes)
	}
}

func TestPlanDailySurplus_InsufficientBalance(t *testing.T) {
	// GIVEN: 5h banked, trying to draw down 10h
	// THEN: Rejected with the balance detail error

	_, err := flextime.PlanDailySurplus(hours(-10), 10, hours(5), hours(0))
	if !errors.Is(err, flextime.ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}

	var detail *flextime.InsufficientBalanceError
	if !errors.As(err, &detail) {
		t.Fatalf("expected InsufficientBalanceError detail, got %T", err)
	}
	if !detail.Requested.Equal(hours(10)) || !detail.Available.Equal(hours(5)) {
		t.Errorf("detail = %+v, want requested 10 available 5", detail)
	}
}

func TestPlanDailySurplus_UnrealisticRate(t *testing.T) {
	// More than 10h of adjustment per day cannot be worked.
	_, err := flextime.PlanDailySurplus(hours(100), 5, hours(0), hours(0))
	if !errors.Is(err, flextime.ErrUnrealisticRate) {
		t.Errorf("expected ErrUnrealisticRate, got %v", err)
	}
}

func TestPlanDailySurplus_RespectsNominalTarget(t *testing.T) {
	// GIVEN: An 8h nominal day
	// WHEN: Asking for 3h extra per day (8h + 3h > 10h statutory limit)
	// THEN: Rejected against the daily maximum

	_, err := flextime.PlanDailySurplus(hours(30), 10, hours(0), hours(8))
	if !errors.Is(err, flextime.ErrExceedsMaxDailyWork) {
		t.Errorf("expected ErrExceedsMaxDailyWork, got %v", err)
	}

	// 2h extra on an 8h day is exactly the limit and passes.
	if _, err := flextime.PlanDailySurplus(hours(20), 10, hours(0), hours(8)); err != nil {
		t.Errorf("2h/day on an 8h target should pass, got %v", err)
	}
}

func TestPlanDailySurplus_InvalidDays(t *testing.T) {
	for _, days := range []int{0, -3} {
		if _, err := flextime.PlanDailySurplus(hours(10), days, hours(0), hours(0)); !errors.Is(err, flextime.ErrInvalidInput) {
			t.Errorf("days=%d: expected ErrInvalidInput, got %v", days, err)
		}
	}
}

func TestProjectTotalSurplus(t *testing.T) {
	total, err := flextime.ProjectTotalSurplus(30, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 600 {
		t.Errorf("total = %d, want 600", total)
	}

	if _, err := flextime.ProjectTotalSurplus(30, 0); !errors.Is(err, flextime.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for zero days, got %v", err)
	}

	// Negative rates project to negative totals.
	total, err = flextime.ProjectTotalSurplus(-15, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != -60 {
		t.Errorf("total = %d, want -60", total)
	}
}
