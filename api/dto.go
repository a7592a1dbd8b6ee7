/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers. Clock times travel as "HH:MM" strings, durations as signed
  minutes, stored balances as decimal hours.

SEE ALSO:
  - handlers.go: Uses these types
  - settings/settings.go: The persisted configuration behind SettingsDTO
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/logbook"
)

// =============================================================================
// CALCULATION TYPES
// =============================================================================

// DepartureRequest asks for the earliest permissible departure.
type DepartureRequest struct {
	// Date is "YYYY-MM-DD"; empty means today.
	Date        string          `json:"date,omitempty"`
	Arrival     string          `json:"arrival"`
	TargetHours decimal.Decimal `json:"targetHours"`
	IsMinor     bool            `json:"isMinor"`
}

// DepartureDTO is the earliest-departure answer.
type DepartureDTO struct {
	CalcStart          string `json:"calcStart"`
	Departure          string `json:"departure"`
	HardStop           bool   `json:"hardStop"`
	ViolatesCore       bool   `json:"violatesCore"`
	ClampedToFlexStart bool   `json:"clampedToFlexStart"`
	BreakMinutes       int    `json:"breakMinutes"`

	WorkedMinutes     int             `json:"workedMinutes"`
	DailyDelta        int             `json:"dailyDeltaMinutes"`
	NewBalanceHours   decimal.Decimal `json:"newBalanceHours"`
	DailyDeltaDisplay string          `json:"dailyDeltaDisplay"`
}

// DesiredDepartureRequest validates a departure the user picked.
type DesiredDepartureRequest struct {
	Date        string          `json:"date,omitempty"`
	Arrival     string          `json:"arrival"`
	Desired     string          `json:"desired"`
	TargetHours decimal.Decimal `json:"targetHours"`
	IsMinor     bool            `json:"isMinor"`
}

// DesiredDepartureDTO is the bookkeeping for an accepted desired departure.
type DesiredDepartureDTO struct {
	WorkedMinutes     int             `json:"workedMinutes"`
	DailyDelta        int             `json:"dailyDeltaMinutes"`
	NewBalanceHours   decimal.Decimal `json:"newBalanceHours"`
	DailyDeltaDisplay string          `json:"dailyDeltaDisplay"`
}

// =============================================================================
// PLANNER TYPES
// =============================================================================

// DailyPlanRequest distributes an overtime goal over days.
type DailyPlanRequest struct {
	TargetTotalHours decimal.Decimal `json:"targetTotalHours"`
	NumberOfDays     int             `json:"numberOfDays"`
}

// DailyPlanDTO is the per-day adjustment answer.
type DailyPlanDTO struct {
	PerDayMinutes decimal.Decimal `json:"perDayMinutes"`
	Display       string          `json:"display"`
}

// TotalPlanRequest projects a daily rate out over days.
type TotalPlanRequest struct {
	PerDayMinutes int `json:"perDayMinutes"`
	NumberOfDays  int `json:"numberOfDays"`
}

// TotalPlanDTO is the projected total.
type TotalPlanDTO struct {
	TotalMinutes int    `json:"totalMinutes"`
	Display      string `json:"display"`
}

// =============================================================================
// LOGBOOK TYPES
// =============================================================================

// SaveDayRequest books a day into the log.
type SaveDayRequest struct {
	Date        string          `json:"date,omitempty"`
	Arrival     string          `json:"arrival,omitempty"`
	Leaving     string          `json:"leaving,omitempty"`
	TargetHours decimal.Decimal `json:"targetHours"`
	Label       string          `json:"label,omitempty"`
	IsMinor     bool            `json:"isMinor"`
}

// EditDayRequest rewrites an existing day.
type EditDayRequest struct {
	Arrival string `json:"arrival,omitempty"`
	Leaving string `json:"leaving,omitempty"`
	Label   string `json:"label,omitempty"`
}

// LogbookDTO is the full log plus its running total.
type LogbookDTO struct {
	Records           []logbook.DayRecord `json:"records"`
	TotalSaldoMinutes int                 `json:"totalSaldoMinutes"`
	TotalSaldoDisplay string              `json:"totalSaldoDisplay"`
}

// ImportResultDTO reports a completed import.
type ImportResultDTO struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}
