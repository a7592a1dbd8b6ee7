/*
Package logbook maintains the day-by-day log of attendance records.

PURPOSE:
  One record per calendar day: arrival, leaving, day type and the day's
  signed contribution to the running overtime balance. The package decides
  insert vs. overwrite, merges imported record sets, and serializes the log
  for export.

CRITICAL INVARIANTS:
  1. AT MOST ONE RECORD PER DAY: records are keyed by the day's midnight
     timestamp; reconciliation replaces wholesale, never merges fields.
  2. NUMERIC KEY ONLY: the locale-formatted date string is display-only and
     never used for identity.
  3. OVERWRITES ARE CONFIRMED: replacing an existing day requires an
     explicit yes from the injected Confirmer; withholding it leaves the
     store untouched.

KEY CONCEPTS IN THIS FILE (logbook.go):
  - DayRecord: the persisted unit
  - DayLabel: the closed day-type vocabulary (wire values stay German for
    compatibility with existing exports)
  - DayID: midnight-epoch-milliseconds identity

SEE ALSO:
  - reconciler.go: upsert, merge, edit, clear
  - codec.go: CSV/JSON import and export
  - pdf.go: tabular PDF export
*/
package logbook

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/flextime"
)

// =============================================================================
// DAY LABELS - Closed day-type vocabulary
// =============================================================================

// DayLabel classifies a day record. The string values are the wire values
// existing log files carry.
type DayLabel string

const (
	LabelWork              DayLabel = "Arbeit"
	LabelSick              DayLabel = "Krank"
	LabelVacation          DayLabel = "Urlaub"
	LabelPublicHoliday     DayLabel = "Feiertag"
	LabelApprenticeship    DayLabel = "Berufsschule"
	LabelOvertimeReduction DayLabel = "Überstundenabbau"
)

// KnownLabels lists the closed vocabulary in display order.
var KnownLabels = []DayLabel{
	LabelWork, LabelSick, LabelVacation,
	LabelPublicHoliday, LabelApprenticeship, LabelOvertimeReduction,
}

// Valid reports whether the label belongs to the closed vocabulary.
func (l DayLabel) Valid() bool {
	for _, k := range KnownLabels {
		if l == k {
			return true
		}
	}
	return false
}

// IsWorkDay reports whether the label carries arrival/leaving times.
func (l DayLabel) IsWorkDay() bool { return l == LabelWork || l == "" }

// =============================================================================
// DAY RECORD - The persisted unit
// =============================================================================

// NonWorkClock is the arrival/leaving sentinel for non-working day types.
const NonWorkClock = "00:00"

// DayRecord is one calendar day in the log. Records are immutable once
// stored; edits replace the whole record.
type DayRecord struct {
	// ID is the calendar day truncated to midnight as epoch milliseconds.
	// It is the identity and sort key; Date is display only.
	ID int64 `json:"id"`

	// Date is the localized display string, e.g. "24.12.2025".
	Date string `json:"date"`

	// Arrival and Leaving are "HH:MM" clock strings, or "00:00" for
	// non-working day types.
	Arrival string `json:"arrival"`
	Leaving string `json:"leaving"`

	// TargetHours is the nominal daily target in effect when the record
	// was computed.
	TargetHours decimal.Decimal `json:"targetHours"`

	// DailySaldoMinutes is the day's signed contribution to the running
	// balance. Zero for non-working day types, except overtime reduction
	// where it is minus the day's target.
	DailySaldoMinutes int `json:"dailySaldoMinutes"`

	Label DayLabel `json:"label,omitempty"`
}

// DayID returns the identity for the calendar day containing t: midnight
// in t's location, as epoch milliseconds.
func DayID(t time.Time) int64 {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.UnixMilli()
}

// DisplayDate formats t the way record dates are displayed.
func DisplayDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// NewWorkRecord builds a work-day record for the calendar day of t.
func NewWorkRecord(t time.Time, arrival, leaving flextime.Minutes, targetHours decimal.Decimal, dailySaldo int) DayRecord {
	return DayRecord{
		ID:                DayID(t),
		Date:              DisplayDate(t),
		Arrival:           arrival.Clock(),
		Leaving:           leaving.Clock(),
		TargetHours:       targetHours,
		DailySaldoMinutes: dailySaldo,
		Label:             LabelWork,
	}
}

// NewDayRecord builds a record for a non-working day type. Overtime
// reduction contributes minus the day's target; every other non-working
// label contributes zero.
func NewDayRecord(t time.Time, label DayLabel, targetHours decimal.Decimal) DayRecord {
	saldo := 0
	if label == LabelOvertimeReduction {
		saldo = -flextime.HoursToMinutes(targetHours)
	}
	return DayRecord{
		ID:                DayID(t),
		Date:              DisplayDate(t),
		Arrival:           NonWorkClock,
		Leaving:           NonWorkClock,
		TargetHours:       targetHours,
		DailySaldoMinutes: saldo,
		Label:             label,
	}
}

// Day returns the record's calendar day.
func (r DayRecord) Day() time.Time {
	return time.UnixMilli(r.ID)
}

// =============================================================================
// ORDERING
// =============================================================================

// SortAscending orders records chronologically (print/export order).
func SortAscending(records []DayRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}

// SortDescending orders records newest first (display order).
func SortDescending(records []DayRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })
}
