/*
reconciler.go - Insert-or-overwrite and bulk merge

PURPOSE:
  Decides what happens when a new day record meets the existing log:
  append when the day is new, confirmed overwrite when it is not, and a
  one-confirmation bulk merge for imports.

CONFIRMATION:
  Overwrites and destructive operations ask an injected Confirmer - an
  async-capable yes/no capability - instead of assuming a UI. A withheld
  confirmation aborts with ErrConfirmationRequired and leaves the store
  unchanged. ErrConfirmationRequired is a control-flow signal, not a
  failure.

OBSERVERS:
  Every successful mutation notifies the registered listeners with the new
  full record set, decoupling the log from whatever renders it.

CONCURRENCY CONTRACT:
  Cooperative: callers must not overlap two mutations against the same
  store. The reconciler awaits the possibly-remote persistence call but
  imposes no lock of its own.
*/
package logbook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/kv"
)

// StorageKey is the single array-valued entry holding all day records.
const StorageKey = "workLogbook"

var (
	// ErrConfirmationRequired signals that the operation is paused pending
	// caller confirmation. The store is unchanged.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrRecordNotFound is returned by Edit for an unknown day.
	ErrRecordNotFound = errors.New("record not found")
)

// Confirmer is the injected yes/no capability for overwrite and clear
// decisions. Implementations may block (modal dialog, terminal prompt) or
// answer immediately (HTTP confirm flag).
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, title, message string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, title, message string) (bool, error) {
	return f(ctx, title, message)
}

// Static returns a Confirmer that always answers the same way. Used when
// the decision arrived with the request.
func Static(answer bool) Confirmer {
	return ConfirmerFunc(func(context.Context, string, string) (bool, error) {
		return answer, nil
	})
}

// Listener observes log mutations.
type Listener interface {
	LogbookUpdated(records []DayRecord)
}

// AreaSelector tells the log which storage area it lives in.
type AreaSelector interface {
	LogArea(ctx context.Context) (kv.Namespace, error)
}

// =============================================================================
// LOGBOOK
// =============================================================================

// Logbook is the reconciling store of day records.
type Logbook struct {
	KV   kv.Store
	Area AreaSelector

	listeners []Listener
}

func New(store kv.Store, area AreaSelector) *Logbook {
	return &Logbook{KV: store, Area: area}
}

// AddListener registers an observer for log mutations.
func (l *Logbook) AddListener(ln Listener) {
	l.listeners = append(l.listeners, ln)
}

func (l *Logbook) notify(records []DayRecord) {
	for _, ln := range l.listeners {
		ln.LogbookUpdated(records)
	}
}

// Records loads the full log. Order is unspecified; callers re-sort.
func (l *Logbook) Records(ctx context.Context) ([]DayRecord, error) {
	area, err := l.Area.LogArea(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := l.KV.Get(ctx, area, StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []DayRecord{}, nil
	}
	if err != nil {
		return nil, err
	}
	var records []DayRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("corrupt logbook: %w", err)
	}
	return records, nil
}

// replaceAll persists the full record set and notifies listeners.
func (l *Logbook) replaceAll(ctx context.Context, records []DayRecord) error {
	area, err := l.Area.LogArea(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return err
	}
	if err := l.KV.Set(ctx, area, StorageKey, raw); err != nil {
		return err
	}
	l.notify(records)
	return nil
}

// =============================================================================
// UPSERT - Single-entry path
// =============================================================================

// Upsert inserts the record, or - after confirmation - overwrites the
// existing record for the same day. Returns whether an overwrite happened.
// A withheld confirmation aborts with ErrConfirmationRequired.
func (l *Logbook) Upsert(ctx context.Context, rec DayRecord, confirm Confirmer) (overwritten bool, err error) {
	records, err := l.Records(ctx)
	if err != nil {
		return false, err
	}

	idx := -1
	for i, existing := range records {
		if existing.ID == rec.ID {
			idx = i
			break
		}
	}

	if idx >= 0 {
		ok, err := confirm.Confirm(ctx, "Eintrag überschreiben?",
			fmt.Sprintf("Es existiert bereits ein Eintrag für den %s. Überschreiben?", rec.Date))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, ErrConfirmationRequired
		}
		records[idx] = rec
	} else {
		records = append(records, rec)
	}

	if err := l.replaceAll(ctx, records); err != nil {
		return false, err
	}
	return idx >= 0, nil
}

// =============================================================================
// MERGE - Bulk import path
// =============================================================================

// Merge overlays imported records onto existing ones, keyed by day.
// Imported records win unconditionally on collision. Pure and idempotent:
// merging the same import twice yields the same result. Order of the
// result is unspecified.
func Merge(existing, imported []DayRecord) []DayRecord {
	byDay := make(map[int64]DayRecord, len(existing)+len(imported))
	for _, r := range existing {
		byDay[r.ID] = r
	}
	for _, r := range imported {
		byDay[r.ID] = r
	}
	out := make([]DayRecord, 0, len(byDay))
	for _, r := range byDay {
		out = append(out, r)
	}
	return out
}

// MergeImported runs the bulk import: one aggregate confirmation, then the
// overlay. There is no per-record confirmation gate.
func (l *Logbook) MergeImported(ctx context.Context, imported []DayRecord, confirm Confirmer) error {
	ok, err := confirm.Confirm(ctx, "Logbuch importieren",
		"Importierte Daten mit dem aktuellen Logbuch zusammenführen? Bestehende Tage werden überschrieben.")
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfirmationRequired
	}

	existing, err := l.Records(ctx)
	if err != nil {
		return err
	}
	return l.replaceAll(ctx, Merge(existing, imported))
}

// =============================================================================
// EDIT - Full-replacement rewrite of one day
// =============================================================================

// Edit rewrites arrival, leaving and label of an existing record and
// recomputes its saldo under the given policy. Non-working labels force
// the 00:00 sentinels; overtime reduction books minus the day's target.
func (l *Logbook) Edit(ctx context.Context, id int64, arrival, leaving string, label DayLabel, cfg flextime.PolicyConfig) (DayRecord, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return DayRecord{}, err
	}

	idx := -1
	for i, r := range records {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return DayRecord{}, ErrRecordNotFound
	}

	rec := records[idx]
	rec.Label = label

	if label.IsWorkDay() {
		arr, err := flextime.ParseClock(arrival)
		if err != nil {
			return DayRecord{}, err
		}
		leave, err := flextime.ParseClock(leaving)
		if err != nil {
			return DayRecord{}, err
		}
		rec.Arrival = arr.Clock()
		rec.Leaving = leave.Clock()
		worked := int(leave) - int(arr) - cfg.BreakMinutes()
		rec.DailySaldoMinutes = worked - flextime.HoursToMinutes(rec.TargetHours)
	} else {
		rec.Arrival = NonWorkClock
		rec.Leaving = NonWorkClock
		rec.DailySaldoMinutes = 0
		if label == LabelOvertimeReduction {
			rec.DailySaldoMinutes = -flextime.HoursToMinutes(rec.TargetHours)
		}
	}

	records[idx] = rec
	if err := l.replaceAll(ctx, records); err != nil {
		return DayRecord{}, err
	}
	return rec, nil
}

// =============================================================================
// CLEAR / LOOKUP
// =============================================================================

// Clear removes every record after confirmation.
func (l *Logbook) Clear(ctx context.Context, confirm Confirmer) error {
	ok, err := confirm.Confirm(ctx, "Logbuch leeren",
		"Alle Logbuch-Einträge unwiderruflich löschen?")
	if err != nil {
		return err
	}
	if !ok {
		return ErrConfirmationRequired
	}
	return l.replaceAll(ctx, []DayRecord{})
}

// TodayRecord returns the record for now's calendar day, if any. Used to
// prefill the arrival field.
func (l *Logbook) TodayRecord(ctx context.Context, now time.Time) (DayRecord, bool, error) {
	records, err := l.Records(ctx)
	if err != nil {
		return DayRecord{}, false, err
	}
	// Compare on the day key, not the raw timestamp.
	want := DayID(now)
	for _, r := range records {
		if r.ID == want {
			return r, true, nil
		}
	}
	return DayRecord{}, false, nil
}
