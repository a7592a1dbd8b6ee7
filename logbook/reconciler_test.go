package logbook_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/kv"
	"github.com/Jojo252511/arbeitszeit/logbook"
	"github.com/Jojo252511/arbeitszeit/settings"
	"github.com/Jojo252511/arbeitszeit/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestLogbook(t *testing.T) (*logbook.Logbook, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := settings.NewService(store)
	return logbook.New(store, svc), store
}

func day(year, month, dayOfMonth int) time.Time {
	return time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, time.Local)
}

func workRecord(t *testing.T, d time.Time, arrival, leaving string, saldo int) logbook.DayRecord {
	t.Helper()
	arr, err := flextime.ParseClock(arrival)
	require.NoError(t, err)
	leave, err := flextime.ParseClock(leaving)
	require.NoError(t, err)
	return logbook.NewWorkRecord(d, arr, leave, decimal.NewFromInt(8), saldo)
}

// recorder collects listener notifications.
type recorder struct {
	calls [][]logbook.DayRecord
}

func (r *recorder) LogbookUpdated(records []logbook.DayRecord) {
	r.calls = append(r.calls, records)
}

// =============================================================================
// UPSERT
// =============================================================================

func TestUpsert_NewDayAppends(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	rec := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)
	overwritten, err := book.Upsert(ctx, rec, logbook.Static(false))
	require.NoError(t, err)
	assert.False(t, overwritten, "first booking of a day must not ask for confirmation")

	records, err := book.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.ID, records[0].ID)
}

func TestUpsert_SameDayNeedsConfirmation(t *testing.T) {
	// GIVEN: March 10 is already booked
	// WHEN: Booking March 10 again without confirmation
	// THEN: Aborted, store unchanged

	book, _ := newTestLogbook(t)
	ctx := context.Background()

	first := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)
	_, err := book.Upsert(ctx, first, logbook.Static(false))
	require.NoError(t, err)

	second := workRecord(t, day(2025, 3, 10), "08:00", "16:45", 0)
	_, err = book.Upsert(ctx, second, logbook.Static(false))
	assert.ErrorIs(t, err, logbook.ErrConfirmationRequired)

	records, err := book.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "07:00", records[0].Arrival, "aborted overwrite must leave the existing record")
}

func TestUpsert_ConfirmedOverwriteReplacesWholesale(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	first := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)
	_, err := book.Upsert(ctx, first, logbook.Static(false))
	require.NoError(t, err)

	second := workRecord(t, day(2025, 3, 10), "08:00", "16:45", 15)
	overwritten, err := book.Upsert(ctx, second, logbook.Static(true))
	require.NoError(t, err)
	assert.True(t, overwritten)

	records, err := book.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1, "a day has at most one record")
	assert.Equal(t, "08:00", records[0].Arrival)
	assert.Equal(t, 15, records[0].DailySaldoMinutes)
}

func TestUpsert_NotifiesListeners(t *testing.T) {
	book, _ := newTestLogbook(t)
	rec := &recorder{}
	book.AddListener(rec)

	_, err := book.Upsert(context.Background(), workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0), logbook.Static(false))
	require.NoError(t, err)

	require.Len(t, rec.calls, 1)
	assert.Len(t, rec.calls[0], 1)
}

// =============================================================================
// MERGE
// =============================================================================

func TestMerge_ImportedWinsOnCollision(t *testing.T) {
	existing := []logbook.DayRecord{
		workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0),
		workRecord(t, day(2025, 3, 11), "07:30", "16:15", 0),
	}
	imported := []logbook.DayRecord{
		workRecord(t, day(2025, 3, 11), "08:00", "17:00", 30),
		workRecord(t, day(2025, 3, 12), "07:00", "15:45", 0),
	}

	merged := logbook.Merge(existing, imported)
	require.Len(t, merged, 3)

	byID := make(map[int64]logbook.DayRecord)
	for _, r := range merged {
		byID[r.ID] = r
	}
	assert.Equal(t, "08:00", byID[logbook.DayID(day(2025, 3, 11))].Arrival,
		"imported record must replace the existing one")
}

func TestMerge_Idempotent(t *testing.T) {
	existing := []logbook.DayRecord{workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)}
	imported := []logbook.DayRecord{workRecord(t, day(2025, 3, 11), "07:30", "16:15", 0)}

	once := logbook.Merge(existing, imported)
	twice := logbook.Merge(once, imported)
	assert.Len(t, twice, len(once), "merging the same import again must not grow the log")
}

func TestMergeImported_RequiresConfirmation(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	imported := []logbook.DayRecord{workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)}
	err := book.MergeImported(ctx, imported, logbook.Static(false))
	assert.ErrorIs(t, err, logbook.ErrConfirmationRequired)

	records, err := book.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, book.MergeImported(ctx, imported, logbook.Static(true)))
	records, err = book.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

// =============================================================================
// EDIT
// =============================================================================

func TestEdit_RecomputesSaldo(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	rec := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)
	_, err := book.Upsert(ctx, rec, logbook.Static(false))
	require.NoError(t, err)

	// 07:00 to 16:45 with a 45 minute break is 540 worked, +60 delta.
	edited, err := book.Edit(ctx, rec.ID, "07:00", "16:45", logbook.LabelWork, flextime.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, 60, edited.DailySaldoMinutes)
	assert.Equal(t, "16:45", edited.Leaving)
}

func TestEdit_NonWorkLabelZeroesTimes(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	rec := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 25)
	_, err := book.Upsert(ctx, rec, logbook.Static(false))
	require.NoError(t, err)

	edited, err := book.Edit(ctx, rec.ID, "", "", logbook.LabelSick, flextime.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, logbook.NonWorkClock, edited.Arrival)
	assert.Equal(t, logbook.NonWorkClock, edited.Leaving)
	assert.Zero(t, edited.DailySaldoMinutes, "a sick day contributes nothing")
}

func TestEdit_OvertimeReductionBooksNegativeTarget(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	rec := workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0)
	_, err := book.Upsert(ctx, rec, logbook.Static(false))
	require.NoError(t, err)

	edited, err := book.Edit(ctx, rec.ID, "", "", logbook.LabelOvertimeReduction, flextime.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, -480, edited.DailySaldoMinutes, "burning down a day costs the full 8h target")
}

func TestEdit_UnknownDay(t *testing.T) {
	book, _ := newTestLogbook(t)
	_, err := book.Edit(context.Background(), 42, "07:00", "15:45", logbook.LabelWork, flextime.DefaultPolicy())
	assert.ErrorIs(t, err, logbook.ErrRecordNotFound)
}

// =============================================================================
// CLEAR / LOOKUP / STORAGE AREA
// =============================================================================

func TestClear(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()

	_, err := book.Upsert(ctx, workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0), logbook.Static(false))
	require.NoError(t, err)

	assert.ErrorIs(t, book.Clear(ctx, logbook.Static(false)), logbook.ErrConfirmationRequired)
	require.NoError(t, book.Clear(ctx, logbook.Static(true)))

	records, err := book.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTodayRecord(t *testing.T) {
	book, _ := newTestLogbook(t)
	ctx := context.Background()
	today := time.Now()

	_, found, err := book.TodayRecord(ctx, today)
	require.NoError(t, err)
	assert.False(t, found)

	rec := workRecord(t, today, "07:00", "15:45", 0)
	_, err = book.Upsert(ctx, rec, logbook.Static(false))
	require.NoError(t, err)

	got, found, err := book.TodayRecord(ctx, today)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec.ID, got.ID)
}

func TestLogbook_FollowsSyncSetting(t *testing.T) {
	// GIVEN: Log sync enabled in the settings
	// THEN: Records land in the sync namespace, subject to its quota

	store := memory.New()
	svc := settings.NewService(store)
	book := logbook.New(store, svc)
	ctx := context.Background()

	cfg := settings.Defaults()
	cfg.LogSyncEnabled = true
	require.NoError(t, svc.Save(ctx, cfg))

	_, err := book.Upsert(ctx, workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0), logbook.Static(false))
	require.NoError(t, err)

	_, err = store.Get(ctx, kv.Sync, logbook.StorageKey)
	assert.NoError(t, err, "log must live in the sync area when enabled")

	_, err = store.Get(ctx, kv.Local, logbook.StorageKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestUpsert_SurfacesQuotaError(t *testing.T) {
	store := memory.New()
	store.SyncQuotaBytes = 64
	svc := settings.NewService(store)
	book := logbook.New(store, svc)
	ctx := context.Background()

	cfg := settings.Defaults()
	cfg.LogSyncEnabled = true
	require.NoError(t, svc.Save(ctx, cfg))

	_, err := book.Upsert(ctx, workRecord(t, day(2025, 3, 10), "07:00", "15:45", 0), logbook.Static(false))
	assert.ErrorIs(t, err, kv.ErrQuotaExceeded)
}
