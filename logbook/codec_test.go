package logbook_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jojo252511/arbeitszeit/flextime"
	"github.com/Jojo252511/arbeitszeit/logbook"
)

func eight() decimal.Decimal { return decimal.NewFromInt(8) }

// =============================================================================
// FORMAT DETECTION
// =============================================================================

func TestParseImport_UnrecognizedFormat(t *testing.T) {
	for _, content := range []string{
		"",
		"hello world",
		"Name;Vorname;Abteilung\nMüller;Jo;IT",
	} {
		_, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
		if !errors.Is(err, logbook.ErrUnrecognizedFormat) {
			t.Errorf("content %q: expected ErrUnrecognizedFormat, got %v", content, err)
		}
	}
}

func TestParseImport_JSON(t *testing.T) {
	content := `[
	  {"id": 1741561200000, "date": "10.03.2025", "arrival": "07:00",
	   "leaving": "15:45", "targetHours": "8", "dailySaldoMinutes": 0, "label": "Arbeit"}
	]`

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Arrival != "07:00" || records[0].Label != logbook.LabelWork {
		t.Errorf("unexpected record: %+v", records[0])
	}
}

func TestParseImport_JSONWithoutID(t *testing.T) {
	content := `[{"date": "10.03.2025", "arrival": "07:00", "leaving": "15:45"}]`
	_, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if !errors.Is(err, logbook.ErrParse) {
		t.Errorf("expected ErrParse for a record without a day id, got %v", err)
	}
}

// =============================================================================
// INTERNAL CSV
// =============================================================================

func TestParseImport_InternalCSV_RecomputesSaldo(t *testing.T) {
	// GIVEN: A row claiming an absurd saldo for 07:00-15:45
	// THEN: The saldo is recomputed from the times, not trusted

	content := "Datum;Kommen;Gehen;Tagessaldo;Typ\n" +
		"10.03.2025;07:00;15:45;\"+99 Std.\";Arbeit\n"

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	// 525 present - 45 break - 480 target = 0.
	if records[0].DailySaldoMinutes != 0 {
		t.Errorf("saldo = %d, want recomputed 0", records[0].DailySaldoMinutes)
	}
}

func TestParseImport_InternalCSV_SickAndVacationZeroed(t *testing.T) {
	content := "Datum;Kommen;Gehen;Tagessaldo;Typ\n" +
		"10.03.2025;00:00;00:00;\"-8 Std.\";Krank\n" +
		"11.03.2025;00:00;00:00;\"-8 Std.\";Urlaub\n"

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.DailySaldoMinutes != 0 {
			t.Errorf("%s: saldo = %d, want 0", r.Label, r.DailySaldoMinutes)
		}
		if r.Arrival != logbook.NonWorkClock {
			t.Errorf("%s: arrival = %s, want %s", r.Label, r.Arrival, logbook.NonWorkClock)
		}
	}
}

func TestParseImport_InternalCSV_SkipsMalformedDates(t *testing.T) {
	content := "Datum;Kommen;Gehen;Tagessaldo;Typ\n" +
		"kein-datum;07:00;15:45;\"0 Min.\";Arbeit\n" +
		"11.03.2025;07:00;15:45;\"0 Min.\";Arbeit\n"

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1 (bad date skipped)", len(records))
	}
}

func TestParseImport_InternalCSV_UnknownLabel(t *testing.T) {
	content := "Datum;Kommen;Gehen;Tagessaldo;Typ\n" +
		"10.03.2025;07:00;15:45;\"0 Min.\";Sabbatical\n"

	_, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if !errors.Is(err, logbook.ErrParse) {
		t.Errorf("expected ErrParse for unknown day type, got %v", err)
	}
}

// =============================================================================
// EXTERNAL PUNCH CSV
// =============================================================================

func TestParseImport_ExternalCSV_PairsPunches(t *testing.T) {
	content := "Datum;Uhrzeit;Typ\n" +
		"10.03.2025;07:00;Kommen\n" +
		"10.03.2025;15:45;Gehen\n" +
		"11.03.2025;07:30;Kommen\n" +
		"11.03.2025;16:15;Gehen\n"

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Arrival != "07:00" || records[0].Leaving != "15:45" {
		t.Errorf("day 1: %+v", records[0])
	}
	if records[1].DailySaldoMinutes != 0 {
		t.Errorf("day 2 saldo = %d, want 0", records[1].DailySaldoMinutes)
	}
}

func TestParseImport_ExternalCSV_DropsIncompleteDays(t *testing.T) {
	// GIVEN: March 12 has a Kommen punch but no Gehen
	content := "Datum;Uhrzeit;Typ\n" +
		"10.03.2025;07:00;Kommen\n" +
		"10.03.2025;15:45;Gehen\n" +
		"12.03.2025;07:00;Kommen\n"

	records, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1 (incomplete day dropped)", len(records))
	}
}

func TestParseImport_ExternalCSV_UnknownPunchType(t *testing.T) {
	content := "Datum;Uhrzeit;Typ\n10.03.2025;07:00;Mittagessen\n"
	_, err := logbook.ParseImport([]byte(content), flextime.DefaultPolicy(), eight())
	if !errors.Is(err, logbook.ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

// =============================================================================
// EXPORT
// =============================================================================

func TestToCSV_RoundTrip(t *testing.T) {
	// Work, holiday and overtime-reduction days survive a CSV round trip.
	// Sick and vacation days are excluded: their saldo is forced to zero
	// on import regardless of what was exported.
	d1 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	d2 := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)

	arr, _ := flextime.ParseClock("07:00")
	leave, _ := flextime.ParseClock("15:50")
	original := []logbook.DayRecord{
		logbook.NewWorkRecord(d1, arr, leave, eight(), 5),
		logbook.NewDayRecord(d2, logbook.LabelPublicHoliday, eight()),
	}

	file, err := logbook.ToCSV(original)
	if err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	if !strings.HasPrefix(string(file.Data), "Datum;Kommen;Gehen;Tagessaldo;Typ") {
		t.Fatalf("unexpected header: %q", string(file.Data)[:40])
	}
	// The saldo column is always quoted, matching the files the export has
	// always produced.
	if !strings.Contains(string(file.Data), `10.03.2025;07:00;15:50;"+5 Min.";Arbeit`) {
		t.Fatalf("work row missing or saldo not quoted:\n%s", file.Data)
	}

	parsed, err := logbook.ParseImport(file.Data, flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(parsed) != len(original) {
		t.Fatalf("got %d records, want %d", len(parsed), len(original))
	}
	for i := range original {
		if parsed[i].ID != original[i].ID {
			t.Errorf("record %d: id %d != %d", i, parsed[i].ID, original[i].ID)
		}
		if parsed[i].Label != original[i].Label {
			t.Errorf("record %d: label %s != %s", i, parsed[i].Label, original[i].Label)
		}
		if parsed[i].DailySaldoMinutes != original[i].DailySaldoMinutes {
			t.Errorf("record %d: saldo %d != %d", i, parsed[i].DailySaldoMinutes, original[i].DailySaldoMinutes)
		}
	}
}

func TestToJSON_SortedOldestFirst(t *testing.T) {
	d1 := time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local)
	d2 := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	records := []logbook.DayRecord{
		logbook.NewDayRecord(d1, logbook.LabelVacation, eight()),
		logbook.NewDayRecord(d2, logbook.LabelVacation, eight()),
	}

	file, err := logbook.ToJSON(records)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if file.MIME != "application/json" {
		t.Errorf("mime = %s", file.MIME)
	}

	parsed, err := logbook.ParseImport(file.Data, flextime.DefaultPolicy(), eight())
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if parsed[0].ID > parsed[1].ID {
		t.Error("export must be sorted oldest first")
	}
}

func TestWritePDF(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	arr, _ := flextime.ParseClock("07:00")
	leave, _ := flextime.ParseClock("15:45")
	records := []logbook.DayRecord{
		logbook.NewWorkRecord(d, arr, leave, eight(), 0),
		logbook.NewDayRecord(d.AddDate(0, 0, 1), logbook.LabelOvertimeReduction, eight()),
	}

	file, err := logbook.WritePDF(records)
	if err != nil {
		t.Fatalf("WritePDF: %v", err)
	}
	if file.MIME != "application/pdf" {
		t.Errorf("mime = %s", file.MIME)
	}
	if !strings.HasPrefix(string(file.Data), "%PDF") {
		t.Error("output does not start with a PDF header")
	}
}
