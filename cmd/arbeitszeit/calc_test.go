package main

import (
	"context"
	"path/filepath"
	"testing"
)

// A pre-flex-start arrival is clamped for the calculation only; the booked
// record must keep the time the user actually arrived.
func TestRunCalc_SaveKeepsRawArrival(t *testing.T) {
	dbPath = filepath.Join(t.TempDir(), "arbeitszeit.db")
	calcSave = true
	calcTargetHours = "8"
	calcMinor = false
	t.Cleanup(func() {
		calcSave = false
		calcTargetHours = ""
	})

	if err := runCalc(calcCmd, []string{"06:00"}); err != nil {
		t.Fatalf("runCalc: %v", err)
	}

	_, book, closeStore, err := openApp()
	if err != nil {
		t.Fatal(err)
	}
	defer closeStore()

	records, err := book.Records(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Arrival != "06:00" {
		t.Errorf("arrival = %s, want the unclamped 06:00", records[0].Arrival)
	}
	if records[0].Leaving != "15:30" {
		t.Errorf("leaving = %s, want 15:30", records[0].Leaving)
	}
}
