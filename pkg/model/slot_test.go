package model

import (
	"testing"
	"time"
)

func TestSlotSelection_StartsAt(t *testing.T) {
	sel := SlotSelection{
		Date:  "2026-03-10",
		Times: []string{"14:30", "09:15", "11:00"},
	}

	got, err := sel.StartsAt(time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 3, 10, 9, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("starts at %v, want %v (earliest selected time)", got, want)
	}
}

func TestSlotSelection_StartsAtNoTimes(t *testing.T) {
	sel := SlotSelection{Date: "2026-03-10"}

	if _, err := sel.StartsAt(time.UTC); err == nil {
		t.Error("expected an error for a selection with no times")
	}
}
