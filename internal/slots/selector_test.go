package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"glowbook/pkg/clock"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

type mockWindowSource struct {
	advanceWindowDaysFunc func(ctx context.Context) (int, error)
}

func (m *mockWindowSource) AdvanceWindowDays(ctx context.Context) (int, error) {
	if m.advanceWindowDaysFunc != nil {
		return m.advanceWindowDaysFunc(ctx)
	}
	return 0, nil
}

func testSelector(window WindowSource) *Selector {
	if window == nil {
		window = &mockWindowSource{}
	}
	fixed := clock.NewFixed(time.Date(2026, 3, 10, 11, 30, 0, 0, time.UTC))
	log := logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})

	return NewSelector(window, Options{
		DefaultWindowDays: 21,
		MinWindowDays:     21,
		MaxWindowDays:     30,
		StartOfDay:        "09:00",
		EndOfDay:          "20:00",
		IntervalMin:       15,
		MaxTimes:          3,
	}, fixed, log)
}

func TestGenerateDates_ExactWindow(t *testing.T) {
	s := testSelector(nil)

	dates := s.GenerateDates(21)
	if len(dates) != 21 {
		t.Fatalf("expected 21 dates, got %d", len(dates))
	}
	if dates[0].Date != "2026-03-10" {
		t.Errorf("expected day zero to be today, got %s", dates[0].Date)
	}
	if dates[20].Date != "2026-03-30" {
		t.Errorf("expected last date 2026-03-30, got %s", dates[20].Date)
	}
	if dates[0].Weekday != "Tuesday" {
		t.Errorf("expected weekday Tuesday, got %s", dates[0].Weekday)
	}
}

func TestGenerateTimeSlots_IntervalAndLabels(t *testing.T) {
	s := testSelector(nil)

	slots := s.GenerateTimeSlots()

	// 09:00 through 20:00 inclusive at 15 minutes is 45 slots.
	if len(slots) != 45 {
		t.Fatalf("expected 45 slots, got %d", len(slots))
	}
	if slots[0].Value != "09:00" || slots[0].Display != "9:00 AM" {
		t.Errorf("unexpected first slot: %+v", slots[0])
	}
	if slots[1].Value != "09:15" || slots[1].Display != "9:15 AM" {
		t.Errorf("unexpected second slot: %+v", slots[1])
	}
	last := slots[len(slots)-1]
	if last.Value != "20:00" || last.Display != "8:00 PM" {
		t.Errorf("unexpected last slot: %+v", last)
	}
}

func TestGenerateTimeSlots_NoonAndMidnightLabels(t *testing.T) {
	if got := formatTwelveHour(time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC)); got != "12:00 PM" {
		t.Errorf("expected 12:00 PM, got %s", got)
	}
	if got := formatTwelveHour(time.Date(0, 1, 1, 0, 30, 0, 0, time.UTC)); got != "12:30 AM" {
		t.Errorf("expected 12:30 AM, got %s", got)
	}
}

func TestToggleTime_AddRemove(t *testing.T) {
	s := testSelector(nil)
	sel := model.SlotSelection{Date: "2026-03-12"}

	sel, err := s.ToggleTime(sel, "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Times) != 1 || sel.Times[0] != "10:00" {
		t.Fatalf("expected [10:00], got %v", sel.Times)
	}

	// Toggling the same value removes it.
	sel, err = s.ToggleTime(sel, "10:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sel.Times) != 0 {
		t.Fatalf("expected empty selection, got %v", sel.Times)
	}
}

func TestToggleTime_LimitSignalled(t *testing.T) {
	s := testSelector(nil)
	sel := model.SlotSelection{Date: "2026-03-12", Times: []string{"09:00", "09:15", "09:30"}}

	got, err := s.ToggleTime(sel, "10:00")
	if !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("expected ErrSelectionLimit, got %v", err)
	}
	if len(got.Times) != 3 {
		t.Errorf("expected selection unchanged, got %v", got.Times)
	}
}

func TestToggleTime_NoDate(t *testing.T) {
	s := testSelector(nil)

	_, err := s.ToggleTime(model.SlotSelection{}, "10:00")
	if apperrors.CodeOf(err) != apperrors.CodePrecondition {
		t.Errorf("expected code %s, got %v", apperrors.CodePrecondition, err)
	}
}

func TestToggleTime_UnknownTime(t *testing.T) {
	s := testSelector(nil)

	_, err := s.ToggleTime(model.SlotSelection{Date: "2026-03-12"}, "09:07")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidInput {
		t.Errorf("expected code %s, got %v", apperrors.CodeInvalidInput, err)
	}
}

func TestValidateSelection_OK(t *testing.T) {
	s := testSelector(nil)
	sel := model.SlotSelection{Date: "2026-03-12", Times: []string{"10:00", "10:15"}}

	if err := s.ValidateSelection(context.Background(), sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateSelection_OutsideWindow(t *testing.T) {
	s := testSelector(nil)

	// Day 21 is the first day past a 21-day window starting today.
	sel := model.SlotSelection{Date: "2026-03-31", Times: []string{"10:00"}}
	err := s.ValidateSelection(context.Background(), sel)
	if apperrors.CodeOf(err) != apperrors.CodeValidation {
		t.Errorf("expected code %s, got %v", apperrors.CodeValidation, err)
	}

	sel = model.SlotSelection{Date: "2026-03-09", Times: []string{"10:00"}}
	if err := s.ValidateSelection(context.Background(), sel); err == nil {
		t.Error("expected yesterday to be rejected")
	}
}

func TestWindowDays_ClampsPlatformValue(t *testing.T) {
	cases := []struct {
		name     string
		platform int
		want     int
	}{
		{"below minimum", 7, 21},
		{"within bounds", 25, 25},
		{"above maximum", 90, 30},
		{"unset", 0, 21},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testSelector(&mockWindowSource{
				advanceWindowDaysFunc: func(ctx context.Context) (int, error) {
					return tc.platform, nil
				},
			})
			if got := s.WindowDays(context.Background()); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWindowDays_FallsBackOnError(t *testing.T) {
	s := testSelector(&mockWindowSource{
		advanceWindowDaysFunc: func(ctx context.Context) (int, error) {
			return 0, errors.New("unreachable")
		},
	})
	if got := s.WindowDays(context.Background()); got != 21 {
		t.Errorf("expected default 21, got %d", got)
	}
}
