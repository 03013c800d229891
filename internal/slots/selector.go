package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"glowbook/pkg/clock"
	apperrors "glowbook/pkg/errors"
	"glowbook/pkg/logger"
	"glowbook/pkg/model"
)

// ErrSelectionLimit signals that the customer already picked the maximum
// number of start times. The selection is returned unchanged alongside it so
// the handler can show a notice instead of an error page.
var ErrSelectionLimit = errors.New("selection limit reached")

// WindowSource supplies the platform's advance booking window in days.
// Zero means the platform does not constrain it.
type WindowSource interface {
	AdvanceWindowDays(ctx context.Context) (int, error)
}

// Selector generates the bookable dates and start times and maintains a
// customer's slot selection.
type Selector struct {
	window      WindowSource
	defaultDays int
	minDays     int
	maxDays     int
	startOfDay  string
	endOfDay    string
	intervalMin int
	maxTimes    int
	clk         clock.Clock
	log         *logger.Logger
}

type Options struct {
	DefaultWindowDays int
	MinWindowDays     int
	MaxWindowDays     int
	StartOfDay        string // "HH:MM"
	EndOfDay          string // "HH:MM"
	IntervalMin       int
	MaxTimes          int
}

func NewSelector(window WindowSource, opts Options, clk clock.Clock, log *logger.Logger) *Selector {
	return &Selector{
		window:      window,
		defaultDays: opts.DefaultWindowDays,
		minDays:     opts.MinWindowDays,
		maxDays:     opts.MaxWindowDays,
		startOfDay:  opts.StartOfDay,
		endOfDay:    opts.EndOfDay,
		intervalMin: opts.IntervalMin,
		maxTimes:    opts.MaxTimes,
		clk:         clk,
		log:         log,
	}
}

// WindowDays resolves the advance window: the platform setting clamped to the
// allowed bounds, or the configured default when the platform is silent or
// unreachable.
func (s *Selector) WindowDays(ctx context.Context) int {
	days, err := s.window.AdvanceWindowDays(ctx)
	if err != nil {
		s.log.Warn("Advance window lookup failed, using default", "error", err, "default_days", s.defaultDays)
		return s.defaultDays
	}
	if days == 0 {
		return s.defaultDays
	}
	if days < s.minDays {
		return s.minDays
	}
	if days > s.maxDays {
		return s.maxDays
	}
	return days
}

// GenerateDates returns exactly windowDays consecutive candidate dates, day
// zero being today.
func (s *Selector) GenerateDates(windowDays int) []model.CandidateDate {
	today := s.clk.Now()
	dates := make([]model.CandidateDate, 0, windowDays)

	for i := 0; i < windowDays; i++ {
		day := today.AddDate(0, 0, i)
		dates = append(dates, model.CandidateDate{
			Date:    day.Format("2006-01-02"),
			Weekday: day.Weekday().String(),
			Display: day.Format("Mon, 02 Jan"),
		})
	}

	return dates
}

// GenerateTimeSlots returns the selectable start times between startOfDay and
// endOfDay inclusive, at the configured interval, labelled in 12-hour form.
func (s *Selector) GenerateTimeSlots() []model.TimeSlot {
	// startOfDay and endOfDay are HH:MM, enforced by config validation
	// before a Selector can exist.
	start, _ := time.Parse("15:04", s.startOfDay)
	end, _ := time.Parse("15:04", s.endOfDay)

	var out []model.TimeSlot
	for t := start; !t.After(end); t = t.Add(time.Duration(s.intervalMin) * time.Minute) {
		out = append(out, model.TimeSlot{
			Value:   t.Format("15:04"),
			Display: formatTwelveHour(t),
		})
	}
	return out
}

// formatTwelveHour renders "9:05 AM" style labels, no leading zero on the
// hour.
func formatTwelveHour(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "AM"
	if t.Hour() >= 12 {
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem)
}

// ToggleTime adds or removes a start time on an existing selection. Adding
// beyond the limit leaves the selection unchanged and signals
// ErrSelectionLimit.
func (s *Selector) ToggleTime(sel model.SlotSelection, value string) (model.SlotSelection, error) {
	if sel.Date == "" {
		return sel, apperrors.Precondition("Pick a date before choosing times")
	}
	if !s.validTime(value) {
		return sel, apperrors.InvalidInput(fmt.Sprintf("time %q is not a selectable slot", value))
	}

	for i, t := range sel.Times {
		if t == value {
			sel.Times = append(sel.Times[:i], sel.Times[i+1:]...)
			return sel, nil
		}
	}

	if len(sel.Times) >= s.maxTimes {
		return sel, ErrSelectionLimit
	}

	sel.Times = append(sel.Times, value)
	return sel, nil
}

// ValidateSelection checks a selection before checkout begins: a date inside
// the booking window and 1..max unique selectable times.
func (s *Selector) ValidateSelection(ctx context.Context, sel model.SlotSelection) error {
	if sel.Date == "" {
		return apperrors.Validation("Pick a date for your booking", nil)
	}

	date, err := time.Parse("2006-01-02", sel.Date)
	if err != nil {
		return apperrors.Validation("Booking date is not valid", map[string]any{"date": sel.Date})
	}

	today := s.clk.Now().Truncate(24 * time.Hour)
	windowDays := s.WindowDays(ctx)
	if date.Before(today) || !date.Before(today.AddDate(0, 0, windowDays)) {
		return apperrors.Validation("Booking date is outside the bookable window", map[string]any{
			"date":        sel.Date,
			"window_days": windowDays,
		})
	}

	if len(sel.Times) == 0 {
		return apperrors.Validation("Pick at least one start time", nil)
	}
	if len(sel.Times) > s.maxTimes {
		return apperrors.Validation(fmt.Sprintf("At most %d start times can be selected", s.maxTimes), nil)
	}

	seen := make(map[string]bool, len(sel.Times))
	for _, t := range sel.Times {
		if seen[t] {
			return apperrors.Validation("Duplicate start times in selection", map[string]any{"time": t})
		}
		seen[t] = true

		if !s.validTime(t) {
			return apperrors.Validation(fmt.Sprintf("Time %q is not a selectable slot", t), nil)
		}
	}

	return nil
}

func (s *Selector) validTime(value string) bool {
	for _, slot := range s.GenerateTimeSlots() {
		if slot.Value == value {
			return true
		}
	}
	return false
}
