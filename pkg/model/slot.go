package model

import (
	"errors"
	"time"
)

// CandidateDate is one selectable day in the booking window.
type CandidateDate struct {
	Date    string `json:"date"`     // YYYY-MM-DD
	Weekday string `json:"weekday"`  // Monday..Sunday
	Display string `json:"display"`  // e.g. "Mon, 02 Sep"
}

// TimeSlot is one selectable start time for a chosen date.
type TimeSlot struct {
	Value   string `json:"value"`   // 24-hour HH:MM
	Display string `json:"display"` // 12-hour label, e.g. "9:15 AM"
}

// SlotSelection captures the customer's chosen date and start times for a
// checkout session. Times are 24-hour HH:MM values, kept in toggle order.
type SlotSelection struct {
	Date  string   `json:"date" validate:"required,datetime=2006-01-02"`
	Times []string `json:"times" validate:"required,min=1,dive,datetime=15:04"`
}

// StartsAt resolves the earliest selected time on the selected date in the
// given location.
func (s SlotSelection) StartsAt(loc *time.Location) (time.Time, error) {
	if len(s.Times) == 0 {
		return time.Time{}, errors.New("slot selection has no times")
	}
	earliest := s.Times[0]
	for _, t := range s.Times[1:] {
		if t < earliest {
			earliest = t
		}
	}
	return time.ParseInLocation("2006-01-02 15:04", s.Date+" "+earliest, loc)
}
