// Package calendar knows which dates a kiln can be fired on and how a slot
// is presented. It holds no storage concerns.
package calendar

import (
	"errors"
	"time"
)

var (
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidDate       = errors.New("invalid date")
	ErrIneligibleWeekday = errors.New("kiln cannot be booked on this weekday")
)

const (
	minYear = 2000
	maxYear = 2100
)

// Kilns are fired on Monday, Wednesday and Friday only.
var eligibleWeekdays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Wednesday: true,
	time.Friday:    true,
}

func IsEligibleWeekday(d time.Weekday) bool {
	return eligibleWeekdays[d]
}

// MonthRef identifies one calendar page.
type MonthRef struct {
	Year  int
	Month time.Month
}

func NewMonthRef(year, month int) (MonthRef, error) {
	if year < minYear || year > maxYear || month < 1 || month > 12 {
		return MonthRef{}, ErrInvalidMonth
	}
	return MonthRef{Year: year, Month: time.Month(month)}, nil
}

func MonthOf(date time.Time) MonthRef {
	return MonthRef{Year: date.Year(), Month: date.Month()}
}

func (m MonthRef) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (m MonthRef) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m MonthRef) Prev() MonthRef {
	return MonthOf(m.First().AddDate(0, -1, 0))
}

func (m MonthRef) Next() MonthRef {
	return MonthOf(m.First().AddDate(0, 1, 0))
}

// EligibleDates lists the bookable dates of the month in ascending order.
func (m MonthRef) EligibleDates() []time.Time {
	dates := make([]time.Time, 0, 14)
	for d := m.First(); d.Month() == m.Month; d = d.AddDate(0, 0, 1) {
		if IsEligibleWeekday(d.Weekday()) {
			dates = append(dates, d)
		}
	}
	return dates
}

// SlotDate validates a (year, month, day) triple and returns it as a
// midnight-UTC date. Impossible dates such as 31 April are rejected.
func SlotDate(year, month, day int) (time.Time, error) {
	if _, err := NewMonthRef(year, month); err != nil {
		return time.Time{}, ErrInvalidDate
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, ErrInvalidDate
	}
	if !IsEligibleWeekday(d.Weekday()) {
		return time.Time{}, ErrIneligibleWeekday
	}
	return d, nil
}

// IsPast reports whether the slot date lies strictly before today.
// A slot dated today is still current.
func IsPast(date, today time.Time) bool {
	return date.Before(today)
}

type SlotState string

const (
	StateOpen  SlotState = "open"
	StateOwn   SlotState = "own"
	StateOther SlotState = "other"
	StatePast  SlotState = "past"
)

func StateFor(booked, own, past bool) SlotState {
	switch {
	case past:
		return StatePast
	case !booked:
		return StateOpen
	case own:
		return StateOwn
	default:
		return StateOther
	}
}

func (s SlotState) Color() string {
	switch s {
	case StateOwn:
		return "green"
	case StateOther:
		return "red"
	default:
		return "lightblue"
	}
}
