// Package recurrence expands recurring bill definitions into concrete
// calendar occurrences within a bounded pay-period window.
package recurrence

import (
	"errors"
	"fmt"
	"time"
)

// dateLayout is the wire format for all occurrence dates.
const dateLayout = "2006-01-02"

// timestampLayout is the full-precision reference timestamp format.
const timestampLayout = "2006-01-02 15:04:05"

// ErrInvalidTimestamp is returned when a reference timestamp cannot be
// parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// PayPeriod is the [today, next pay day] window occurrences are generated
// and queried against. It is recomputed per engine run, never persisted.
type PayPeriod struct {
	// Today is the reference timestamp, full precision.
	Today time.Time

	// NextPayDay is the window's end, truncated to a calendar day.
	NextPayDay time.Time
}

// PayPeriodFrom derives the pay period from a reference timestamp.
// Before the 15th the next pay day is the 14th of the same month; from the
// 15th on it is the last calendar day of the month (leap-year aware).
func PayPeriodFrom(ref time.Time) PayPeriod {
	var payDay int
	if ref.Day() < 15 {
		payDay = 14
	} else {
		payDay = daysInMonth(ref.Year(), ref.Month())
	}
	return PayPeriod{
		Today:      ref,
		NextPayDay: time.Date(ref.Year(), ref.Month(), payDay, 0, 0, 0, 0, ref.Location()),
	}
}

// ParseReference parses a reference timestamp, accepting a full timestamp
// or a bare calendar day.
func ParseReference(s string) (time.Time, error) {
	for _, layout := range []string{timestampLayout, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// TodayString returns today at full timestamp precision.
func (p PayPeriod) TodayString() string {
	return p.Today.Format(timestampLayout)
}

// TodayDate returns today as a calendar-day string.
func (p PayPeriod) TodayDate() string {
	return p.Today.Format(dateLayout)
}

// NextPayDayString returns the window end as a calendar-day string.
func (p PayPeriod) NextPayDayString() string {
	return p.NextPayDay.Format(dateLayout)
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
