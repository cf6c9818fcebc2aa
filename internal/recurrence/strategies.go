package recurrence

import "time"

// The expansion strategies are pure: each takes typed parameters and emits
// candidate occurrence dates in order. The engine runs every candidate
// through the existence guard immediately before insert, so the dedup
// check sees earlier inserts from the same bill.

// expandMonthly emits one candidate per month starting at today's month,
// reps total, on the target day of month. A target past February's end
// clamps to the 28th; a target past any other month's end skips that month.
// Candidates outside the optional [startDate, endDate] bounds (normalized
// YYYY-MM-DD, "" = unset) are suppressed.
func expandMonthly(today time.Time, day, reps int, startDate, endDate string) []string {
	month := today.Month()
	year := today.Year()

	var dates []string
	for i := 0; i < reps; i++ {
		target := day
		if month == time.February && target > 28 {
			target = 28
		}
		if target <= daysInMonth(year, month) {
			date := time.Date(year, month, target, 0, 0, 0, 0, time.UTC).Format(dateLayout)
			if withinBounds(date, startDate, endDate) {
				dates = append(dates, date)
			}
		}

		// Advance to the next month, wrapping the year at December.
		if month < time.December {
			month++
		} else {
			month = time.January
			year++
		}
	}
	return dates
}

// withinBounds reports whether a candidate date falls inside the optional
// bounds. ISO date strings compare lexically.
func withinBounds(date, startDate, endDate string) bool {
	if endDate != "" && date > endDate {
		return false
	}
	if startDate != "" && date < startDate {
		return false
	}
	return true
}

// expandWeekly emits reps weekly candidates on the target weekday
// (legacy Sunday=0..Saturday=6 convention). The first candidate is the
// next strictly-future target weekday after today, then every 7 days.
func expandWeekly(today time.Time, legacyWeekday, reps int) []string {
	if reps <= 0 {
		return nil
	}

	// Convert the legacy Sunday=0 convention to Monday=0.
	target := legacyWeekday - 1
	if legacyWeekday == 0 {
		target = 6
	}
	current := (int(today.Weekday()) + 6) % 7 // time.Weekday is Sunday=0

	offset := target - current
	if offset <= 0 {
		offset += 7 // always move strictly forward, never same-day
	}

	first := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, offset)

	dates := make([]string, 0, reps)
	for i := 0; i < reps; i++ {
		dates = append(dates, first.AddDate(0, 0, 7*i).Format(dateLayout))
	}
	return dates
}

// expandEveryNDays emits reps candidates stepping a fixed number of days
// from a compounding cursor. The first candidate is anchor + step, not the
// anchor itself. Both interval families use it: every-N-months approximates
// a month as exactly 30 days (intentional, preserved from the billing
// domain), every-N-weeks steps N*7 days exactly.
func expandEveryNDays(anchor time.Time, stepDays, reps int) []string {
	if reps <= 0 {
		return nil
	}

	cursor := anchor
	dates := make([]string, 0, reps)
	for i := 0; i < reps; i++ {
		cursor = cursor.AddDate(0, 0, stepDays)
		dates = append(dates, cursor.Format(dateLayout))
	}
	return dates
}
