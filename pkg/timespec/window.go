// Package timespec models the temporal side of OSM conditional restrictions:
// day-of-week sets, month sets, and time-of-day ranges with exact boundary
// semantics (start inclusive, end exclusive, wrap past midnight).
package timespec

import (
	"strings"
	"time"
)

// TimeWindow is an immutable day/month/time-of-day predicate compiled from a
// conditional tag. An empty day set matches every day, an empty month set
// every month, and a window without a time range matches the whole day.
type TimeWindow struct {
	days    DaySet
	months  MonthSet
	start   TimeOfDay
	end     TimeOfDay
	hasTime bool
}

// NewWindow builds a window covering the given days and months for the whole
// day.
func NewWindow(days DaySet, months MonthSet) TimeWindow {
	return TimeWindow{days: days, months: months}
}

// NewWindowWithTime builds a window restricted to [start, end). If end is not
// after start the range wraps past midnight; start == end covers the full 24
// hours, so 00:00-00:00 is always active.
func NewWindowWithTime(days DaySet, months MonthSet, start, end TimeOfDay) TimeWindow {
	return TimeWindow{days: days, months: months, start: start, end: end, hasTime: true}
}

// Days returns the day set (empty = all days).
func (w TimeWindow) Days() DaySet { return w.days }

// Months returns the month set (empty = all months).
func (w TimeWindow) Months() MonthSet { return w.months }

// TimeRange returns the start and end of the window's time range. ok is
// false for all-day windows.
func (w TimeWindow) TimeRange() (start, end TimeOfDay, ok bool) {
	return w.start, w.end, w.hasTime
}

// SpansAllDay reports whether the window has no time-of-day restriction.
func (w TimeWindow) SpansAllDay() bool { return !w.hasTime }

// SpansMidnight reports whether the window's time range wraps past 00:00,
// such as 22:00-06:00.
func (w TimeWindow) SpansMidnight() bool { return w.hasTime && w.end < w.start }

// ActiveAt reports whether the window covers the given instant. The start
// boundary is inclusive and the end boundary exclusive: a 07:00-19:00 window
// is active at 07:00:00 and inactive at 19:00:00.
func (w TimeWindow) ActiveAt(at time.Time) bool {
	if !w.months.Empty() && !w.months.Has(at.Month()) {
		return false
	}
	if !w.days.Empty() && !w.days.Has(at.Weekday()) {
		return false
	}
	if !w.hasTime {
		return true
	}

	tod := TimeOfDay(at.Hour()*60 + at.Minute())
	if w.start < w.end {
		return tod >= w.start && tod < w.end
	}
	// Wraps midnight, or start == end which covers the full day.
	return tod >= w.start || tod < w.end
}

// String renders the window in conditional-tag notation, e.g.
// "Mo-Fr 07:00-19:00".
func (w TimeWindow) String() string {
	var b strings.Builder

	if !w.months.Empty() {
		first := true
		for m := time.January; m <= time.December; m++ {
			if w.months.Has(m) {
				if !first {
					b.WriteString(",")
				}
				b.WriteString(MonthAbbreviation(m))
				first = false
			}
		}
	}
	if !w.days.Empty() {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(FormatDays(w.days))
	}
	if w.hasTime {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(w.start.String())
		b.WriteString("-")
		b.WriteString(w.end.String())
	}
	return b.String()
}
