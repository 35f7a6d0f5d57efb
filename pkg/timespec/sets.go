package timespec

import (
	"fmt"
	"math/bits"
	"strings"
	"time"
)

// DaySet is a set of weekdays encoded as a bitmask over time.Weekday.
type DaySet uint8

// MonthSet is a set of months encoded as a bitmask over time.Month.
type MonthSet uint16

var dayAbbreviations = map[string]time.Weekday{
	"Mo": time.Monday,
	"Tu": time.Tuesday,
	"We": time.Wednesday,
	"Th": time.Thursday,
	"Fr": time.Friday,
	"Sa": time.Saturday,
	"Su": time.Sunday,
}

// dayOrder lists days in OSM conditional order, Monday first.
var dayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var monthAbbreviations = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParseDay converts a two-letter abbreviation (Mo, Tu, ...) to a weekday.
func ParseDay(s string) (time.Weekday, error) {
	day, ok := dayAbbreviations[s]
	if !ok {
		return 0, fmt.Errorf("unknown day abbreviation %q", s)
	}
	return day, nil
}

// ParseMonth converts a three-letter abbreviation (Jan, Feb, ...) to a month.
func ParseMonth(s string) (time.Month, error) {
	month, ok := monthAbbreviations[s]
	if !ok {
		return 0, fmt.Errorf("unknown month abbreviation %q", s)
	}
	return month, nil
}

// Add returns the set with day included.
func (s DaySet) Add(day time.Weekday) DaySet { return s | 1<<uint(day) }

// Has reports whether day is in the set.
func (s DaySet) Has(day time.Weekday) bool { return s&(1<<uint(day)) != 0 }

// Empty reports whether no day is set. An empty set means "all days" in a
// time window.
func (s DaySet) Empty() bool { return s == 0 }

// Count returns the number of days in the set.
func (s DaySet) Count() int { return bits.OnesCount8(uint8(s)) }

// ExpandDayRange returns the inclusive range from start to end walking
// forward through the week, wrapping past Sunday if end precedes start.
// Fr-Mo therefore expands to {Fr, Sa, Su, Mo}.
func ExpandDayRange(start, end time.Weekday) DaySet {
	var set DaySet
	cur := start
	for {
		set = set.Add(cur)
		if cur == end {
			return set
		}
		cur = (cur + 1) % 7
	}
}

// Add returns the set with month included.
func (s MonthSet) Add(month time.Month) MonthSet { return s | 1<<uint(month-1) }

// Has reports whether month is in the set.
func (s MonthSet) Has(month time.Month) bool { return s&(1<<uint(month-1)) != 0 }

// Empty reports whether no month is set. An empty set means "all months" in
// a time window.
func (s MonthSet) Empty() bool { return s == 0 }

// Count returns the number of months in the set.
func (s MonthSet) Count() int { return bits.OnesCount16(uint16(s)) }

// ExpandMonthRange returns the inclusive range from start to end walking
// forward through the year, wrapping past December if end precedes start.
func ExpandMonthRange(start, end time.Month) MonthSet {
	var set MonthSet
	cur := start
	for {
		set = set.Add(cur)
		if cur == end {
			return set
		}
		cur++
		if cur > time.December {
			cur = time.January
		}
	}
}

var (
	weekdaySet = ExpandDayRange(time.Monday, time.Friday)
	weekendSet = ExpandDayRange(time.Saturday, time.Sunday)
	allDaysSet = ExpandDayRange(time.Monday, time.Sunday)
)

// FormatDays renders a day set the way a mapper would write it: "Every day"
// for the full week, "Mo-Fr" for weekdays, "Sa-Su" for the weekend, and a
// comma-separated list otherwise.
func FormatDays(s DaySet) string {
	switch s {
	case allDaysSet:
		return "Every day"
	case weekdaySet:
		return "Mo-Fr"
	case weekendSet:
		return "Sa-Su"
	}

	parts := make([]string, 0, s.Count())
	for _, day := range dayOrder {
		if s.Has(day) {
			parts = append(parts, DayAbbreviation(day))
		}
	}
	return strings.Join(parts, ",")
}

// DayAbbreviation returns the two-letter abbreviation for a weekday.
func DayAbbreviation(day time.Weekday) string {
	for abbr, d := range dayAbbreviations {
		if d == day {
			return abbr
		}
	}
	return day.String()[:2]
}

// MonthAbbreviation returns the three-letter abbreviation for a month.
func MonthAbbreviation(month time.Month) string {
	for abbr, m := range monthAbbreviations {
		if m == month {
			return abbr
		}
	}
	return month.String()[:3]
}
