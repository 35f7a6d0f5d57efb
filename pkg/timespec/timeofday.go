package timespec

import (
	"fmt"
	"regexp"
	"strconv"
)

// TimeOfDay is a clock time expressed as minutes since midnight.
// The zero value is midnight.
type TimeOfDay int

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseTimeOfDay parses "H:MM" or "HH:MM", with an optional ":SS" suffix
// that is accepted and discarded. "24:00" and out-of-range components are
// rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid time %q: expected H:MM or HH:MM", s)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])

	if hour > 23 {
		return 0, fmt.Errorf("invalid time %q: hour %d out of range 0-23", s, hour)
	}
	if minute > 59 {
		return 0, fmt.Errorf("invalid time %q: minute %d out of range 0-59", s, minute)
	}
	if m[3] != "" {
		if sec, _ := strconv.Atoi(m[3]); sec > 59 {
			return 0, fmt.Errorf("invalid time %q: second %d out of range 0-59", s, sec)
		}
	}

	return TimeOfDay(hour*60 + minute), nil
}

// Hour returns the hour component (0-23).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0-59).
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// String formats the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
