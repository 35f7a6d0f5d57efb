package timespec

import (
	"fmt"
	"strings"
	"time"
)

// dateTimeLayouts are tried in order when parsing a query timestamp. Mappers
// paste timestamps in several regional conventions; all are interpreted as
// local time.
var dateTimeLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"02.01.2006 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02T15:04:05",
}

// ParseDateTime parses a timestamp string against the supported layouts.
func ParseDateTime(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date/time string")
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date/time %q", s)
}
