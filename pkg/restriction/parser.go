package restriction

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/osmtools/condroute/pkg/timespec"
)

// ConditionalTags is the whitelist of tag keys the compiler recognises.
// Conditional-looking keys outside this list are ignored, not errored.
var ConditionalTags = []string{
	"access:conditional",
	"oneway:conditional",
	"hgv:conditional",
	"maxspeed:conditional",
	"parking:conditional",
	"bicycle:conditional",
	"motor_vehicle:conditional",
	"foot:conditional",
}

var (
	comparisonPattern = regexp.MustCompile(`^(weight|height)\s*(>=|<=|>|<)\s*(\S+)$`)

	// Matched anywhere in a segment, so "22:00 - 06:00" with spaces
	// around the dash still reads as one range.
	timeRangePattern = regexp.MustCompile(`(\d{1,2}:\d{2}(?::\d{2})?)\s*-\s*(\d{1,2}:\d{2}(?::\d{2})?)`)

	// Token shapes. A field matching one of these MUST parse as that
	// category; a field matching neither becomes part of a generic
	// condition.
	dayListShape   = regexp.MustCompile(`^[A-Z][a-z](?:[,-][A-Z][a-z])*$`)
	monthListShape = regexp.MustCompile(`^[A-Z][a-z]{2}(?:[,-][A-Z][a-z]{2})*$`)
)

// Parse compiles a conditional tag value of the form
//
//	value @ (condition[; condition...])
//
// into a Restriction. Each semicolon-separated segment is a time window, a
// weight/height comparison, or a generic condition. On any failure a
// *ParseError is returned and no partial Restriction is produced.
func Parse(tagKey, tagValue string) (*Restriction, error) {
	raw := tagValue
	trimmed := strings.TrimSpace(tagValue)
	if trimmed == "" {
		return nil, parseErr(tagKey, raw, "", ErrEmptyValue)
	}

	atIdx := strings.Index(trimmed, "@")
	if atIdx < 0 {
		return nil, parseErr(tagKey, raw, trimmed, ErrMissingAt)
	}

	value := strings.TrimSpace(trimmed[:atIdx])
	if value == "" {
		return nil, parseErr(tagKey, raw, "", ErrEmptyValue)
	}

	condPart := strings.TrimSpace(trimmed[atIdx+1:])
	if !strings.HasPrefix(condPart, "(") || !strings.HasSuffix(condPart, ")") {
		return nil, parseErr(tagKey, raw, condPart, ErrUnbalancedParens)
	}
	inner := condPart[1 : len(condPart)-1]
	if strings.ContainsAny(inner, "()") {
		return nil, parseErr(tagKey, raw, condPart, ErrUnbalancedParens)
	}

	r := &Restriction{TagKey: tagKey, Value: value}

	for _, segment := range strings.Split(inner, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, parseErr(tagKey, raw, inner, ErrEmptyCondition)
		}
		if err := parseSegment(r, tagKey, raw, segment); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// parseSegment classifies one semicolon-delimited condition and attaches it
// to the restriction.
func parseSegment(r *Restriction, tagKey, raw, segment string) error {
	if m := comparisonPattern.FindStringSubmatch(segment); m != nil {
		value, err := strconv.ParseFloat(m[3], 64)
		if err != nil || value < 0 {
			return parseErr(tagKey, raw, m[3], ErrBadNumber)
		}
		cmp := &Comparison{Op: m[2], Value: value}
		if m[1] == "weight" {
			r.Weight = cmp
		} else {
			r.Height = cmp
		}
		return nil
	}

	window, temporal, leftover, err := parseWindow(tagKey, raw, segment)
	if err != nil {
		return err
	}
	if !temporal {
		r.Generic = append(r.Generic, segment)
		return nil
	}
	if leftover != "" {
		r.Generic = append(r.Generic, leftover)
	}
	r.Windows = append(r.Windows, window)
	return nil
}

// parseWindow attempts to read a segment as a day/month/time condition.
// temporal is false when no field of the segment looks temporal, in which
// case the caller records the segment as a generic condition. When the
// segment mixes temporal fields with unmodelled words ("Mo-Fr 07:00-19:00
// wet"), the window is still built and the words come back as leftover so
// the restriction stays time-gated rather than always active.
func parseWindow(tagKey, raw, segment string) (timespec.TimeWindow, bool, string, error) {
	var (
		days     timespec.DaySet
		months   timespec.MonthSet
		start    timespec.TimeOfDay
		end      timespec.TimeOfDay
		hasTime  bool
		unmapped []string
	)

	// The time range is located before field-splitting so spaces around
	// the dash cannot break it in two.
	rest := segment
	if loc := timeRangePattern.FindStringSubmatchIndex(rest); loc != nil {
		startStr := rest[loc[2]:loc[3]]
		endStr := rest[loc[4]:loc[5]]

		var err error
		if start, err = timespec.ParseTimeOfDay(startStr); err != nil {
			return timespec.TimeWindow{}, false, "", parseErr(tagKey, raw, startStr, ErrBadTime)
		}
		if end, err = timespec.ParseTimeOfDay(endStr); err != nil {
			return timespec.TimeWindow{}, false, "", parseErr(tagKey, raw, endStr, ErrBadTime)
		}
		hasTime = true
		rest = rest[:loc[0]] + " " + rest[loc[1]:]
	}

	for _, field := range strings.Fields(rest) {
		switch {
		case strings.Contains(field, ":"):
			// A second time range, or a lone/garbled time value.
			return timespec.TimeWindow{}, false, "", parseErr(tagKey, raw, field, ErrBadTime)

		case dayListShape.MatchString(field):
			set, err := parseDayList(tagKey, raw, field)
			if err != nil {
				return timespec.TimeWindow{}, false, "", err
			}
			days |= set

		case monthListShape.MatchString(field):
			set, err := parseMonthList(tagKey, raw, field)
			if err != nil {
				return timespec.TimeWindow{}, false, "", err
			}
			months |= set

		default:
			unmapped = append(unmapped, field)
		}
	}

	temporal := hasTime || !days.Empty() || !months.Empty()
	if !temporal {
		return timespec.TimeWindow{}, false, "", nil
	}
	leftover := strings.Join(unmapped, " ")
	if hasTime {
		return timespec.NewWindowWithTime(days, months, start, end), true, leftover, nil
	}
	return timespec.NewWindow(days, months), true, leftover, nil
}

// parseDayList expands "Mo-Fr", "Mo,We,Fr" or "Fr-Mo,We" into a day set.
func parseDayList(tagKey, raw, field string) (timespec.DaySet, error) {
	var set timespec.DaySet
	for _, token := range strings.Split(field, ",") {
		from, to, isRange := strings.Cut(token, "-")
		start, err := timespec.ParseDay(from)
		if err != nil {
			return 0, parseErr(tagKey, raw, from, ErrUnknownDay)
		}
		if !isRange {
			set = set.Add(start)
			continue
		}
		endDay, err := timespec.ParseDay(to)
		if err != nil {
			return 0, parseErr(tagKey, raw, to, ErrUnknownDay)
		}
		set |= timespec.ExpandDayRange(start, endDay)
	}
	return set, nil
}

// parseMonthList expands "Apr-Oct" or "Jan,Jul" into a month set.
func parseMonthList(tagKey, raw, field string) (timespec.MonthSet, error) {
	var set timespec.MonthSet
	for _, token := range strings.Split(field, ",") {
		from, to, isRange := strings.Cut(token, "-")
		start, err := timespec.ParseMonth(from)
		if err != nil {
			return 0, parseErr(tagKey, raw, from, ErrUnknownMonth)
		}
		if !isRange {
			set = set.Add(start)
			continue
		}
		endMonth, err := timespec.ParseMonth(to)
		if err != nil {
			return 0, parseErr(tagKey, raw, to, ErrUnknownMonth)
		}
		set |= timespec.ExpandMonthRange(start, endMonth)
	}
	return set, nil
}

// ScanTags extracts and compiles every whitelisted conditional tag from an
// entity's tag map. Parse failures are collected, never raised: one bad tag
// must not abort processing of the others. Keys are visited in sorted order
// so results are deterministic.
func ScanTags(tags map[string]string) ([]*Restriction, []*ParseError) {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var (
		restrictions []*Restriction
		failures     []*ParseError
	)
	for _, key := range keys {
		if !isConditionalKey(key) {
			continue
		}
		value := strings.TrimSpace(tags[key])
		if value == "" {
			continue
		}
		r, err := Parse(key, value)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				failures = append(failures, pe)
			}
			continue
		}
		restrictions = append(restrictions, r)
	}
	return restrictions, failures
}

func isConditionalKey(key string) bool {
	for _, known := range ConditionalTags {
		if key == known {
			return true
		}
	}
	return false
}
