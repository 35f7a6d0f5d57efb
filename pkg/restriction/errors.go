package restriction

import (
	"errors"
	"fmt"
)

// Sentinel parse failures. Every ParseError wraps one of these so callers
// can classify failures with errors.Is.
var (
	ErrMissingAt        = errors.New("missing '@' separator")
	ErrUnbalancedParens = errors.New("condition must be enclosed in balanced parentheses")
	ErrEmptyValue       = errors.New("empty restriction value")
	ErrEmptyCondition   = errors.New("empty condition segment")
	ErrUnknownDay       = errors.New("unknown day abbreviation")
	ErrUnknownMonth     = errors.New("unknown month abbreviation")
	ErrBadTime          = errors.New("malformed time")
	ErrBadNumber        = errors.New("malformed number")
)

// ParseError describes a single malformed conditional tag. It carries enough
// context for per-object diagnostics: the tag key, the raw value, and the
// substring that failed. Parse errors are always local to one tag and never
// abort processing of other tags.
type ParseError struct {
	TagKey    string
	Raw       string
	Offending string
	Cause     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offending != "" {
		return fmt.Sprintf("parse %s=%q: %v: %q", e.TagKey, e.Raw, e.Cause, e.Offending)
	}
	return fmt.Sprintf("parse %s=%q: %v", e.TagKey, e.Raw, e.Cause)
}

// Unwrap returns the sentinel cause for error chain support.
func (e *ParseError) Unwrap() error { return e.Cause }

// Is reports whether the target matches this error's cause.
func (e *ParseError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func parseErr(tagKey, raw, offending string, cause error) *ParseError {
	return &ParseError{TagKey: tagKey, Raw: raw, Offending: offending, Cause: cause}
}
