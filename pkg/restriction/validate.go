package restriction

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/osmtools/condroute/pkg/timespec"
)

// Result is the non-throwing outcome of a syntax validation, intended for
// external validators and UI diagnostics.
type Result struct {
	Valid   bool
	Message string
}

// Validate wraps Parse and never fails: malformed input yields an invalid
// Result with the parse message.
func Validate(tagKey, tagValue string) Result {
	if _, err := Parse(tagKey, tagValue); err != nil {
		return Result{Valid: false, Message: err.Error()}
	}
	return Result{Valid: true, Message: "Valid syntax"}
}

// Diagnostic severities.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic codes, stable across releases so callers can filter.
const (
	CodeInvalidSyntax         = 4001
	CodeMalformedCondition    = 4002
	CodeInconsistentValues    = 4003
	CodeUnusualCondition      = 4005
	CodeOverlappingConditions = 4006
)

// Diagnostic is one finding from the semantic lint of an entity's tags.
type Diagnostic struct {
	Code     int
	Severity Severity
	TagKey   string
	Message  string
}

var validAccessValues = map[string]bool{
	"yes": true, "no": true, "private": true, "permissive": true,
	"destination": true, "customers": true, "delivery": true,
	"agricultural": true, "forestry": true, "emergency": true,
}

var validOnewayValues = map[string]bool{
	"yes": true, "no": true, "-1": true, "1": true, "true": true, "false": true,
}

var accessLikeTags = map[string]bool{
	"access": true, "motor_vehicle": true, "vehicle": true, "bicycle": true,
	"foot": true, "horse": true, "hgv": true, "bus": true, "taxi": true,
	"emergency": true, "delivery": true,
}

var conditionalKeyPattern = regexp.MustCompile(`:conditional$`)

// Lint runs syntax and semantic checks over an entity's full tag map and
// returns all findings. It never fails; a broken tag produces a diagnostic
// for that tag only.
func Lint(tags map[string]string) []Diagnostic {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var diags []Diagnostic
	for _, key := range keys {
		if !conditionalKeyPattern.MatchString(key) {
			continue
		}
		value := strings.TrimSpace(tags[key])
		if value == "" {
			continue
		}

		r, err := Parse(key, value)
		if err != nil {
			msg := fmt.Sprintf("invalid syntax in %s: %v", key, err)
			if fix := SuggestFix(value); fix != "" {
				msg += fmt.Sprintf(" (suggestion: %s)", fix)
			}
			diags = append(diags, Diagnostic{
				Code: CodeInvalidSyntax, Severity: SeverityError,
				TagKey: key, Message: msg,
			})
			continue
		}
		diags = append(diags, lintSemantics(key, r)...)
	}

	diags = append(diags, lintConflicts(tags, keys)...)
	return diags
}

// lintSemantics checks a successfully parsed restriction for questionable
// values and overlapping windows.
func lintSemantics(key string, r *Restriction) []Diagnostic {
	var diags []Diagnostic
	baseTag := strings.ToLower(r.BaseTag())
	value := strings.ToLower(r.Value)

	if accessLikeTags[baseTag] && !validAccessValues[value] {
		diags = append(diags, Diagnostic{
			Code: CodeUnusualCondition, Severity: SeverityWarning, TagKey: key,
			Message: fmt.Sprintf("unusual access value %q in %s", r.Value, key),
		})
	}

	if baseTag == "oneway" && !validOnewayValues[value] {
		diags = append(diags, Diagnostic{
			Code: CodeInconsistentValues, Severity: SeverityError, TagKey: key,
			Message: fmt.Sprintf("invalid oneway value %q in %s", r.Value, key),
		})
	}

	if baseTag == "maxspeed" {
		if speed, err := strconv.Atoi(r.Value); err == nil && speed > 200 {
			diags = append(diags, Diagnostic{
				Code: CodeUnusualCondition, Severity: SeverityWarning, TagKey: key,
				Message: fmt.Sprintf("speed limit of %d km/h in %s seems unusually high", speed, key),
			})
		}
		if strings.HasSuffix(strings.TrimSpace(r.Value), "mph") {
			diags = append(diags, Diagnostic{
				Code: CodeUnusualCondition, Severity: SeverityWarning, TagKey: key,
				Message: fmt.Sprintf("speed value %q in %s uses mph, OSM maxspeed is km/h", r.Value, key),
			})
		}
	}

	// Best-effort overlap check between alternative windows. This is a
	// heuristic, not a proof; see timespec.WindowsOverlap.
	for i := 0; i < len(r.Windows); i++ {
		for j := i + 1; j < len(r.Windows); j++ {
			if timespec.WindowsOverlap(r.Windows[i], r.Windows[j]) {
				diags = append(diags, Diagnostic{
					Code: CodeOverlappingConditions, Severity: SeverityWarning, TagKey: key,
					Message: fmt.Sprintf("time conditions %q and %q in %s may overlap",
						r.Windows[i].String(), r.Windows[j].String(), key),
				})
			}
		}
	}

	return diags
}

// lintConflicts flags entities that carry both a plain tag and a conditional
// variant of the same base tag.
func lintConflicts(tags map[string]string, sortedKeys []string) []Diagnostic {
	var diags []Diagnostic
	for _, key := range sortedKeys {
		if !conditionalKeyPattern.MatchString(key) {
			continue
		}
		baseTag := strings.TrimSuffix(key, ":conditional")
		if plain, ok := tags[baseTag]; ok {
			diags = append(diags, Diagnostic{
				Code: CodeUnusualCondition, Severity: SeverityWarning, TagKey: key,
				Message: fmt.Sprintf("entity has both %s=%s and %s, verify the combination is intended",
					baseTag, plain, key),
			})
		}
	}
	return diags
}

// commonFixes maps frequent mapper mistakes to their corrections.
var commonFixes = []struct{ from, to string }{
	{"monday-friday", "Mo-Fr"},
	{"Mon-Fri", "Mo-Fr"},
	{"none", "no"},
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")", "{", "(", "}", ")")

// SuggestFix proposes a correction for common syntax mistakes, or returns ""
// when it has none.
func SuggestFix(value string) string {
	for _, fix := range commonFixes {
		if strings.Contains(value, fix.from) {
			return strings.ReplaceAll(value, fix.from, fix.to)
		}
	}

	// Wrong bracket types.
	if strings.ContainsAny(value, "[]{}") {
		return bracketReplacer.Replace(value)
	}

	// Missing parentheses around the condition.
	if strings.Contains(value, "@") && !strings.Contains(value, "(") {
		before, after, _ := strings.Cut(value, "@")
		return strings.TrimSpace(before) + " @ (" + strings.TrimSpace(after) + ")"
	}

	// Collapse doubled whitespace.
	if strings.Contains(value, "  ") {
		return strings.Join(strings.Fields(value), " ")
	}

	return ""
}
