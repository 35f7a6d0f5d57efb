package restriction

import (
	"strings"
	"testing"
)

// TestValidateNeverFails checks the non-throwing wrapper on both outcomes.
func TestValidateNeverFails(t *testing.T) {
	good := Validate("access:conditional", "no @ (Mo-Fr 07:00-19:00)")
	if !good.Valid {
		t.Errorf("valid input reported invalid: %s", good.Message)
	}

	bad := Validate("access:conditional", "no (Mo-Fr 07:00-19:00)")
	if bad.Valid {
		t.Error("missing @ should be invalid")
	}
	if bad.Message == "" {
		t.Error("invalid result must carry a message")
	}
}

// TestLintSyntaxError produces an error diagnostic with a fix suggestion.
func TestLintSyntaxError(t *testing.T) {
	diags := Lint(map[string]string{
		"access:conditional": "no @ Mo-Fr 07:00-19:00",
	})

	if len(diags) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	d := diags[0]
	if d.Code != CodeInvalidSyntax || d.Severity != SeverityError {
		t.Errorf("diagnostic = %+v, want invalid-syntax error", d)
	}
	if !strings.Contains(d.Message, "suggestion") {
		t.Errorf("expected a fix suggestion in %q", d.Message)
	}
}

// TestLintUnusualAccessValue warns on values outside the known set.
func TestLintUnusualAccessValue(t *testing.T) {
	diags := Lint(map[string]string{
		"access:conditional": "sometimes @ (Mo-Fr 07:00-19:00)",
	})

	found := false
	for _, d := range diags {
		if d.Code == CodeUnusualCondition && strings.Contains(d.Message, "sometimes") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an unusual-value warning, got %+v", diags)
	}
}

// TestLintInvalidOneway errors on oneway values outside the known set.
func TestLintInvalidOneway(t *testing.T) {
	diags := Lint(map[string]string{
		"oneway:conditional": "maybe @ (Mo-Fr 07:00-19:00)",
	})

	found := false
	for _, d := range diags {
		if d.Code == CodeInconsistentValues && d.Severity == SeverityError {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an inconsistent-values error, got %+v", diags)
	}
}

// TestLintSpeedChecks warns on implausible and mph speed values.
func TestLintSpeedChecks(t *testing.T) {
	diags := Lint(map[string]string{
		"maxspeed:conditional": "250 @ (Mo-Fr 07:00-19:00)",
	})
	if len(diags) == 0 {
		t.Error("expected a high-speed warning")
	}

	diags = Lint(map[string]string{
		"maxspeed:conditional": "30 mph @ (Mo-Fr 07:00-19:00)",
	})
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "mph") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an mph warning, got %+v", diags)
	}
}

// TestLintOverlappingWindows warns when alternative windows may overlap.
func TestLintOverlappingWindows(t *testing.T) {
	diags := Lint(map[string]string{
		"access:conditional": "no @ (Mo-Fr 07:00-12:00; Mo-We 10:00-14:00)",
	})

	found := false
	for _, d := range diags {
		if d.Code == CodeOverlappingConditions {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an overlap warning, got %+v", diags)
	}

	// Disjoint windows stay quiet.
	diags = Lint(map[string]string{
		"access:conditional": "no @ (Mo-Fr 07:00-09:00; Mo-Fr 17:00-19:00)",
	})
	for _, d := range diags {
		if d.Code == CodeOverlappingConditions {
			t.Errorf("unexpected overlap warning: %s", d.Message)
		}
	}
}

// TestLintPlainTagConflict warns when the plain base tag coexists with the
// conditional variant.
func TestLintPlainTagConflict(t *testing.T) {
	diags := Lint(map[string]string{
		"access":             "yes",
		"access:conditional": "no @ (Mo-Fr 07:00-19:00)",
	})

	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "both") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a conflict warning, got %+v", diags)
	}
}

// TestSuggestFix covers the pattern-based corrections.
func TestSuggestFix(t *testing.T) {
	cases := []struct{ in, want string }{
		{"no @ Mo-Fr 07:00-19:00", "no @ (Mo-Fr 07:00-19:00)"},
		{"no @ [Mo-Fr]", "no @ (Mo-Fr)"},
		{"no @  (Mo-Fr)", "no @ (Mo-Fr)"},
		{"no @ (Mon-Fri)", "no @ (Mo-Fr)"},
		{"no @ (Mo-Fr)", ""},
	}
	for _, tc := range cases {
		if got := SuggestFix(tc.in); got != tc.want {
			t.Errorf("SuggestFix(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
