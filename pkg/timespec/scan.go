package timespec

import "time"

// Search horizons for the activation scans. Minute resolution matches the
// grammar, which cannot express anything finer.
const (
	nextActivationHorizon = 31 * 24 * time.Hour
	activationEndHorizon  = 24 * time.Hour
)

// NextActivation returns the first instant at or after from when the window
// is active, scanning at minute resolution up to one month ahead. The second
// return is false when the window never activates inside the horizon.
func NextActivation(w TimeWindow, from time.Time) (time.Time, bool) {
	if w.ActiveAt(from) {
		return from, true
	}

	limit := from.Add(nextActivationHorizon)
	for at := from.Add(time.Minute); at.Before(limit); at = at.Add(time.Minute) {
		if w.ActiveAt(at) {
			return at, true
		}
	}
	return time.Time{}, false
}

// ActivationEnd returns the first instant after from when a currently active
// window stops being active, scanning at minute resolution up to 24 hours
// ahead. The second return is false when the window is not active at from or
// stays active for the whole horizon.
func ActivationEnd(w TimeWindow, from time.Time) (time.Time, bool) {
	if !w.ActiveAt(from) {
		return time.Time{}, false
	}

	limit := from.Add(activationEndHorizon)
	for at := from.Add(time.Minute); at.Before(limit); at = at.Add(time.Minute) {
		if !w.ActiveAt(at) {
			return at, true
		}
	}
	return time.Time{}, false
}

// WindowsOverlap reports whether two windows can be active at the same
// instant. This is a pairwise day/month/time heuristic, not a full interval
// proof: when the windows cannot be separated on any single axis it assumes
// overlap. Callers should treat a true result as a diagnostic hint only.
func WindowsOverlap(a, b TimeWindow) bool {
	if !a.days.Empty() && !b.days.Empty() && a.days&b.days == 0 {
		return false
	}
	if !a.months.Empty() && !b.months.Empty() && a.months&b.months == 0 {
		return false
	}

	aStart, aEnd, aHas := a.TimeRange()
	bStart, bEnd, bHas := b.TimeRange()
	if aHas && bHas && !a.SpansMidnight() && !b.SpansMidnight() {
		if aEnd <= bStart || bEnd <= aStart {
			return false
		}
	}
	return true
}
