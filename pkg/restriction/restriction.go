// Package restriction compiles OSM conditional-restriction tag values
// ("no @ (Mo-Fr 07:00-19:00)", "no @ (weight>7.5)") into immutable,
// evaluable predicates.
package restriction

import (
	"fmt"
	"strings"
	"time"

	"github.com/osmtools/condroute/pkg/timespec"
)

// Kind classifies a restriction by its base tag for routing purposes.
type Kind int

const (
	KindAccess Kind = iota
	KindOneway
	KindSpeed
	KindHGV
	KindBicycle
	KindFoot
	KindParking
	KindOther
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindOneway:
		return "oneway"
	case KindSpeed:
		return "speed"
	case KindHGV:
		return "hgv"
	case KindBicycle:
		return "bicycle"
	case KindFoot:
		return "foot"
	case KindParking:
		return "parking"
	default:
		return "other"
	}
}

// Comparison is a numeric vehicle-dimension condition such as "weight>7.5".
type Comparison struct {
	Op    string // one of > >= < <=
	Value float64
}

// Matches reports whether v satisfies the comparison.
func (c Comparison) Matches(v float64) bool {
	switch c.Op {
	case ">":
		return v > c.Value
	case ">=":
		return v >= c.Value
	case "<":
		return v < c.Value
	case "<=":
		return v <= c.Value
	}
	return false
}

// Restriction is the compiled result of one conditional tag. It is immutable
// after Parse returns it and safe to share by reference across graph edges
// and concurrent readers.
type Restriction struct {
	TagKey string
	Value  string

	// Windows are alternatives: the restriction is active if ANY window is
	// active. An empty slice means always active.
	Windows []timespec.TimeWindow

	// Weight (tonnes) and Height (metres) gate applicability by vehicle
	// dimension. Nil means no condition on that axis.
	Weight *Comparison
	Height *Comparison

	// Generic holds condition segments the grammar does not model (for
	// example "wet" or "snow"). They are preserved for diagnostics and do
	// not affect evaluation.
	Generic []string
}

// BaseTag strips the ":conditional" suffix: "access:conditional" -> "access".
func (r *Restriction) BaseTag() string {
	return strings.TrimSuffix(r.TagKey, ":conditional")
}

// Kind maps the base tag onto a restriction kind.
func (r *Restriction) Kind() Kind {
	switch strings.ToLower(r.BaseTag()) {
	case "access", "motor_vehicle", "vehicle":
		return KindAccess
	case "oneway":
		return KindOneway
	case "maxspeed":
		return KindSpeed
	case "hgv", "goods":
		return KindHGV
	case "bicycle":
		return KindBicycle
	case "foot":
		return KindFoot
	case "parking":
		return KindParking
	default:
		return KindOther
	}
}

// IsActiveAt reports whether the restriction is in force at the given
// instant. With no time windows the restriction is always active; otherwise
// it is active when any window is.
func (r *Restriction) IsActiveAt(at time.Time) bool {
	if len(r.Windows) == 0 {
		return true
	}
	for _, w := range r.Windows {
		if w.ActiveAt(at) {
			return true
		}
	}
	return false
}

// AppliesToVehicle reports whether the restriction applies to a vehicle with
// the given dimensions. A nil dimension means unknown, and a comparison on
// an unknown dimension is treated as not applicable: restrictions never
// block vehicles whose dimension is unknown.
func (r *Restriction) AppliesToVehicle(weight, height *float64) bool {
	if r.Weight != nil && weight != nil && !r.Weight.Matches(*weight) {
		return false
	}
	if r.Height != nil && height != nil && !r.Height.Matches(*height) {
		return false
	}
	return true
}

// Describe renders the restriction for display, e.g.
// "access = no when: Mo-Fr 07:00-19:00, weight > 7.5t".
func (r *Restriction) Describe() string {
	var b strings.Builder
	b.WriteString(r.BaseTag())
	b.WriteString(" = ")
	b.WriteString(r.Value)

	conditions := make([]string, 0, len(r.Windows)+len(r.Generic)+2)
	for _, w := range r.Windows {
		conditions = append(conditions, w.String())
	}
	if r.Weight != nil {
		conditions = append(conditions, fmt.Sprintf("weight %s %gt", r.Weight.Op, r.Weight.Value))
	}
	if r.Height != nil {
		conditions = append(conditions, fmt.Sprintf("height %s %gm", r.Height.Op, r.Height.Value))
	}
	conditions = append(conditions, r.Generic...)

	if len(conditions) > 0 {
		b.WriteString(" when: ")
		b.WriteString(strings.Join(conditions, ", "))
	}
	return b.String()
}

// String implements fmt.Stringer.
func (r *Restriction) String() string {
	return fmt.Sprintf("Restriction[%s = %s @ %d windows]", r.TagKey, r.Value, len(r.Windows))
}
