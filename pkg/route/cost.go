package route

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/osmtools/condroute/pkg/graph"
	"github.com/osmtools/condroute/pkg/restriction"
)

// CostPolicy tunes how restriction effects translate into edge costs.
type CostPolicy struct {
	// Multiplier applied when an active "no" restriction is of a kind
	// the cost model has no specific handling for.
	UnknownRestrictionPenalty float64

	// ProfileOverrides replaces built-in profile dimensions. Zero
	// fields keep the built-in value.
	ProfileOverrides map[Profile]ProfileOverride

	// DefaultMaxExpansions caps searches whose query sets no budget.
	// Zero means unbounded.
	DefaultMaxExpansions int
}

// ProfileOverride adjusts one profile's dimensions and speed.
type ProfileOverride struct {
	WeightTonnes float64
	HeightMeters float64
	SpeedKmh     float64
}

// DefaultCostPolicy returns the standard cost policy.
func DefaultCostPolicy() CostPolicy {
	return CostPolicy{UnknownRestrictionPenalty: 1.5}
}

func (c CostPolicy) profileWeight(p Profile) float64 {
	if o, ok := c.ProfileOverrides[p]; ok && o.WeightTonnes > 0 {
		return o.WeightTonnes
	}
	return p.DefaultWeight()
}

func (c CostPolicy) profileHeight(p Profile) float64 {
	if o, ok := c.ProfileOverrides[p]; ok && o.HeightMeters > 0 {
		return o.HeightMeters
	}
	return p.DefaultHeight()
}

func (c CostPolicy) profileSpeed(p Profile) float64 {
	if o, ok := c.ProfileOverrides[p]; ok && o.SpeedKmh > 0 {
		return o.SpeedKmh
	}
	return p.DefaultSpeed()
}

// Query carries everything needed to evaluate edge costs: the vehicle,
// the departure time, and optional dimension overrides. Nil overrides
// fall back to the profile defaults.
type Query struct {
	Profile Profile
	At      time.Time
	Weight  *float64 // tonnes
	Height  *float64 // meters

	// MaxExpansions caps the number of settled nodes per search.
	// Zero means no cap.
	MaxExpansions int
}

func (q Query) vehicleWeight(policy CostPolicy) float64 {
	if q.Weight != nil {
		return *q.Weight
	}
	return policy.profileWeight(q.Profile)
}

func (q Query) vehicleHeight(policy CostPolicy) float64 {
	if q.Height != nil {
		return *q.Height
	}
	return policy.profileHeight(q.Profile)
}

// EdgeCost evaluates the traversal cost of an edge for a query,
// applying every restriction active at the query time that matches the
// resolved vehicle dimensions. Returns +Inf when the edge is blocked.
func EdgeCost(e *graph.Edge, q Query, policy CostPolicy) float64 {
	weight := q.vehicleWeight(policy)
	height := q.vehicleHeight(policy)

	cost := e.BaseCost
	denied := false
	profileSpeed := policy.profileSpeed(q.Profile)
	speedLimit := profileSpeed

	for _, r := range e.Restrictions {
		if !r.IsActiveAt(q.At) {
			continue
		}
		if !r.AppliesToVehicle(&weight, &height) {
			continue
		}

		value := strings.ToLower(r.Value)

		switch r.Kind() {
		case restriction.KindAccess:
			if (value == "no" || value == "private") && appliesToVehicleClass(r, q.Profile) {
				denied = true
			}

		case restriction.KindOneway:
			// Direction was fixed when the graph was built; an active
			// oneway restriction closes the opposing edge.
			switch value {
			case "yes", "true", "1":
				if e.Reversed {
					denied = true
				}
			case "-1":
				if !e.Reversed {
					denied = true
				}
			}

		case restriction.KindSpeed:
			if restricted, err := strconv.ParseFloat(value, 64); err == nil && restricted > 0 {
				speedLimit = math.Min(speedLimit, restricted)
			}

		case restriction.KindHGV:
			if value == "no" && q.Profile == HGV {
				denied = true
			}

		case restriction.KindBicycle:
			if value == "no" && q.Profile == Bicycle {
				denied = true
			}

		case restriction.KindFoot:
			if value == "no" && q.Profile == Pedestrian {
				denied = true
			}

		default:
			if value == "no" {
				cost *= policy.UnknownRestrictionPenalty
			}
		}
	}

	if denied {
		return math.Inf(1)
	}

	if speedLimit < profileSpeed {
		cost *= profileSpeed / speedLimit
	}

	return cost
}

// appliesToVehicleClass reports whether an access restriction's base
// tag covers the profile's vehicle class.
func appliesToVehicleClass(r *restriction.Restriction, p Profile) bool {
	baseTag := strings.ToLower(r.BaseTag())

	if baseTag == p.OSMTag() {
		return true
	}

	switch baseTag {
	case "access", "vehicle":
		return true
	case "motor_vehicle":
		return p.Motorized()
	}
	return false
}
