package route

import (
	"fmt"
	"strings"
)

// Profile identifies a routing vehicle class.
type Profile int

const (
	Pedestrian Profile = iota
	Bicycle
	Car
	Motorcycle
	Bus
	HGV
	Delivery
)

type profileSpec struct {
	name   string
	osmTag string
	weight float64 // tonnes
	height float64 // meters
	speed  float64 // km/h
}

var profileSpecs = [...]profileSpec{
	Pedestrian: {"pedestrian", "foot", 0.0, 0.0, 5.0},
	Bicycle:    {"bicycle", "bicycle", 0.0, 0.0, 15.0},
	Car:        {"car", "motor_vehicle", 2.0, 1.8, 50.0},
	Motorcycle: {"motorcycle", "motorcycle", 0.3, 1.5, 50.0},
	Bus:        {"bus", "bus", 12.0, 3.2, 50.0},
	HGV:        {"hgv", "hgv", 40.0, 4.0, 80.0},
	Delivery:   {"delivery", "goods", 7.5, 2.5, 50.0},
}

// Profiles lists every known profile in declaration order.
func Profiles() []Profile {
	return []Profile{Pedestrian, Bicycle, Car, Motorcycle, Bus, HGV, Delivery}
}

// ParseProfile resolves a profile by name, case-insensitively.
func ParseProfile(name string) (Profile, error) {
	lower := strings.ToLower(name)
	for _, p := range Profiles() {
		if profileSpecs[p].name == lower {
			return p, nil
		}
	}
	return Car, fmt.Errorf("unknown profile %q", name)
}

func (p Profile) valid() bool {
	return p >= Pedestrian && p <= Delivery
}

// String returns the profile name.
func (p Profile) String() string {
	if !p.valid() {
		return "unknown"
	}
	return profileSpecs[p].name
}

// OSMTag returns the OSM access tag matching the vehicle class, e.g.
// "motor_vehicle" for Car or "goods" for Delivery.
func (p Profile) OSMTag() string {
	if !p.valid() {
		return ""
	}
	return profileSpecs[p].osmTag
}

// DefaultWeight returns the default vehicle weight in tonnes.
func (p Profile) DefaultWeight() float64 {
	if !p.valid() {
		return 0
	}
	return profileSpecs[p].weight
}

// DefaultHeight returns the default vehicle height in meters.
func (p Profile) DefaultHeight() float64 {
	if !p.valid() {
		return 0
	}
	return profileSpecs[p].height
}

// DefaultSpeed returns the default travel speed in km/h.
func (p Profile) DefaultSpeed() float64 {
	if !p.valid() {
		return 0
	}
	return profileSpecs[p].speed
}

// Motorized reports whether the profile is a motor vehicle.
func (p Profile) Motorized() bool {
	return p != Pedestrian && p != Bicycle
}
