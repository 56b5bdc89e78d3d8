package surface

import (
	"fmt"
	"math"
)

// MinRadial keeps rings away from zero radius so normals stay defined.
const MinRadial = 1e-7

// DefaultRadius is R in every equation label.
const DefaultRadius = 1.0

// Func samples a surface at grid coordinate (u, v) for timeline value t.
type Func func(u, v, t float64) Vec3

type Family int

const (
	Ellipsoid Family = iota
	HyperboloidOneSheet
	ConeApproach
	TwoSheetBladeA
	TwoSheetBladeB
	PlanePairApproachA
	PlanePairApproachB
	SphereApproach
)

var familyNames = [...]string{
	Ellipsoid:           "ellipsoid",
	HyperboloidOneSheet: "hyperboloid_one_sheet",
	ConeApproach:        "cone_approach",
	TwoSheetBladeA:      "two_sheet_blade_a",
	TwoSheetBladeB:      "two_sheet_blade_b",
	PlanePairApproachA:  "plane_pair_approach_a",
	PlanePairApproachB:  "plane_pair_approach_b",
	SphereApproach:      "sphere_approach",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("family(%d)", int(f))
	}
	return familyNames[f]
}

// Families lists every family in animation order.
func Families() []Family {
	return []Family{
		Ellipsoid, HyperboloidOneSheet, ConeApproach,
		TwoSheetBladeA, TwoSheetBladeB,
		PlanePairApproachA, PlanePairApproachB,
		SphereApproach,
	}
}

// Func binds the family to radius r. A non-positive r falls back to
// DefaultRadius.
func (f Family) Func(r float64) Func {
	if r <= 0 {
		r = DefaultRadius
	}
	switch f {
	case Ellipsoid:
		return func(u, v, t float64) Vec3 { return ellipsoid(r, u, v, t) }
	case HyperboloidOneSheet:
		return func(u, v, t float64) Vec3 { return hyperboloid(r, u, v, t) }
	case ConeApproach:
		return func(u, v, t float64) Vec3 { return towardCone(r, u, v, t) }
	case TwoSheetBladeA:
		return func(u, v, t float64) Vec3 { return twoSheet(r, -1, u, v, t) }
	case TwoSheetBladeB:
		return func(u, v, t float64) Vec3 { return twoSheet(r, 1, u, v, t) }
	case PlanePairApproachA:
		return func(u, v, t float64) Vec3 { return towardPlanes(r, -1, u, v, t) }
	case PlanePairApproachB:
		return func(u, v, t float64) Vec3 { return towardPlanes(r, 1, u, v, t) }
	case SphereApproach:
		return func(u, v, t float64) Vec3 { return towardSphere(r, u, v, t) }
	}
	return func(u, v, t float64) Vec3 { return ellipsoid(r, u, v, t) }
}

func azimuth(u float64) float64 { return (0.5 - u) * 2 * math.Pi }

// radial takes the clamped root of radicand, scales it and applies the floor.
func radial(radicand, scale float64) float64 {
	return math.Max(math.Sqrt(math.Max(0, radicand))*scale, MinRadial)
}

func ring(theta, r, z float64) Vec3 {
	return Vec3{r * math.Cos(theta), r * math.Sin(theta), z}
}

func ellipsoid(R, u, v, t float64) Vec3 {
	morph := math.Max(1e-4, 1-t)
	z := R * math.Cos(v*math.Pi) / math.Sqrt(morph)
	return ring(azimuth(u), radial(R*R-morph*z*z, 1), z)
}

func hyperboloid(R, u, v, t float64) Vec3 {
	morph := math.Min(t-1, 1)
	z := 12 * R * math.Cos(v*math.Pi)
	return ring(azimuth(u), radial(R*R+morph*z*z, 1), z)
}

func towardCone(R, u, v, t float64) Vec3 {
	morph := math.Max(3-t, 0)
	z := 12 * R * math.Cos(v*math.Pi)
	return ring(azimuth(u), radial(morph*R*morph*R+z*z, 1), z)
}

// twoSheet draws the lower (sign -1) or upper (sign +1) sheet.
func twoSheet(R, sign, u, v, t float64) Vec3 {
	morph := math.Min(t-3, 1)
	z := sign * (morph*R + 12*R*math.Cos(v/2*math.Pi))
	return ring(azimuth(u), radial(z*z-morph*R*morph*R, 1), z)
}

func towardPlanes(R, sign, u, v, t float64) Vec3 {
	morph := math.Max(5-t, 0.01)
	z := sign * (R + 12*R*math.Cos(v/2*math.Pi))
	return ring(azimuth(u), radial(z*z-R*R, 1/morph), z)
}

func towardSphere(R, u, v, t float64) Vec3 {
	morph := math.Min(math.Max(t-5, 0.01), 1)
	z := R * math.Cos(v*math.Pi)
	return ring(azimuth(u), radial(R*R-z*z, 1/morph), z)
}
