// Package stage maps the timeline parameter to the active surface families
// and the mesh slots that display them.
package stage

import (
	"fmt"
	"math"

	"github.com/san-kum/quadmorph/internal/surface"
)

type Stage int

const (
	Ellipsoid Stage = iota
	HyperboloidOneSheet
	ConeApproach
	TwoSheet
	PlanePairApproach
	SphereApproach
)

var stageNames = [...]string{
	Ellipsoid:           "ellipsoid",
	HyperboloidOneSheet: "hyperboloid_one_sheet",
	ConeApproach:        "cone_approach",
	TwoSheet:            "two_sheet",
	PlanePairApproach:   "plane_pair_approach",
	SphereApproach:      "sphere_approach",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Slot is one of the mesh placeholders a renderer keeps.
type Slot int

const (
	Primary Slot = iota
	Secondary
	BladeA
	BladeB

	NumSlots = 4
)

var slotNames = [NumSlots]string{"primary", "secondary", "blade_a", "blade_b"}

func (s Slot) String() string {
	if s < 0 || s >= NumSlots {
		return fmt.Sprintf("slot(%d)", int(s))
	}
	return slotNames[s]
}

func Slots() []Slot { return []Slot{Primary, Secondary, BladeA, BladeB} }

// SpinRate is the z rotation, in radians per unit of t, renderers apply to
// a spinning slot.
const SpinRate = -3.0

// Spin is the z rotation of slot s at t. The secondary sphere never spins.
func (s Slot) Spin(t float64) float64 {
	if s == Secondary {
		return 0
	}
	return SpinRate * t
}

// Binding is the family assigned to a slot; Active is false for an
// unassigned slot.
type Binding struct {
	Family surface.Family
	Active bool
}

type Resolution struct {
	Stage    Stage
	Bindings [NumSlots]Binding
}

// Visible reports whether slot s is shown in this resolution.
func (r Resolution) Visible(s Slot) bool { return r.Bindings[s].Active }

// VisibleSlots returns the shown slots in slot order.
func (r Resolution) VisibleSlots() []Slot {
	out := make([]Slot, 0, 2)
	for _, s := range Slots() {
		if r.Bindings[s].Active {
			out = append(out, s)
		}
	}
	return out
}

// row is one line of the dispatch table, owning t between lo and hi with
// the given endpoint closure.
type row struct {
	lo, hi             float64
	closedLo, closedHi bool
	stage              Stage
	bindings           map[Slot]surface.Family
}

func (r row) contains(t float64) bool {
	above := t > r.lo || (r.closedLo && t == r.lo)
	below := t < r.hi || (r.closedHi && t == r.hi)
	return above && below
}

// The outer rows are unbounded so Resolve is total: values below 0 resolve
// like 0 and values past 6 like 6.
var table = []row{
	{lo: math.Inf(-1), hi: 1, stage: Ellipsoid, bindings: map[Slot]surface.Family{Primary: surface.Ellipsoid}},
	{lo: 1, hi: 2, closedLo: true, closedHi: true, stage: HyperboloidOneSheet, bindings: map[Slot]surface.Family{Primary: surface.HyperboloidOneSheet}},
	{lo: 2, hi: 3, closedHi: true, stage: ConeApproach, bindings: map[Slot]surface.Family{Primary: surface.ConeApproach}},
	{lo: 3, hi: 4, closedHi: true, stage: TwoSheet, bindings: map[Slot]surface.Family{BladeA: surface.TwoSheetBladeA, BladeB: surface.TwoSheetBladeB}},
	{lo: 4, hi: 5, closedHi: true, stage: PlanePairApproach, bindings: map[Slot]surface.Family{BladeA: surface.PlanePairApproachA, BladeB: surface.PlanePairApproachB}},
	{lo: 5, hi: math.Inf(1), stage: SphereApproach, bindings: map[Slot]surface.Family{Secondary: surface.SphereApproach}},
}

func Resolve(t float64) Resolution {
	sel := table[0]
	for _, r := range table {
		if r.contains(t) {
			sel = r
			break
		}
	}
	res := Resolution{Stage: sel.stage}
	for slot, fam := range sel.bindings {
		res.Bindings[slot] = Binding{Family: fam, Active: true}
	}
	return res
}

// StageOf is shorthand for Resolve(t).Stage.
func StageOf(t float64) Stage { return Resolve(t).Stage }
