// Package surface provides the parametric quadric families of the morph.
//
// Every family maps a grid coordinate (u, v) in [0,1]² and the timeline
// parameter t to a point in space:
//
//   - [Ellipsoid]: sphere flattening into a cylinder as t approaches 1
//   - [HyperboloidOneSheet]: cylinder opening into a one-sheet hyperboloid
//   - [ConeApproach]: waist closing until the cone at t = 3
//   - [TwoSheetBladeA], [TwoSheetBladeB]: the two sheets past the cone
//   - [PlanePairApproachA], [PlanePairApproachB]: sheets flattening into planes
//   - [SphereApproach]: planes curling back into a sphere
//
// # Numeric Policy
//
// Radicands are clamped at zero before the root and the resulting radial
// value is floored at [MinRadial]. No family ever returns NaN or Inf, so a
// sampled mesh is always well formed.
//
//	fn := surface.Ellipsoid.Func(1)
//	p := fn(0.25, 0.5, 0.3)
package surface
