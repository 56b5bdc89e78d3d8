package mesh

import (
	"math"

	"github.com/san-kum/quadmorph/internal/surface"
)

type UV struct {
	U, V float64
}

type Geometry struct {
	SegU, SegV int
	Positions  []surface.Vec3
	Normals    []surface.Vec3
	UVs        []UV
	Indices    []uint32
	Min, Max   surface.Vec3
}

// Stride is the number of vertices per row.
func (g *Geometry) Stride() int { return g.SegU + 1 }

func (g *Geometry) VertexCount() int { return len(g.Positions) }

func (g *Geometry) TriangleCount() int { return len(g.Indices) / 3 }

// Triangle returns the vertex indices of triangle k.
func (g *Geometry) Triangle(k int) (a, b, c uint32) {
	return g.Indices[3*k], g.Indices[3*k+1], g.Indices[3*k+2]
}

// At returns the vertex at row i (v) and column j (u).
func (g *Geometry) At(i, j int) surface.Vec3 {
	return g.Positions[i*g.Stride()+j]
}

// Center is the midpoint of the bounding box.
func (g *Geometry) Center() surface.Vec3 {
	return g.Min.Add(g.Max).Scale(0.5)
}

func (g *Geometry) resize(segU, segV int) {
	nv := (segU + 1) * (segV + 1)
	ni := 6 * segU * segV
	g.SegU, g.SegV = segU, segV
	g.Positions = grow(g.Positions, nv)
	g.Normals = grow(g.Normals, nv)
	if cap(g.UVs) < nv {
		g.UVs = make([]UV, nv)
	}
	g.UVs = g.UVs[:nv]
	if cap(g.Indices) < ni {
		g.Indices = make([]uint32, ni)
	}
	g.Indices = g.Indices[:ni]
}

func grow(s []surface.Vec3, n int) []surface.Vec3 {
	if cap(s) < n {
		return make([]surface.Vec3, n)
	}
	return s[:n]
}

func (g *Geometry) sample(fn surface.Func, t float64, rowStart, rowEnd int) {
	stride := g.Stride()
	for i := rowStart; i < rowEnd; i++ {
		v := float64(i) / float64(g.SegV)
		for j := 0; j <= g.SegU; j++ {
			u := float64(j) / float64(g.SegU)
			k := i*stride + j
			g.Positions[k] = fn(u, v, t)
			g.UVs[k] = UV{u, v}
		}
	}
}

func (g *Geometry) index() {
	stride := uint32(g.Stride())
	n := 0
	for i := 0; i < g.SegV; i++ {
		for j := 0; j < g.SegU; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + 1
			c := uint32(i+1)*stride + uint32(j) + 1
			d := uint32(i+1)*stride + uint32(j)
			g.Indices[n], g.Indices[n+1], g.Indices[n+2] = a, b, d
			g.Indices[n+3], g.Indices[n+4], g.Indices[n+5] = b, c, d
			n += 6
		}
	}
}

// computeNormals accumulates area-weighted face normals per vertex.
func (g *Geometry) computeNormals() {
	for i := range g.Normals {
		g.Normals[i] = surface.Vec3{}
	}
	for k := 0; k < g.TriangleCount(); k++ {
		a, b, c := g.Triangle(k)
		pa, pb, pc := g.Positions[a], g.Positions[b], g.Positions[c]
		n := pc.Sub(pb).Cross(pa.Sub(pb))
		g.Normals[a] = g.Normals[a].Add(n)
		g.Normals[b] = g.Normals[b].Add(n)
		g.Normals[c] = g.Normals[c].Add(n)
	}
	for i, n := range g.Normals {
		g.Normals[i] = n.Normalize()
	}
}

func (g *Geometry) computeBounds() {
	inf := math.Inf(1)
	lo := surface.Vec3{X: inf, Y: inf, Z: inf}
	hi := lo.Scale(-1)
	for _, p := range g.Positions {
		lo = surface.Vec3{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = surface.Vec3{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	g.Min, g.Max = lo, hi
}
