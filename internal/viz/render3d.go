package viz

import (
	"math"

	"github.com/san-kum/quadmorph/internal/mesh"
	"github.com/san-kum/quadmorph/internal/surface"
)

const (
	MinDistance = 1.0
	MaxDistance = 12.0
)

// Camera orbits the origin with z up.
type Camera struct {
	Distance  float64
	Azimuth   float64
	Elevation float64
	FOV, Near float64
}

func NewCamera(distance float64) *Camera {
	c := &Camera{Azimuth: 0.52, Elevation: 0.04, FOV: math.Pi / 4, Near: 0.05}
	c.SetDistance(distance)
	return c
}

// SetDistance clamps to [MinDistance, MaxDistance].
func (c *Camera) SetDistance(d float64) {
	c.Distance = math.Max(MinDistance, math.Min(MaxDistance, d))
}

func (c *Camera) Orbit(da float64) { c.Azimuth += da }

// Tilt changes elevation, kept short of the poles.
func (c *Camera) Tilt(de float64) {
	c.Elevation = math.Max(-1.5, math.Min(1.5, c.Elevation+de))
}

// Eye is the camera position in world space.
func (c *Camera) Eye() surface.Vec3 {
	ce := math.Cos(c.Elevation)
	return surface.Vec3{
		X: c.Distance * ce * math.Cos(c.Azimuth),
		Y: c.Distance * ce * math.Sin(c.Azimuth),
		Z: c.Distance * math.Sin(c.Elevation),
	}
}

type ScreenPoint struct {
	X, Y, Z float64
}

// view holds the camera basis for one frame.
type view struct {
	eye, right, up, fwd surface.Vec3
	focal, cx, cy       float64
	near                float64
}

func (c *Camera) view(pw, ph int) view {
	eye := c.Eye()
	fwd := eye.Scale(-1).Normalize()
	right := fwd.Cross(surface.Vec3{Z: 1}).Normalize()
	up := right.Cross(fwd)
	return view{
		eye: eye, right: right, up: up, fwd: fwd,
		focal: float64(min(pw, ph)) / (2 * math.Tan(c.FOV/2)),
		cx:    float64(pw) / 2,
		cy:    float64(ph) / 2,
		near:  c.Near,
	}
}

func (v view) project(p surface.Vec3) (ScreenPoint, bool) {
	d := p.Sub(v.eye)
	z := d.Dot(v.fwd)
	if z < v.near {
		return ScreenPoint{}, false
	}
	return ScreenPoint{
		X: v.cx + d.Dot(v.right)/z*v.focal,
		Y: v.cy - d.Dot(v.up)/z*v.focal,
		Z: z,
	}, true
}

// Project converts a world point to canvas sub-pixel coordinates.
func (c *Camera) Project(p surface.Vec3, pw, ph int) (ScreenPoint, bool) {
	return c.view(pw, ph).project(p)
}

type Edge struct {
	Start, End surface.Vec3
}

type Wireframe struct {
	Edges []Edge
	// Cells are quads (corner order a, b, c, d) used for hidden lines.
	Cells [][4]surface.Vec3
}

func NewWireframe() *Wireframe { return &Wireframe{} }

func (w *Wireframe) AddEdge(s, e surface.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

func (w *Wireframe) Clear() {
	w.Edges = w.Edges[:0]
	w.Cells = w.Cells[:0]
}

// AddMesh adds every rings-th row and every meridians-th column of g as
// edges, rotated about z by spin.
func (w *Wireframe) AddMesh(g *mesh.Geometry, rings, meridians int, spin float64) {
	rows, cols := g.SegV, g.SegU
	rStep := max(rows/max(rings, 1), 1)
	cStep := max(cols/max(meridians, 1), 1)
	at := func(i, j int) surface.Vec3 { return g.At(i, j).RotateZ(spin) }

	for i := 0; i <= rows; i += rStep {
		for j := 0; j < cols; j++ {
			w.AddEdge(at(i, j), at(i, j+1))
		}
	}
	for j := 0; j <= cols; j += cStep {
		for i := 0; i < rows; i++ {
			w.AddEdge(at(i, j), at(i+1, j))
		}
	}
	for i := 0; i < rows; i += rStep {
		ni := min(i+rStep, rows)
		for j := 0; j < cols; j += cStep {
			nj := min(j+cStep, cols)
			w.Cells = append(w.Cells, [4]surface.Vec3{at(i, j), at(i, nj), at(ni, nj), at(ni, j)})
		}
	}
}

// Render3D draws the wireframe. With hidden set, cells are written to the
// depth buffer first and edges behind them are dropped.
func Render3D(c *Canvas, w *Wireframe, cam *Camera, hidden bool) {
	if c == nil || w == nil || cam == nil {
		return
	}
	v := cam.view(c.PixelWidth(), c.PixelHeight())

	if hidden {
		for _, q := range w.Cells {
			var pts [4]ScreenPoint
			ok := true
			for k, p := range q {
				if pts[k], ok = v.project(p); !ok {
					break
				}
			}
			if !ok {
				continue
			}
			c.FillDepth(pts[0], pts[1], pts[3])
			c.FillDepth(pts[1], pts[2], pts[3])
		}
	}

	bias := math.Inf(1)
	if hidden {
		bias = 0.02 * cam.Distance
	}
	for _, e := range w.Edges {
		a, ok1 := v.project(e.Start)
		b, ok2 := v.project(e.End)
		if !ok1 || !ok2 || offscreen(a, b, c) {
			continue
		}
		c.DrawLineDepth(int(a.X), int(a.Y), a.Z, int(b.X), int(b.Y), b.Z, bias)
	}
}

// offscreen rejects edges fully outside one side of the canvas, and
// projections too large to rasterise.
func offscreen(a, b ScreenPoint, c *Canvas) bool {
	pw, ph := float64(c.PixelWidth()), float64(c.PixelHeight())
	if (a.X < 0 && b.X < 0) || (a.Y < 0 && b.Y < 0) || (a.X >= pw && b.X >= pw) || (a.Y >= ph && b.Y >= ph) {
		return true
	}
	lim := 4 * (pw + ph)
	return math.Abs(a.X) > lim || math.Abs(b.X) > lim || math.Abs(a.Y) > lim || math.Abs(b.Y) > lim
}
