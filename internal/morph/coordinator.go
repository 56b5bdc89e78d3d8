package morph

import (
	"github.com/san-kum/quadmorph/internal/stage"
	"github.com/san-kum/quadmorph/internal/surface"
)

const (
	DefaultSegmentsU = 64
	DefaultSegmentsV = 256
)

// Report describes what a Sync changed.
type Report struct {
	Stage        stage.Stage
	StageChanged bool
	Rebuilt      []stage.Slot
}

type Coordinator struct {
	r      Renderer
	radius float64
	segU   int
	segV   int

	geoms   [stage.NumSlots]Geometry
	visible [stage.NumSlots]bool
	current stage.Resolution
	t       float64
	synced  bool
}

// NewCoordinator uses the default grid for non-positive segment counts.
func NewCoordinator(r Renderer, radius float64, segU, segV int) *Coordinator {
	if segU <= 0 {
		segU = DefaultSegmentsU
	}
	if segV <= 0 {
		segV = DefaultSegmentsV
	}
	if radius <= 0 {
		radius = surface.DefaultRadius
	}
	return &Coordinator{r: r, radius: radius, segU: segU, segV: segV}
}

func (c *Coordinator) Grid() (segU, segV int) { return c.segU, c.segV }

func (c *Coordinator) Radius() float64 { return c.radius }

// Resolution is the stage applied by the last Sync.
func (c *Coordinator) Resolution() stage.Resolution { return c.current }

func (c *Coordinator) Geometry(s stage.Slot) Geometry { return c.geoms[s] }

func (c *Coordinator) Visible(s stage.Slot) bool { return c.visible[s] }

// Sync brings the renderer in line with timeline value t.
func (c *Coordinator) Sync(t float64) Report {
	res := stage.Resolve(t)
	changed := !c.synced || res.Stage != c.current.Stage
	rep := Report{Stage: res.Stage, StageChanged: changed}
	if !changed && t == c.t {
		return rep
	}

	if changed {
		for _, s := range stage.Slots() {
			if !res.Visible(s) {
				c.drop(s)
			}
		}
	}

	for _, s := range res.VisibleSlots() {
		fn := res.Bindings[s].Family.Func(c.radius)
		g := c.r.BuildMesh(fn, t, c.segU, c.segV)
		if old := c.geoms[s]; old != nil {
			c.r.DisposeGeometry(old)
		}
		c.r.SetGeometry(s, g)
		c.geoms[s] = g
		rep.Rebuilt = append(rep.Rebuilt, s)
	}

	if changed {
		for _, s := range stage.Slots() {
			c.visible[s] = res.Visible(s)
			c.r.SetVisible(s, c.visible[s])
		}
	}

	c.current, c.t, c.synced = res, t, true
	return rep
}

// Dispose releases all slot geometry and hides every slot.
func (c *Coordinator) Dispose() {
	for _, s := range stage.Slots() {
		c.drop(s)
		if c.visible[s] {
			c.visible[s] = false
			c.r.SetVisible(s, false)
		}
	}
	c.synced = false
}

func (c *Coordinator) drop(s stage.Slot) {
	old := c.geoms[s]
	if old == nil {
		return
	}
	c.r.SetGeometry(s, nil)
	c.r.DisposeGeometry(old)
	c.geoms[s] = nil
}
