package export

import (
	"github.com/san-kum/quadmorph/internal/mesh"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/stage"
)

// Part is one visible slot mesh.
type Part struct {
	Name string
	Mesh *mesh.Geometry
}

// Scene holds the visible slot meshes at a single t.
type Scene struct {
	T     float64
	Stage stage.Stage
	Parts []Part

	coord *morph.Coordinator
}

// NewScene resolves t and builds every visible slot.
func NewScene(t, radius float64, segU, segV int) *Scene {
	r := morph.NewMeshRenderer(nil)
	c := morph.NewCoordinator(r, radius, segU, segV)
	rep := c.Sync(t)

	sc := &Scene{T: t, Stage: rep.Stage, coord: c}
	for _, s := range r.Shown() {
		sc.Parts = append(sc.Parts, Part{Name: s.String(), Mesh: r.Mesh(s)})
	}
	return sc
}

// Close returns the meshes to their pool.
func (s *Scene) Close() {
	s.coord.Dispose()
	s.Parts = nil
}
