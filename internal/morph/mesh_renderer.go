package morph

import (
	"github.com/san-kum/quadmorph/internal/mesh"
	"github.com/san-kum/quadmorph/internal/stage"
	"github.com/san-kum/quadmorph/internal/surface"
)

// MeshRenderer keeps slot meshes in memory. The terminal and window
// renderers embed it; headless recording and exports use it directly.
type MeshRenderer struct {
	pool    *mesh.Pool
	meshes  [stage.NumSlots]*mesh.Geometry
	visible [stage.NumSlots]bool
}

// NewMeshRenderer builds from pool, or a private pool when nil.
func NewMeshRenderer(pool *mesh.Pool) *MeshRenderer {
	if pool == nil {
		pool = mesh.NewPool()
	}
	return &MeshRenderer{pool: pool}
}

func (r *MeshRenderer) BuildMesh(fn surface.Func, t float64, segU, segV int) Geometry {
	return r.pool.Build(fn, t, segU, segV)
}

func (r *MeshRenderer) SetGeometry(s stage.Slot, g Geometry) {
	m, _ := g.(*mesh.Geometry)
	r.meshes[s] = m
}

func (r *MeshRenderer) DisposeGeometry(g Geometry) {
	if m, ok := g.(*mesh.Geometry); ok {
		r.pool.Release(m)
	}
}

func (r *MeshRenderer) SetVisible(s stage.Slot, visible bool) { r.visible[s] = visible }

func (r *MeshRenderer) Mesh(s stage.Slot) *mesh.Geometry { return r.meshes[s] }

func (r *MeshRenderer) Visible(s stage.Slot) bool { return r.visible[s] }

// Shown lists the slots that are visible and carry a mesh.
func (r *MeshRenderer) Shown() []stage.Slot {
	var out []stage.Slot
	for _, s := range stage.Slots() {
		if r.visible[s] && r.meshes[s] != nil {
			out = append(out, s)
		}
	}
	return out
}

func (r *MeshRenderer) Stats() mesh.Stats { return r.pool.Stats() }
