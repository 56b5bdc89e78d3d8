package morph

import (
	"github.com/san-kum/quadmorph/internal/stage"
	"github.com/san-kum/quadmorph/internal/surface"
)

// Geometry is a renderer-owned mesh handle.
type Geometry any

// Renderer receives mesh and visibility updates from a Coordinator.
type Renderer interface {
	BuildMesh(fn surface.Func, t float64, segU, segV int) Geometry
	SetGeometry(slot stage.Slot, g Geometry)
	DisposeGeometry(g Geometry)
	SetVisible(slot stage.Slot, visible bool)
}

type LabelSink interface {
	DisplayLabel(markup string)
}

// LabelFunc adapts a function to LabelSink.
type LabelFunc func(markup string)

func (f LabelFunc) DisplayLabel(markup string) { f(markup) }
