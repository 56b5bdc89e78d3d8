package gui

import (
	"image/color"
	"math"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/quadmorph/internal/mesh"
	"github.com/san-kum/quadmorph/internal/stage"
	"github.com/san-kum/quadmorph/internal/surface"
	"github.com/san-kum/quadmorph/internal/texture"
)

const ambient = 0.25

// slotColors shade a slot until its texture has loaded.
var slotColors = [stage.NumSlots]color.RGBA{
	stage.Primary:   {79, 163, 224, 255},
	stage.Secondary: {120, 200, 150, 255},
	stage.BladeA:    {230, 160, 80, 255},
	stage.BladeB:    {200, 110, 200, 255},
}

func (a *App) drawSurfaces() {
	sun := surface.Vec3{
		X: float64(a.Camera.Position.X),
		Y: float64(a.Camera.Position.Y),
		Z: float64(a.Camera.Position.Z),
	}
	for _, s := range a.Shown() {
		RenderMesh(a.Mesh(s), a.textures.Get(s), slotColors[s], sun, s.Spin(a.frame.T))
	}
}

// RenderMesh draws every triangle of g lit by a point light at sun. The
// texture is sampled at each triangle's centroid; nil falls back to base.
func RenderMesh(g *mesh.Geometry, tex *texture.Texture, base color.RGBA, sun surface.Vec3, spin float64) {
	if g == nil {
		return
	}
	for k := 0; k < g.TriangleCount(); k++ {
		i0, i1, i2 := g.Triangle(k)
		p0 := g.Positions[i0].RotateZ(spin)
		p1 := g.Positions[i1].RotateZ(spin)
		p2 := g.Positions[i2].RotateZ(spin)
		n := g.Normals[i0].Add(g.Normals[i1]).Add(g.Normals[i2]).RotateZ(spin)
		c := p0.Add(p1).Add(p2).Scale(1.0 / 3)

		albedo := base
		if tex != nil {
			u := (g.UVs[i0].U + g.UVs[i1].U + g.UVs[i2].U) / 3
			v := (g.UVs[i0].V + g.UVs[i1].V + g.UVs[i2].V) / 3
			albedo = tex.At(u, v)
		}
		col := Shade(albedo, n, sun.Sub(c))
		rl.DrawTriangle3D(toRL(p0), toRL(p1), toRL(p2), col)
	}
}

// Shade applies two-sided lambert lighting with an ambient floor.
func Shade(albedo color.RGBA, normal, toLight surface.Vec3) rl.Color {
	k := ambient
	if normal.Length() > 0 && toLight.Length() > 0 {
		k += (1 - ambient) * math.Abs(normal.Normalize().Dot(toLight.Normalize()))
	}
	scale := func(c uint8) uint8 { return uint8(math.Round(float64(c) * k)) }
	return rl.NewColor(scale(albedo.R), scale(albedo.G), scale(albedo.B), albedo.A)
}

func toRL(v surface.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
