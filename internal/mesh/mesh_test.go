package mesh

import (
	"math"
	"testing"

	"github.com/san-kum/quadmorph/internal/surface"
)

func plane(u, v, t float64) surface.Vec3 { return surface.Vec3{X: u, Y: v, Z: t} }

func TestBuild_Counts(t *testing.T) {
	tests := []struct {
		segU, segV  int
		verts, tris int
	}{
		{1, 1, 4, 2},
		{2, 3, 12, 12},
		{64, 256, 65 * 257, 2 * 64 * 256},
	}

	p := NewPool()
	for _, tt := range tests {
		g := p.Build(plane, 0, tt.segU, tt.segV)
		if g.VertexCount() != tt.verts {
			t.Errorf("%dx%d: expected %d vertices, got %d", tt.segU, tt.segV, tt.verts, g.VertexCount())
		}
		if g.TriangleCount() != tt.tris {
			t.Errorf("%dx%d: expected %d triangles, got %d", tt.segU, tt.segV, tt.tris, g.TriangleCount())
		}
		p.Release(g)
	}
}

func TestBuild_VertexOrder(t *testing.T) {
	g := Build(plane, 0.5, 4, 2)
	defer Release(g)

	for i := 0; i <= 2; i++ {
		for j := 0; j <= 4; j++ {
			p := g.At(i, j)
			if math.Abs(p.X-float64(j)/4) > 1e-12 || math.Abs(p.Y-float64(i)/2) > 1e-12 {
				t.Errorf("vertex (%d,%d) = %+v", i, j, p)
			}
			if p.Z != 0.5 {
				t.Errorf("expected t passed through, got %v", p.Z)
			}
		}
	}
	if uv := g.UVs[g.Stride()+1]; uv != (UV{0.25, 0.5}) {
		t.Errorf("unexpected uv %+v", uv)
	}
}

func TestBuild_FirstCell(t *testing.T) {
	g := Build(plane, 0, 3, 2)
	defer Release(g)

	want := []uint32{0, 1, 4, 1, 5, 4}
	for i, w := range want {
		if g.Indices[i] != w {
			t.Fatalf("expected first cell %v, got %v", want, g.Indices[:6])
		}
	}
}

func TestBuild_Normals(t *testing.T) {
	g := Build(plane, 0, 4, 4)
	defer Release(g)

	for i, n := range g.Normals {
		if math.Abs(math.Abs(n.Z)-1) > 1e-9 {
			t.Fatalf("normal %d not along z: %+v", i, n)
		}
	}
}

func TestBuild_SphereBounds(t *testing.T) {
	fn := surface.Ellipsoid.Func(1)
	g := Build(fn, 0, 64, 256)
	defer Release(g)

	if math.Abs(g.Max.Z-1) > 1e-9 || math.Abs(g.Min.Z+1) > 1e-9 {
		t.Errorf("expected z bounds [-1,1], got [%v,%v]", g.Min.Z, g.Max.Z)
	}
	if c := g.Center(); c.Length() > 1e-3 {
		t.Errorf("expected centered sphere, got %+v", c)
	}
	for i, p := range g.Positions {
		if !p.IsValid() || !g.Normals[i].IsValid() {
			t.Fatalf("invalid vertex %d: %+v", i, p)
		}
	}
}

func TestPool_Stats(t *testing.T) {
	p := NewPool()
	a := p.Build(plane, 0, 2, 2)
	b := p.Build(plane, 0, 8, 8)
	p.Release(a)
	p.Release(nil)

	s := p.Stats()
	if s.Builds != 2 || s.Releases != 1 || s.Live() != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
	p.Release(b)
	if p.Stats().Live() != 0 {
		t.Error("expected no live geometry")
	}
}

func TestPool_ReuseResizes(t *testing.T) {
	p := NewPool()
	g := p.Build(plane, 0, 16, 16)
	p.Release(g)
	g = p.Build(plane, 0, 2, 2)
	if g.VertexCount() != 9 || len(g.Indices) != 24 {
		t.Errorf("expected resized buffers, got %d verts %d indices", g.VertexCount(), len(g.Indices))
	}
}

func BenchmarkBuild(b *testing.B) {
	fn := surface.HyperboloidOneSheet.Func(1)
	for i := 0; i < b.N; i++ {
		Release(Build(fn, 1.5, 64, 256))
	}
}
