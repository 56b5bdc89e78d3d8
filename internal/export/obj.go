package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// WriteOBJ writes the scene as Wavefront OBJ, one object per part.
// Indices are 1-based and offset across parts.
func WriteOBJ(w io.Writer, sc *Scene) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# quadmorph t=%.4f stage=%s\n", sc.T, sc.Stage)

	offset := 1
	for _, p := range sc.Parts {
		g := p.Mesh
		fmt.Fprintf(bw, "o %s\n", p.Name)
		for _, v := range g.Positions {
			fmt.Fprintf(bw, "v %.6f %.6f %.6f\n", v.X, v.Y, v.Z)
		}
		for _, uv := range g.UVs {
			fmt.Fprintf(bw, "vt %.6f %.6f\n", uv.U, uv.V)
		}
		for _, n := range g.Normals {
			fmt.Fprintf(bw, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
		}
		for k := 0; k < g.TriangleCount(); k++ {
			a, b, c := g.Triangle(k)
			ia, ib, ic := int(a)+offset, int(b)+offset, int(c)+offset
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", ia, ia, ia, ib, ib, ib, ic, ic, ic)
		}
		offset += g.VertexCount()
	}
	return bw.Flush()
}

func SaveOBJ(path string, sc *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := WriteOBJ(f, sc); err != nil {
		f.Close()
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return f.Close()
}
