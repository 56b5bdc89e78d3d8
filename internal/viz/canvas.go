package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a braille dot grid with a depth buffer. Sub-pixel resolution is
// (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	depth         []float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid; the canvas is left clear.
func (c *Canvas) Resize(w, h int) {
	c.Width, c.Height = max(w, 1), max(h, 1)
	c.Grid = make([][]rune, c.Height)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, c.Width)
	}
	c.depth = make([]float64, c.PixelWidth()*c.PixelHeight())
	c.Clear()
}

func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.PixelWidth() && y < c.PixelHeight()
}

// Set lights the dot at sub-pixel (x, y).
func (c *Canvas) Set(x, y int) {
	if !c.inside(x, y) {
		return
	}
	c.Grid[y/4][x/2] |= rune(pixelMap[y%4][x%2])
}

// Lit reports whether the dot at (x, y) is on.
func (c *Canvas) Lit(x, y int) bool {
	if !c.inside(x, y) {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets dots and depth.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
	inf := math.Inf(1)
	for i := range c.depth {
		c.depth[i] = inf
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	c.line(x0, y0, x1, y1, func(x, y, _ int) bool { return true })
}

// DrawLineDepth draws the dots of a line that are not behind the depth
// buffer by more than bias. Depth is interpolated between z0 and z1.
func (c *Canvas) DrawLineDepth(x0, y0 int, z0 float64, x1, y1 int, z1, bias float64) {
	n := max(absInt(x1-x0), absInt(y1-y0))
	c.line(x0, y0, x1, y1, func(x, y, i int) bool {
		if !c.inside(x, y) {
			return false
		}
		z := z0
		if n > 0 {
			z += (z1 - z0) * float64(i) / float64(n)
		}
		return z <= c.depth[y*c.PixelWidth()+x]+bias
	})
}

func (c *Canvas) line(x0, y0, x1, y1 int, keep func(x, y, i int) bool) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for i := 0; ; i++ {
		if keep(x0, y0, i) {
			c.Set(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillDepth rasterises a triangle into the depth buffer only.
func (c *Canvas) FillDepth(a, b, d ScreenPoint) {
	minX := max(int(math.Floor(min(a.X, b.X, d.X))), 0)
	maxX := min(int(math.Ceil(max(a.X, b.X, d.X))), c.PixelWidth()-1)
	minY := max(int(math.Floor(min(a.Y, b.Y, d.Y))), 0)
	maxY := min(int(math.Ceil(max(a.Y, b.Y, d.Y))), c.PixelHeight()-1)
	area := edge(a, b, d.X, d.Y)
	if area == 0 || minX > maxX || minY > maxY {
		return
	}
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(b, d, px, py) / area
			w1 := edge(d, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.Z + w1*b.Z + w2*d.Z
			k := y*c.PixelWidth() + x
			if z < c.depth[k] {
				c.depth[k] = z
			}
		}
	}
}

func edge(a, b ScreenPoint, x, y float64) float64 {
	return (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		b.WriteString(string(row))
		if i < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
