// Package texture loads surface textures in the background and samples
// them by (u, v).
package texture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/san-kum/quadmorph/internal/stage"
)

var ErrUnsupported = errors.New("texture: unsupported image format")

// MaxSize caps the longer side of a decoded texture.
const MaxSize = 1024

type Texture struct {
	Path string
	img  *image.RGBA
}

func (t *Texture) Bounds() image.Rectangle { return t.img.Bounds() }

// At samples the texture with u across and v down, both wrapped into [0, 1].
func (t *Texture) At(u, v float64) color.RGBA {
	b := t.img.Bounds()
	x := b.Min.X + int(wrap(u)*float64(b.Dx()-1)+0.5)
	y := b.Min.Y + int(wrap(v)*float64(b.Dy()-1)+0.5)
	return t.img.RGBAAt(x, y)
}

func (t *Texture) RGBA() *image.RGBA { return t.img }

func wrap(x float64) float64 {
	x -= float64(int(x))
	if x < 0 {
		x++
	}
	return x
}

// Load decodes the file at path and scales it down to MaxSize.
func Load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
		}
		return nil, fmt.Errorf("texture: decode %s: %w", path, err)
	}
	return FromImage(path, src, MaxSize), nil
}

// FromImage copies src into an RGBA texture whose longer side is at most
// maxSize pixels.
func FromImage(path string, src image.Image, maxSize int) *Texture {
	sb := src.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			w, h = maxSize, max(1, h*maxSize/sb.Dx())
		} else {
			w, h = max(1, w*maxSize/sb.Dy()), maxSize
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return &Texture{Path: path, img: dst}
}

type Result struct {
	Slot    stage.Slot
	Texture *Texture
	Err     error
}

// LoadAsync decodes every non-empty path on its own goroutine. Results
// arrive in completion order; the channel closes once all are done.
// Failures are logged and reported, never fatal.
func LoadAsync(ctx context.Context, paths [stage.NumSlots]string, logger *log.Logger) <-chan Result {
	out := make(chan Result, stage.NumSlots)
	var wg sync.WaitGroup
	for i, p := range paths {
		if p == "" {
			continue
		}
		wg.Add(1)
		go func(slot stage.Slot, path string) {
			defer wg.Done()
			tex, err := Load(path)
			if err != nil && logger != nil {
				logger.Warn("texture load failed", "slot", slot, "path", path, "err", err)
			}
			select {
			case out <- Result{Slot: slot, Texture: tex, Err: err}:
			case <-ctx.Done():
			}
		}(stage.Slot(i), p)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Set holds the textures that have arrived so far.
type Set struct {
	mu   sync.RWMutex
	texs [stage.NumSlots]*Texture
}

func (s *Set) Put(slot stage.Slot, t *Texture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texs[slot] = t
}

// Get returns nil until the slot's texture has loaded.
func (s *Set) Get(slot stage.Slot) *Texture {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.texs[slot]
}

// Fill drains results into the set until the channel closes.
func (s *Set) Fill(results <-chan Result) {
	for r := range results {
		if r.Err == nil && r.Texture != nil {
			s.Put(r.Slot, r.Texture)
		}
	}
}
