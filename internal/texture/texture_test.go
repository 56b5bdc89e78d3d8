package texture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/quadmorph/internal/stage"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 255, 255}
			if x < w/2 {
				c = color.RGBA{255, 0, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tex, err := Load(writePNG(t, t.TempDir(), 16, 8))
	if err != nil {
		t.Fatal(err)
	}
	if b := tex.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("expected 16x8, got %v", b)
	}
	if c := tex.At(0, 0.5); c.R != 255 {
		t.Errorf("expected red on the left, got %v", c)
	}
	if c := tex.At(0.99, 0.5); c.B != 255 {
		t.Errorf("expected blue on the right, got %v", c)
	}
	if c := tex.At(1.01, 0.5); c.R != 255 {
		t.Errorf("expected u to wrap, got %v", c)
	}
}

func TestFromImage_Downscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	tex := FromImage("mem", src, 100)
	if b := tex.Bounds(); b.Dx() != 100 || b.Dy() != 25 {
		t.Errorf("expected 100x25, got %v", b)
	}
	tall := FromImage("mem", image.NewRGBA(image.Rect(0, 0, 10, 50)), 25)
	if b := tall.Bounds(); b.Dx() != 5 || b.Dy() != 25 {
		t.Errorf("expected 5x25, got %v", b)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "notes.txt")
	os.WriteFile(bad, []byte("not an image"), 0644)

	if _, err := Load(bad); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadAsync(t *testing.T) {
	dir := t.TempDir()
	good := writePNG(t, dir, 4, 4)
	var paths [stage.NumSlots]string
	paths[stage.Primary] = good
	paths[stage.BladeA] = filepath.Join(dir, "missing.png")

	var set Set
	results := LoadAsync(context.Background(), paths, nil)
	n, failed := 0, 0
	for r := range results {
		n++
		if r.Err != nil {
			failed++
			continue
		}
		set.Put(r.Slot, r.Texture)
	}
	if n != 2 || failed != 1 {
		t.Errorf("expected 2 results with 1 failure, got %d/%d", n, failed)
	}
	if set.Get(stage.Primary) == nil {
		t.Error("expected primary texture")
	}
	if set.Get(stage.BladeA) != nil || set.Get(stage.Secondary) != nil {
		t.Error("unexpected texture for failed or empty slot")
	}
}

func TestSet_Fill(t *testing.T) {
	var paths [stage.NumSlots]string
	paths[stage.Secondary] = writePNG(t, t.TempDir(), 2, 2)

	var set Set
	set.Fill(LoadAsync(context.Background(), paths, nil))
	if set.Get(stage.Secondary) == nil {
		t.Error("expected secondary texture after fill")
	}
}
