package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	gifCellW     = 8
	gifCellH     = 16
	gifDelay     = 2 // hundredths of a second
	maxGIFFrames = 1800
)

func (a *App) toggleRecording() {
	if !a.recording {
		a.recording = true
		a.frames = a.frames[:0]
		a.notice = ""
		return
	}
	a.recording = false
	path := fmt.Sprintf("quadmorph-%d.gif", time.Now().Unix())
	if err := SaveGIF(path, a.frames); err != nil {
		a.log.Error("save gif", "path", path, "err", err)
		a.notice = "gif: " + err.Error()
	} else {
		a.log.Info("saved gif", "path", path, "frames", len(a.frames))
		a.notice = "saved " + path
	}
	a.frames = nil
}

func (a *App) captureFrame() {
	if len(a.frames) >= maxGIFFrames {
		return
	}
	a.frames = append(a.frames, RasterizeCanvas(a.canvas, a.theme))
}

// RasterizeCanvas paints the braille dots of c into a paletted image, one
// cell per gifCellW x gifCellH block.
func RasterizeCanvas(c *Canvas, t Theme) *image.Paletted {
	pal := color.Palette{color.RGBA{0, 0, 0, 255}, hexRGBA(t.Surface, color.RGBA{255, 255, 255, 255})}
	img := image.NewPaletted(image.Rect(0, 0, c.Width*gifCellW, c.Height*gifCellH), pal)

	dotW, dotH := gifCellW/2, gifCellH/4
	for y := 0; y < c.PixelHeight(); y++ {
		for x := 0; x < c.PixelWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}

func SaveGIF(path string, frames []*image.Paletted) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeGIF(f, frames)
}

func EncodeGIF(w io.Writer, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return fmt.Errorf("viz: no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	return gif.EncodeAll(w, &anim)
}

// hexRGBA parses a "#rrggbb" color, returning fallback otherwise.
func hexRGBA(c lipgloss.Color, fallback color.RGBA) color.RGBA {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
