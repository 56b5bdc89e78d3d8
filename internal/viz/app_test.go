package viz

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/stage"
)

func newTestApp(t *testing.T) (*App, *playback.ManualClock) {
	t.Helper()
	clock := playback.NewManualClock()
	a := New(Options{Scheduler: clock})
	t.Cleanup(func() { a.Engine().Close() })
	return a, clock
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_PlayAndTick(t *testing.T) {
	a, _ := newTestApp(t)
	if a.frame.Phase != playback.Idle || a.frame.T != 0 {
		t.Fatalf("unexpected initial frame %+v", a.frame)
	}

	a.Update(key(" "))
	if a.frame.Phase != playback.Running {
		t.Fatalf("expected running, got %v", a.frame.Phase)
	}
	_, cmd := a.Update(TickMsg(time.Now()))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if a.frame.T <= 0 {
		t.Errorf("expected t to advance, got %v", a.frame.T)
	}
	if len(a.history) != 1 {
		t.Errorf("expected one history sample, got %d", len(a.history))
	}
}

func TestApp_StepKeys(t *testing.T) {
	a, _ := newTestApp(t)
	for i := 0; i < 35; i++ {
		a.Update(key("right"))
	}
	if a.frame.Stage != stage.TwoSheet {
		t.Errorf("expected two_sheet at t=%v, got %v", a.frame.T, a.frame.Stage)
	}
	if got := len(a.Shown()); got != 2 {
		t.Errorf("expected both sheets visible, got %d slots", got)
	}
	a.Update(key("left"))
	a.Update(key("r"))
	if a.frame.T != 0 || a.frame.Phase != playback.Idle {
		t.Errorf("reset should return to t=0 idle, got %+v", a.frame)
	}
}

func TestApp_BoundaryHold(t *testing.T) {
	a, clock := newTestApp(t)
	a.Engine().Seek(0.999999)
	a.Update(key(" "))
	a.Update(TickMsg(time.Now()))
	if a.frame.Phase != playback.BoundaryPause {
		t.Fatalf("expected hold at the boundary, got %v", a.frame.Phase)
	}
	if !strings.Contains(a.View(), "HOLD") {
		t.Error("status should show the hold")
	}
	clock.Advance(2 * time.Second)
	a.Update(TickMsg(time.Now()))
	if a.frame.Phase != playback.Running || a.frame.T <= 1.001 {
		t.Errorf("expected resume past the boundary, got %+v", a.frame)
	}
}

func TestApp_View(t *testing.T) {
	a, _ := newTestApp(t)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if a.canvas.Width != 64 || a.canvas.Height != 37 {
		t.Errorf("unexpected canvas %dx%d", a.canvas.Width, a.canvas.Height)
	}

	v := a.View()
	for _, want := range []string{"QUADMORPH", "PAUSED", "Bol", "ellipsoid"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !strings.ContainsFunc(a.canvas.String(), func(r rune) bool { return r > brailleBlank && r <= 0x28FF }) {
		t.Error("expected the sphere to be drawn")
	}

	a.Update(key("?"))
	if !strings.Contains(a.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestApp_CameraAndTheme(t *testing.T) {
	a, _ := newTestApp(t)
	start := a.camera.Distance
	a.Update(key("+"))
	for i := 0; i < 30; i++ {
		a.Update(TickMsg(time.Now()))
	}
	if a.camera.Distance >= start {
		t.Errorf("zoom in should shrink distance: %v -> %v", start, a.camera.Distance)
	}

	for i := 0; i < 40; i++ {
		a.Update(key("-"))
	}
	if a.distTarget != MaxDistance {
		t.Errorf("zoom out should stop at %v, got %v", MaxDistance, a.distTarget)
	}

	a.Update(key("t"))
	if a.theme.Name != "minimal" {
		t.Errorf("expected minimal theme, got %s", a.theme.Name)
	}
}

func TestApp_Quit(t *testing.T) {
	a, _ := newTestApp(t)
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestEncodeGIF(t *testing.T) {
	if err := EncodeGIF(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error without frames")
	}

	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	img := RasterizeCanvas(c, ThemeOcean)
	if b := img.Bounds(); b.Dx() != 4*gifCellW || b.Dy() != 2*gifCellH {
		t.Errorf("unexpected bounds %v", b)
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, []*image.Paletted{img, img}); err != nil {
		t.Fatal(err)
	}
	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 2 || g.Delay[0] != gifDelay {
		t.Errorf("unexpected gif: %d frames, delay %v", len(g.Image), g.Delay)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "ocean" {
		t.Error("unknown theme should fall back to ocean")
	}
	if NextTheme(ThemeSunset).Name != "ocean" {
		t.Error("themes should wrap")
	}
	if got := strings.Join(ThemeNames(), ","); got != "ocean,minimal,retro,sunset" {
		t.Errorf("unexpected names %s", got)
	}
	if c := hexRGBA("#ff8000", color.RGBA{}); c.R != 0xff || c.G != 0x80 || c.B != 0 {
		t.Errorf("unexpected color %v", c)
	}
}

func TestApp_SpinSkipsSecondarySphere(t *testing.T) {
	a, _ := newTestApp(t)

	edgesAt := func(tv float64, spin bool) []Edge {
		a.frame = a.engine.Seek(tv)
		a.spin = spin
		a.draw()
		return append([]Edge(nil), a.wire.Edges...)
	}
	equal := func(x, y []Edge) bool {
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	}

	still, spun := edgesAt(5.5, false), edgesAt(5.5, true)
	if len(still) == 0 {
		t.Fatal("expected sphere edges at t=5.5")
	}
	if !equal(still, spun) {
		t.Error("secondary sphere should not spin")
	}

	if equal(edgesAt(0.5, false), edgesAt(0.5, true)) {
		t.Error("primary ellipsoid should spin")
	}
}
