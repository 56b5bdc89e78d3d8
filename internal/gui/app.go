package gui

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/quadmorph/internal/config"
	"github.com/san-kum/quadmorph/internal/logging"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/texture"
	"github.com/san-kum/quadmorph/internal/viz"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	windowW = 1280
	windowH = 720

	orbitSpeed = 0.005
	zoomStep   = 0.5
)

// Input is the slice of raylib input the app reads each frame.
type Input interface {
	Pressed(key int32) bool
	Dragging() (dx, dy float32, ok bool)
	Wheel() float32
}

type rlInput struct{}

func (rlInput) Pressed(key int32) bool { return rl.IsKeyPressed(key) }

func (rlInput) Dragging() (float32, float32, bool) {
	if !rl.IsMouseButtonDown(rl.MouseLeftButton) {
		return 0, 0, false
	}
	d := rl.GetMouseDelta()
	return d.X, d.Y, true
}

func (rlInput) Wheel() float32 { return rl.GetMouseWheelMove() }

type Options struct {
	Config    *config.Config
	Logger    *log.Logger
	Observers []morph.Observer
	Scheduler playback.Scheduler
}

// App is the window renderer. Like the terminal app it owns the slot
// meshes through the embedded MeshRenderer and receives the label text.
type App struct {
	*morph.MeshRenderer

	cfg    *config.Config
	log    *log.Logger
	engine *morph.Engine
	frame  morph.Frame
	markup string

	Camera    rl.Camera3D
	Distance  float64
	Azimuth   float64
	Elevation float64

	textures *texture.Set
	font     rl.Font
	hasFont  bool
}

func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	a := &App{
		MeshRenderer: morph.NewMeshRenderer(nil),
		cfg:          cfg,
		log:          logger,
		Distance:     clampDistance(cfg.View.CameraDistance),
		Azimuth:      0.52,
		Elevation:    0.3,
		textures:     &texture.Set{},
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 0, 1),
			45.0,
			rl.CameraPerspective,
		),
	}
	a.engine = morph.NewEngine(a, a, morph.Options{
		Playback:  cfg.PlaybackOptions(),
		Scheduler: opts.Scheduler,
		Radius:    cfg.Radius,
		SegmentsU: cfg.SegmentsU,
		SegmentsV: cfg.SegmentsV,
		Locale:    cfg.Locale(),
		Logger:    logger,
	})
	for _, o := range opts.Observers {
		a.engine.AddObserver(o)
	}
	a.frame = a.engine.Snapshot()
	a.placeCamera()
	return a
}

func (a *App) Engine() *morph.Engine { return a.engine }

func (a *App) Textures() *texture.Set { return a.textures }

// DisplayLabel implements morph.LabelSink.
func (a *App) DisplayLabel(markup string) { a.markup = markup }

// initWindow opens the window at the configured frame rate and disables
// the default exit key.
func initWindow(fps int) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowW, windowH, "quadmorph")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

func loadFont() (rl.Font, bool) {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	if font.Texture.ID == 0 {
		return rl.GetFontDefault(), false
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font, true
}

// Run opens the window and blocks until it is closed. Textures stream in
// while the animation is already playing.
func Run(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	initWindow(cfg.View.FPS)
	defer rl.CloseWindow()

	a := New(opts)
	a.font, a.hasFont = loadFont()
	defer func() {
		if a.hasFont {
			rl.UnloadFont(a.font)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go a.textures.Fill(texture.LoadAsync(ctx, cfg.TexturePaths(), a.log))

	a.RunLoop(rlInput{})
	if err := a.engine.Close(); err != nil && !errors.Is(err, morph.ErrClosed) {
		return err
	}
	return nil
}

func (a *App) RunLoop(in Input) {
	for !rl.WindowShouldClose() {
		if quit := a.Update(in); quit {
			return
		}
		a.Draw()
	}
}

// Update applies input, then advances the engine one frame. It reports
// whether the user asked to quit.
func (a *App) Update(in Input) bool {
	switch {
	case in.Pressed(rl.KeyQ):
		return true
	case in.Pressed(rl.KeySpace):
		a.frame = a.engine.PlayPause()
	case in.Pressed(rl.KeyR):
		a.frame = a.engine.Reset()
	case in.Pressed(rl.KeyRight), in.Pressed(rl.KeyL):
		a.frame = a.engine.StepForward()
	case in.Pressed(rl.KeyLeft), in.Pressed(rl.KeyH):
		a.frame = a.engine.StepBack()
	}

	if dx, dy, ok := in.Dragging(); ok {
		a.Azimuth -= float64(dx) * orbitSpeed
		a.Elevation = math.Max(-1.5, math.Min(1.5, a.Elevation+float64(dy)*orbitSpeed))
	}
	if w := in.Wheel(); w != 0 {
		a.Distance = clampDistance(a.Distance - float64(w)*zoomStep)
	}
	a.placeCamera()

	a.frame = a.engine.Tick()
	return false
}

func clampDistance(d float64) float64 {
	return math.Max(config.MinCameraDistance, math.Min(config.MaxCameraDistance, d))
}

// placeCamera puts the camera on its orbit around the origin.
func (a *App) placeCamera() {
	ce := math.Cos(a.Elevation)
	a.Camera.Position = rl.NewVector3(
		float32(a.Distance*ce*math.Cos(a.Azimuth)),
		float32(a.Distance*ce*math.Sin(a.Azimuth)),
		float32(a.Distance*math.Sin(a.Elevation)),
	)
	a.Camera.Target = rl.NewVector3(0, 0, 0)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	rl.DisableBackfaceCulling()
	a.drawSurfaces()
	rl.EnableBackfaceCulling()
	rl.EndMode3D()

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) indicator() string {
	if a.frame.Phase == playback.Idle {
		return "▶"
	}
	return "⏸"
}

func (a *App) DrawHUD() {
	a.drawText("quadmorph", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.frame.Stage), 170, 34, 16, ColText)

	status, col := "RUNNING", ColSelect
	switch a.frame.Phase {
	case playback.Idle:
		status, col = "PAUSED", ColTextDim
	case playback.BoundaryPause:
		status, col = "HOLD", ColAccent
	}
	a.drawText(a.indicator()+" "+status, 1130, 30, 16, col)
	a.drawText(fmt.Sprintf("t = %.3f", a.frame.T), 1130, 54, 16, ColText)

	y := 80
	for _, line := range splitLines(a.markupText()) {
		a.drawText(line, 30, y, 20, ColAccent)
		y += 24
	}

	a.drawText("[SPACE] PLAY/PAUSE  [R] RESET  [<-/->] STEP  [Q] QUIT", 760, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	if !a.hasFont {
		rl.DrawText(text, int32(x), int32(y), int32(size), color)
		return
	}
	rl.DrawTextEx(a.font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) markupText() string { return viz.PlainLabel(a.markup) }
