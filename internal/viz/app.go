package viz

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/quadmorph/internal/config"
	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/logging"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
)

const (
	defaultWidth    = 80
	defaultHeight   = 28
	panelWidth      = 50
	historyCapacity = 300
	barWidth        = 30

	wireRings     = 24
	wireMeridians = 16
)

type TickMsg time.Time

type Options struct {
	Config *config.Config
	Logger *log.Logger
	// Observers see every engine frame, e.g. a recorder or metrics set.
	Observers []morph.Observer
	// Scheduler overrides the wall clock, for tests.
	Scheduler playback.Scheduler
}

// App is the terminal renderer. It receives geometry from the engine
// through the embedded MeshRenderer and draws it as a braille wireframe.
type App struct {
	*morph.MeshRenderer

	cfg    *config.Config
	log    *log.Logger
	engine *morph.Engine
	frame  morph.Frame
	markup string

	canvas *Canvas
	wire   *Wireframe
	camera *Camera
	hidden bool
	spin   bool

	spring          harmonica.Spring
	dist, distVel   float64
	distTarget      float64
	orbit, orbitVel float64
	orbitTarget     float64

	theme  Theme
	styles Styles

	history   []float64
	recording bool
	frames    []*image.Paletted
	showHelp  bool
	notice    string
	width     int
	height    int
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

	theme := GetTheme(cfg.View.Theme)
	a := &App{
		MeshRenderer: morph.NewMeshRenderer(nil),
		cfg:          cfg,
		log:          logger,
		canvas:       NewCanvas(defaultWidth, defaultHeight),
		wire:         NewWireframe(),
		camera:       NewCamera(cfg.View.CameraDistance),
		hidden:       true,
		spin:         cfg.View.Spin,
		spring:       harmonica.NewSpring(harmonica.FPS(cfg.View.FPS), 6.0, 1.0),
		theme:        theme,
		styles:       NewStyles(theme),
		history:      make([]float64, 0, historyCapacity),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	a.dist = a.camera.Distance
	a.distTarget = a.dist
	a.orbit = a.camera.Azimuth
	a.orbitTarget = a.orbit

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
	a.draw()
	return a
}

func (a *App) Engine() *morph.Engine { return a.engine }

// DisplayLabel implements morph.LabelSink.
func (a *App) DisplayLabel(markup string) { a.markup = markup }

// Run takes over the terminal until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	if cerr := a.engine.Close(); err == nil && !errors.Is(cerr, morph.ErrClosed) {
		err = cerr
	}
	return err
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.cfg.FrameInterval(), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (a *App) Init() tea.Cmd { return a.tick() }

// Update handles input events and advances the engine once per tick.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return a, a.handleKey(msg.String())
	case TickMsg:
		a.frame = a.engine.Tick()
		a.push(label.Morph(a.frame.T))
		a.animateCamera()
		a.draw()
		if a.recording {
			a.captureFrame()
		}
		return a, a.tick()
	}
	return a, nil
}

func (a *App) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case " ":
		a.frame = a.engine.PlayPause()
	case "r":
		a.frame = a.engine.Reset()
		a.history = a.history[:0]
	case "right", "l":
		a.frame = a.engine.StepForward()
	case "left", "h":
		a.frame = a.engine.StepBack()
	case "+", "=":
		a.distTarget = clampDistance(a.distTarget / 1.2)
	case "-", "_":
		a.distTarget = clampDistance(a.distTarget * 1.2)
	case "a":
		a.orbitTarget -= 0.2
	case "d":
		a.orbitTarget += 0.2
	case "w":
		a.camera.Tilt(0.1)
	case "s":
		a.camera.Tilt(-0.1)
	case "o":
		a.hidden = !a.hidden
	case "p":
		a.spin = !a.spin
	case "t":
		a.theme = NextTheme(a.theme)
		a.styles = NewStyles(a.theme)
	case "g":
		a.toggleRecording()
	case "?":
		a.showHelp = !a.showHelp
	}
	a.draw()
	return nil
}

func clampDistance(d float64) float64 {
	return max(MinDistance, min(MaxDistance, d))
}

func (a *App) resize(w, h int) {
	cw := max(w-panelWidth-6, 20)
	ch := max(h-3, 10)
	a.width, a.height = cw, ch
	a.canvas.Resize(cw, ch)
	a.draw()
}

func (a *App) push(v float64) {
	a.history = append(a.history, v)
	if len(a.history) > historyCapacity {
		a.history = a.history[1:]
	}
}

// animateCamera moves zoom and orbit toward their targets on springs.
func (a *App) animateCamera() {
	a.dist, a.distVel = a.spring.Update(a.dist, a.distVel, a.distTarget)
	a.orbit, a.orbitVel = a.spring.Update(a.orbit, a.orbitVel, a.orbitTarget)
	a.camera.SetDistance(a.dist)
	a.camera.Azimuth = a.orbit
}

// draw rebuilds the wireframe from the visible slot meshes.
func (a *App) draw() {
	a.canvas.Clear()
	a.wire.Clear()
	for _, s := range a.Shown() {
		spin := 0.0
		if a.spin {
			spin = s.Spin(a.frame.T)
		}
		a.wire.AddMesh(a.Mesh(s), wireRings, wireMeridians, spin)
	}
	Render3D(a.canvas, a.wire, a.camera, a.hidden)
}

func (a *App) indicator() string {
	if a.frame.Phase == playback.Idle {
		return "▶"
	}
	return "⏸"
}

func (a *App) status() string {
	st := a.styles
	var s string
	switch a.frame.Phase {
	case playback.Running:
		s = st.Running.Render(a.indicator() + " RUNNING")
	case playback.BoundaryPause:
		s = st.Paused.Render(a.indicator() + " HOLD")
	default:
		s = st.Paused.Render(a.indicator() + " PAUSED")
	}
	if a.recording {
		s += "  " + st.Recording.Render("● REC")
	}
	return s
}

// View renders the TUI interface.
func (a *App) View() string {
	st := a.styles
	var s strings.Builder

	s.WriteString(st.Title.Render("QUADMORPH") + "\n")
	s.WriteString(a.status() + "\n\n")

	end := a.engine.Machine().Options().Max
	s.WriteString(st.Label.Render("t") + st.Value.Render(fmt.Sprintf("%.3f", a.frame.T)) + "\n")
	s.WriteString(st.Label.Render("stage") + st.Value.Render(a.frame.Stage.String()) + "\n")
	s.WriteString(ProgressBar(a.frame.T/end, barWidth, st.Running, st.Help) + "\n")
	s.WriteString(st.Help.UnsetMarginTop().Render(Ticks(barWidth, end, []float64{1, 2, 3, 4, 5})) + "\n\n")

	s.WriteString(StyledLabel(a.markup, st.Title.UnsetMarginBottom(), st.Equation, st.Struck) + "\n")

	if len(a.history) > 1 {
		chart := asciigraph.Plot(a.history,
			asciigraph.Height(5),
			asciigraph.Width(32),
			asciigraph.Precision(2),
			asciigraph.Caption("morph coefficient"))
		s.WriteString(st.Graph.Render(chart) + "\n")
	}
	if a.notice != "" {
		s.WriteString(st.Value.Render(a.notice) + "\n")
	}

	s.WriteString(st.Help.Render(Separator(36, st.Help) + "\nSP:Play/Pause  R:Reset  ←→:Step\nT:Theme  G:Record  ?:Help  Q:Quit"))

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		st.Canvas.Render(a.canvas.String()),
		st.Panel.Render(s.String()))
	if a.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play / pause             ║
║  R        - Reset to t = 0           ║
║  →/L ←/H  - Step 0.1 forward / back  ║
║  +/-      - Zoom in / out            ║
║  A/D W/S  - Orbit / tilt camera      ║
║  O        - Toggle hidden lines      ║
║  P        - Toggle spin              ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
