package morph

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/logging"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/stage"
)

type Action string

const (
	ActionInit        Action = "init"
	ActionTick        Action = "tick"
	ActionPlayPause   Action = "play_pause"
	ActionReset       Action = "reset"
	ActionStepForward Action = "step_forward"
	ActionStepBack    Action = "step_back"
	ActionSeek        Action = "seek"
)

// Frame is the engine state after one update.
type Frame struct {
	Seq          int64
	Action       Action
	T            float64
	Phase        playback.Phase
	Stage        stage.Stage
	StageChanged bool
	Rebuilt      []stage.Slot
	Label        label.Label
	Markup       string
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Options struct {
	Playback  playback.Options
	Scheduler playback.Scheduler
	Radius    float64
	SegmentsU int
	SegmentsV int
	Locale    label.Locale
	Logger    *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Playback:  playback.DefaultOptions(),
		SegmentsU: DefaultSegmentsU,
		SegmentsV: DefaultSegmentsV,
		Locale:    label.Dutch,
	}
}

type Engine struct {
	mu        sync.Mutex
	machine   *playback.Machine
	coord     *Coordinator
	labels    label.Generator
	sink      LabelSink
	log       *log.Logger
	observers []Observer
	last      Frame
	seq       int64
	closed    bool
}

// NewEngine syncs the renderer to t = 0 and shows the first label.
func NewEngine(r Renderer, sink LabelSink, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if sink == nil {
		sink = LabelFunc(func(string) {})
	}
	e := &Engine{
		machine: playback.NewMachine(opts.Playback, opts.Scheduler),
		coord:   NewCoordinator(r, opts.Radius, opts.SegmentsU, opts.SegmentsV),
		labels:  label.New(opts.Locale),
		sink:    sink,
		log:     logger,
	}
	e.machine.OnBoundary(
		func(s playback.State) { e.log.Info("boundary pause", "t", fmt.Sprintf("%.3f", s.T)) },
		func(s playback.State) { e.log.Debug("boundary resume", "t", fmt.Sprintf("%.3f", s.T)) },
	)
	e.mu.Lock()
	e.update(ActionInit)
	e.mu.Unlock()
	return e
}

func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Engine) Machine() *playback.Machine { return e.machine }

// Tick advances playback by one frame and refreshes geometry and label.
func (e *Engine) Tick() Frame {
	return e.do(ActionTick, func() { e.machine.Tick() })
}

// PlayPause toggles playback.
func (e *Engine) PlayPause() Frame {
	return e.do(ActionPlayPause, func() { e.machine.Toggle() })
}

func (e *Engine) Reset() Frame {
	return e.do(ActionReset, e.machine.Reset)
}

func (e *Engine) StepForward() Frame {
	return e.do(ActionStepForward, e.machine.StepForward)
}

func (e *Engine) StepBack() Frame {
	return e.do(ActionStepBack, e.machine.StepBack)
}

// Seek jumps to t without changing the play flag.
func (e *Engine) Seek(t float64) Frame {
	return e.do(ActionSeek, func() { e.machine.Seek(t) })
}

// Control runs a manual control by name.
func (e *Engine) Control(name string) (Frame, error) {
	switch Action(strings.ToLower(strings.TrimSpace(name))) {
	case ActionPlayPause, "toggle":
		return e.PlayPause(), nil
	case "play":
		return e.do(ActionPlayPause, e.machine.Play), nil
	case "pause":
		return e.do(ActionPlayPause, e.machine.Pause), nil
	case ActionReset:
		return e.Reset(), nil
	case ActionStepForward, "forward":
		return e.StepForward(), nil
	case ActionStepBack, "back":
		return e.StepBack(), nil
	case ActionTick:
		return e.Tick(), nil
	}
	return e.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownControl, name)
}

// Snapshot returns the last frame without touching any state.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Close stops any pending resume and disposes every slot's geometry.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	e.machine.Pause()
	e.coord.Dispose()
	return nil
}

func (e *Engine) do(a Action, fn func()) Frame {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return e.last
	}
	fn()
	return e.update(a)
}

// update syncs geometry and label for the machine's current state;
// e.mu must be held.
func (e *Engine) update(a Action) Frame {
	st := e.machine.State()
	rep := e.coord.Sync(st.T)
	l := e.labels.Describe(st.T)

	e.seq++
	f := Frame{
		Seq:          e.seq,
		Action:       a,
		T:            st.T,
		Phase:        st.Phase(),
		Stage:        rep.Stage,
		StageChanged: rep.StageChanged,
		Rebuilt:      rep.Rebuilt,
		Label:        l,
		Markup:       l.Markup(),
	}
	if rep.StageChanged {
		e.log.Debug("stage", "stage", rep.Stage, "t", fmt.Sprintf("%.3f", st.T))
	}

	e.sink.DisplayLabel(f.Markup)
	for _, o := range e.observers {
		o.OnFrame(f)
	}
	e.last = f
	return f
}
