package playback

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"
)

type Phase int

const (
	Idle Phase = iota
	Running
	BoundaryPause
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case BoundaryPause:
		return "boundary_pause"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ResumePolicy decides what happens to a pending boundary resume when
// playback goes idle.
type ResumePolicy int

const (
	// CancelOnIdle stops the pending resume on Pause, Reset, steps and Seek.
	CancelOnIdle ResumePolicy = iota
	// FireAlways lets the resume fire regardless and nudge t.
	FireAlways
)

func (p ResumePolicy) String() string {
	if p == FireAlways {
		return "fire_always"
	}
	return "cancel_on_idle"
}

func ParseResumePolicy(s string) (ResumePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cancel_on_idle", "cancel":
		return CancelOnIdle, nil
	case "fire_always", "fire":
		return FireAlways, nil
	}
	return CancelOnIdle, fmt.Errorf("playback: unknown resume policy %q", s)
}

type State struct {
	T                float64
	Playing          bool
	PausedAtBoundary bool
}

func (s State) Phase() Phase {
	switch {
	case !s.Playing:
		return Idle
	case s.PausedAtBoundary:
		return BoundaryPause
	default:
		return Running
	}
}

type Options struct {
	Increment       float64
	ResumeIncrement float64
	BoundaryDelay   time.Duration
	StepSize        float64
	Max             float64
	Tolerance       float64
	Boundaries      []float64
	Policy          ResumePolicy
}

func DefaultOptions() Options {
	return Options{
		Increment:       0.002,
		ResumeIncrement: 0.002,
		BoundaryDelay:   2000 * time.Millisecond,
		StepSize:        0.1,
		Max:             6,
		Tolerance:       0.001,
		Boundaries:      []float64{1, 2, 3, 4, 5},
		Policy:          CancelOnIdle,
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Increment <= 0 {
		o.Increment = d.Increment
	}
	if o.ResumeIncrement <= 0 {
		o.ResumeIncrement = d.ResumeIncrement
	}
	if o.BoundaryDelay < 0 {
		o.BoundaryDelay = d.BoundaryDelay
	}
	if o.StepSize <= 0 {
		o.StepSize = d.StepSize
	}
	if o.Max <= 0 {
		o.Max = d.Max
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.Boundaries == nil {
		o.Boundaries = d.Boundaries
	}
	return o
}

type Machine struct {
	mu       sync.Mutex
	state    State
	opts     Options
	sched    Scheduler
	timer    Timer
	gen      uint64
	onPause  func(State)
	onResume func(State)
}

// NewMachine starts Idle at t = 0. A nil scheduler means WallClock.
func NewMachine(opts Options, sched Scheduler) *Machine {
	if sched == nil {
		sched = WallClock{}
	}
	return &Machine{opts: opts.withDefaults(), sched: sched}
}

func (m *Machine) Options() Options { return m.opts }

// OnBoundary registers hooks for entering and leaving a boundary pause.
// Hooks run outside the machine lock; onResume runs on the scheduler's
// goroutine.
func (m *Machine) OnBoundary(onPause, onResume func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onPause, m.onResume = onPause, onResume
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) T() float64 { return m.State().T }

func (m *Machine) Phase() Phase { return m.State().Phase() }

func (m *Machine) Playing() bool { return m.State().Playing }

// Pending reports whether a boundary resume is outstanding.
func (m *Machine) Pending() bool { return m.State().PausedAtBoundary }

func (m *Machine) Play() { m.setPlaying(true) }

func (m *Machine) Pause() { m.setPlaying(false) }

// StepForward stops playback and moves to the next 0.1 grid point.
func (m *Machine) StepForward() { m.step(1) }

func (m *Machine) StepBack() { m.step(-1) }

// Toggle flips play/pause and returns the new play flag.
func (m *Machine) Toggle() bool {
	m.mu.Lock()
	playing := !m.state.Playing
	m.mu.Unlock()
	m.setPlaying(playing)
	return playing
}

// Tick advances playback by one frame and reports whether t changed.
func (m *Machine) Tick() bool {
	m.mu.Lock()
	if !m.state.Playing || m.state.PausedAtBoundary {
		m.mu.Unlock()
		return false
	}
	if m.atBoundary(m.state.T) {
		m.state.PausedAtBoundary = true
		m.schedule()
		hook, st := m.onPause, m.state
		m.mu.Unlock()
		if hook != nil {
			hook(st)
		}
		return false
	}
	m.state.T += m.opts.Increment
	if m.state.T > m.opts.Max {
		m.state.Playing = false
	}
	m.mu.Unlock()
	return true
}

// Reset returns to t = 0, Idle.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	m.state.T = 0
	m.state.Playing = false
}

// Seek moves t to v clamped to [0, Max] without changing the play flag.
func (m *Machine) Seek(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel()
	m.state.T = clamp(v, 0, m.opts.Max)
}

func (m *Machine) setPlaying(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !on {
		m.cancel()
	}
	m.state.Playing = on
}

func (m *Machine) step(dir float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Playing = false
	m.cancel()
	snapped := math.Round(10*m.state.T) / 10
	m.state.T = clamp(snapped+dir*m.opts.StepSize, 0, m.opts.Max)
}

func (m *Machine) atBoundary(t float64) bool {
	for _, b := range m.opts.Boundaries {
		if math.Abs(t-b) < m.opts.Tolerance {
			return true
		}
	}
	return false
}

// schedule arms the resume timer; m.mu must be held.
func (m *Machine) schedule() {
	m.gen++
	gen := m.gen
	m.timer = m.sched.AfterFunc(m.opts.BoundaryDelay, func() { m.resume(gen) })
}

func (m *Machine) resume(gen uint64) {
	m.mu.Lock()
	if m.opts.Policy == CancelOnIdle && gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.state.T += m.opts.ResumeIncrement
	m.state.PausedAtBoundary = false
	m.timer = nil
	hook, st := m.onResume, m.state
	m.mu.Unlock()
	if hook != nil {
		hook(st)
	}
}

// cancel drops a pending resume under CancelOnIdle; m.mu must be held.
func (m *Machine) cancel() {
	if m.opts.Policy != CancelOnIdle {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
	m.state.PausedAtBoundary = false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
