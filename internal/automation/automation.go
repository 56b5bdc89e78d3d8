package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/stage"
)

var (
	ErrUnknownAction = errors.New("automation: unknown action")
	ErrExpectation   = errors.New("automation: expectation failed")
)

// maxRunFrames bounds run_to_end so a stuck scenario cannot spin forever.
const maxRunFrames = 1_000_000

// Scenario defines a scripted playback sequence
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one action, optionally followed by checks on the resulting frame.
//
//	- action: seek
//	  t: 0.999999
//	- action: play
//	- action: tick
//	  count: 1
//	  expect: {phase: boundary_pause, label: Cilinder}
type Step struct {
	Action string       `yaml:"action"`
	Count  int          `yaml:"count"`
	T      float64      `yaml:"t"`
	WaitMs int          `yaml:"wait_ms"`
	Expect *Expectation `yaml:"expect"`
}

type Expectation struct {
	Stage string   `yaml:"stage"`
	Phase string   `yaml:"phase"`
	Label string   `yaml:"label"`
	Exact *bool    `yaml:"exact"`
	T     *float64 `yaml:"t"`
}

// Runner drives an engine on a virtual clock.
type Runner struct {
	Engine *morph.Engine
	Clock  *playback.ManualClock
	// Frame is the virtual time that passes per tick.
	Frame time.Duration
	Log   *log.Logger
}

type Result struct {
	Scenario string
	Steps    int
	Frames   int
	Final    morph.Frame
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("automation: parse: %w", err)
	}
	for i, st := range sc.Steps {
		if !knownAction(st.Action) {
			return nil, fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
	}
	return &sc, nil
}

var actions = map[string]bool{
	"play": true, "pause": true, "toggle": true, "play_pause": true,
	"reset": true, "step_forward": true, "step_back": true,
	"seek": true, "tick": true, "wait": true, "run_to_end": true,
}

func knownAction(a string) bool { return actions[strings.ToLower(a)] }

// Run executes every step in order and stops at the first failure.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if r.Frame <= 0 {
		r.Frame = time.Second / 60
	}
	res := &Result{Scenario: sc.Name}

	for i, st := range sc.Steps {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		f, frames, err := r.apply(ctx, st)
		res.Frames += frames
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		if err := check(st.Expect, f); err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
		}
		res.Steps++
		res.Final = f
		if r.Log != nil {
			r.Log.Debug("step", "n", i+1, "action", st.Action, "t", fmt.Sprintf("%.4f", f.T), "stage", f.Stage)
		}
	}
	return res, nil
}

func (r *Runner) apply(ctx context.Context, st Step) (morph.Frame, int, error) {
	eng := r.Engine
	count := max(st.Count, 1)

	switch strings.ToLower(st.Action) {
	case "play":
		m := eng.Machine()
		if !m.Playing() {
			return eng.PlayPause(), 0, nil
		}
		return eng.Snapshot(), 0, nil
	case "pause":
		if eng.Machine().Playing() {
			return eng.PlayPause(), 0, nil
		}
		return eng.Snapshot(), 0, nil
	case "toggle", "play_pause":
		return eng.PlayPause(), 0, nil
	case "reset":
		return eng.Reset(), 0, nil
	case "step_forward":
		var f morph.Frame
		for i := 0; i < count; i++ {
			f = eng.StepForward()
		}
		return f, 0, nil
	case "step_back":
		var f morph.Frame
		for i := 0; i < count; i++ {
			f = eng.StepBack()
		}
		return f, 0, nil
	case "seek":
		return eng.Seek(st.T), 0, nil
	case "tick":
		return r.ticks(ctx, count)
	case "wait":
		n := int((time.Duration(st.WaitMs) * time.Millisecond) / r.Frame)
		if n == 0 {
			return eng.Snapshot(), 0, nil
		}
		return r.ticks(ctx, n)
	case "run_to_end":
		frames := 0
		for eng.Machine().Playing() && frames < maxRunFrames {
			if err := ctx.Err(); err != nil {
				return eng.Snapshot(), frames, err
			}
			r.frame()
			frames++
		}
		return eng.Snapshot(), frames, nil
	}
	return eng.Snapshot(), 0, fmt.Errorf("%w: %q", ErrUnknownAction, st.Action)
}

func (r *Runner) ticks(ctx context.Context, n int) (morph.Frame, int, error) {
	var f morph.Frame
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return f, i, err
		}
		f = r.frame()
	}
	return f, n, nil
}

// frame ticks once, then lets the virtual clock run for one frame.
func (r *Runner) frame() morph.Frame {
	f := r.Engine.Tick()
	r.Clock.Advance(r.Frame)
	return f
}

func check(e *Expectation, f morph.Frame) error {
	if e == nil {
		return nil
	}
	var errs []error
	if e.Stage != "" && e.Stage != f.Stage.String() {
		errs = append(errs, fmt.Errorf("%w: stage %s, want %s", ErrExpectation, f.Stage, e.Stage))
	}
	if e.Phase != "" && e.Phase != f.Phase.String() {
		errs = append(errs, fmt.Errorf("%w: phase %s, want %s", ErrExpectation, f.Phase, e.Phase))
	}
	if e.Label != "" && !strings.Contains(f.Markup, e.Label) {
		errs = append(errs, fmt.Errorf("%w: label %q does not contain %q", ErrExpectation, f.Markup, e.Label))
	}
	if e.Exact != nil && *e.Exact != f.Label.Exact {
		errs = append(errs, fmt.Errorf("%w: exact %v, want %v", ErrExpectation, f.Label.Exact, *e.Exact))
	}
	if e.T != nil && abs(*e.T-f.T) > 1e-6 {
		errs = append(errs, fmt.Errorf("%w: t %.6f, want %.6f", ErrExpectation, f.T, *e.T))
	}
	return errors.Join(errs...)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// SweepResult is the resolved state at one sample of a sweep.
type SweepResult struct {
	T      float64
	Stage  stage.Stage
	Slots  []stage.Slot
	Label  label.Label
	Morph  float64
	Markup string
}

// Sweep samples the timeline at n evenly spaced points in [from, to].
func Sweep(gen label.Generator, from, to float64, n int) []SweepResult {
	if n < 1 {
		n = 1
	}
	results := make([]SweepResult, 0, n)
	for i := 0; i < n; i++ {
		t := from
		if n > 1 {
			t = from + float64(i)*(to-from)/float64(n-1)
		}
		res := stage.Resolve(t)
		l := gen.Describe(t)
		results = append(results, SweepResult{
			T:      t,
			Stage:  res.Stage,
			Slots:  res.VisibleSlots(),
			Label:  l,
			Morph:  label.Morph(t),
			Markup: l.Markup(),
		})
	}
	return results
}
