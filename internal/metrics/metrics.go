// Package metrics aggregates engine frames into run statistics.
package metrics

import (
	"sync"

	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
)

type Metric interface {
	Name() string
	Observe(f morph.Frame)
	Value() float64
	Reset()
}

// Set fans frames out to its metrics and can be registered as an engine
// observer.
type Set struct {
	mu      sync.Mutex
	metrics []Metric
}

func NewSet(ms ...Metric) *Set { return &Set{metrics: ms} }

// Default has every built-in metric.
func Default() *Set {
	return NewSet(NewBoundaryPauses(), NewStageTransitions(), NewRebuilds(), NewLabelChanges(), NewExactRatio())
}

func (s *Set) OnFrame(f morph.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Observe(f)
	}
}

func (s *Set) Values() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.metrics {
		m.Reset()
	}
}

// BoundaryPauses counts entries into a boundary pause.
type BoundaryPauses struct {
	count  int
	paused bool
}

func NewBoundaryPauses() *BoundaryPauses { return &BoundaryPauses{} }

func (b *BoundaryPauses) Name() string { return "boundary_pauses" }

func (b *BoundaryPauses) Observe(f morph.Frame) {
	paused := f.Phase == playback.BoundaryPause
	if paused && !b.paused {
		b.count++
	}
	b.paused = paused
}

func (b *BoundaryPauses) Value() float64 { return float64(b.count) }

func (b *BoundaryPauses) Reset() { *b = BoundaryPauses{} }

type StageTransitions struct{ count int }

func NewStageTransitions() *StageTransitions { return &StageTransitions{} }

func (s *StageTransitions) Name() string { return "stage_transitions" }

func (s *StageTransitions) Observe(f morph.Frame) {
	if f.StageChanged {
		s.count++
	}
}

func (s *StageTransitions) Value() float64 { return float64(s.count) }
func (s *StageTransitions) Reset()         { s.count = 0 }

// Rebuilds counts slot meshes rebuilt.
type Rebuilds struct{ count int }

func NewRebuilds() *Rebuilds { return &Rebuilds{} }

func (r *Rebuilds) Name() string          { return "mesh_rebuilds" }
func (r *Rebuilds) Observe(f morph.Frame) { r.count += len(f.Rebuilt) }
func (r *Rebuilds) Value() float64        { return float64(r.count) }
func (r *Rebuilds) Reset()                { r.count = 0 }

// LabelChanges counts changes of the surface name shown.
type LabelChanges struct {
	last  string
	count int
}

func NewLabelChanges() *LabelChanges { return &LabelChanges{} }

func (l *LabelChanges) Name() string { return "label_changes" }

func (l *LabelChanges) Observe(f morph.Frame) {
	if l.last != "" && f.Label.Name != l.last {
		l.count++
	}
	l.last = f.Label.Name
}

func (l *LabelChanges) Value() float64 { return float64(l.count) }
func (l *LabelChanges) Reset()         { *l = LabelChanges{} }

// ExactRatio is the share of frames that showed an exact quadric form.
type ExactRatio struct {
	exact   int
	samples int
}

func NewExactRatio() *ExactRatio { return &ExactRatio{} }

func (e *ExactRatio) Name() string { return "exact_ratio" }

func (e *ExactRatio) Observe(f morph.Frame) {
	e.samples++
	if f.Label.Exact {
		e.exact++
	}
}

func (e *ExactRatio) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.exact) / float64(e.samples)
}

func (e *ExactRatio) Reset() { *e = ExactRatio{} }
