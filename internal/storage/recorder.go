package storage

import (
	"sync"
	"time"

	"github.com/san-kum/quadmorph/internal/morph"
)

// Sample is one recorded engine frame.
type Sample struct {
	Seq       int64   `json:"seq"`
	ElapsedMs int64   `json:"elapsed_ms"`
	Action    string  `json:"action"`
	T         float64 `json:"t"`
	Phase     string  `json:"phase"`
	Stage     string  `json:"stage"`
	Exact     bool    `json:"exact"`
	Label     string  `json:"label"`
}

// Recorder collects frames as an engine observer. Every stride-th tick is
// kept; manual actions and stage changes are always kept.
type Recorder struct {
	mu      sync.Mutex
	now     func() time.Duration
	stride  int
	ticks   int
	samples []Sample
}

// NewRecorder timestamps samples with now; nil uses wall time since creation.
func NewRecorder(now func() time.Duration, stride int) *Recorder {
	if now == nil {
		start := time.Now()
		now = func() time.Duration { return time.Since(start) }
	}
	if stride < 1 {
		stride = 1
	}
	return &Recorder{now: now, stride: stride}
}

func (r *Recorder) OnFrame(f morph.Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.Action == morph.ActionTick && !f.StageChanged {
		r.ticks++
		if r.ticks%r.stride != 0 {
			return
		}
	}
	r.samples = append(r.samples, Sample{
		Seq:       f.Seq,
		ElapsedMs: r.now().Milliseconds(),
		Action:    string(f.Action),
		T:         f.T,
		Phase:     f.Phase.String(),
		Stage:     f.Stage.String(),
		Exact:     f.Label.Exact,
		Label:     f.Label.Name,
	})
}

// Samples returns a copy of everything recorded so far.
func (r *Recorder) Samples() []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}
