package metrics

import (
	"testing"
	"time"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/stage"
)

func TestBoundaryPauses(t *testing.T) {
	m := NewBoundaryPauses()
	for _, p := range []playback.Phase{playback.Running, playback.BoundaryPause, playback.BoundaryPause, playback.Running, playback.BoundaryPause} {
		m.Observe(morph.Frame{Phase: p})
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 pauses, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestLabelChanges(t *testing.T) {
	m := NewLabelChanges()
	for _, name := range []string{"Bol", "Ellipsoïde", "Ellipsoïde", "Cilinder"} {
		m.Observe(morph.Frame{Label: label.Label{Name: name}})
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 changes, got %f", m.Value())
	}
}

func TestExactRatio(t *testing.T) {
	m := NewExactRatio()
	if m.Value() != 0 {
		t.Error("empty ratio should be 0")
	}
	m.Observe(morph.Frame{Label: label.Label{Exact: true}})
	m.Observe(morph.Frame{})
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestRebuilds(t *testing.T) {
	m := NewRebuilds()
	m.Observe(morph.Frame{Rebuilt: []stage.Slot{stage.BladeA, stage.BladeB}})
	m.Observe(morph.Frame{Rebuilt: []stage.Slot{stage.Primary}})
	if m.Value() != 3 {
		t.Errorf("expected 3 rebuilds, got %f", m.Value())
	}
}

func TestSet_FullTimeline(t *testing.T) {
	clock := playback.NewManualClock()
	opts := morph.DefaultOptions()
	opts.Scheduler = clock
	opts.SegmentsU, opts.SegmentsV = 2, 2
	eng := morph.NewEngine(morph.NewMeshRenderer(nil), nil, opts)
	defer eng.Close()

	set := Default()
	eng.AddObserver(set)
	eng.PlayPause()
	for i := 0; i < 10000 && eng.Machine().Playing(); i++ {
		eng.Tick()
		clock.Advance(time.Second / 60)
	}

	v := set.Values()
	if v["boundary_pauses"] != 5 {
		t.Errorf("expected 5 boundary pauses, got %f", v["boundary_pauses"])
	}
	if v["stage_transitions"] != 5 {
		t.Errorf("expected 5 stage transitions, got %f", v["stage_transitions"])
	}
	if v["mesh_rebuilds"] == 0 || v["exact_ratio"] <= 0 {
		t.Errorf("unexpected values %v", v)
	}

	set.Reset()
	if set.Values()["mesh_rebuilds"] != 0 {
		t.Error("expected reset")
	}
}
