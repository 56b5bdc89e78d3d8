package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
)

func testSamples() []Sample {
	return []Sample{
		{Seq: 1, ElapsedMs: 0, Action: "init", T: 0, Phase: "idle", Stage: "ellipsoid", Exact: true, Label: "Bol"},
		{Seq: 2, ElapsedMs: 16, Action: "tick", T: 0.002, Phase: "running", Stage: "ellipsoid", Label: "Ellipsoïde"},
		{Seq: 3, ElapsedMs: 33, Action: "tick", T: 1, Phase: "boundary_pause", Stage: "hyperboloid_one_sheet", Exact: true, Label: "Cilinder, ook"},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{
		Kind:     "record",
		Settings: Settings{SegmentsU: 64, SegmentsV: 256, Locale: "nl"},
		Metrics:  map[string]float64{"boundary_pauses": 5},
	}, testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Kind != "record" || meta.Frames != 3 || meta.FinalT != 1 || meta.ElapsedMs != 33 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["boundary_pauses"] != 5 {
		t.Errorf("expected 5 pauses, got %f", meta.Metrics["boundary_pauses"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if samples[2] != testSamples()[2] {
		t.Errorf("expected %+v, got %+v", testSamples()[2], samples[2])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if runs, err := st.List(); err != nil || len(runs) != 0 {
		t.Fatalf("expected empty list, got %v %v", runs, err)
	}
	st.Init()

	old := time.Now().Add(-time.Hour)
	idOld, _ := st.Save(RunMetadata{Kind: "record", Timestamp: old}, nil)
	idNew, _ := st.Save(RunMetadata{Kind: "script"}, nil)

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != idNew || runs[1].ID != idOld {
		t.Errorf("expected newest first, got %+v", runs)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReadCSV_SkipsBadRows(t *testing.T) {
	in := strings.Join([]string{
		"seq,elapsed_ms,action,t,phase,stage,exact,label",
		"1,0,init,0.000000,idle,ellipsoid,true,Bol",
		"x,0,tick,0.1,running,ellipsoid,false,Ellipsoïde",
		"short,row",
	}, "\n")
	samples, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 1 || samples[0].Label != "Bol" {
		t.Errorf("unexpected samples %+v", samples)
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSON(&buf, RunMetadata{ID: "abc"}, testSamples()); err != nil {
		t.Fatal(err)
	}
	var out ExportData
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Run.ID != "abc" || len(out.Samples) != 3 {
		t.Errorf("unexpected export %+v", out)
	}
	if s := Series(out.Samples); s[2] != 1 {
		t.Errorf("unexpected series %v", s)
	}
}

func TestRecorder(t *testing.T) {
	clock := playback.NewManualClock()
	rec := NewRecorder(clock.Now, 10)
	eng := morph.NewEngine(morph.NewMeshRenderer(nil), nil, morph.Options{
		Playback:  playback.DefaultOptions(),
		Scheduler: clock,
		SegmentsU: 2,
		SegmentsV: 2,
	})
	defer eng.Close()
	eng.AddObserver(rec)

	eng.PlayPause()
	for i := 0; i < 25; i++ {
		eng.Tick()
		clock.Advance(10 * time.Millisecond)
	}
	eng.StepForward()

	samples := rec.Samples()
	if len(samples) != 1+2+1 {
		t.Fatalf("expected 4 samples, got %d: %+v", len(samples), samples)
	}
	if samples[0].Action != "play_pause" || samples[3].Action != "step_forward" {
		t.Errorf("unexpected actions %+v", samples)
	}
	if samples[2].ElapsedMs != 190 {
		t.Errorf("expected 190ms at the 20th tick, got %d", samples[2].ElapsedMs)
	}
}
