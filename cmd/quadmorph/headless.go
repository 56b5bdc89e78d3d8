package main

import (
	"context"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/san-kum/quadmorph/internal/automation"
	"github.com/san-kum/quadmorph/internal/config"
	"github.com/san-kum/quadmorph/internal/metrics"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/storage"
)

type headless struct {
	Result  *automation.Result
	Samples []storage.Sample
	Metrics map[string]float64
}

// runHeadless plays sc on a virtual clock with an in-memory renderer,
// recording every stride-th tick. A partial result is returned alongside
// a scenario error; it is nil only when nothing ran.
func runHeadless(ctx context.Context, cfg *config.Config, logger *log.Logger, sc *automation.Scenario, stride int) (*headless, error) {
	clock := playback.NewManualClock()
	rec := storage.NewRecorder(clock.Now, stride)
	set := metrics.Default()

	eng := morph.NewEngine(morph.NewMeshRenderer(nil), morph.LabelFunc(func(string) {}), morph.Options{
		Playback:  cfg.PlaybackOptions(),
		Scheduler: clock,
		Radius:    cfg.Radius,
		SegmentsU: cfg.SegmentsU,
		SegmentsV: cfg.SegmentsV,
		Locale:    cfg.Locale(),
		Logger:    logger,
	})
	defer eng.Close()
	eng.AddObserver(rec)
	eng.AddObserver(set)

	runner := automation.Runner{Engine: eng, Clock: clock, Frame: cfg.FrameInterval(), Log: logger}
	res, err := runner.Run(ctx, sc)
	if res == nil {
		return nil, err
	}
	return &headless{Result: res, Samples: rec.Samples(), Metrics: set.Values()}, err
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
