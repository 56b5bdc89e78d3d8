package morph_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/morph"
	"github.com/san-kum/quadmorph/internal/playback"
	"github.com/san-kum/quadmorph/internal/stage"
)

var _ = Describe("Engine", func() {
	var (
		clock    *playback.ManualClock
		renderer *morph.MeshRenderer
		labels   []string
		frames   []morph.Frame
		eng      *morph.Engine
	)

	BeforeEach(func() {
		clock = playback.NewManualClock()
		renderer = morph.NewMeshRenderer(nil)
		labels = nil
		frames = nil

		opts := morph.DefaultOptions()
		opts.Scheduler = clock
		opts.SegmentsU, opts.SegmentsV = 4, 8
		eng = morph.NewEngine(renderer, morph.LabelFunc(func(m string) {
			labels = append(labels, m)
		}), opts)
		eng.AddObserver(morph.ObserverFunc(func(f morph.Frame) {
			frames = append(frames, f)
		}))
	})

	AfterEach(func() {
		if !eng.Closed() {
			Expect(eng.Close()).To(Succeed())
		}
	})

	It("shows the sphere on start", func() {
		Expect(labels).To(HaveLen(1))
		Expect(labels[0]).To(ContainSubstring("Bol"))
		Expect(renderer.Shown()).To(Equal([]stage.Slot{stage.Primary}))
		Expect(eng.Snapshot().Action).To(Equal(morph.ActionInit))
	})

	It("displays the label once per tick and per control", func() {
		eng.PlayPause()
		for i := 0; i < 10; i++ {
			eng.Tick()
		}
		eng.StepForward()
		eng.StepBack()
		eng.Reset()
		Expect(labels).To(HaveLen(1 + 1 + 10 + 3))
		Expect(frames).To(HaveLen(14))
	})

	It("does not rebuild while idle", func() {
		eng.Tick()
		f := eng.Tick()
		Expect(f.Rebuilt).To(BeEmpty())
		Expect(f.Phase).To(Equal(playback.Idle))
	})

	It("rebuilds the visible slot every running tick", func() {
		eng.PlayPause()
		f := eng.Tick()
		Expect(f.Rebuilt).To(Equal([]stage.Slot{stage.Primary}))
		Expect(f.StageChanged).To(BeFalse())
		Expect(f.T).To(BeNumerically("~", 0.002, 1e-12))
	})

	It("switches slots when stepping into the two-sheet range", func() {
		for i := 0; i < 35; i++ {
			eng.StepForward()
		}
		f := eng.Snapshot()
		Expect(f.Stage).To(Equal(stage.TwoSheet))
		Expect(renderer.Shown()).To(Equal([]stage.Slot{stage.BladeA, stage.BladeB}))
		Expect(renderer.Visible(stage.Primary)).To(BeFalse())
	})

	It("pauses on the cylinder and resumes after the delay", func() {
		eng.Seek(0.999999)
		eng.PlayPause()
		f := eng.Tick()
		Expect(f.Phase).To(Equal(playback.BoundaryPause))
		Expect(f.Label.Exact).To(BeTrue())
		Expect(f.Markup).To(ContainSubstring("Cilinder"))

		for i := 0; i < 30; i++ {
			Expect(eng.Tick().T).To(Equal(0.999999))
		}
		clock.Advance(2 * time.Second)
		f = eng.Tick()
		Expect(f.Phase).To(Equal(playback.Running))
		Expect(f.T).To(BeNumerically(">", 1.001))
	})

	It("runs manual controls by name", func() {
		_, err := eng.Control("step_forward")
		Expect(err).NotTo(HaveOccurred())
		Expect(eng.Snapshot().T).To(BeNumerically("~", 0.1, 1e-9))

		_, err = eng.Control("jump")
		Expect(err).To(MatchError(morph.ErrUnknownControl))
	})

	It("plays the full timeline without leaking geometry", func() {
		eng.PlayPause()
		for i := 0; i < 10000 && eng.Machine().Playing(); i++ {
			eng.Tick()
			clock.Advance(time.Second / 60)
		}
		f := eng.Snapshot()
		Expect(f.Stage).To(Equal(stage.SphereApproach))
		Expect(f.T).To(BeNumerically(">", 6))
		Expect(f.Label.Exact).To(BeTrue())
		Expect(f.Markup).To(Equal(label.New(label.Dutch).Label(6)))
		Expect(labels[len(labels)-1]).To(Equal(f.Markup))
		Expect(renderer.Stats().Live()).To(BeEquivalentTo(1))
	})

	It("disposes everything on close", func() {
		eng.Seek(4.5)
		Expect(eng.Close()).To(Succeed())
		Expect(renderer.Stats().Live()).To(BeZero())
		Expect(renderer.Shown()).To(BeEmpty())
		Expect(eng.Close()).To(MatchError(morph.ErrClosed))

		before := len(labels)
		eng.Tick()
		Expect(labels).To(HaveLen(before))
	})
})
