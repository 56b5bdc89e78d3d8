package playback_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quadmorph/internal/label"
	"github.com/san-kum/quadmorph/internal/playback"
)

var _ = Describe("Machine", func() {
	var (
		clock *playback.ManualClock
		m     *playback.Machine
	)

	BeforeEach(func() {
		clock = playback.NewManualClock()
		m = playback.NewMachine(playback.DefaultOptions(), clock)
	})

	It("starts idle at zero", func() {
		Expect(m.T()).To(Equal(0.0))
		Expect(m.Phase()).To(Equal(playback.Idle))
		Expect(m.Tick()).To(BeFalse())
	})

	It("advances by the increment while running", func() {
		m.Play()
		Expect(m.Tick()).To(BeTrue())
		Expect(m.Tick()).To(BeTrue())
		Expect(m.T()).To(BeNumerically("~", 0.004, 1e-12))
		Expect(m.Phase()).To(Equal(playback.Running))
	})

	It("toggles play and pause", func() {
		Expect(m.Toggle()).To(BeTrue())
		Expect(m.Playing()).To(BeTrue())
		Expect(m.Toggle()).To(BeFalse())
		Expect(m.Phase()).To(Equal(playback.Idle))
	})

	Context("at a boundary", func() {
		BeforeEach(func() {
			m.Seek(0.999999)
			m.Play()
		})

		It("holds t until the delay elapses", func() {
			Expect(m.Tick()).To(BeFalse())
			Expect(m.Phase()).To(Equal(playback.BoundaryPause))
			Expect(clock.Pending()).To(Equal(1))

			for i := 0; i < 100; i++ {
				Expect(m.Tick()).To(BeFalse())
			}
			Expect(m.T()).To(Equal(0.999999))

			clock.Advance(1999 * time.Millisecond)
			Expect(m.Phase()).To(Equal(playback.BoundaryPause))

			clock.Advance(time.Millisecond)
			Expect(m.Phase()).To(Equal(playback.Running))
			Expect(m.T()).To(BeNumerically("~", 1.001999, 1e-12))
		})

		It("shows the exact cylinder form during the pause", func() {
			m.Tick()
			l := label.New(label.Dutch).Describe(m.T())
			Expect(l.Exact).To(BeTrue())
			Expect(l.Name).To(Equal("Cilinder"))
		})

		It("moves past the boundary after resuming", func() {
			m.Tick()
			clock.Advance(2 * time.Second)
			Expect(m.Tick()).To(BeTrue())
			Expect(m.Phase()).To(Equal(playback.Running))
		})

		It("calls the boundary hooks", func() {
			var paused, resumed []float64
			m.OnBoundary(
				func(s playback.State) { paused = append(paused, s.T) },
				func(s playback.State) { resumed = append(resumed, s.T) },
			)
			m.Tick()
			clock.Advance(2 * time.Second)
			Expect(paused).To(HaveLen(1))
			Expect(resumed).To(HaveLen(1))
			Expect(resumed[0]).To(BeNumerically(">", paused[0]))
		})

		It("cancels the pending resume on reset", func() {
			m.Tick()
			m.Reset()
			Expect(clock.Pending()).To(Equal(0))
			clock.Advance(5 * time.Second)
			Expect(m.T()).To(Equal(0.0))
			Expect(m.Pending()).To(BeFalse())
		})

		It("cancels the pending resume on pause", func() {
			m.Tick()
			m.Pause()
			clock.Advance(5 * time.Second)
			Expect(m.T()).To(Equal(0.999999))
			Expect(m.Phase()).To(Equal(playback.Idle))
		})
	})

	Context("with FireAlways", func() {
		BeforeEach(func() {
			opts := playback.DefaultOptions()
			opts.Policy = playback.FireAlways
			m = playback.NewMachine(opts, clock)
			m.Seek(2)
			m.Play()
		})

		It("lets the resume nudge t after a reset", func() {
			Expect(m.Tick()).To(BeFalse())
			m.Reset()
			Expect(m.Pending()).To(BeTrue())
			clock.Advance(2 * time.Second)
			Expect(m.T()).To(BeNumerically("~", 0.002, 1e-12))
			Expect(m.Pending()).To(BeFalse())
		})
	})

	It("never advances t during a boundary pause", func() {
		m.Play()
		for i := 0; i < 4000 && m.Playing(); i++ {
			before := m.State()
			changed := m.Tick()
			if before.PausedAtBoundary {
				Expect(changed).To(BeFalse())
				Expect(m.T()).To(Equal(before.T))
			}
			clock.Advance(time.Second / 60)
		}
	})

	It("stops once t exceeds the end of the timeline", func() {
		m.Seek(5.999)
		m.Play()
		for i := 0; i < 10 && m.Playing(); i++ {
			m.Tick()
		}
		Expect(m.Playing()).To(BeFalse())
		Expect(m.T()).To(BeNumerically(">", 6.0))
		Expect(m.T()).To(BeNumerically("<", 6.01))
	})

	It("plays the whole timeline with a pause at every boundary", func() {
		pauses := 0
		m.OnBoundary(func(playback.State) { pauses++ }, nil)
		m.Play()
		for i := 0; i < 10000 && m.Playing(); i++ {
			m.Tick()
			clock.Advance(time.Second / 60)
		}
		Expect(m.Playing()).To(BeFalse())
		Expect(pauses).To(Equal(5))
	})

	Describe("stepping", func() {
		It("reaches six after 61 steps and stays there", func() {
			for i := 0; i < 61; i++ {
				m.StepForward()
			}
			Expect(m.T()).To(BeNumerically("~", 6, 1e-9))
			m.StepForward()
			Expect(m.T()).To(BeNumerically("<=", 6))
		})

		It("snaps to the 0.1 grid", func() {
			m.Seek(1.234)
			m.StepForward()
			Expect(m.T()).To(BeNumerically("~", 1.3, 1e-9))
			m.Seek(1.26)
			m.StepBack()
			Expect(m.T()).To(BeNumerically("~", 1.2, 1e-9))
		})

		It("does not go below zero", func() {
			m.StepBack()
			Expect(m.T()).To(Equal(0.0))
		})

		It("stops playback", func() {
			m.Play()
			m.StepForward()
			Expect(m.Playing()).To(BeFalse())
		})
	})

	It("resets idempotently", func() {
		m.Seek(3.3)
		m.Play()
		m.Reset()
		first := m.State()
		m.Reset()
		Expect(m.State()).To(Equal(first))
		Expect(first).To(Equal(playback.State{}))
	})

	It("clamps seek to the timeline", func() {
		m.Seek(-1)
		Expect(m.T()).To(Equal(0.0))
		m.Seek(42)
		Expect(m.T()).To(Equal(6.0))
		Expect(math.IsNaN(m.T())).To(BeFalse())
	})

	Context("on the wall clock", func() {
		pauseAt := func(delay time.Duration) *playback.Machine {
			opts := playback.DefaultOptions()
			opts.BoundaryDelay = delay
			wm := playback.NewMachine(opts, playback.WallClock{})
			wm.Seek(0.999999)
			wm.Play()
			Expect(wm.Tick()).To(BeFalse())
			return wm
		}

		It("lets only the timer move t while ticks keep arriving", func() {
			wm := pauseAt(time.Millisecond)
			advanced := 0
			Eventually(func() float64 {
				if wm.Tick() {
					advanced++
				}
				return wm.T()
			}, time.Second, 50*time.Microsecond).Should(BeNumerically(">", 1.001))

			Expect(wm.Pending()).To(BeFalse())
			Expect(wm.Phase()).To(Equal(playback.Running))
			Expect(wm.T()).To(BeNumerically("~", 0.999999+0.002*float64(advanced+1), 1e-9))
		})

		It("drops the real timer on pause", func() {
			wm := pauseAt(50 * time.Millisecond)
			Expect(wm.Pending()).To(BeTrue())
			wm.Pause()
			Consistently(wm.T, 100*time.Millisecond, 5*time.Millisecond).Should(Equal(0.999999))
			Expect(wm.Pending()).To(BeFalse())
		})
	})
})
