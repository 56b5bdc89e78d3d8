// Package playback owns the timeline parameter and the rules that move it.
//
// A [Machine] is Idle, Running or in a BoundaryPause:
//
//   - [Machine.Tick] advances t by a fixed increment once per frame
//   - reaching a boundary (1..5) holds t for a wall-clock delay, after which
//     a scheduled resume nudges t past the boundary
//   - [Machine.StepForward] and [Machine.StepBack] snap t to the 0.1 grid
//   - [Machine.Reset] returns to t = 0, Idle
//
// # Scheduling
//
// The boundary delay runs on a [Scheduler]. [WallClock] uses real timers;
// [ManualClock] is advanced explicitly and fires due callbacks inline,
// which makes playback fully deterministic:
//
//	clock := playback.NewManualClock()
//	m := playback.NewMachine(playback.DefaultOptions(), clock)
//	m.Play()
//	for m.Playing() {
//	    m.Tick()
//	    clock.Advance(time.Second / 60)
//	}
//
// # Thread Safety
//
// Machine serialises Tick, the manual controls and the resume callback
// with a mutex, so at most one writer touches t at a time.
package playback
