// Package morph ties playback, stage resolution, geometry and labels into a
// per-frame update.
//
// A [Coordinator] owns the slot geometry handed to a [Renderer]. On every
// sync it resolves the stage for t, rebuilds the visible slots when t or
// the stage moved, and pushes visibility only when the stage changed. Old
// geometry is disposed before its replacement is assigned.
//
// An [Engine] drives a [playback.Machine] and a Coordinator together and
// writes the equation label to a [LabelSink] once per tick and once per
// manual control:
//
//	eng := morph.NewEngine(renderer, sink, morph.DefaultOptions())
//	defer eng.Close()
//	eng.PlayPause()
//	for frame := range ticker {
//	    eng.Tick()
//	}
//
// Observers registered with [Engine.AddObserver] see every [Frame]; the
// recorder and metrics hang off this hook.
package morph
