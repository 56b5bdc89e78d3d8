// Package viz is the terminal renderer for quadmorph.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [App]: morph renderer and label sink drawing the visible slots
//   - [Canvas]: braille dot grid with a depth buffer for hidden lines
//   - [Camera]: orbit camera, zoom and orbit eased with harmonica springs
//   - [StyledLabel]: equation markup with cancelled terms struck through
//
// # Key Bindings
//
//	Space - Play/pause
//	R     - Reset to t = 0
//	→ ←   - Step 0.1 forward/back
//	+ -   - Zoom
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts and stops a GIF capture of the canvas. Recordings are saved to
// the current directory.
package viz
