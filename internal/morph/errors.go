package morph

import "errors"

var (
	// ErrClosed is returned by actions on a closed engine.
	ErrClosed = errors.New("morph: engine closed")

	// ErrUnknownControl indicates a control name that maps to no action.
	ErrUnknownControl = errors.New("morph: unknown control")
)
