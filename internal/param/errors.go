package param

import "errors"

// Sentinel errors returned by the timeline mutators. Callers on the control
// side compare with errors.Is; the render side never calls these methods
// (only the control thread writes a parameter's event list, per the
// single-writer ownership rule).
var (
	ErrRangeError   = errors.New("param: range error")
	ErrInvalidState = errors.New("param: invalid state")
)
