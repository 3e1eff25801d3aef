package audio

import (
	"errors"
	"fmt"

	"github.com/wavegraph/core/internal/bridge"
	"github.com/wavegraph/core/internal/graph"
	"github.com/wavegraph/core/internal/osc"
	"github.com/wavegraph/core/internal/param"
	"github.com/wavegraph/core/internal/schedule"
)

// The five error kinds of the control surface. Callers compare with
// errors.Is rather than switching on a generic error-code framework.
var (
	ErrRangeError   = errors.New("audio: range error")
	ErrInvalidState = errors.New("audio: invalid state")
	ErrNotSupported = errors.New("audio: not supported")
	ErrQueueFull    = errors.New("audio: queue full")
	ErrFatal        = errors.New("audio: fatal")
)

// wrapParamErr translates internal/param's sentinel errors into the
// control surface's error kinds, preserving the original error for
// %w-chain inspection.
func wrapParamErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, param.ErrRangeError):
		return fmt.Errorf("%w: %v", ErrRangeError, err)
	case errors.Is(err, param.ErrInvalidState):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	default:
		return err
	}
}

func wrapScheduleErr(err error) error {
	if errors.Is(err, schedule.ErrInvalidState) {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	return err
}

func wrapGraphErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, graph.ErrInvalidState):
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	case errors.Is(err, graph.ErrNotSupported):
		return fmt.Errorf("%w: %v", ErrNotSupported, err)
	case errors.Is(err, bridge.ErrQueueFull):
		return fmt.Errorf("%w: %v", ErrQueueFull, err)
	default:
		return err
	}
}

func wrapOscErr(err error) error {
	if errors.Is(err, osc.ErrRangeError) {
		return fmt.Errorf("%w: %v", ErrRangeError, err)
	}
	return err
}
