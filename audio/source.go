package audio

import "github.com/wavegraph/core/internal/schedule"

// scheduledSource embeds the start/stop state machine into a
// source node's control handle. Concrete source node types (OscillatorNode)
// embed this alongside *Node; the render-side processor consults the same
// *schedule.Scheduler directly to gate its output.
type scheduledSource struct {
	sched *schedule.Scheduler
}

func newScheduledSource() scheduledSource {
	return scheduledSource{sched: schedule.New()}
}

// Start schedules the source to begin producing output at time t. It may
// be called at most once.
func (s *scheduledSource) Start(t float64) error {
	return wrapScheduleErr(s.sched.Start(t))
}

// Stop schedules the source to stop producing output at time t. Start must
// already have been called, and Stop itself may be called at most once;
// it is the sole cancellation primitive for a source node.
func (s *scheduledSource) Stop(t float64) error {
	return wrapScheduleErr(s.sched.Stop(t))
}
