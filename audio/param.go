package audio

import "github.com/wavegraph/core/internal/param"

// AudioParam is the control-side handle to one audio-rate or k-rate
// parameter owned by a node: its intrinsic value, hard clamp range, and
// time-scheduled automation event timeline. Only the control
// thread calls these methods; the render thread consumes the timeline
// through the graph's per-block evaluation.
type AudioParam struct {
	name     string
	timeline *param.Timeline
	node     *Node
}

// Value returns the intrinsic value: the last value written directly by
// SetValue, ignoring any scheduled automation.
func (p *AudioParam) Value() float64 { return p.timeline.Intrinsic() }

// SetValue sets the intrinsic value. It does not touch the event
// timeline; it only changes what a block evaluates to before any
// scheduled event's time has arrived.
func (p *AudioParam) SetValue(v float64) { p.timeline.SetIntrinsic(v) }

// DefaultValue returns the parameter's nominal default.
func (p *AudioParam) DefaultValue() float64 { return p.timeline.Default }

// MinValue returns the lower hard-clamp bound.
func (p *AudioParam) MinValue() float64 { return p.timeline.Min }

// MaxValue returns the upper hard-clamp bound.
func (p *AudioParam) MaxValue() float64 { return p.timeline.Max }

// SetValueAtTime schedules value v to hold starting at time t.
func (p *AudioParam) SetValueAtTime(v, t float64) error {
	return wrapParamErr(p.timeline.SetValueAtTime(v, t))
}

// LinearRampToValueAtTime schedules a linear ramp to v arriving at time t.
func (p *AudioParam) LinearRampToValueAtTime(v, t float64) error {
	return wrapParamErr(p.timeline.LinearRampToValueAtTime(v, t))
}

// ExponentialRampToValueAtTime schedules a geometric ramp to v arriving at
// time t. Returns ErrInvalidState if v or the timeline's current value are
// non-positive.
func (p *AudioParam) ExponentialRampToValueAtTime(v, t float64) error {
	return wrapParamErr(p.timeline.ExponentialRampToValueAtTime(v, t))
}

// SetTargetAtTime schedules an exponential approach toward v starting at t
// with time constant tau. The segment never ends on its own.
func (p *AudioParam) SetTargetAtTime(v, t, tau float64) error {
	return wrapParamErr(p.timeline.SetTargetAtTime(v, t, tau))
}

// SetValueCurveAtTime schedules curve playback, linearly interpolated,
// over [t, t+d].
func (p *AudioParam) SetValueCurveAtTime(curve []float64, t, d float64) error {
	return wrapParamErr(p.timeline.SetValueCurveAtTime(curve, t, d))
}

// CancelScheduledValues removes every event with time >= t.
func (p *AudioParam) CancelScheduledValues(t float64) {
	p.timeline.CancelScheduledValues(t)
}

// CancelAndHold removes every event with time >= t and inserts a
// value-hold anchor at t equal to the value the timeline would have
// produced there, preserving continuity across the cut.
func (p *AudioParam) CancelAndHold(t float64) {
	p.timeline.CancelAndHold(t)
}
