package audio

import (
	"log/slog"

	"github.com/wavegraph/core/internal/graph"
	"github.com/wavegraph/core/internal/osc"
	"github.com/wavegraph/core/internal/param"
	"github.com/wavegraph/core/internal/schedule"
)

// OscillatorType selects the oscillator's waveform.
type OscillatorType = osc.Type

// The five waveform types an OscillatorNode can produce.
const (
	Sine     = osc.Sine
	Square   = osc.Square
	Sawtooth = osc.Sawtooth
	Triangle = osc.Triangle
	Custom   = osc.Custom
)

// PeriodicWave is a Fourier-coefficient descriptor for a custom oscillator
// waveform: Real and Imag must have equal length >= 2 (index 0 is DC and
// is ignored).
type PeriodicWave = osc.PeriodicWave

// NewPeriodicWave validates and returns a PeriodicWave descriptor for use
// with OscillatorNode.SetPeriodicWave, rejecting malformed shapes with
// ErrRangeError before any render-thread state is touched.
func NewPeriodicWave(real, imag []float64, disableNormalization bool) (*PeriodicWave, error) {
	pw := &osc.PeriodicWave{Real: real, Imag: imag, DisableNormalization: disableNormalization}
	if err := pw.Validate(); err != nil {
		return nil, wrapOscErr(err)
	}
	return pw, nil
}

// OscillatorNode generates one channel of periodic signal: sine, square,
// sawtooth, triangle, or a custom PeriodicWave via additive synthesis.
// Frequency and Detune are a-rate parameters; switching Type never resets
// phase.
type OscillatorNode struct {
	*Node
	scheduledSource

	kernel *osc.Oscillator

	Frequency *AudioParam
	Detune    *AudioParam
}

// CreateOscillator returns a new OscillatorNode wired into c's render
// graph but not yet connected to anything, started, or stopped.
// Frequency defaults to 440 Hz (min/max ±Nyquist for c's sample rate);
// Detune defaults to 0 cents (±153600, the WebAudio detune range).
func (c *Context) CreateOscillator() (*OscillatorNode, error) {
	id := c.g.NewNodeID()
	gn := graph.NewNode(id, 0, 1, 1)
	gn.ChannelCountMode = graph.Explicit

	nyquist := c.sampleRate / 2
	freqTL := param.New(440, -nyquist, nyquist)
	detuneTL := param.New(0, -153600, 153600)
	gn.Params["frequency"] = &graph.ParamSpec{Timeline: freqTL, Rate: param.ARate}
	gn.Params["detune"] = &graph.ParamSpec{Timeline: detuneTL, Rate: param.ARate}

	src := newScheduledSource()
	kernel := osc.New(osc.Sine)
	gn.Processor = &oscillatorProcessor{kernel: kernel, sched: src.sched}

	if err := c.g.AddNode(gn); err != nil {
		return nil, wrapGraphErr(err)
	}

	slog.Debug("oscillator node created", "node_id", id)
	node := &Node{gnode: gn, g: c.g}
	return &OscillatorNode{
		Node:            node,
		scheduledSource: src,
		kernel:          kernel,
		Frequency:       &AudioParam{name: "frequency", timeline: freqTL, node: node},
		Detune:          &AudioParam{name: "detune", timeline: detuneTL, node: node},
	}, nil
}

// Type returns the currently active waveform.
func (o *OscillatorNode) Type() OscillatorType { return o.kernel.Type() }

// SetType changes the waveform without resetting phase.
func (o *OscillatorNode) SetType(t OscillatorType) { o.kernel.SetType(t) }

// SetPeriodicWave installs a custom waveform, delivered to the render
// thread via the control/render bridge and applied at the next block
// boundary. The wavetable is regenerated unconditionally on every call,
// even if frequency has not changed since the last descriptor.
func (o *OscillatorNode) SetPeriodicWave(pw *PeriodicWave) error {
	return wrapOscErr(o.kernel.SetPeriodicWave(pw))
}

// oscillatorProcessor is the render-side half: it gates the kernel's
// output on the scheduler's active window and otherwise just forwards to
// osc.Oscillator.Generate.
type oscillatorProcessor struct {
	kernel *osc.Oscillator
	sched  *schedule.Scheduler
}

func (p *oscillatorProcessor) Process(io *graph.IO) {
	out := io.Outputs[0][0].Data
	if !p.sched.IsActive(io.CurrentTime) {
		for i := range out {
			out[i] = 0
		}
		return
	}
	p.kernel.Generate(out, io.Params["frequency"], io.Params["detune"], io.SampleRate)
}
func (p *oscillatorProcessor) TailTime() float64 { return 0 }
func (p *oscillatorProcessor) OnMessage(any) {}
func (p *oscillatorProcessor) BreaksCycle() bool { return false }
