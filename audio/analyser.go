package audio

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/wavegraph/core/internal/analyser"
	"github.com/wavegraph/core/internal/graph"
)

// FFT size bounds accepted by AnalyserNode.SetFFTSize.
const (
	minFFTSize = 32
	maxFFTSize = 32768
)

// AnalyserNode captures its single input into a ring buffer and computes a
// smoothed windowed-FFT magnitude spectrum on demand. It passes its input
// straight through to its output unchanged, so it can be tapped inline
// without altering the signal.
//
// The data getters run on the control thread while the render thread
// keeps feeding the ring buffer. That race is accepted, the same way
// browser engines accept it: no bit-exactness is promised, and visualiser
// reads tolerate a block or two of staleness.
type AnalyserNode struct {
	*Node

	kernel    *analyser.Analyser
	fftSize   int
	smoothing float64
}

// CreateAnalyser returns a new AnalyserNode wired into c's render graph,
// with the WebAudio defaults: fft_size 2048, smoothing_time_constant 0.8.
func (c *Context) CreateAnalyser() (*AnalyserNode, error) {
	id := c.g.NewNodeID()
	gn := graph.NewNode(id, 1, 1, 1)
	gn.ChannelCountMode = graph.Explicit

	kernel := analyser.New()
	gn.Processor = &analyserProcessor{kernel: kernel}

	if err := c.g.AddNode(gn); err != nil {
		return nil, wrapGraphErr(err)
	}

	slog.Debug("analyser node created", "node_id", id)
	return &AnalyserNode{
		Node:      &Node{gnode: gn, g: c.g},
		kernel:    kernel,
		fftSize:   2048,
		smoothing: 0.8,
	}, nil
}

// FFTSize returns the current FFT window size.
func (a *AnalyserNode) FFTSize() int { return a.fftSize }

// SetFFTSize sets the FFT window size. n must be a power of two in
// [32, 32768]; any other value returns ErrRangeError.
func (a *AnalyserNode) SetFFTSize(n int) error {
	if n < minFFTSize || n > maxFFTSize || n&(n-1) != 0 {
		return fmt.Errorf("%w: fft_size %d must be a power of two in [%d, %d]", ErrRangeError, n, minFFTSize, maxFFTSize)
	}
	a.fftSize = n
	return nil
}

// SmoothingTimeConstant returns the current magnitude-smoothing factor.
func (a *AnalyserNode) SmoothingTimeConstant() float64 { return a.smoothing }

// SetSmoothingTimeConstant sets the magnitude-smoothing factor. s must lie
// in [0, 1]; any other value returns ErrRangeError.
func (a *AnalyserNode) SetSmoothingTimeConstant(s float64) error {
	if s < 0 || s > 1 {
		return fmt.Errorf("%w: smoothing_time_constant %v must be in [0, 1]", ErrRangeError, s)
	}
	a.smoothing = s
	return nil
}

// GetFloatTimeDomainData copies the most recent min(FFTSize(), len(out))
// time-domain samples into out, newest at the end; slots of out beyond
// FFTSize() are left untouched.
func (a *AnalyserNode) GetFloatTimeDomainData(out []float32) {
	a.kernel.GetFloatTime(out, a.fftSize)
}

// GetFloatFrequencyData recomputes the smoothed magnitude spectrum from
// the current FFT window and copies it, in dB, into out.
func (a *AnalyserNode) GetFloatFrequencyData(out []float32) {
	a.kernel.CalculateFloatFrequency(a.fftSize, a.smoothing)
	a.kernel.GetFloatFrequency(out)
}

// GetByteTimeDomainData linearly remaps [-1, 1] time-domain samples to
// [0, 255].
func (a *AnalyserNode) GetByteTimeDomainData(out []byte) {
	buf := make([]float32, len(out))
	a.GetFloatTimeDomainData(buf)
	for i, v := range buf {
		out[i] = remapByte(v, -1, 1)
	}
}

// GetByteFrequencyData linearly remaps [minDecibels, maxDecibels] to
// [0, 255], clamping outside that range (and mapping -Inf to 0).
func (a *AnalyserNode) GetByteFrequencyData(out []byte, minDecibels, maxDecibels float64) {
	buf := make([]float32, len(out))
	a.GetFloatFrequencyData(buf)
	for i, v := range buf {
		out[i] = remapByte(v, float32(minDecibels), float32(maxDecibels))
	}
}

func remapByte(v, lo, hi float32) byte {
	if math.IsInf(float64(v), -1) || v < lo {
		return 0
	}
	if v > hi {
		return 255
	}
	return byte(255 * (v - lo) / (hi - lo))
}

// analyserProcessor is the render-side half: feed the ring buffer, then
// pass the (already summed) input straight through to the output.
type analyserProcessor struct {
	kernel *analyser.Analyser
}

func (p *analyserProcessor) Process(io *graph.IO) {
	if len(io.Inputs[0]) > 0 {
		p.kernel.AddData(io.Inputs[0][0].Data)
	}
	for c, ch := range io.Outputs[0] {
		if c < len(io.Inputs[0]) {
			copy(ch.Data, io.Inputs[0][c].Data)
			continue
		}
		for i := range ch.Data {
			ch.Data[i] = 0
		}
	}
}
func (p *analyserProcessor) TailTime() float64 { return 0 }
func (p *analyserProcessor) OnMessage(any) {}
func (p *analyserProcessor) BreaksCycle() bool { return false }
