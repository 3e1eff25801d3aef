// Package osc implements the oscillator kernel: sine/square/sawtooth/
// triangle via wavetable + PolyBLEP anti-aliasing, and a custom periodic
// wave via Fourier additive synthesis.
package osc

import (
	"errors"
	"math"

	"github.com/wavegraph/core/internal/bridge"
)

// ErrRangeError flags a PeriodicWave descriptor with an invalid shape.
var ErrRangeError = errors.New("osc: range error")

// Type selects the oscillator's waveform.
type Type int32

const (
	Sine Type = iota
	Square
	Sawtooth
	Triangle
	Custom
)

// Oscillator generates one mono channel of periodic signal. The zero value
// is not usable; use New. Type is a hot atomic so the render thread can
// observe a control-thread write to it at most one block later without a
// lock, and changing it never resets phase.
type Oscillator struct {
	waveType bridge.HotEnum

	phase float64 // unit phase, in [0, 1)

	triangleState float64 // leaky-integrator memory for the triangle waveform

	customTable []float64 // current custom wavetable, nil until a PeriodicWave is set
	waveQueue   *bridge.Queue[*PeriodicWave]
}

// New returns an Oscillator of the given initial type, phase 0.
func New(t Type) *Oscillator {
	o := &Oscillator{waveQueue: bridge.NewQueue[*PeriodicWave](4)}
	o.waveType.Store(int32(t))
	return o
}

// SetType changes the waveform. Safe to call from the control thread
// concurrently with render-thread Generate calls; phase is never reset.
func (o *Oscillator) SetType(t Type) {
	o.waveType.Store(int32(t))
}

// Type returns the currently active waveform.
func (o *Oscillator) Type() Type {
	return Type(o.waveType.Load())
}

// SetPeriodicWave enqueues a new custom-waveform descriptor. It is
// delivered via the control/render bridge and applied at the next
// Generate call's drain point, regenerating the wavetable unconditionally
// rather than skipping when frequency is unchanged.
func (o *Oscillator) SetPeriodicWave(pw *PeriodicWave) error {
	if err := pw.Validate(); err != nil {
		return err
	}
	return o.waveQueue.TrySend(pw)
}

// Phase returns the oscillator's current unit phase, for diagnostics/tests.
func (o *Oscillator) Phase() float64 { return o.phase }

// Generate fills out with one block of signal. freq and detune must each
// have either length 1 (k-rate: a single value applies to the whole
// block) or len(out) (a-rate: one value per sample). sampleRate is the
// render sample rate in Hz.
func (o *Oscillator) Generate(out []float32, freq, detune []float64, sampleRate float64) {
	o.drainMessages()

	nyquist := sampleRate / 2
	waveType := o.Type()

	for i := range out {
		f := at(freq, i) * math.Pow(2, at(detune, i)/1200)
		if f > nyquist {
			f = nyquist
		} else if f < -nyquist {
			f = -nyquist
		}
		dt := f / sampleRate

		var sample float64
		switch waveType {
		case Sine:
			sample = lookup(sineWavetable()[:], o.phase)
		case Sawtooth:
			sample = 2*o.phase - 1 - polyBLEP(o.phase, absf(dt))
		case Square:
			naive := 1.0
			if o.phase > 0.5 {
				naive = -1.0
			}
			adt := absf(dt)
			sample = naive + polyBLEP(o.phase, adt) - polyBLEP(wrap(o.phase+0.5), adt)
		case Triangle:
			adt := absf(dt)
			naive := 1.0
			if o.phase > 0.5 {
				naive = -1.0
			}
			sq := naive + polyBLEP(o.phase, adt) - polyBLEP(wrap(o.phase+0.5), adt)
			o.triangleState = adt*sq + (1-adt)*o.triangleState
			sample = 4 * o.triangleState
		case Custom:
			if o.customTable != nil {
				sample = lookup(o.customTable, o.phase)
			}
		}
		out[i] = float32(sample)

		o.phase = wrap(o.phase + dt)
	}
}

func (o *Oscillator) drainMessages() {
	for _, pw := range o.waveQueue.Drain() {
		o.customTable = pw.Wavetable()
	}
}

func at(vals []float64, i int) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals[i]
}

func wrap(phase float64) float64 {
	phase -= math.Floor(phase)
	return phase
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
