package osc

import (
	"fmt"
	"math"
	"sync"
)

// TableLen is the length L of the sine wavetable and of every generated
// custom-periodic-wave wavetable.
const TableLen = 2048

var (
	sineTableOnce sync.Once
	sineTable     [TableLen]float64
)

// sineWavetable returns the process-wide sine table, computing it exactly
// once on first use. Immutable after that, so the render-thread read path
// needs no lock.
func sineWavetable() *[TableLen]float64 {
	sineTableOnce.Do(func() {
		for i := range sineTable {
			sineTable[i] = math.Sin(2 * math.Pi * float64(i) / TableLen)
		}
	})
	return &sineTable
}

// lookup performs linear-interpolated wavetable lookup at unit phase
// (0 <= phase < 1) into a table of the given length. The interpolation
// coefficient is the fractional part of the scaled index,
// idx-floor(idx), not |idx-round(idx)|.
func lookup(table []float64, phase float64) float64 {
	n := len(table)
	idx := phase * float64(n)
	lo := int(idx)
	frac := idx - float64(lo)
	lo %= n
	hi := (lo + 1) % n
	return table[lo] + frac*(table[hi]-table[lo])
}

// PeriodicWave is a Fourier-coefficient descriptor for a custom oscillator
// waveform. Real and Imag must have equal length >= 2; index 0 (DC) is
// ignored. DisableNormalization skips the 1/max(|wavetable|) scaling that
// is otherwise applied after additive synthesis.
type PeriodicWave struct {
	Real                 []float64
	Imag                 []float64
	DisableNormalization bool
}

// Validate checks the descriptor's shape constraints, returning a
// range-error-flavoured error (checked with errors.Is against ErrRangeError
// by callers) if they are violated.
func (pw *PeriodicWave) Validate() error {
	if len(pw.Real) != len(pw.Imag) {
		return fmt.Errorf("%w: real and imag must have equal length", ErrRangeError)
	}
	if len(pw.Real) < 2 {
		return fmt.Errorf("%w: periodic wave needs at least 2 coefficients", ErrRangeError)
	}
	return nil
}

// Wavetable performs additive synthesis of one period of pw into a table
// of length TableLen: each harmonic k (k starting at 1; index 0 is DC and
// is ignored) contributes a sine of amplitude sqrt(real[k]^2+imag[k]^2)
// and phase atan2(imag[k], real[k]). Unless normalization is disabled, the
// result is scaled by 1/max(|wavetable|).
func (pw *PeriodicWave) Wavetable() []float64 {
	table := make([]float64, TableLen)
	n := len(pw.Real)
	for i := 0; i < TableLen; i++ {
		t := float64(i) / TableLen
		var sum float64
		for k := 1; k < n; k++ {
			amp := math.Hypot(pw.Real[k], pw.Imag[k])
			phase := math.Atan2(pw.Imag[k], pw.Real[k])
			sum += amp * math.Sin(2*math.Pi*float64(k)*t+phase)
		}
		table[i] = sum
	}
	if !pw.DisableNormalization {
		peak := 0.0
		for _, v := range table {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		if peak > 0 {
			for i := range table {
				table[i] /= peak
			}
		}
	}
	return table
}
