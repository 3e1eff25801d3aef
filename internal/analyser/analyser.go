package analyser

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Analyser captures incoming render blocks into a ring buffer and computes
// a smoothed windowed-FFT magnitude spectrum on demand.
type Analyser struct {
	ring ring

	fftSize    int
	window     []float64
	windowed   []float64
	timeSamp   []float64
	fft        *fourier.FFT
	coeffs     []complex128
	smoothed   []float64 // smoothed magnitude history, one entry per bin
	haveResult bool
}

// New returns an empty Analyser.
func New() *Analyser {
	return &Analyser{}
}

// AddData feeds one render block's worth of samples (len == block.Size).
func (a *Analyser) AddData(samples []float32) {
	a.ring.AddData(samples)
}

// CheckCompleteCycle reports whether enough blocks have arrived since the
// last positive result to cover fftSize samples exactly, gating when the
// caller should bother recomputing the spectrum.
func (a *Analyser) CheckCompleteCycle(fftSize int) bool {
	return a.ring.CheckCompleteCycle(fftSize)
}

// GetFloatTime copies the most recent time-domain samples into out, per
// the contract in ring.go's GetFloatTime.
func (a *Analyser) GetFloatTime(out []float32, fftSize int) {
	a.ring.GetFloatTime(out, fftSize)
}

// CalculateFloatFrequency recomputes the smoothed magnitude spectrum from
// the most recent fftSize time-domain samples. If fftSize changed since
// the previous call, the smoothing history is reset to zero and a fresh
// Blackman window is generated.
func (a *Analyser) CalculateFloatFrequency(fftSize int, smoothing float64) {
	if fftSize != a.fftSize {
		a.fftSize = fftSize
		a.window = blackmanWindow(fftSize)
		a.windowed = make([]float64, fftSize)
		a.timeSamp = make([]float64, fftSize)
		a.fft = fourier.NewFFT(fftSize)
		nbins := fftSize/2 + 1
		a.smoothed = make([]float64, nbins)
	}

	n := fftSize
	if n > MaxSamples {
		n = MaxSamples
	}
	a.ring.latest(a.timeSamp, n)

	for i := range a.windowed {
		a.windowed[i] = a.timeSamp[i] * a.window[i]
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	s := smoothing
	if s < 0 {
		s = 0
	} else if s > 1 {
		s = 1
	}
	for k, c := range a.coeffs {
		mag := cmplxAbs(c)
		a.smoothed[k] = s*a.smoothed[k] + (1-s)*mag
	}
	a.haveResult = true
}

// GetFloatFrequency copies the smoothed magnitude spectrum, converted to
// dB, into out. Entries beyond the number of bins are left untouched.
// out[k] = 20*log10(prev[k]) - 20*log10(sqrt(N)); bins whose smoothed
// magnitude is exactly zero become negative infinity.
func (a *Analyser) GetFloatFrequency(out []float32) {
	if !a.haveResult {
		return
	}
	ref := 20 * math.Log10(math.Sqrt(float64(a.fftSize)))
	n := len(a.smoothed)
	if n > len(out) {
		n = len(out)
	}
	for k := 0; k < n; k++ {
		if a.smoothed[k] == 0 {
			out[k] = float32(math.Inf(-1))
			continue
		}
		out[k] = float32(20*math.Log10(a.smoothed[k]) - ref)
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}
