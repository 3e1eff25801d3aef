// Package analyser implements the spectral analyser kernel: a ring-buffered
// time-domain capture plus a windowed real FFT with magnitude smoothing.
package analyser

import "github.com/wavegraph/core/internal/block"

// RingBlocks is the number of render blocks the ring buffer retains,
// sized so the largest supported FFT window (32768 samples) always fits.
const RingBlocks = 256

// MaxSamples is the ring buffer's total capacity in samples.
const MaxSamples = RingBlocks * block.Size

// ring is a flat circular buffer of the most recent MaxSamples time-domain
// samples, written one render block at a time.
type ring struct {
	buf        [MaxSamples]float32
	writePos   int    // index one past the most recently written sample
	sinceCycle uint64 // blocks received since the last positive CheckCompleteCycle
}

// AddData appends one render block's worth of samples, overwriting the
// oldest data once the ring has wrapped. The index wraps in exactly
// RingBlocks steps, because writePos only ever advances by block.Size and
// MaxSamples is an exact multiple of it; CheckCompleteCycle depends on
// that wrap being exact.
func (r *ring) AddData(samples []float32) {
	for _, s := range samples {
		r.buf[r.writePos] = s
		r.writePos = (r.writePos + 1) % MaxSamples
	}
	r.sinceCycle++
}

// CheckCompleteCycle reports whether the number of blocks received since
// the previous positive return, times K, is an integer multiple of
// fftSize. On a true result the counter resets; on false it is left
// untouched so later calls keep accumulating toward the next multiple.
func (r *ring) CheckCompleteCycle(fftSize int) bool {
	if (int(r.sinceCycle)*block.Size)%fftSize == 0 {
		r.sinceCycle = 0
		return true
	}
	return false
}

// GetFloatTime copies the most recent min(fftSize, len(out)) samples into
// out[0:n], oldest first and newest last (at out[n-1]). Slots at out[n:]
// are left completely untouched.
func (r *ring) GetFloatTime(out []float32, fftSize int) {
	n := fftSize
	if n > len(out) {
		n = len(out)
	}
	for i := 0; i < n; i++ {
		idx := mod(r.writePos-n+i, MaxSamples)
		out[i] = r.buf[idx]
	}
}

// latest returns the most recent n samples (n <= MaxSamples) as float64,
// oldest first, for internal FFT use.
func (r *ring) latest(dst []float64, n int) {
	for i := 0; i < n; i++ {
		idx := mod(r.writePos-n+i, MaxSamples)
		dst[i] = float64(r.buf[idx])
	}
}

func mod(a, m int) int {
	a %= m
	if a < 0 {
		a += m
	}
	return a
}
