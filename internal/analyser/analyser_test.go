package analyser

import (
	"math"
	"testing"

	"github.com/wavegraph/core/internal/block"
	"pgregory.net/rapid"
)

func constBlock(v float32) []float32 {
	b := make([]float32, block.Size)
	for i := range b {
		b[i] = v
	}
	return b
}

// TestTimeDomainReadout checks rear-aligned readout of the newest blocks.
func TestTimeDomainReadout(t *testing.T) {
	a := New()
	for i := 0; i <= 257; i++ {
		a.AddData(constBlock(float32(i)))
	}
	out := make([]float32, 4*block.Size)
	a.GetFloatTime(out, 4*block.Size)

	check := func(lo, hi int, want float32) {
		for i := lo; i < hi; i++ {
			if out[i] != want {
				t.Fatalf("out[%d] = %v, want %v", i, out[i], want)
			}
		}
	}
	check(0, block.Size, 254)
	check(block.Size, 2*block.Size, 255)
	check(2*block.Size, 3*block.Size, 256)
	check(3*block.Size, 4*block.Size, 257)
}

// TestCompleteCycleGating walks the gate through a mix of fft sizes.
func TestCompleteCycleGating(t *testing.T) {
	a := New()
	a.AddData(constBlock(0))
	if !a.CheckCompleteCycle(32) {
		t.Fatal("expected true")
	}
	a.AddData(constBlock(0))
	if !a.CheckCompleteCycle(block.Size) {
		t.Fatal("expected true")
	}
	a.AddData(constBlock(0))
	if a.CheckCompleteCycle(2 * block.Size) {
		t.Fatal("expected false")
	}
	a.AddData(constBlock(0))
	if !a.CheckCompleteCycle(2 * block.Size) {
		t.Fatal("expected true")
	}
	a.AddData(constBlock(0))
	if a.CheckCompleteCycle(2 * block.Size) {
		t.Fatal("expected false")
	}
}

// TestFrequencyReadoutBaseline: silence in, -Inf bins out, and slots
// past the bin count stay untouched.
func TestFrequencyReadoutBaseline(t *testing.T) {
	a := New()
	a.AddData(constBlock(0))
	fftSize := 4 * block.Size
	a.CalculateFloatFrequency(fftSize, 0.8)

	sentinel := float32(12345)
	out := make([]float32, fftSize)
	for i := range out {
		out[i] = sentinel
	}
	a.GetFloatFrequency(out)

	nbins := fftSize/2 + 1
	for k := 0; k < nbins; k++ {
		if !math.IsInf(float64(out[k]), -1) {
			t.Errorf("bin %d = %v, want -Inf", k, out[k])
		}
	}
	for k := nbins; k < len(out); k++ {
		if out[k] != sentinel {
			t.Errorf("out[%d] = %v, want untouched sentinel %v", k, out[k], sentinel)
		}
	}
}

func TestRingWrapExact(t *testing.T) {
	a := New()
	before := a.ring.writePos
	for i := 0; i < RingBlocks; i++ {
		a.AddData(constBlock(1))
	}
	if a.ring.writePos != before {
		t.Errorf("write index after %d blocks = %d, want %d", RingBlocks, a.ring.writePos, before)
	}
}

func TestBlackmanProperties(t *testing.T) {
	const n = 2048
	w := blackmanWindow(n)
	min, max := w[0], w[0]
	minPos, maxPos := 0, 0
	for i, v := range w {
		if v < min {
			min, minPos = v, i
		}
		if v > max {
			max, maxPos = v, i
		}
	}
	// With alpha = 0.16 the endpoint value is exactly zero in real
	// arithmetic; float rounding leaves a residue on the order of 1e-17,
	// so the lower bound is checked to within that rounding.
	if !(min > -1e-12 && min < 0.01) {
		t.Errorf("min = %v, want ~0 and < 0.01", min)
	}
	if !(max > 0.99 && max <= 1) {
		t.Errorf("max = %v, want in (0.99, 1]", max)
	}
	if minPos != 0 {
		t.Errorf("min position = %d, want 0", minPos)
	}
	if maxPos != n/2 {
		t.Errorf("max position = %d, want %d", maxPos, n/2)
	}
}

func TestAnalyserLinearity(t *testing.T) {
	a := New()
	const fftSize = 4 * block.Size
	amplitude := float32(0.5)
	for i := 0; i < fftSize/block.Size+4; i++ {
		a.AddData(constBlock(amplitude))
	}
	a.CalculateFloatFrequency(fftSize, 0)
	out := make([]float32, fftSize/2+1)
	a.GetFloatFrequency(out)
	// DC bin should carry far more energy than any AC bin for a constant signal.
	for k := 1; k < len(out); k++ {
		if out[k] > out[0] {
			t.Fatalf("bin %d (%v) exceeds DC bin (%v) for a constant input", k, out[k], out[0])
		}
	}
}

// TestRingWrapPropertyRapid generalises TestRingWrapExact across random
// block counts: the write index must return to its starting value every
// RingBlocks calls, never more or less often.
func TestRingWrapPropertyRapid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := New()
		cycles := rapid.IntRange(1, 4).Draw(rt, "cycles")
		start := a.ring.writePos
		for i := 0; i < cycles*RingBlocks; i++ {
			a.AddData(constBlock(0))
			if (i+1)%RingBlocks == 0 && a.ring.writePos != start {
				rt.Fatalf("after %d blocks, writePos = %d, want %d", i+1, a.ring.writePos, start)
			}
		}
	})
}
