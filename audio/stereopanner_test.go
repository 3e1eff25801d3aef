package audio

import (
	"math"
	"testing"

	"github.com/wavegraph/core/internal/graph"
)

// toneProcessor emits a fixed value on every sample, standing in for a
// live source so pan gains can be checked against known amplitudes.
type toneProcessor struct{ value float32 }

func (p *toneProcessor) Process(io *graph.IO) {
	for _, ch := range io.Outputs[0] {
		for i := range ch.Data {
			ch.Data[i] = p.value
		}
	}
}
func (p *toneProcessor) TailTime() float64 { return 0 }
func (p *toneProcessor) OnMessage(any)     {}
func (p *toneProcessor) BreaksCycle() bool { return false }

func newTone(t *testing.T, c *Context, value float32) graph.NodeID {
	t.Helper()
	id := c.NewNodeID()
	gn := graph.NewNode(id, 0, 1, 1)
	gn.ChannelCountMode = graph.Explicit
	gn.Processor = &toneProcessor{value: value}
	if err := c.Graph().AddNode(gn); err != nil {
		t.Fatal(err)
	}
	return id
}

func TestStereoPannerFullLeft(t *testing.T) {
	c := New(Options{SampleRate: 48000, PoolCapacity: 64})
	srcID := newTone(t, c, 1)

	p, err := c.CreateStereoPanner()
	if err != nil {
		t.Fatal(err)
	}
	p.Pan.SetValue(-1)
	if err := c.Graph().Connect(srcID, 0, p.ID(), 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Connect(c.Destination()); err != nil {
		t.Fatal(err)
	}

	out := c.RenderBlock(0)
	if len(out) != 2 {
		t.Fatalf("got %d output channels, want 2", len(out))
	}
	for i := range out[0].Data {
		if math.Abs(float64(out[0].Data[i])-1) > 1e-6 {
			t.Fatalf("left sample %d = %v, want 1", i, out[0].Data[i])
		}
		if math.Abs(float64(out[1].Data[i])) > 1e-6 {
			t.Fatalf("right sample %d = %v, want 0", i, out[1].Data[i])
		}
	}
}

func TestStereoPannerCenterEqualPower(t *testing.T) {
	c := New(Options{SampleRate: 48000, PoolCapacity: 64})
	srcID := newTone(t, c, 1)

	p, err := c.CreateStereoPanner()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Graph().Connect(srcID, 0, p.ID(), 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Connect(c.Destination()); err != nil {
		t.Fatal(err)
	}

	out := c.RenderBlock(0)
	want := math.Cos(math.Pi / 4) // == sin(pi/4): both sides at equal power
	for i := range out[0].Data {
		if math.Abs(float64(out[0].Data[i])-want) > 1e-6 {
			t.Fatalf("left sample %d = %v, want %v", i, out[0].Data[i], want)
		}
		if math.Abs(float64(out[1].Data[i])-want) > 1e-6 {
			t.Fatalf("right sample %d = %v, want %v", i, out[1].Data[i], want)
		}
	}
}

func TestStereoPannerPanClamped(t *testing.T) {
	c := New(Options{})
	p, err := c.CreateStereoPanner()
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Pan.MinValue(); got != -1 {
		t.Errorf("pan min = %v, want -1", got)
	}
	if got := p.Pan.MaxValue(); got != 1 {
		t.Errorf("pan max = %v, want 1", got)
	}
}
