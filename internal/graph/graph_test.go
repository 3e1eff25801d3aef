package graph

import (
	"testing"

	"github.com/wavegraph/core/internal/block"
	"github.com/wavegraph/core/internal/diag"
	"github.com/wavegraph/core/internal/param"
)

const sampleRate = 48000.0

// constSource emits a fixed value on every sample of its single output.
type constSource struct{ value float32 }

func (p *constSource) Process(io *IO) {
	for _, ch := range io.Outputs[0] {
		for i := range ch.Data {
			ch.Data[i] = p.value
		}
	}
}
func (p *constSource) TailTime() float64 { return 0 }
func (p *constSource) OnMessage(any) {}
func (p *constSource) BreaksCycle() bool { return false }

// passthrough copies its single input straight to its single output,
// channel for channel.
type passthrough struct{}

func (p *passthrough) Process(io *IO) {
	for c, ch := range io.Outputs[0] {
		if c < len(io.Inputs[0]) {
			copy(ch.Data, io.Inputs[0][c].Data)
		}
	}
}
func (p *passthrough) TailTime() float64 { return 0 }
func (p *passthrough) OnMessage(any) {}
func (p *passthrough) BreaksCycle() bool { return false }

// delayStub stands in for a real delay node: BreaksCycle is true, and it
// just forwards its input to its output with no actual delay, since these
// tests only need its topology-cutting effect, not its DSP.
type delayStub struct{ passthrough }

func (p *delayStub) BreaksCycle() bool { return true }

// gainByParam multiplies its input by a "gain" parameter.
type gainByParam struct{}

func (p *gainByParam) Process(io *IO) {
	g := io.Params["gain"]
	for c, ch := range io.Outputs[0] {
		in := io.Inputs[0][c].Data
		for i := range ch.Data {
			gv := g[0]
			if len(g) > 1 {
				gv = g[i]
			}
			ch.Data[i] = in[i] * float32(gv)
		}
	}
}
func (p *gainByParam) TailTime() float64 { return 0 }
func (p *gainByParam) OnMessage(any) {}
func (p *gainByParam) BreaksCycle() bool { return false }

func mustRenderOnce(t *testing.T, g *Graph) []*block.Block {
	t.Helper()
	out := g.RenderBlock(0)
	// RenderBlock drains and applies every queued mutation before it
	// processes any node, so one render already reflects all mutations
	// enqueued before the call.
	return out
}

func TestSilenceWhenNoDestinationConnected(t *testing.T) {
	pool := block.New(16)
	g := New(pool, sampleRate, &diag.Counters{})

	dstID := g.NewNodeID()
	dst := NewNode(dstID, 1, 1, 1)
	dst.ChannelCountMode = Explicit
	dst.Processor = &passthrough{}
	if err := g.AddNode(dst); err != nil {
		t.Fatal(err)
	}
	g.SetDestination(dstID)

	out := mustRenderOnce(t, g)
	for _, b := range out {
		for i, s := range b.Data {
			if s != 0 {
				t.Fatalf("sample %d = %v, want 0", i, s)
			}
		}
	}
}

func TestTwoSourcesSumIntoDestination(t *testing.T) {
	pool := block.New(16)
	g := New(pool, sampleRate, &diag.Counters{})

	aID, bID, dstID := g.NewNodeID(), g.NewNodeID(), g.NewNodeID()
	a := NewNode(aID, 0, 1, 1)
	a.Processor = &constSource{value: 1}
	b := NewNode(bID, 0, 1, 1)
	b.Processor = &constSource{value: 2}
	dst := NewNode(dstID, 1, 1, 1)
	dst.ChannelCountMode = Explicit
	dst.ChannelInterpretation = Discrete
	dst.Processor = &passthrough{}

	for _, n := range []*Node{a, b, dst} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(aID, 0, dstID, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(bID, 0, dstID, 0); err != nil {
		t.Fatal(err)
	}
	g.SetDestination(dstID)

	out := mustRenderOnce(t, g)
	for i, s := range out[0].Data {
		if s != 3 {
			t.Fatalf("sample %d = %v, want 3", i, s)
		}
	}
}

func TestParamEdgeSumsIntoGain(t *testing.T) {
	pool := block.New(16)
	g := New(pool, sampleRate, &diag.Counters{})

	srcID, gainSrcID, nodeID := g.NewNodeID(), g.NewNodeID(), g.NewNodeID()
	src := NewNode(srcID, 0, 1, 1)
	src.Processor = &constSource{value: 10}
	gainSrc := NewNode(gainSrcID, 0, 1, 1)
	gainSrc.Processor = &constSource{value: 0.5}

	n := NewNode(nodeID, 1, 1, 1)
	n.ChannelCountMode = Explicit
	n.Processor = &gainByParam{}
	n.Params["gain"] = &ParamSpec{Timeline: param.New(0.2, 0, 10), Rate: param.KRate}

	for _, nd := range []*Node{src, gainSrc, n} {
		if err := g.AddNode(nd); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(srcID, 0, nodeID, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.ConnectParam(gainSrcID, 0, nodeID, "gain"); err != nil {
		t.Fatal(err)
	}
	g.SetDestination(nodeID)

	out := mustRenderOnce(t, g)
	// gain = intrinsic(0.2) + connected signal(0.5) = 0.7; input = 10.
	want := float32(10 * 0.7)
	for i, s := range out[0].Data {
		if diff := s - want; diff > 1e-4 || diff < -1e-4 {
			t.Fatalf("sample %d = %v, want %v", i, s, want)
		}
	}
}

func TestUnbrokenCycleIsFatal(t *testing.T) {
	pool := block.New(16)
	counters := &diag.Counters{}
	g := New(pool, sampleRate, counters)

	aID, bID := g.NewNodeID(), g.NewNodeID()
	a := NewNode(aID, 1, 1, 1)
	a.Processor = &passthrough{}
	b := NewNode(bID, 1, 1, 1)
	b.Processor = &passthrough{}
	for _, n := range []*Node{a, b} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(aID, 0, bID, 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(bID, 0, aID, 0); err != nil {
		t.Fatal(err)
	}
	g.SetDestination(bID)

	_ = mustRenderOnce(t, g)
	if counters.Snapshot().FatalFallbacks == 0 {
		t.Fatal("expected an unbroken cycle to count as a fatal fallback")
	}
}

func TestDelayBreaksCycle(t *testing.T) {
	pool := block.New(16)
	counters := &diag.Counters{}
	g := New(pool, sampleRate, counters)

	srcID, delayID := g.NewNodeID(), g.NewNodeID()
	src := NewNode(srcID, 1, 1, 1)
	src.Processor = &passthrough{}
	delay := NewNode(delayID, 1, 1, 1)
	delay.Processor = &delayStub{}

	for _, n := range []*Node{src, delay} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(srcID, 0, delayID, 0); err != nil {
		t.Fatal(err)
	}
	// Feedback: delay's output back into src's input closes the loop, but
	// since delay.BreaksCycle() is true this must not be a fatal cycle.
	if err := g.Connect(delayID, 0, srcID, 0); err != nil {
		t.Fatal(err)
	}
	g.SetDestination(delayID)

	_ = mustRenderOnce(t, g)
	if counters.Snapshot().FatalFallbacks != 0 {
		t.Fatalf("delay-broken cycle should not be fatal, got %+v", counters.Snapshot())
	}
}

func TestUnknownNodeReferenceIsInvalidState(t *testing.T) {
	pool := block.New(16)
	g := New(pool, sampleRate, &diag.Counters{})
	err := g.Connect(NodeID(999), 0, NodeID(998), 0)
	if err == nil {
		t.Fatal("expected an error connecting unknown node IDs")
	}
}

func TestPoolExhaustionFallsBackToSilenceFatal(t *testing.T) {
	pool := block.New(1) // deliberately undersized for a 2-output-block graph
	counters := &diag.Counters{}
	g := New(pool, sampleRate, counters)

	aID, bID, dstID := g.NewNodeID(), g.NewNodeID(), g.NewNodeID()
	a := NewNode(aID, 0, 1, 1)
	a.Processor = &constSource{value: 1}
	b := NewNode(bID, 0, 1, 1)
	b.Processor = &constSource{value: 1}
	dst := NewNode(dstID, 1, 1, 1)
	dst.ChannelCountMode = Explicit
	dst.Processor = &passthrough{}
	for _, n := range []*Node{a, b, dst} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	_ = g.Connect(aID, 0, dstID, 0)
	_ = g.Connect(bID, 0, dstID, 0)
	g.SetDestination(dstID)

	_ = mustRenderOnce(t, g)
	if counters.Snapshot().FatalFallbacks == 0 {
		t.Fatal("expected pool exhaustion to be recovered as a fatal fallback")
	}
}
