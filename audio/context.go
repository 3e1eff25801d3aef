// Package audio is the control-side root of the engine: Context,
// AudioNode, AudioParam, and the OscillatorNode/AnalyserNode surface an
// application builds graphs with. It composes the internal/ render-side packages
// (block, param, schedule, bridge, graph, osc, analyser) without itself
// doing any render-thread work beyond the thin per-block processors each
// node type installs into the graph.
package audio

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/wavegraph/core/internal/block"
	"github.com/wavegraph/core/internal/diag"
	"github.com/wavegraph/core/internal/graph"
	"github.com/wavegraph/core/internal/wavdecode"
)

// Options configures a Context. The zero value is valid; New fills in
// defaults.
type Options struct {
	// SampleRate is the render sample rate in Hz. Defaults to 48000.
	SampleRate float64
	// Latency is a hint to whatever host adapter opens the output stream;
	// the core itself does not act on it.
	Latency time.Duration
	// PoolCapacity is the number of simultaneously live sample blocks to
	// pre-allocate. Defaults to 256, enough headroom for a graph with a
	// few dozen nodes and connections at K=128 before any heap activity
	// would be needed on the render thread.
	PoolCapacity int
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = 48000
	}
	if o.PoolCapacity <= 0 {
		o.PoolCapacity = 256
	}
	return o
}

// Context owns one render graph, its block pool, and the decoders,
// diagnostics, and node factories exposed to application code. It is the
// control surface's root object and also the render driver: it satisfies
// internal/hostaudio.Renderer, so it can be driven directly by a host
// audio callback adapter.
type Context struct {
	g          *graph.Graph
	pool       *block.Pool
	diag       *diag.Counters
	sampleRate float64

	destination *Node
	listener    *Listener

	decoders map[string]Decoder

	now    atomic.Uint64 // math.Float64bits of the last rendered block's start time
	closed atomic.Bool
}

// New returns a Context with a destination node already created and set,
// ready for CreateOscillator/CreateAnalyser/DecodeAudioData calls.
func New(opts Options) *Context {
	opts = opts.withDefaults()

	counters := &diag.Counters{}
	pool := block.New(opts.PoolCapacity)
	g := graph.New(pool, opts.SampleRate, counters)

	c := &Context{
		g:          g,
		pool:       pool,
		diag:       counters,
		sampleRate: opts.SampleRate,
		listener:   newListener(),
		decoders:   map[string]Decoder{"wav": wavdecode.New()},
	}

	dstID := g.NewNodeID()
	dst := graph.NewNode(dstID, 1, 1, 2)
	// Explicit stereo: a mono source reaching the destination is up-mixed
	// to both output channels rather than leaving the right channel dead.
	dst.ChannelCountMode = graph.Explicit
	dst.Processor = destinationProcessor{}
	if err := g.AddNode(dst); err != nil {
		// Cannot happen: dstID was just minted by this same graph.
		panic(fmt.Sprintf("audio: failed to add destination node: %v", err))
	}
	g.SetDestination(dstID)
	c.destination = &Node{gnode: dst, g: g}

	slog.Debug("audio context created", "sample_rate", opts.SampleRate, "pool_capacity", opts.PoolCapacity)
	return c
}

// Destination returns the context's terminal node: whatever reaches it is
// delivered to the host audio callback.
func (c *Context) Destination() *Node { return c.destination }

// Listener returns the context's single listener.
func (c *Context) Listener() *Listener { return c.listener }

// SampleRate returns the context's fixed render sample rate in Hz.
func (c *Context) SampleRate() float64 { return c.sampleRate }

// CurrentTime returns the start time, in seconds, of the most recently
// rendered block. Safe to call from the control thread while the render
// thread concurrently calls RenderBlock.
func (c *Context) CurrentTime() float64 {
	return math.Float64frombits(c.now.Load())
}

// RenderBlock advances the render graph by one quantum at time now and
// returns the destination's output, one block per channel. It satisfies
// internal/hostaudio.Renderer.
func (c *Context) RenderBlock(now float64) []*block.Block {
	c.now.Store(math.Float64bits(now))
	return c.g.RenderBlock(now)
}

// Diagnostics returns a point-in-time snapshot of the render thread's
// fault counters (dropped blocks, fatal fallbacks, full message queues).
// The render thread reports trouble through these counters instead of
// returning errors at sample granularity.
func (c *Context) Diagnostics() diag.Snapshot {
	return c.diag.Snapshot()
}

// Close marks the context closed. There is no teardown handshake to wait
// on: the render thread has no suspension points, so releasing the
// context's last reference is sufficient for its graph and pool to become
// garbage.
func (c *Context) Close() error {
	c.closed.Store(true)
	slog.Debug("audio context closed", "diagnostics", c.diag.Snapshot())
	return nil
}

// Closed reports whether Close has been called.
func (c *Context) Closed() bool { return c.closed.Load() }

// NewNodeID allocates a fresh node identity scoped to this context's
// graph, for callers building custom node types directly against
// internal/graph (the host adapter and tests use this; application code
// normally goes through CreateOscillator/CreateAnalyser instead).
func (c *Context) NewNodeID() graph.NodeID { return c.g.NewNodeID() }

// Graph returns the underlying render graph, for host adapters and test
// harnesses that need to add custom node types the control surface above
// does not wrap.
func (c *Context) Graph() *graph.Graph { return c.g }
