package graph

import (
	"github.com/wavegraph/core/internal/block"
	"github.com/wavegraph/core/internal/bridge"
	"github.com/wavegraph/core/internal/param"
)

// NodeID is a node's stable numeric identity, a monotonic counter
// assigned by the graph.
type NodeID uint64

// ChannelCountMode controls how a node's effective channel count is derived
// from its connections.
type ChannelCountMode int

const (
	// Max uses the largest channel count among all connected inputs.
	Max ChannelCountMode = iota
	// ClampedMax uses the largest connected count, capped at ChannelCount.
	ClampedMax
	// Explicit always uses ChannelCount, regardless of what is connected.
	Explicit
)

// ChannelInterpretation selects the up/down-mix rule applied when summing
// connections into a node's input.
type ChannelInterpretation int

const (
	// Speakers applies the (simplified) mono/stereo WebAudio mixing matrix.
	Speakers ChannelInterpretation = iota
	// Discrete copies channel i to channel i, zero-filling or truncating.
	Discrete
)

// IO is the bundle a processor reads from and writes to during one block.
// Inputs and Outputs are indexed [input/output index][channel]; every block
// therein is on loan for the duration of the call only.
type IO struct {
	Inputs      [][]*block.Block
	Outputs     [][]*block.Block
	Params      map[string][]float64
	CurrentTime float64
	SampleRate  float64
}

// Processor is the render-side half of a node: pure per-block signal
// processing plus the two capabilities the graph needs to schedule it
// correctly. Implementations must not allocate, lock, or block.
type Processor interface {
	// Process consumes io.Inputs and io.Params and fills io.Outputs.
	Process(io *IO)
	// TailTime reports how long (in seconds) this processor continues to
	// produce meaningful output after its inputs go silent. Zero for
	// memoryless processors (oscillators, gains).
	TailTime() float64
	// OnMessage is called once per block, before Process, for every
	// message the control side queued for this node since the last call.
	OnMessage(msg any)
	// BreaksCycle reports whether this node's output for block n can be
	// computed independently of its own input for block n (true only for
	// delay-like processors). A true value lets the topological sort cut
	// feedback loops through this node rather than report a fatal cycle.
	BreaksCycle() bool
}

// ParamSpec describes one audio parameter a node owns.
type ParamSpec struct {
	Timeline *param.Timeline
	Rate     param.Rate
}

// Node is a graph vertex: identity, channel configuration, owned
// parameters, and the render-side Processor. The control thread builds
// Nodes and submits them via Command; only the render thread (inside
// Graph.RenderBlock) ever touches lastOutput or tailRemaining.
type Node struct {
	ID   NodeID
	Name string // for diagnostics only

	NumberOfInputs  int
	NumberOfOutputs int

	ChannelCount          int
	ChannelCountMode      ChannelCountMode
	ChannelInterpretation ChannelInterpretation

	Params map[string]*ParamSpec

	Processor Processor

	msgQueue *bridge.Queue[any] // control-to-render messages for this node

	lastOutput    [][]*block.Block     // per output index, per channel
	inputScratch  [][]*block.Block     // per input index, per channel; reused across blocks
	inputViews    [][][]float32        // data views over inputScratch, reused across blocks
	paramScratch  map[string][]float64 // reused across blocks
	tailRemaining float64              // seconds of tail time left after input went silent
}

// NewNode returns a Node ready for Graph.AddNode, with its message queue
// provisioned.
func NewNode(id NodeID, inputs, outputs, channelCount int) *Node {
	return &Node{
		ID:                    id,
		NumberOfInputs:        inputs,
		NumberOfOutputs:       outputs,
		ChannelCount:          channelCount,
		ChannelCountMode:      Max,
		ChannelInterpretation: Speakers,
		Params:                make(map[string]*ParamSpec),
		msgQueue:              bridge.NewQueue[any](8),
	}
}

// SendMessage enqueues msg for delivery to this node's Processor.OnMessage
// at the top of its next Process call. Non-blocking; returns
// bridge.ErrQueueFull if the node's queue is saturated.
func (n *Node) SendMessage(msg any) error {
	return n.msgQueue.TrySend(msg)
}

// outputChannels returns the channel count this node currently emits on
// output index o, or 0 if it has not produced one yet.
func (n *Node) outputChannels(o int) int {
	if o >= len(n.lastOutput) || n.lastOutput[o] == nil {
		return 0
	}
	return len(n.lastOutput[o])
}
