package audio

import "github.com/wavegraph/core/internal/graph"

// Node is the control-side handle to one render-graph vertex: its channel
// configuration plus the connect/disconnect surface shared by every node
// type. Concrete node types (OscillatorNode, AnalyserNode,
// StereoPannerNode) embed a *Node; the context's destination is a plain
// *Node.
//
// Channel configuration is fixed at construction time: nothing in this
// repo's node set needs it to change at runtime, and the graph's
// snapshot discipline only defines how *edges* are mutated mid-stream,
// not per-node channel properties, so there is no command to
// mutate it later.
type Node struct {
	gnode *graph.Node
	g     *graph.Graph
}

// ID returns the node's stable numeric identity.
func (n *Node) ID() graph.NodeID { return n.gnode.ID }

// NumberOfInputs returns how many audio inputs this node accepts.
func (n *Node) NumberOfInputs() int { return n.gnode.NumberOfInputs }

// NumberOfOutputs returns how many audio outputs this node produces.
func (n *Node) NumberOfOutputs() int { return n.gnode.NumberOfOutputs }

// ChannelCount returns the explicit channel count used when
// ChannelCountMode is Explicit, or as the cap when ClampedMax.
func (n *Node) ChannelCount() int { return n.gnode.ChannelCount }

// ChannelCountMode returns how the node's effective channel count is
// derived from its connections.
func (n *Node) ChannelCountMode() graph.ChannelCountMode { return n.gnode.ChannelCountMode }

// ChannelInterpretation returns the up/down-mix rule applied to this
// node's inputs.
func (n *Node) ChannelInterpretation() graph.ChannelInterpretation {
	return n.gnode.ChannelInterpretation
}

// Connect wires this node's output 0 to dest's input 0. Connections are a
// multiset: connecting the same pair twice sums both contributions.
func (n *Node) Connect(dest *Node) error {
	return wrapGraphErr(n.g.Connect(n.gnode.ID, 0, dest.gnode.ID, 0))
}

// ConnectOutput wires this node's output index to dest's input index.
func (n *Node) ConnectOutput(output int, dest *Node, input int) error {
	return wrapGraphErr(n.g.Connect(n.gnode.ID, output, dest.gnode.ID, input))
}

// ConnectParam wires this node's output 0 into p, summing sample-for-sample
// into p's automation value.
func (n *Node) ConnectParam(p *AudioParam) error {
	return wrapGraphErr(n.g.ConnectParam(n.gnode.ID, 0, p.node.gnode.ID, p.name))
}

// Disconnect removes every outgoing connection (audio and parameter) from
// this node.
func (n *Node) Disconnect() error {
	return wrapGraphErr(n.g.DisconnectAll(n.gnode.ID))
}

// DisconnectFrom removes every connection from this node to dest
// specifically, leaving connections to any other destination untouched.
func (n *Node) DisconnectFrom(dest *Node) error {
	return wrapGraphErr(n.g.DisconnectFrom(n.gnode.ID, dest.gnode.ID))
}

// destinationProcessor is the context's terminal node: the graph has
// already summed and up/down-mixed every incoming connection into
// io.Inputs[0] before Process runs, so the destination only has to expose
// it as the output the host reads.
type destinationProcessor struct{}

func (destinationProcessor) Process(io *graph.IO) {
	for c, ch := range io.Outputs[0] {
		if c < len(io.Inputs[0]) {
			copy(ch.Data, io.Inputs[0][c].Data)
			continue
		}
		// Output blocks are not zero-initialized on acquire (block.Pool's
		// contract): a channel the input doesn't cover must be cleared
		// explicitly rather than left as whatever the block's previous
		// owner wrote.
		for i := range ch.Data {
			ch.Data[i] = 0
		}
	}
}
func (destinationProcessor) TailTime() float64 { return 0 }
func (destinationProcessor) OnMessage(any) {}
func (destinationProcessor) BreaksCycle() bool { return false }
