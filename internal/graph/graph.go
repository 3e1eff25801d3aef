// Package graph implements the render graph: a set of nodes
// connected by multiset edges, mutated on the control thread under
// snapshot discipline and executed in topological order once per render
// block on the render thread.
package graph

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/wavegraph/core/internal/block"
	"github.com/wavegraph/core/internal/bridge"
	"github.com/wavegraph/core/internal/diag"
	"github.com/wavegraph/core/internal/param"
)

// Graph owns every node and connection of one audio context and the block
// pool they render into. The control thread calls AddNode/Connect/etc.,
// which validate synchronously and enqueue the actual mutation; the render
// thread calls RenderBlock once per quantum, which drains that queue,
// reorders if needed, and runs every node's processor in dependency order.
type Graph struct {
	pool       *block.Pool
	sampleRate float64
	diag       *diag.Counters

	cmdQueue *bridge.Queue[Command]

	// nodes, edges, paramEdges, order and dirty are touched only inside
	// RenderBlock (and the Commands it drains), which the caller must
	// invoke from a single render thread — the same single-writer
	// discipline the rest of the engine uses for render-side state.
	nodes      map[NodeID]*Node
	edges      []edge
	paramEdges []paramEdge
	order      []NodeID
	dirty      bool

	destinationID NodeID

	nextID atomic.Uint64

	// idMu guards the control-side shadow used to validate references
	// synchronously, before the corresponding Command has been applied.
	idMu     sync.Mutex
	knownIDs map[NodeID]bool
}

// New returns an empty Graph rendering at sampleRate, drawing blocks from
// pool, and reporting faults through counters.
func New(pool *block.Pool, sampleRate float64, counters *diag.Counters) *Graph {
	g := &Graph{
		pool:       pool,
		sampleRate: sampleRate,
		diag:       counters,
		cmdQueue:   bridge.NewQueue[Command](256),
		nodes:      make(map[NodeID]*Node),
		knownIDs:   make(map[NodeID]bool),
	}
	return g
}

// NewNodeID allocates a fresh, graph-scoped node identity.
func (g *Graph) NewNodeID() NodeID {
	return NodeID(g.nextID.Add(1))
}

func (g *Graph) enqueue(cmd Command) error {
	if err := g.cmdQueue.TrySend(cmd); err != nil {
		if g.diag != nil {
			g.diag.IncQueueFull()
		}
		return err
	}
	return nil
}

// AddNode registers n (which must already have an ID from NewNodeID) and
// schedules it to become render-visible at the next block boundary.
func (g *Graph) AddNode(n *Node) error {
	if n.ID == 0 {
		return fmt.Errorf("%w: node has no ID, call NewNodeID first", ErrInvalidState)
	}

	g.idMu.Lock()
	g.knownIDs[n.ID] = true
	g.idMu.Unlock()

	return g.enqueue(cmdAddNode(n))
}

// RemoveNode retires a node: it stops being render-visible, along with any
// edges touching it, at the next block boundary.
func (g *Graph) RemoveNode(id NodeID) error {
	g.idMu.Lock()
	delete(g.knownIDs, id)
	g.idMu.Unlock()

	return g.enqueue(cmdRemoveNode(id))
}

// SetDestination marks id as the node whose output is delivered to the
// host. It does not itself require a block boundary since it only affects
// what RenderBlock reads out at the end, not how nodes are ordered.
func (g *Graph) SetDestination(id NodeID) {
	g.destinationID = id
}

func (g *Graph) knows(id NodeID) bool {
	g.idMu.Lock()
	defer g.idMu.Unlock()
	return g.knownIDs[id]
}

// Connect schedules an audio connection from (src, srcOutput) to
// (dst, dstInput). Both nodes must already be known to the graph (added,
// even if not yet applied) or this returns invalid_state.
func (g *Graph) Connect(src NodeID, srcOutput int, dst NodeID, dstInput int) error {
	if !g.knows(src) || !g.knows(dst) {
		return fmt.Errorf("%w: connect references a node not in this graph", ErrInvalidState)
	}
	return g.enqueue(cmdConnect(edge{srcNode: src, srcOutput: srcOutput, dstNode: dst, dstInput: dstInput}))
}

// ConnectParam schedules a signal connection from (src, srcOutput) into
// dst's parameter named param, summed into its automation value each
// sample.
func (g *Graph) ConnectParam(src NodeID, srcOutput int, dst NodeID, paramName string) error {
	if !g.knows(src) || !g.knows(dst) {
		return fmt.Errorf("%w: connect_param references a node not in this graph", ErrInvalidState)
	}
	return g.enqueue(cmdConnectParam(paramEdge{srcNode: src, srcOutput: srcOutput, dstNode: dst, dstParam: paramName}))
}

// DisconnectAll schedules the removal of every outgoing connection (audio
// and parameter) from src.
func (g *Graph) DisconnectAll(src NodeID) error {
	return g.enqueue(cmdDisconnectAll(src))
}

// DisconnectFrom schedules the removal of every connection from src to
// dst specifically.
func (g *Graph) DisconnectFrom(src, dst NodeID) error {
	return g.enqueue(cmdDisconnectFrom(src, dst))
}

// computeOrder rebuilds the topological execution order. Edges whose
// source is a BreaksCycle (delay-like) processor are excluded from the
// dependency graph: that node's output for this block does not depend on
// this block's input, so it cannot contribute to a real ordering cycle.
// If a cycle survives after that cut, it is a fatal graph invariant
// violation.
func (g *Graph) computeOrder() error {
	indegree := make(map[NodeID]int, len(g.nodes))
	adj := make(map[NodeID][]NodeID, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = 0
	}

	addDep := func(src, dst NodeID) {
		if _, ok := g.nodes[src]; !ok {
			return
		}
		if _, ok := g.nodes[dst]; !ok {
			return
		}
		adj[src] = append(adj[src], dst)
		indegree[dst]++
	}

	for _, e := range g.edges {
		if src := g.nodes[e.srcNode]; src != nil && src.Processor.BreaksCycle() {
			continue
		}
		addDep(e.srcNode, e.dstNode)
	}
	for _, e := range g.paramEdges {
		if src := g.nodes[e.srcNode]; src != nil && src.Processor.BreaksCycle() {
			continue
		}
		addDep(e.srcNode, e.dstNode)
	}

	var ready []NodeID
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []NodeID
		for _, nb := range adj[id] {
			indegree[nb]--
			if indegree[nb] == 0 {
				unlocked = append(unlocked, nb)
			}
		}
		sort.Slice(unlocked, func(i, j int) bool { return unlocked[i] < unlocked[j] })
		ready = append(ready, unlocked...)
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
	}

	if len(order) != len(g.nodes) {
		return ErrGraphCycle
	}
	g.order = order
	g.dirty = false
	return nil
}

// RenderBlock advances the graph by one render quantum and returns the
// destination node's output, one block per channel. It never returns an
// error: a fatal condition (pool exhaustion, an unbroken cycle) is
// recovered here, at the outermost render-thread frame, counted, and
// answered with silence.
func (g *Graph) RenderBlock(now float64) (out []*block.Block) {
	defer func() {
		if r := recover(); r != nil {
			if g.diag != nil {
				g.diag.IncFatalFallback()
			}
			out = g.silenceOutput()
		}
	}()

	for _, cmd := range g.cmdQueue.Drain() {
		cmd(g)
	}

	if g.dirty {
		if err := g.computeOrder(); err != nil {
			if g.diag != nil {
				g.diag.IncFatalFallback()
			}
			return g.silenceOutput()
		}
	}

	for _, id := range g.order {
		g.processNode(id, now)
	}

	dst := g.nodes[g.destinationID]
	if dst == nil || dst.outputChannels(0) == 0 {
		return g.silenceOutput()
	}
	return dst.lastOutput[0]
}

func (g *Graph) silenceOutput() []*block.Block {
	return []*block.Block{g.pool.Silence()}
}

// processNode gathers one node's inputs by summing and up/down-mixing its
// incoming connections, evaluates its parameters, and runs its processor.
func (g *Graph) processNode(id NodeID, now float64) {
	n := g.nodes[id]
	if n == nil {
		return
	}

	if n.msgQueue != nil {
		for _, m := range n.msgQueue.Drain() {
			n.Processor.OnMessage(m)
		}
	}

	if n.inputScratch == nil {
		n.inputScratch = make([][]*block.Block, n.NumberOfInputs)
		n.inputViews = make([][][]float32, n.NumberOfInputs)
	}

	for i := 0; i < n.NumberOfInputs; i++ {
		widest := 0
		for _, e := range g.edges {
			if e.dstNode != id || e.dstInput != i {
				continue
			}
			if src := g.nodes[e.srcNode]; src != nil {
				if c := src.outputChannels(e.srcOutput); c > widest {
					widest = c
				}
			}
		}
		count := computedChannelCount(n.ChannelCountMode, n.ChannelCount, widest)
		if count == 0 {
			count = 1
		}

		if len(n.inputScratch[i]) != count {
			n.inputScratch[i] = make([]*block.Block, count)
			n.inputViews[i] = make([][]float32, count)
		}
		acc := n.inputScratch[i]
		accData := n.inputViews[i]
		for c := 0; c < count; c++ {
			b := g.pool.Acquire()
			for k := range b.Data {
				b.Data[k] = 0
			}
			acc[c] = b
			accData[c] = b.Data
		}
		for _, e := range g.edges {
			if e.dstNode != id || e.dstInput != i {
				continue
			}
			src := g.nodes[e.srcNode]
			if src == nil || src.outputChannels(e.srcOutput) == 0 {
				continue
			}
			mixChannelsInto(accData, src.lastOutput[e.srcOutput], n.ChannelInterpretation)
		}
	}

	params := g.evaluateParams(n, now)

	if n.lastOutput == nil {
		n.lastOutput = make([][]*block.Block, n.NumberOfOutputs)
	}
	for o := 0; o < n.NumberOfOutputs; o++ {
		for _, b := range n.lastOutput[o] {
			b.Release()
		}
		if len(n.lastOutput[o]) != n.ChannelCount {
			n.lastOutput[o] = make([]*block.Block, n.ChannelCount)
		}
		for c := 0; c < n.ChannelCount; c++ {
			n.lastOutput[o][c] = g.pool.Acquire()
		}
	}

	io := IO{
		Inputs:      n.inputScratch,
		Outputs:     n.lastOutput,
		Params:      params,
		CurrentTime: now,
		SampleRate:  g.sampleRate,
	}
	n.Processor.Process(&io)

	g.updateTail(n)

	for i := 0; i < n.NumberOfInputs; i++ {
		for _, b := range n.inputScratch[i] {
			b.Release()
		}
	}
}

// updateTail tracks whether a nonzero-tail processor (reverb, delay)
// should keep being scheduled after its inputs go silent. The graph
// itself does not stop calling Process early; this bookkeeping exists for
// a future host-side "can this node be retired" query.
func (g *Graph) updateTail(n *Node) {
	tail := n.Processor.TailTime()
	if tail <= 0 {
		return
	}
	silent := true
outer:
	for _, in := range n.inputScratch {
		for _, b := range in {
			for _, s := range b.Data {
				if s != 0 {
					silent = false
					break outer
				}
			}
		}
	}
	if silent {
		n.tailRemaining -= float64(block.Size) / g.sampleRate
	} else {
		n.tailRemaining = tail
	}
}

// evaluateParams computes, for every parameter n owns, its per-sample (or
// per-block) automation value plus any summed signal-edge contribution,
// reusing n's own scratch storage so steady-state evaluation allocates
// nothing.
func (g *Graph) evaluateParams(n *Node, now float64) map[string][]float64 {
	if len(n.Params) == 0 {
		return nil
	}
	if n.paramScratch == nil {
		n.paramScratch = make(map[string][]float64, len(n.Params))
		for name, spec := range n.Params {
			size := 1
			if spec.Rate == param.ARate {
				size = block.Size
			}
			n.paramScratch[name] = make([]float64, size)
		}
	}

	for name, spec := range n.Params {
		out := n.paramScratch[name]
		spec.Timeline.ComputeBlock(now, g.sampleRate, spec.Rate, out)
	}

	for _, e := range g.paramEdges {
		if e.dstNode != n.ID {
			continue
		}
		src := g.nodes[e.srcNode]
		if src == nil || src.outputChannels(e.srcOutput) == 0 {
			continue
		}
		out := n.paramScratch[e.dstParam]
		if out == nil {
			continue
		}
		chans := src.lastOutput[e.srcOutput]
		for i := range out {
			var sum float32
			for _, ch := range chans {
				sum += ch.Data[i]
			}
			out[i] += float64(sum)
		}
	}

	return n.paramScratch
}
