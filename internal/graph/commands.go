package graph

// Command is one deferred graph mutation: add/remove a node, connect or
// disconnect an edge. The control thread builds these through Graph's
// methods and never runs one directly; RenderBlock drains and applies the
// whole backlog, in order, once per block, which is what makes "add node,
// connect, disconnect" atomic from the render thread's point of view.
type Command func(g *Graph)

func cmdAddNode(n *Node) Command {
	return func(g *Graph) {
		g.nodes[n.ID] = n
		g.dirty = true
	}
}

func cmdRemoveNode(id NodeID) Command {
	return func(g *Graph) {
		delete(g.nodes, id)
		g.edges = filterEdges(g.edges, id)
		g.paramEdges = filterParamEdges(g.paramEdges, id)
		g.dirty = true
	}
}

func cmdConnect(e edge) Command {
	return func(g *Graph) {
		g.edges = append(g.edges, e)
		g.dirty = true
	}
}

func cmdConnectParam(e paramEdge) Command {
	return func(g *Graph) {
		g.paramEdges = append(g.paramEdges, e)
		g.dirty = true
	}
}

func cmdDisconnectAll(src NodeID) Command {
	return func(g *Graph) {
		kept := g.edges[:0]
		for _, e := range g.edges {
			if e.srcNode != src {
				kept = append(kept, e)
			}
		}
		g.edges = kept
		keptP := g.paramEdges[:0]
		for _, e := range g.paramEdges {
			if e.srcNode != src {
				keptP = append(keptP, e)
			}
		}
		g.paramEdges = keptP
		g.dirty = true
	}
}

func cmdDisconnectFrom(src, dst NodeID) Command {
	return func(g *Graph) {
		kept := g.edges[:0]
		for _, e := range g.edges {
			if !(e.srcNode == src && e.dstNode == dst) {
				kept = append(kept, e)
			}
		}
		g.edges = kept
		keptP := g.paramEdges[:0]
		for _, e := range g.paramEdges {
			if !(e.srcNode == src && e.dstNode == dst) {
				keptP = append(keptP, e)
			}
		}
		g.paramEdges = keptP
		g.dirty = true
	}
}

func filterEdges(edges []edge, id NodeID) []edge {
	kept := edges[:0]
	for _, e := range edges {
		if e.srcNode != id && e.dstNode != id {
			kept = append(kept, e)
		}
	}
	return kept
}

func filterParamEdges(edges []paramEdge, id NodeID) []paramEdge {
	kept := edges[:0]
	for _, e := range edges {
		if e.srcNode != id && e.dstNode != id {
			kept = append(kept, e)
		}
	}
	return kept
}
