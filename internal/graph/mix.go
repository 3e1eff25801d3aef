package graph

import "github.com/wavegraph/core/internal/block"

// edge is a connection from (srcNode, srcOutput) to (dstNode, dstInput).
// Edges are a multiset: two identical edges simply appear twice and their
// contributions are summed at render time.
type edge struct {
	srcNode   NodeID
	srcOutput int
	dstNode   NodeID
	dstInput  int
}

// paramEdge is a connection from (srcNode, srcOutput) into dstNode's
// dstParam, summed sample-for-sample into that parameter's automation
// value. A multichannel source is mixed down to mono (summed across
// channels) before being added, since an AudioParam accepts one scalar
// stream per sample.
type paramEdge struct {
	srcNode   NodeID
	srcOutput int
	dstNode   NodeID
	dstParam  string
}

// computedChannelCount resolves how many channels a node's input should
// be mixed to, given the widest channel count among its incoming edges.
func computedChannelCount(mode ChannelCountMode, explicit, widestConnected int) int {
	switch mode {
	case Explicit:
		return explicit
	case ClampedMax:
		if widestConnected > explicit {
			return explicit
		}
		return widestConnected
	default: // Max
		return widestConnected
	}
}

// mixChannelsInto adds src (an up/down-mixed view of a source's channel
// data) into dst, which must already hold the accumulator for one input.
// interpretation selects the mixing rule; only mono<->stereo has a real
// WebAudio-style matrix here, everything else falls back to the discrete
// copy/zero/truncate rule, since no kernel in this engine emits more than
// two channels.
func mixChannelsInto(dst [][]float32, src []*block.Block, interpretation ChannelInterpretation) {
	srcN := len(src)
	dstN := len(dst)

	if interpretation == Speakers && srcN == 1 && dstN == 2 {
		for i := range dst[0] {
			dst[0][i] += src[0].Data[i]
			dst[1][i] += src[0].Data[i]
		}
		return
	}
	if interpretation == Speakers && srcN == 2 && dstN == 1 {
		for i := range dst[0] {
			dst[0][i] += 0.5 * (src[0].Data[i] + src[1].Data[i])
		}
		return
	}

	// Discrete (or an unmodelled speaker layout): copy channel i onto
	// channel i, leaving channels beyond srcN untouched (they stay
	// whatever silence/previous-sum the accumulator already holds).
	n := srcN
	if dstN < n {
		n = dstN
	}
	for c := 0; c < n; c++ {
		for i := range dst[c] {
			dst[c][i] += src[c].Data[i]
		}
	}
}
