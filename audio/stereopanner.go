package audio

import (
	"log/slog"
	"math"

	"github.com/wavegraph/core/internal/graph"
	"github.com/wavegraph/core/internal/param"
)

// StereoPannerNode places its input in the stereo field with an
// equal-power law. Pan is an a-rate parameter in [-1, 1]: -1 is full
// left, +1 full right, 0 center.
type StereoPannerNode struct {
	*Node

	Pan *AudioParam
}

// CreateStereoPanner returns a new StereoPannerNode wired into c's render
// graph, pan centered at 0.
func (c *Context) CreateStereoPanner() (*StereoPannerNode, error) {
	id := c.g.NewNodeID()
	gn := graph.NewNode(id, 1, 1, 2)
	gn.ChannelCountMode = graph.ClampedMax

	panTL := param.New(0, -1, 1)
	gn.Params["pan"] = &graph.ParamSpec{Timeline: panTL, Rate: param.ARate}
	gn.Processor = &stereoPannerProcessor{}

	if err := c.g.AddNode(gn); err != nil {
		return nil, wrapGraphErr(err)
	}

	slog.Debug("stereo panner node created", "node_id", id)
	node := &Node{gnode: gn, g: c.g}
	return &StereoPannerNode{
		Node: node,
		Pan:  &AudioParam{name: "pan", timeline: panTL, node: node},
	}, nil
}

// stereoPannerProcessor applies the equal-power pan law: a mono input is
// placed between the two outputs, a stereo input has the off-side channel
// folded toward the pan direction.
type stereoPannerProcessor struct{}

func (p *stereoPannerProcessor) Process(io *graph.IO) {
	pan := io.Params["pan"]
	in := io.Inputs[0]
	left := io.Outputs[0][0].Data
	right := io.Outputs[0][1].Data

	for i := range left {
		x := pan[0]
		if len(pan) > 1 {
			x = pan[i]
		}
		// A signal summed into the parameter can push it past the
		// timeline's own clamp range.
		if x < -1 {
			x = -1
		} else if x > 1 {
			x = 1
		}

		if len(in) < 2 {
			g := (x + 1) / 2
			s := float64(in[0].Data[i])
			left[i] = float32(s * math.Cos(g*math.Pi/2))
			right[i] = float32(s * math.Sin(g*math.Pi/2))
			continue
		}

		l := float64(in[0].Data[i])
		r := float64(in[1].Data[i])
		if x <= 0 {
			g := x + 1
			left[i] = float32(l + r*math.Cos(g*math.Pi/2))
			right[i] = float32(r * math.Sin(g*math.Pi/2))
		} else {
			left[i] = float32(l * math.Cos(x*math.Pi/2))
			right[i] = float32(r + l*math.Sin(x*math.Pi/2))
		}
	}
}
func (p *stereoPannerProcessor) TailTime() float64 { return 0 }
func (p *stereoPannerProcessor) OnMessage(any)     {}
func (p *stereoPannerProcessor) BreaksCycle() bool { return false }
