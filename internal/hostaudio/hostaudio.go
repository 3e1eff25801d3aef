// Package hostaudio is the reference implementation of the audio callback
// contract: it drives a render graph from a live PortAudio output stream,
// through PortAudio's callback mode rather than blocking reads/writes,
// since the contract here is "the host calls us," not "we poll a device."
package hostaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/wavegraph/core/internal/block"
	"github.com/wavegraph/core/internal/diag"
)

// Renderer is the render-graph collaborator this adapter drives. It is
// satisfied by *graph.Graph.
type Renderer interface {
	RenderBlock(now float64) []*block.Block
}

// RenderWithDeadline runs renderer.RenderBlock on its own goroutine and
// returns its result only if ctx has not expired by the time it finishes.
// This is the seam the deadline-miss behavior of the audio callback
// contract is tested through: no wall-clock audio hardware is needed, a
// context with a short timeout and a deliberately slow Renderer stand in
// for a real missed deadline.
func RenderWithDeadline(ctx context.Context, renderer Renderer, now float64) ([]*block.Block, bool) {
	done := make(chan []*block.Block, 1)
	go func() { done <- renderer.RenderBlock(now) }()
	select {
	case blocks := <-done:
		return blocks, true
	case <-ctx.Done():
		return nil, false
	}
}

// Stream drives a Renderer from a live PortAudio output stream opened at a
// frames-per-buffer that is a multiple of the render quantum K, asserting
// the callback contract's "frame_count % K == 0" precondition at open time
// rather than on every callback.
type Stream struct {
	pa       *portaudio.Stream
	renderer Renderer
	diag     *diag.Counters

	sampleRate  float64
	channels    int
	sampleCount uint64
}

// Open starts (but does not yet play) a PortAudio output stream on the
// default output device.
func Open(renderer Renderer, counters *diag.Counters, sampleRate float64, channels, framesPerBuffer int) (*Stream, error) {
	if framesPerBuffer%block.Size != 0 {
		return nil, fmt.Errorf("hostaudio: frames_per_buffer %d is not a multiple of the render quantum %d", framesPerBuffer, block.Size)
	}

	outDev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, err
	}

	s := &Stream{renderer: renderer, diag: counters, sampleRate: sampleRate, channels: channels}
	params := portaudio.StreamParameters{
		Output: portaudio.StreamDeviceParameters{
			Device:   outDev,
			Channels: channels,
			Latency:  outDev.DefaultLowOutputLatency,
		},
		SampleRate:      sampleRate,
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, s.callback)
	if err != nil {
		return nil, err
	}
	s.pa = stream
	return s, nil
}

// Start begins playback.
func (s *Stream) Start() error { return s.pa.Start() }

// Close stops and releases the underlying PortAudio stream. Stop comes
// first so no callback is in-flight when the native stream is freed.
func (s *Stream) Close() error {
	if err := s.pa.Stop(); err != nil {
		return err
	}
	return s.pa.Close()
}

// deadline is the wall-clock budget for one render quantum.
func (s *Stream) deadline() time.Duration {
	return time.Duration(float64(block.Size) / s.sampleRate * float64(time.Second))
}

// callback is PortAudio's per-buffer entry point. out is interleaved,
// len(out) == framesPerBuffer*channels.
func (s *Stream) callback(out []float32) {
	frames := len(out) / s.channels
	for pos := 0; pos < frames; pos += block.Size {
		now := float64(s.sampleCount) / s.sampleRate
		s.sampleCount += block.Size

		ctx, cancel := context.WithTimeout(context.Background(), s.deadline())
		blocks, ok := RenderWithDeadline(ctx, s.renderer, now)
		cancel()

		if !ok {
			if s.diag != nil {
				s.diag.IncDroppedBlock()
			}
			for i := 0; i < block.Size; i++ {
				for c := 0; c < s.channels; c++ {
					out[(pos+i)*s.channels+c] = 0
				}
			}
			continue
		}
		for i := 0; i < block.Size; i++ {
			for c := 0; c < s.channels; c++ {
				ch := blocks[c%len(blocks)]
				out[(pos+i)*s.channels+c] = ch.Data[i]
			}
		}
	}
}
