// Package wavdecode implements the one concrete audio.Decoder this repo
// ships: a PCM WAV container parser built on github.com/go-audio/wav, the
// minimal decoder that makes Context.DecodeAudioData's interface real
// without pulling in lossy-codec decode complexity.
package wavdecode

import (
	"bytes"
	"fmt"

	"github.com/go-audio/wav"
)

// Decoder parses a WAV byte stream into per-channel float32 samples
// normalized to [-1, 1], plus the file's sample rate.
type Decoder struct{}

// New returns a ready-to-use Decoder. The zero value also works; New
// exists for symmetry with the rest of the package's constructors.
func New() *Decoder { return &Decoder{} }

// Decode implements the audio.Decoder interface.
func (Decoder) Decode(data []byte) (channels [][]float32, sampleRate float64, err error) {
	r := bytes.NewReader(data)
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("wavdecode: not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("wavdecode: %w", err)
	}

	numChans := buf.Format.NumChannels
	if numChans < 1 {
		return nil, 0, fmt.Errorf("wavdecode: invalid channel count %d", numChans)
	}
	sampleRate = float64(buf.Format.SampleRate)

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	fullScale := float32(int(1) << uint(bitDepth-1))

	frames := len(buf.Data) / numChans
	channels = make([][]float32, numChans)
	for c := range channels {
		channels[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			channels[c][i] = float32(buf.Data[i*numChans+c]) / fullScale
		}
	}
	return channels, sampleRate, nil
}
