package audio

import "fmt"

// Decoder parses an encoded audio byte stream into per-channel float32
// samples normalized to [-1, 1], plus the stream's sample rate.
// internal/wavdecode ships the one concrete implementation this repo
// registers by default; codec work belongs to external collaborators, and
// this interface is that boundary.
type Decoder interface {
	Decode(data []byte) (channels [][]float32, sampleRate float64, err error)
}

// AudioBuffer is the decoded result of Context.DecodeAudioData: one slice
// of samples per channel, all the same length.
type AudioBuffer struct {
	Channels   [][]float32
	SampleRate float64
}

// NumberOfChannels returns how many channels the buffer holds.
func (b *AudioBuffer) NumberOfChannels() int { return len(b.Channels) }

// Length returns the number of samples per channel.
func (b *AudioBuffer) Length() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// DecodeAudioData decodes data using the Decoder registered for format
// (e.g. "wav"). An unregistered format returns ErrNotSupported.
func (c *Context) DecodeAudioData(data []byte, format string) (*AudioBuffer, error) {
	dec, ok := c.decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: decode format %q", ErrNotSupported, format)
	}
	channels, sampleRate, err := dec.Decode(data)
	if err != nil {
		return nil, err
	}
	return &AudioBuffer{Channels: channels, SampleRate: sampleRate}, nil
}

// RegisterDecoder adds or replaces the Decoder used for format.
func (c *Context) RegisterDecoder(format string, dec Decoder) {
	c.decoders[format] = dec
}
