// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
)

// ChannelSelector turns an interleaved source into mono by keeping a single
// channel verbatim. The other channels are discarded, not mixed in.
type ChannelSelector struct {
	src     Source
	channel int
	tmp     []float32
}

// NewChannelSelector keeps channel (0-based) of src.
func NewChannelSelector(src Source, channel int) (*ChannelSelector, error) {
	if channel < 0 || channel >= src.Channels() {
		return nil, fmt.Errorf("%w: channel %d of %d", ErrChannelOutOfRange, channel, src.Channels())
	}

	return &ChannelSelector{
		src:     src,
		channel: channel,
	}, nil
}

func (s *ChannelSelector) SampleRate() int { return s.src.SampleRate() }
func (s *ChannelSelector) Channels() int   { return 1 }
func (s *ChannelSelector) BufSize() int    { return s.src.BufSize() }

func (s *ChannelSelector) Close() error {
	if err := s.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// ReadSamples writes up to len(dst) mono samples.
func (s *ChannelSelector) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := s.src.Channels()
	if channels == 1 {
		return s.src.ReadSamples(dst)
	}

	needed := len(dst) * channels
	if cap(s.tmp) < needed {
		s.tmp = make([]float32, max(needed, 8192))
	}
	s.tmp = s.tmp[:needed]

	n, err := s.src.ReadSamples(s.tmp)
	frames := n / channels
	for f := range frames {
		dst[f] = s.tmp[f*channels+s.channel]
	}

	return frames, err
}
