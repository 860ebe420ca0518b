// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides in-memory audio sources for tests.
// Sources satisfy audio.Source without importing it, so the audio package
// itself can use them.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates interleaved samples from a waveform function.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // frames to generate
	pos        int // frames generated so far
	waveform   func(frame, channel int) float32

	// FailAfter makes ReadSamples return Err once this many frames were
	// produced. Zero disables failure injection.
	FailAfter int
	Err       error

	Closed bool
}

// NewMockSource creates a source of frames frames with the given waveform.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource creates a source that generates zeros.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewConstantSource(sampleRate, channels, frames, 0)
}

// NewConstantSource creates a source where every sample equals value.
func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 {
		return value
	})
}

// NewSineSource creates a sine wave at frequency Hz on every channel.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewChannelSource gives every channel a distinct constant level:
// channel c carries levels[c].
func NewChannelSource(sampleRate, frames int, levels ...float32) *MockSource {
	return NewMockSource(sampleRate, len(levels), frames, func(_, channel int) float32 {
		return levels[channel]
	})
}

// NewSliceSource replays interleaved samples.
func NewSliceSource(sampleRate, channels int, interleaved []float32) *MockSource {
	return NewMockSource(sampleRate, channels, len(interleaved)/channels, func(frame, channel int) float32 {
		return interleaved[frame*channels+channel]
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() {
	m.pos = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.FailAfter > 0 && m.pos >= m.FailAfter {
		return 0, m.Err
	}
	if m.pos >= m.frames {
		return 0, io.EOF
	}

	count := min(len(dst)/m.channels, m.frames-m.pos)
	if m.FailAfter > 0 {
		count = min(count, m.FailAfter-m.pos)
	}

	for f := range count {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.pos+f, c)
		}
	}
	m.pos += count

	if m.pos >= m.frames {
		return count * m.channels, io.EOF
	}

	return count * m.channels, nil
}
