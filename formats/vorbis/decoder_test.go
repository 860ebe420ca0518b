// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/ik5/ecdc/audio"
)

// mockOggReader hands out interleaved values, at most chunk per read and
// always whole frames, like oggvorbis.Reader.
type mockOggReader struct {
	sampleRate int
	channels   int
	values     []float32
	chunk      int
	err        error
}

func (m *mockOggReader) SampleRate() int { return m.sampleRate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	if len(m.values) == 0 {
		if m.err != nil {
			return 0, m.err
		}
		return 0, io.EOF
	}

	n := min(len(p), m.chunk, len(m.values))
	n -= n % m.channels
	copy(p, m.values[:n])
	m.values = m.values[n:]

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not Ogg Vorbis data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) error = nil, want error", data)
		}
	}
}

func TestSource_ReadsValuesNotFrames(t *testing.T) {
	t.Parallel()

	values := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3, 0.4, -0.4}
	src := &source{dec: &mockOggReader{sampleRate: 48000, channels: 2, values: slices.Clone(values), chunk: 4}}

	if src.SampleRate() != 48000 || src.Channels() != 2 {
		t.Errorf("format = %d Hz / %d ch", src.SampleRate(), src.Channels())
	}

	got, err := audio.ReadAll(src, 6)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !slices.Equal(got, values) {
		t.Errorf("ReadAll() = %v, want %v", got, values)
	}
}

func TestSource_TrimsToWholeFrames(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggReader{sampleRate: 8000, channels: 3, values: make([]float32, 30), chunk: 100}}

	n, err := src.ReadSamples(make([]float32, 7))
	if err != nil || n != 6 {
		t.Errorf("ReadSamples(7) = %d, %v, want 6, nil", n, err)
	}

	if _, err := src.ReadSamples(make([]float32, 2)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("ReadSamples(2) error = %v, want ErrInvalidDstSize", err)
	}
}

func TestSource_EOF(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggReader{sampleRate: 8000, channels: 1, values: []float32{0.5}, chunk: 10}}
	buf := make([]float32, 4)

	if n, err := src.ReadSamples(buf); n != 1 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v, want 1, nil", n, err)
	}
	for range 2 {
		if n, err := src.ReadSamples(buf); n != 0 || !errors.Is(err, io.EOF) {
			t.Errorf("ReadSamples() after end = %d, %v, want 0, EOF", n, err)
		}
	}
}

func TestSource_DecoderError(t *testing.T) {
	t.Parallel()

	errCorrupt := errors.New("bad packet")
	src := &source{dec: &mockOggReader{sampleRate: 8000, channels: 1, values: []float32{0.5}, chunk: 10, err: errCorrupt}}

	if _, err := audio.ReadAll(src, 4); !errors.Is(err, errCorrupt) {
		t.Errorf("ReadAll() error = %v, want %v", err, errCorrupt)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	values := make([]float32, 96000)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		src := &source{dec: &mockOggReader{sampleRate: 48000, channels: 2, values: values, chunk: 2048}}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
