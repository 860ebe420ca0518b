// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/ecdc/internal/audiotest"
)

func resampleAll(t *testing.T, src Source, rate int) []float32 {
	t.Helper()

	res, err := NewResampler(src, rate)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	samples, err := ReadAll(res, 1024)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	return samples
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	res, err := NewResampler(audiotest.NewSilentSource(44100, 1, 1000), 24000)
	if err != nil {
		t.Fatalf("NewResampler() error = %v", err)
	}

	if res.SampleRate() != 24000 {
		t.Errorf("SampleRate() = %d, want 24000", res.SampleRate())
	}
	if res.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", res.Channels())
	}
}

func TestResampler_RejectsMultiChannel(t *testing.T) {
	t.Parallel()

	_, err := NewResampler(audiotest.NewSilentSource(44100, 2, 1000), 24000)
	if !errors.Is(err, ErrNotMono) {
		t.Errorf("NewResampler() error = %v, want ErrNotMono", err)
	}
}

func TestResampler_RejectsBadRate(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{0, -24000} {
		_, err := NewResampler(audiotest.NewSilentSource(44100, 1, 10), rate)
		if !errors.Is(err, ErrInvalidSampleRate) {
			t.Errorf("NewResampler(%d) error = %v, want ErrInvalidSampleRate", rate, err)
		}
	}
}

func TestResampler_SameRateIsExact(t *testing.T) {
	t.Parallel()

	in := []float32{0.1, -0.2, 0.3, -0.4, 0.5, 0.25, 0}
	got := resampleAll(t, audiotest.NewSliceSource(24000, 1, in), 24000)

	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], in[i])
		}
	}
}

func TestResampler_Downsampling(t *testing.T) {
	t.Parallel()

	// 1 second at 44.1kHz to 24kHz
	got := resampleAll(t, audiotest.NewSineSource(44100, 1, 44100, 440), 24000)

	if len(got) < 23900 || len(got) > 24100 {
		t.Errorf("len = %d, want ≈24000", len(got))
	}

	var peak float64
	for _, v := range got {
		peak = max(peak, math.Abs(float64(v)))
	}
	// 440 Hz is far below the cutoff and must survive the low-pass
	if peak < 0.8 || peak > 1.1 {
		t.Errorf("peak = %v, want ≈1", peak)
	}
}

func TestResampler_Upsampling(t *testing.T) {
	t.Parallel()

	// 0.5 second at 16kHz to 24kHz
	got := resampleAll(t, audiotest.NewConstantSource(16000, 1, 8000, 0.5), 24000)

	if len(got) < 11900 || len(got) > 12100 {
		t.Errorf("len = %d, want ≈12000", len(got))
	}
	for i, v := range got {
		if math.Abs(float64(v-0.5)) > 1e-5 {
			t.Fatalf("got[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestResampler_SingleSample(t *testing.T) {
	t.Parallel()

	got := resampleAll(t, audiotest.NewSliceSource(48000, 1, []float32{0.7}), 24000)
	if len(got) != 1 || got[0] != 0.7 {
		t.Errorf("got = %v, want [0.7]", got)
	}
}

func TestResampler_Empty(t *testing.T) {
	t.Parallel()

	res, _ := NewResampler(audiotest.NewSilentSource(44100, 1, 0), 24000)
	buf := make([]float32, 16)

	n, err := res.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}

	// Subsequent reads keep reporting EOF
	n, err = res.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("second ReadSamples() = %d, %v, want 0, io.EOF", n, err)
	}
}

func TestResampler_SourceError(t *testing.T) {
	t.Parallel()

	errBroken := errors.New("broken stream")
	src := audiotest.NewConstantSource(44100, 1, 100000, 0.1)
	src.FailAfter = 5000
	src.Err = errBroken

	res, _ := NewResampler(src, 24000)
	_, err := ReadAll(res, 512)
	if !errors.Is(err, errBroken) {
		t.Errorf("ReadAll() error = %v, want %v", err, errBroken)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 1, 10)
	res, _ := NewResampler(src, 24000)

	if err := res.Close(); err != nil || !src.Closed {
		t.Errorf("Close() = %v, closed = %v", err, src.Closed)
	}
}

func BenchmarkResampler_44100To24000(b *testing.B) {
	src := audiotest.NewSineSource(44100, 1, 1<<30, 440)
	res, _ := NewResampler(src, 24000)
	buf := make([]float32, 4096)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = res.ReadSamples(buf)
	}
}
