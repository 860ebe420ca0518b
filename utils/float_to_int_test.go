// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{
			name:  "zero",
			input: 0.0,
			want:  0,
		},
		{
			name:  "full scale positive",
			input: 1.0,
			want:  math.MaxInt16,
		},
		{
			name:  "full scale negative",
			input: -1.0,
			want:  -math.MaxInt16, // symmetric scale, -32768 needs an over-range input
		},
		{
			name:  "half positive",
			input: 0.5,
			want:  16383, // 16383.5 truncated
		},
		{
			name:  "half negative",
			input: -0.5,
			want:  -16383,
		},
		{
			name:  "small positive",
			input: 0.001,
			want:  32, // 32.767 truncated
		},
		{
			name:  "small negative",
			input: -0.001,
			want:  -32,
		},
		{
			name:  "over range positive",
			input: 2.0,
			want:  math.MaxInt16,
		},
		{
			name:  "over range negative",
			input: -2.0,
			want:  math.MinInt16,
		},
		{
			name:  "way over range",
			input: 1e30,
			want:  math.MaxInt16,
		},
		{
			name:  "way under range",
			input: -1e30,
			want:  math.MinInt16,
		},
		{
			name:  "positive infinity",
			input: float32(math.Inf(1)),
			want:  math.MaxInt16,
		},
		{
			name:  "negative infinity",
			input: float32(math.Inf(-1)),
			want:  math.MinInt16,
		},
		{
			name:  "nan",
			input: float32(math.NaN()),
			want:  0,
		},
		{
			name:  "product rounds up to integer in float32",
			input: 0.00021362957,
			want:  7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Float32ToInt16(tt.input)
			if got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat32ToInt16Rounded_Nearest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input float32
		want  int16
	}{
		{0.5, 16384}, // 16383.5 rounds away from zero
		{-0.5, -16384},
		{0.001, 33}, // 32.767
		{-0.001, -33},
		{1.0, math.MaxInt16},
		{-1.0, -math.MaxInt16},
		{-2.0, math.MinInt16},
		{float32(math.NaN()), 0},
	}

	for _, tt := range tests {
		got := Float32ToInt16Rounded(tt.input, RoundNearest)
		if got != tt.want {
			t.Errorf("Float32ToInt16Rounded(%v, RoundNearest) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestFloat32ToInt16_Symmetry(t *testing.T) {
	t.Parallel()

	for _, x := range []float32{0.1, 0.25, 0.333, 0.75, 0.999} {
		pos := Float32ToInt16(x)
		neg := Float32ToInt16(-x)
		if pos != -neg {
			t.Errorf("Float32ToInt16(%v) = %d, Float32ToInt16(%v) = %d, want symmetric", x, pos, -x, neg)
		}
	}
}

func TestQuantize(t *testing.T) {
	t.Parallel()

	in := []float32{0, 1, -1, 2, -2, float32(math.NaN())}
	want := []int16{0, 32767, -32767, 32767, -32768, 0}

	got := Quantize(in)
	if len(got) != len(want) {
		t.Fatalf("len(Quantize()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Quantize()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuantize_Empty(t *testing.T) {
	t.Parallel()

	if got := Quantize(nil); len(got) != 0 {
		t.Errorf("len(Quantize(nil)) = %d, want 0", len(got))
	}
}

func TestQuantizeInto_ShortDst(t *testing.T) {
	t.Parallel()

	dst := make([]int16, 2)
	n := QuantizeInto(dst, []float32{0.5, 0.5, 0.5}, RoundNearest)

	if n != 2 {
		t.Errorf("QuantizeInto() = %d, want 2", n)
	}
	if dst[0] != 16384 || dst[1] != 16384 {
		t.Errorf("dst = %v, want [16384 16384]", dst)
	}
}

func TestRounding_String(t *testing.T) {
	t.Parallel()

	if RoundTowardZero.String() != "truncate" {
		t.Errorf("RoundTowardZero.String() = %q", RoundTowardZero.String())
	}
	if RoundNearest.String() != "nearest" {
		t.Errorf("RoundNearest.String() = %q", RoundNearest.String())
	}
	if Rounding(7).String() != "unknown" {
		t.Errorf("Rounding(7).String() = %q", Rounding(7).String())
	}
}

func BenchmarkQuantize(b *testing.B) {
	samples := make([]float32, 24000)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i) * 0.01))
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = Quantize(samples)
	}
}

// TestFloat32ToInt16_Float32Product checks a sweep of bit patterns against
// scaling, clamping and truncating entirely in float32.
func TestFloat32ToInt16_Float32Product(t *testing.T) {
	t.Parallel()

	lo := math.Float32bits(1e-4)
	hi := math.Float32bits(1.0)
	scale := float32(math.MaxInt16)

	for bits := lo; bits < hi; bits += 97 {
		x := math.Float32frombits(bits)
		want := int16(min(max(x*scale, math.MinInt16), math.MaxInt16))

		if got := Float32ToInt16(x); got != want {
			t.Fatalf("Float32ToInt16(%v) = %d, want %d", x, got, want)
		}
		if got := Float32ToInt16(-x); got != -want {
			t.Fatalf("Float32ToInt16(%v) = %d, want %d", -x, got, -want)
		}
	}
}
