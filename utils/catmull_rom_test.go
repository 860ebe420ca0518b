// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCatmullRom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		w    [4]float32
		x    float32
		want float32
	}{
		{"start is w1", [4]float32{0, 1, 2, 3}, 0, 1},
		{"end is w2", [4]float32{0, 1, 2, 3}, 1, 2},
		{"line midpoint", [4]float32{0, 1, 2, 3}, 0.5, 1.5},
		{"line quarter", [4]float32{1, 2, 3, 4}, 0.25, 2.25},
		{"constant", [4]float32{0.3, 0.3, 0.3, 0.3}, 0.7, 0.3},
		{"symmetric peak", [4]float32{0, 1, 1, 0}, 0.5, 1.125},
		{"end points with curvature", [4]float32{-1, 0.5, -0.25, 2}, 1, -0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CatmullRom(tt.w, tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CatmullRom(%v, %v) = %v, want %v", tt.w, tt.x, got, tt.want)
			}
		})
	}
}

func TestCatmullRom_ZeroAllocs(t *testing.T) {
	w := [4]float32{0.5, 1, 0.8, 0.3}
	allocs := testing.AllocsPerRun(100, func() {
		_ = CatmullRom(w, 0.5)
	})
	if allocs != 0 {
		t.Errorf("CatmullRom allocated %v times, want 0", allocs)
	}
}

func BenchmarkCatmullRom(b *testing.B) {
	w := [4]float32{0.5, 1, 0.8, 0.3}
	var out float32

	for b.Loop() {
		out += CatmullRom(w, 0.37)
	}
	_ = out
}
