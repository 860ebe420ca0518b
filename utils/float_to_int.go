// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Rounding selects how a scaled sample is turned into an integer.
type Rounding int

const (
	// RoundTowardZero truncates the fractional part.
	RoundTowardZero Rounding = iota
	// RoundNearest rounds half away from zero.
	RoundNearest
)

func (r Rounding) String() string {
	switch r {
	case RoundTowardZero:
		return "truncate"
	case RoundNearest:
		return "nearest"
	default:
		return "unknown"
	}
}

// Float32ToInt16 converts one decoded sample to 16-bit PCM, truncating
// toward zero. See Float32ToInt16Rounded.
func Float32ToInt16(x float32) int16 {
	return Float32ToInt16Rounded(x, RoundTowardZero)
}

// Float32ToInt16Rounded scales x by 32767 in float32, clamps the result to
// [-32768, 32767] and rounds it with mode.
//
// Inputs outside [-1, 1] are legal and clamp, so 1.0 maps to 32767, -1.0 to
// -32767 and anything at or below -32768/32767 to -32768. NaN maps to 0 and
// the infinities clamp like any other out-of-range value.
func Float32ToInt16Rounded(x float32, mode Rounding) int16 {
	if x != x { // NaN
		return 0
	}

	// The product is rounded to float32 before truncation.
	a := x * math.MaxInt16
	if a >= math.MaxInt16 {
		return math.MaxInt16
	}
	if a <= math.MinInt16 {
		return math.MinInt16
	}

	if mode == RoundNearest {
		a = float32(math.Round(float64(a)))
	}

	return int16(a)
}

// Quantize converts a decoded buffer to 16-bit PCM with RoundTowardZero.
func Quantize(samples []float32) []int16 {
	out := make([]int16, len(samples))
	QuantizeInto(out, samples, RoundTowardZero)

	return out
}

// QuantizeInto converts min(len(dst), len(src)) samples using one rounding
// mode for the whole buffer and returns the number converted.
func QuantizeInto(dst []int16, src []float32, mode Rounding) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = Float32ToInt16Rounded(src[i], mode)
	}

	return n
}
