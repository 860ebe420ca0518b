// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"math"
)

// Truncate keeps quantizers [0, n) of g and drops the finer ones. The step
// count is unchanged and g is not modified.
//
// n must be between 1 and g.Quantizers(). A model that returns fewer
// quantizers than requested is reported as ErrInvalidBandwidthTarget
// rather than silently producing a smaller grid.
func Truncate(g *Grid, n int) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d quantizers requested", ErrInvalidBandwidthTarget, n)
	}
	if n > g.quantizers {
		return nil, fmt.Errorf("%w: %d quantizers requested, %d available",
			ErrInvalidBandwidthTarget, n, g.quantizers)
	}

	tokens := make([]uint32, n*g.steps)
	copy(tokens, g.tokens[:n*g.steps])

	return &Grid{quantizers: n, steps: g.steps, tokens: tokens}, nil
}

// bitsPerQuantizer is the bitrate one codebook adds, in bits per second.
const bitsPerQuantizer = FrameRate * CodebookBits

// Bandwidth returns the bitrate in kbps of a stream keeping n quantizers.
func Bandwidth(n int) float64 {
	return float64(n*bitsPerQuantizer) / 1000
}

// QuantizersForBandwidth returns the quantizer count for a target bitrate
// in kbps, e.g. 1.5 → 2, 3 → 4, 6 → 8, 12 → 16, 24 → 32.
// The target must be a positive multiple of 0.75 kbps.
func QuantizersForBandwidth(kbps float64) (int, error) {
	if math.IsNaN(kbps) || math.IsInf(kbps, 0) || kbps <= 0 {
		return 0, fmt.Errorf("%w: %v kbps", ErrInvalidBandwidthTarget, kbps)
	}

	exact := kbps * 1000 / bitsPerQuantizer
	n := math.Round(exact)
	if n < 1 || math.Abs(exact-n) > 1e-9 {
		return 0, fmt.Errorf("%w: %v kbps is not a multiple of %v kbps",
			ErrInvalidBandwidthTarget, kbps, Bandwidth(1))
	}

	return int(n), nil
}
