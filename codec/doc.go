// SPDX-License-Identifier: EPL-2.0

// Package codec holds the in-memory form of a neural codec's output and the
// bandwidth policy applied to it.
//
// # Token Grid
//
// A Grid is a rectangular table of codebook indices with one row per
// quantizer and one column per time step:
//
//	grid, _ := codec.FromRows([][]uint32{
//	    {12, 900, 4},  // quantizer 0 (coarsest)
//	    {77, 3, 1000}, // quantizer 1
//	})
//	grid.Quantizers() // 2
//	grid.Steps()      // 3
//
// Rows are stored row-major, which is the order used by the .ecdc container.
//
// # Bandwidth
//
// The quantizers of a residual vector quantizer are ordered coarse to fine,
// so keeping a prefix of the rows still decodes to usable audio:
//
//	low, err := codec.Truncate(grid, codec.DefaultQuantizers)
//
// At 24 kHz with a 320 sample hop the codec emits 75 steps per second and
// every codebook carries 10 bits per step, so each kept quantizer costs
// 0.75 kbps:
//
//	n, _ := codec.QuantizersForBandwidth(3.0) // 4
//	codec.Bandwidth(4)                        // 3.0
package codec
