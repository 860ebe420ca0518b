// SPDX-License-Identifier: EPL-2.0

// Package container reads and writes the .ecdc token container.
//
// # Layout
//
// All integers are little-endian:
//
//	offset  size        field
//	0       4           n_q, quantizer count (uint32)
//	4       4           t, time steps (uint32)
//	8       n_q*t*2     tokens (uint16), row-major: all t tokens of
//	                    quantizer 0, then quantizer 1, ...
//
// There is no magic number, version or checksum. A change to the layout is a
// breaking change and has to be versioned by the caller, for example with a
// different file extension.
//
// # Writing
//
//	data, err := container.Marshal(grid)
//	if errors.Is(err, container.ErrValueOutOfRange) {
//	    // a token does not fit in 16 bits
//	}
//
// Marshal validates every token before producing any output. WriteFile
// marshals first and then replaces the destination atomically, so a failed
// encode never leaves a partial file behind.
//
// # Reading
//
//	grid, err := container.Unmarshal(data)
//	if errors.Is(err, container.ErrShortInput) {
//	    // header or body truncated
//	}
//
// Bytes after the declared body are ignored.
package container
