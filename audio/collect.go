// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// ReadAll drains src and returns every sample it produced, interleaved as
// read. bufSize is the per-read buffer size; non-positive values use
// src.BufSize(), falling back to 4096.
func ReadAll(src Source, bufSize int) ([]float32, error) {
	if bufSize <= 0 {
		bufSize = src.BufSize()
	}
	if bufSize <= 0 {
		bufSize = 4096
	}
	if ch := src.Channels(); ch > 1 {
		bufSize -= bufSize % ch
		bufSize = max(bufSize, ch)
	}

	buf := make([]float32, bufSize)
	out := make([]float32, 0, bufSize)

	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
	}
}
