// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const headerSize = 44

// WriteWAV16 writes a canonical mono 16-bit PCM WAV at sampleRate.
// The header is written in one call and the samples in 16 KiB chunks, so
// w needs no Seek.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	const (
		numChannels   = 1
		bitsPerSample = 16
		blockAlign    = numChannels * bitsPerSample / 8
	)

	if sampleRate <= 0 || sampleRate > math.MaxUint32/blockAlign {
		return fmt.Errorf("wav: invalid sample rate %d", sampleRate)
	}
	if uint64(len(samples))*blockAlign > math.MaxUint32-(headerSize-8) {
		return fmt.Errorf("wav: %d samples do not fit a RIFF file", len(samples))
	}

	dataSize := uint32(len(samples) * blockAlign)

	header := make([]byte, headerSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], headerSize-8+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate)*blockAlign)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("wav: writing header: %w", err)
	}

	const chunkSamples = 8192
	buf := make([]byte, min(len(samples), chunkSamples)*blockAlign)

	for start := 0; start < len(samples); start += chunkSamples {
		chunk := samples[start:min(start+chunkSamples, len(samples))]
		out := buf[:len(chunk)*blockAlign]

		for i, s := range chunk {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("wav: writing samples: %w", err)
		}
	}

	return nil
}
