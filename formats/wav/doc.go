// SPDX-License-Identifier: EPL-2.0

// Package wav reads integer PCM WAV files and writes mono 16-bit WAV.
//
// Decoding goes through github.com/go-audio/wav. 8, 16, 24 and 32-bit PCM
// are accepted, with any channel count and sample rate; samples are scaled
// to [-1, 1). Unknown chunks between fmt and data are skipped. Readers that
// cannot seek are read into memory first.
//
//	f, _ := os.Open("speech.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// WriteWAV16 produces the canonical 44-byte header followed by
// little-endian samples, which is the output format of the ecdc decode
// path:
//
//	err := wav.WriteWAV16(out, 24000, pcm)
package wav
