// SPDX-License-Identifier: EPL-2.0

// Package ecdc stores neural-codec token streams in .ecdc containers.
//
// Speech is compressed by a neural audio codec into a grid of discrete
// tokens: Q quantizer rows by T time steps, one step per 320 samples at
// 24 kHz. Keeping only the first n rows selects the bitrate, 0.75 kbps
// per row. The grid is stored as a small binary container:
//
//	offset 0  uint32le  n_q (quantizer rows)
//	offset 4  uint32le  t   (time steps)
//	offset 8  n_q*t uint16le tokens, row-major
//
// There is no magic number, version or checksum.
//
// # Quick Start
//
// Load a codec, prepare samples, and encode:
//
//	c, _ := model.Open(remote.Load, "http://127.0.0.1:8000", model.RetryPolicy{Attempts: 3})
//
//	f, _ := os.Open("speech.wav")
//	src, _ := wav.Decoder{}.Decode(f)
//	samples, _ := ecdc.LoadSamples(src, 0, c.SampleRate())
//
//	data, _ := ecdc.EncodeToContainer(c, samples, 4) // 3 kbps
//
// and back:
//
//	pcm, _ := ecdc.DecodeToPCM(c, data, utils.RoundTowardZero)
//	wav.WriteWAV16(out, c.SampleRate(), pcm)
//
// The pipeline subpackage wraps these steps with file handling, atomic
// writes, logging and metrics.
//
// # Errors
//
// Failures are reported with the sentinels re-exported here, so callers
// can classify them with errors.Is or Kind without importing the
// subpackages.
package ecdc
