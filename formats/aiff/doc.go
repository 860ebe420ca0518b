// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes big-endian PCM AIFF files with github.com/go-audio/aiff.
//
// 8, 16, 24 and 32-bit samples are accepted and scaled to [-1, 1).
//
//	f, _ := os.Open("speech.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
