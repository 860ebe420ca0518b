// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio with github.com/jfreymuth/oggvorbis.
//
// Samples are interleaved float32 in [-1, 1] at the stream's own rate and
// channel count.
//
//	f, _ := os.Open("speech.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
package vorbis
