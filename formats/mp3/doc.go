// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III audio with
// github.com/hajimehoshi/go-mp3.
//
// The decoder always yields interleaved stereo at the stream's sample rate,
// scaled to [-1, 1). Mono files come out with both channels equal.
//
//	f, _ := os.Open("speech.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
package mp3
