// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/internal/audiotest"
)

// Example_alignment shows the frame alignment applied before encoding.
func Example_alignment() {
	samples := make([]float32, 321)

	fmt.Println(audio.Padding(len(samples), 320))
	fmt.Println(len(audio.Align(samples, 320)))
	// Output:
	// 319
	// 640
}

// Example_processingChain prepares a stereo 48 kHz stream for the codec:
// keep the left channel, resample to 24 kHz and align to the frame hop.
func Example_processingChain() {
	src := audiotest.NewSineSource(48000, 2, 48000, 440)

	left, err := audio.NewChannelSelector(src, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	res, err := audio.NewResampler(left, 24000)
	if err != nil {
		fmt.Println(err)
		return
	}

	samples, err := audio.ReadAll(res, 4096)
	if err != nil {
		fmt.Println(err)
		return
	}
	samples = audio.Align(samples, 320)

	fmt.Println(len(samples) % 320)
	// Output: 0
}
