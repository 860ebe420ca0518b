// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"fmt"

	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/formats/wav"
)

// Example_roundTrip writes decoded speech as a WAV and reads it back.
func Example_roundTrip() {
	var file bytes.Buffer
	if err := wav.WriteWAV16(&file, 24000, []int16{0, 8192, 16384, -16384}); err != nil {
		fmt.Println(err)
		return
	}

	src, err := wav.Decoder{}.Decode(&file)
	if err != nil {
		fmt.Println(err)
		return
	}

	samples, err := audio.ReadAll(src, 0)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(src.SampleRate(), src.Channels(), samples)
	// Output: 24000 1 [0 0.25 0.5 -0.5]
}
