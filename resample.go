// SPDX-License-Identifier: EPL-2.0

package ecdc

import (
	"github.com/ik5/ecdc/audio"
)

// LoadSamples drains src into a mono buffer at rate, ready for
// EncodeToContainer.
//
// The pipeline is:
//  1. keep channel of src and drop the others (a mono source is read as is)
//  2. resample to rate, skipped when src already runs at rate
//  3. read everything into memory
//
// src is not closed.
func LoadSamples(src audio.Source, channel, rate int) ([]float32, error) {
	mono, err := audio.NewChannelSelector(src, channel)
	if err != nil {
		return nil, err
	}

	return resampleAll(mono, rate)
}

// LoadSamplesMixed is LoadSamples with an averaging downmix of all channels
// instead of a single channel.
func LoadSamplesMixed(src audio.Source, rate int) ([]float32, error) {
	return resampleAll(audio.NewMonoMixer(src), rate)
}

func resampleAll(mono audio.Source, rate int) ([]float32, error) {
	if mono.SampleRate() == rate {
		return audio.ReadAll(mono, 0)
	}

	res, err := audio.NewResampler(mono, rate)
	if err != nil {
		return nil, err
	}

	return audio.ReadAll(res, 0)
}
