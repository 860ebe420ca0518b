// SPDX-License-Identifier: EPL-2.0

package ecdc

import (
	"errors"
	"fmt"

	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/model"
	"github.com/ik5/ecdc/utils"
)

// EncodeGrid pads samples to a whole number of frames, runs the codec and
// keeps the first targetQuantizers rows. samples must be mono at
// c.SampleRate().
func EncodeGrid(c model.Codec, samples []float32, targetQuantizers int) (*codec.Grid, error) {
	if targetQuantizers < 1 {
		return nil, fmt.Errorf("%w: %d quantizers requested", ErrInvalidBandwidthTarget, targetQuantizers)
	}

	g, err := c.Encode(audio.Align(samples, codec.FrameHop))
	if err != nil {
		return nil, upstream("encode", err)
	}
	if g == nil {
		return nil, upstream("encode", errors.New("codec returned no tokens"))
	}

	return codec.Truncate(g, targetQuantizers)
}

// EncodeToContainer encodes samples and serializes the truncated grid.
// On error no bytes are returned.
func EncodeToContainer(c model.Codec, samples []float32, targetQuantizers int) ([]byte, error) {
	g, err := EncodeGrid(c, samples, targetQuantizers)
	if err != nil {
		return nil, err
	}

	return container.Marshal(g)
}

// DecodeFromContainer parses container bytes into a grid.
func DecodeFromContainer(data []byte) (*codec.Grid, error) {
	return container.Unmarshal(data)
}

// DecodeGrid runs the codec on g and returns mono samples at
// c.SampleRate(). Frame padding added on encode is not removed.
func DecodeGrid(c model.Codec, g *codec.Grid) ([]float32, error) {
	samples, err := c.Decode(g)
	if err != nil {
		return nil, upstream("decode", err)
	}

	return samples, nil
}

// DecodeToPCM parses data, decodes it and quantizes the waveform to
// 16-bit PCM with the given rounding.
func DecodeToPCM(c model.Codec, data []byte, mode utils.Rounding) ([]int16, error) {
	g, err := DecodeFromContainer(data)
	if err != nil {
		return nil, err
	}

	samples, err := DecodeGrid(c, g)
	if err != nil {
		return nil, err
	}

	pcm := make([]int16, len(samples))
	utils.QuantizeInto(pcm, samples, mode)

	return pcm, nil
}

// Quantize converts samples to 16-bit PCM, truncating toward zero.
func Quantize(samples []float32) []int16 {
	return utils.Quantize(samples)
}

func upstream(op string, err error) error {
	if errors.Is(err, ErrUpstreamModel) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrUpstreamModel, op, err)
}
