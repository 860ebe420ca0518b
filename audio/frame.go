// SPDX-License-Identifier: EPL-2.0

package audio

// Padding returns how many samples must be appended to n samples to reach a
// multiple of hop: (hop - n%hop) % hop. It panics if hop is not positive.
func Padding(n, hop int) int {
	if hop <= 0 {
		panic("audio: frame hop must be positive")
	}

	return (hop - n%hop) % hop
}

// Align pads samples with trailing silence up to the next multiple of hop.
// Aligned input is returned as is. The padding is not removed again after
// a decode, so it is heard as trailing silence.
func Align(samples []float32, hop int) []float32 {
	pad := Padding(len(samples), hop)
	if pad == 0 {
		return samples
	}

	out := make([]float32, len(samples)+pad)
	copy(out, samples)

	return out
}
