// SPDX-License-Identifier: EPL-2.0

// Package codectest provides a deterministic stand-in for the neural codec.
package codectest

import (
	"sync"

	"github.com/ik5/ecdc/codec"
)

// Stub implements model.Codec. Encode emits Quantizers rows with one step per
// frame hop, token (q*7+t)%1024. Decode returns FrameHop samples per step,
// every sample set to Level.
type Stub struct {
	Quantizers int
	Rate       int
	Level      float32

	EncodeErr error
	DecodeErr error

	mtx        sync.Mutex
	encodedLen []int
	decoded    int
}

// New returns a stub with n quantizers at the codec sample rate.
func New(n int) *Stub {
	return &Stub{Quantizers: n, Rate: codec.SampleRate}
}

func (s *Stub) SampleRate() int { return s.Rate }

func (s *Stub) Encode(samples []float32) (*codec.Grid, error) {
	s.mtx.Lock()
	s.encodedLen = append(s.encodedLen, len(samples))
	s.mtx.Unlock()

	if s.EncodeErr != nil {
		return nil, s.EncodeErr
	}

	steps := len(samples) / codec.FrameHop
	g, err := codec.NewGrid(s.Quantizers, steps)
	if err != nil {
		return nil, err
	}
	for q := range s.Quantizers {
		for t := range steps {
			g.Set(q, t, Token(q, t))
		}
	}

	return g, nil
}

func (s *Stub) Decode(grid *codec.Grid) ([]float32, error) {
	s.mtx.Lock()
	s.decoded++
	s.mtx.Unlock()

	if s.DecodeErr != nil {
		return nil, s.DecodeErr
	}

	out := make([]float32, grid.Steps()*codec.FrameHop)
	for i := range out {
		out[i] = s.Level
	}

	return out, nil
}

// Token is the value Encode places at quantizer q, step t.
func Token(q, t int) uint32 {
	return uint32((q*7 + t) % (1 << codec.CodebookBits))
}

// EncodedLengths returns the input length of every Encode call so far.
func (s *Stub) EncodedLengths() []int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	out := make([]int, len(s.encodedLen))
	copy(out, s.encodedLen)

	return out
}

// DecodeCalls returns how many times Decode ran.
func (s *Stub) DecodeCalls() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.decoded
}
