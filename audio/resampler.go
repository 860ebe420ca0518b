// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/ecdc/utils"
)

// Resampler converts a mono source to another sample rate using cubic
// (Catmull-Rom) interpolation. When downsampling, a one-pole low-pass
// filter at the target Nyquist frequency is applied to the input first.
//
// Output sample j sits at source position j*srcRate/dstRate, and output
// stops at the last source sample, so n input samples produce about
// n*dstRate/srcRate outputs.
type Resampler struct {
	src     Source
	dstRate int
	step    float64 // source samples per output sample

	in    []float32
	inLen int
	inPos int
	eof   bool
	err   error

	// win[1] is the sample at the current integer position, win[2] the next
	// one. real marks entries backed by actual input rather than edge copies.
	win    [4]float32
	real   [4]bool
	frac   float64
	primed bool
	done   bool

	filter bool
	alpha  float32
	lp     float32
	lpInit bool
}

func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if src.Channels() != 1 {
		return nil, fmt.Errorf("%w: got %d channels", ErrNotMono, src.Channels())
	}
	if dstRate <= 0 || src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: %d Hz -> %d Hz", ErrInvalidSampleRate, src.SampleRate(), dstRate)
	}

	srcRate := float64(src.SampleRate())
	r := &Resampler{
		src:     src,
		dstRate: dstRate,
		step:    srcRate / float64(dstRate),
		in:      make([]float32, 4096),
	}

	if r.step > 1 {
		cutoff := float64(dstRate) / 2
		r.filter = true
		r.alpha = float32(1 - math.Exp(-2*math.Pi*cutoff/srcRate))
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return 1 }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// pull returns the next (filtered) input sample.
func (r *Resampler) pull() (float32, bool) {
	for r.inPos >= r.inLen {
		if r.eof {
			return 0, false
		}

		n, err := r.src.ReadSamples(r.in)
		r.inLen, r.inPos = n, 0
		if err != nil {
			r.eof = true
			if !errors.Is(err, io.EOF) {
				r.err = fmt.Errorf("%w", err)
				r.inLen = 0
			}
		}
	}

	v := r.in[r.inPos]
	r.inPos++

	if r.filter {
		if !r.lpInit {
			r.lp = v
			r.lpInit = true
		}
		r.lp += r.alpha * (v - r.lp)
		v = r.lp
	}

	return v, true
}

func (r *Resampler) prime() bool {
	first, ok := r.pull()
	if !ok {
		return false
	}

	r.win = [4]float32{first, first, first, first}
	r.real = [4]bool{false, true, false, false}

	for i := 2; i < 4; i++ {
		v, ok := r.pull()
		if !ok {
			r.win[i] = r.win[i-1]
			continue
		}
		r.win[i] = v
		r.real[i] = true
	}

	return true
}

// advance moves one input sample forward. It fails once win[2] holds no
// real input, i.e. the last input sample was reached.
func (r *Resampler) advance() bool {
	if !r.real[2] {
		return false
	}

	copy(r.win[:3], r.win[1:])
	copy(r.real[:3], r.real[1:])

	if v, ok := r.pull(); ok {
		r.win[3] = v
		r.real[3] = true
	} else {
		r.win[3] = r.win[2]
		r.real[3] = false
	}

	return true
}

func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if !r.primed && !r.done {
		if !r.prime() {
			r.done = true
		}
		r.primed = true
	}

	n := 0
	for n < len(dst) && !r.done {
		for r.frac >= 1 {
			if !r.advance() {
				r.done = true
				break
			}
			r.frac--
		}
		if r.done {
			break
		}
		if !r.real[2] && r.frac > 0 {
			r.done = true
			break
		}

		dst[n] = utils.CatmullRom(r.win, float32(r.frac))
		n++
		r.frac += r.step

		if r.err != nil {
			return n, r.err
		}
	}

	if r.err != nil {
		return n, r.err
	}
	if r.done {
		return n, io.EOF
	}

	return n, nil
}
