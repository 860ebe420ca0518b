// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"log/slog"

	"github.com/ik5/ecdc/audio"
	"github.com/ik5/ecdc/internal/observe"
	"github.com/ik5/ecdc/utils"
)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithQuantizers sets how many quantizer rows are kept on encode.
// Validated on use, so a bad value fails every encode with
// ecdc.ErrInvalidBandwidthTarget.
func WithQuantizers(n int) Option {
	return func(p *Pipeline) { p.quantizers = n }
}

// WithRounding selects how decoded samples become 16-bit PCM.
func WithRounding(mode utils.Rounding) Option {
	return func(p *Pipeline) { p.rounding = mode }
}

// WithChannel selects the input channel kept on encode. Default 0.
func WithChannel(ch int) Option {
	return func(p *Pipeline) { p.channel = ch }
}

// WithAveragedDownmix averages all input channels instead of keeping one.
func WithAveragedDownmix() Option {
	return func(p *Pipeline) { p.average = true }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

func WithMetrics(m *observe.Metrics) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithRegistry replaces the decoders used to open input files.
func WithRegistry(r *audio.Registry) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.registry = r
		}
	}
}
