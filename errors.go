// SPDX-License-Identifier: EPL-2.0

package ecdc

import (
	"errors"

	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/container"
	"github.com/ik5/ecdc/model"
)

var (
	ErrShortInput             = container.ErrShortInput
	ErrValueOutOfRange        = container.ErrValueOutOfRange
	ErrInvalidShape           = codec.ErrInvalidShape
	ErrInvalidBandwidthTarget = codec.ErrInvalidBandwidthTarget
	ErrUpstreamModel          = model.ErrUpstream
	ErrIO                     = container.ErrIO
)

// Kind names the class of err for logs and metrics: short_input,
// value_out_of_range, invalid_shape, invalid_bandwidth_target,
// upstream_model, io, or unknown. A nil error has kind "".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrShortInput):
		return "short_input"
	case errors.Is(err, ErrValueOutOfRange):
		return "value_out_of_range"
	case errors.Is(err, ErrInvalidShape):
		return "invalid_shape"
	case errors.Is(err, ErrInvalidBandwidthTarget):
		return "invalid_bandwidth_target"
	case errors.Is(err, ErrUpstreamModel):
		return "upstream_model"
	case errors.Is(err, ErrIO):
		return "io"
	}
	return "unknown"
}
