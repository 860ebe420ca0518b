// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

var (
	ErrInvalidShape           = errors.New("invalid token grid shape")
	ErrInvalidBandwidthTarget = errors.New("invalid bandwidth target")
)
