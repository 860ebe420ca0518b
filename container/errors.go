// SPDX-License-Identifier: EPL-2.0

package container

import "errors"

var (
	ErrShortInput      = errors.New("short ecdc input")
	ErrValueOutOfRange = errors.New("token value out of 16-bit range")

	// ErrIO marks read and write failures of the underlying file or stream.
	ErrIO = errors.New("i/o failure")
)
