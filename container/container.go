// SPDX-License-Identifier: EPL-2.0

package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/ecdc/codec"
)

// HeaderSize is the size of the n_q and t fields in bytes.
const HeaderSize = 8

// tokenSize is the size of one stored token in bytes.
const tokenSize = 2

// Header is the fixed prefix of a container.
type Header struct {
	Quantizers uint32
	Steps      uint32
}

// Tokens is the number of tokens the header declares.
func (h Header) Tokens() uint64 {
	return uint64(h.Quantizers) * uint64(h.Steps)
}

// BodySize is the number of token bytes the header declares. It saturates
// at math.MaxUint64 for headers no real input can satisfy.
func (h Header) BodySize() uint64 {
	n := h.Tokens()
	if n > (math.MaxUint64-HeaderSize)/tokenSize {
		return math.MaxUint64 - HeaderSize
	}

	return n * tokenSize
}

// Size is the total container size the header declares.
func (h Header) Size() uint64 {
	return HeaderSize + h.BodySize()
}

// ParseHeader decodes the first HeaderSize bytes of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortInput, len(data), HeaderSize)
	}

	return Header{
		Quantizers: binary.LittleEndian.Uint32(data[0:4]),
		Steps:      binary.LittleEndian.Uint32(data[4:8]),
	}, nil
}

func (h Header) put(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], h.Quantizers)
	binary.LittleEndian.PutUint32(dst[4:8], h.Steps)
}

// Marshal serializes g. Every token is checked against the 16-bit range
// before any output is built.
func Marshal(g *codec.Grid) ([]byte, error) {
	h, err := headerFor(g)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, h.Size())
	h.put(buf)

	body := buf[HeaderSize:]
	for i, v := range g.Tokens() {
		binary.LittleEndian.PutUint16(body[i*tokenSize:], uint16(v))
	}

	return buf, nil
}

func headerFor(g *codec.Grid) (Header, error) {
	if uint64(g.Quantizers()) > math.MaxUint32 || uint64(g.Steps()) > math.MaxUint32 {
		return Header{}, fmt.Errorf("%w: grid %v does not fit the header", ErrValueOutOfRange, g)
	}

	for i, v := range g.Tokens() {
		if v > math.MaxUint16 {
			return Header{}, fmt.Errorf("%w: token %d at quantizer %d step %d",
				ErrValueOutOfRange, v, i/g.Steps(), i%g.Steps())
		}
	}

	return Header{Quantizers: uint32(g.Quantizers()), Steps: uint32(g.Steps())}, nil
}

// Unmarshal parses a container. The body length is checked against the
// header before anything is allocated.
func Unmarshal(data []byte) (*codec.Grid, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[HeaderSize:]
	if uint64(len(body)) < h.BodySize() {
		return nil, fmt.Errorf("%w: body has %d bytes, header declares %d",
			ErrShortInput, len(body), h.BodySize())
	}

	return decodeBody(h, body)
}

func decodeBody(h Header, body []byte) (*codec.Grid, error) {
	tokens := make([]uint32, int(uint64(h.Quantizers)*uint64(h.Steps)))
	for i := range tokens {
		tokens[i] = uint32(binary.LittleEndian.Uint16(body[i*tokenSize:]))
	}

	g, err := codec.FromTokens(int(h.Quantizers), int(h.Steps), tokens)
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}

	return g, nil
}

// Encode marshals g and writes it to w in a single call.
func Encode(w io.Writer, g *codec.Grid) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}

// Decode reads one container from r. A stream that ends early yields
// ErrShortInput; the body buffer only grows as data arrives.
func Decode(r io.Reader) (*codec.Grid, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %d bytes, header needs %d", ErrShortInput, n, HeaderSize)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	h, _ := ParseHeader(header)

	var body bytes.Buffer
	size := h.BodySize()
	if size > math.MaxInt64 {
		return nil, fmt.Errorf("%w: header declares %d body bytes", ErrShortInput, size)
	}

	copied, err := io.CopyN(&body, r, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: body has %d bytes, header declares %d", ErrShortInput, copied, size)
		}
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return decodeBody(h, body.Bytes())
}
