// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"slices"
)

// Parameters of the 24 kHz neural codec.
const (
	// SampleRate the codec consumes and produces, in Hz.
	SampleRate = 24000
	// FrameHop is the number of input samples consumed per time step.
	FrameHop = 320
	// FrameRate is the number of time steps per second of audio.
	FrameRate = SampleRate / FrameHop
	// CodebookBits is the size of one token in bits (1024 entries per codebook).
	CodebookBits = 10
	// DefaultQuantizers is the low-bandwidth operating point (3 kbps).
	DefaultQuantizers = 4
)

// Grid is a quantizers × steps table of codebook indices, stored row-major.
// The zero value is not usable; build one with NewGrid, FromRows or FromTokens.
type Grid struct {
	quantizers int
	steps      int
	tokens     []uint32
}

// NewGrid returns a zero-filled grid.
func NewGrid(quantizers, steps int) (*Grid, error) {
	if err := checkShape(quantizers, steps); err != nil {
		return nil, err
	}

	return &Grid{
		quantizers: quantizers,
		steps:      steps,
		tokens:     make([]uint32, quantizers*steps),
	}, nil
}

// FromRows copies rows into a new grid. Every row must have the same length.
func FromRows(rows [][]uint32) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no quantizers", ErrInvalidShape)
	}

	steps := len(rows[0])
	g, err := NewGrid(len(rows), steps)
	if err != nil {
		return nil, err
	}

	for q, row := range rows {
		if len(row) != steps {
			return nil, fmt.Errorf("%w: row %d has %d steps, want %d", ErrInvalidShape, q, len(row), steps)
		}
		copy(g.tokens[q*steps:], row)
	}

	return g, nil
}

// FromTokens wraps a row-major token slice without copying it.
func FromTokens(quantizers, steps int, tokens []uint32) (*Grid, error) {
	if err := checkShape(quantizers, steps); err != nil {
		return nil, err
	}
	if len(tokens) != quantizers*steps {
		return nil, fmt.Errorf("%w: %d tokens for %dx%d grid", ErrInvalidShape, len(tokens), quantizers, steps)
	}

	return &Grid{quantizers: quantizers, steps: steps, tokens: tokens}, nil
}

func checkShape(quantizers, steps int) error {
	if quantizers < 1 {
		return fmt.Errorf("%w: %d quantizers", ErrInvalidShape, quantizers)
	}
	if steps < 0 {
		return fmt.Errorf("%w: %d steps", ErrInvalidShape, steps)
	}

	return nil
}

func (g *Grid) Quantizers() int { return g.quantizers }
func (g *Grid) Steps() int      { return g.steps }

// Len is the total number of tokens.
func (g *Grid) Len() int { return len(g.tokens) }

// At returns the token of quantizer q at time step t. It panics when out of range.
func (g *Grid) At(q, t int) uint32 {
	return g.tokens[g.index(q, t)]
}

// Set stores v at quantizer q, time step t. It panics when out of range.
func (g *Grid) Set(q, t int, v uint32) {
	g.tokens[g.index(q, t)] = v
}

func (g *Grid) index(q, t int) int {
	if q < 0 || q >= g.quantizers || t < 0 || t >= g.steps {
		panic(fmt.Sprintf("codec: index (%d, %d) out of range for %dx%d grid", q, t, g.quantizers, g.steps))
	}

	return q*g.steps + t
}

// Row returns quantizer q's tokens. The slice aliases the grid.
func (g *Grid) Row(q int) []uint32 {
	if q < 0 || q >= g.quantizers {
		panic(fmt.Sprintf("codec: row %d out of range for %d quantizers", q, g.quantizers))
	}

	return g.tokens[q*g.steps : (q+1)*g.steps : (q+1)*g.steps]
}

// Rows returns a copy of the grid as one slice per quantizer.
func (g *Grid) Rows() [][]uint32 {
	rows := make([][]uint32, g.quantizers)
	for q := range rows {
		rows[q] = slices.Clone(g.Row(q))
	}

	return rows
}

// Tokens returns the row-major backing slice. It aliases the grid.
func (g *Grid) Tokens() []uint32 { return g.tokens }

func (g *Grid) Clone() *Grid {
	return &Grid{
		quantizers: g.quantizers,
		steps:      g.steps,
		tokens:     slices.Clone(g.tokens),
	}
}

// Equal reports whether both grids have the same shape and tokens.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}

	return g.quantizers == o.quantizers &&
		g.steps == o.steps &&
		slices.Equal(g.tokens, o.tokens)
}

// Max returns the largest token in the grid, or 0 for an empty grid.
func (g *Grid) Max() uint32 {
	if len(g.tokens) == 0 {
		return 0
	}

	return slices.Max(g.tokens)
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid[%d×%d]", g.quantizers, g.steps)
}
