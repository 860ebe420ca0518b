// SPDX-License-Identifier: EPL-2.0

package container

import (
	"fmt"
	"os"

	"github.com/ik5/ecdc/codec"
	"github.com/ik5/ecdc/internal/atomicfile"
)

// WriteFile marshals g completely and then atomically replaces path with it.
func WriteFile(path string, g *codec.Grid) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}

	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrIO, path, err)
	}

	return nil
}

// ReadFile loads and parses the container at path.
func ReadFile(path string) (*codec.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	g, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}
