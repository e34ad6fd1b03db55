package sources

import (
	"fmt"
	"os"
)

// Unit is one discovered source file: its path and raw text. It is read once
// per run and discarded after extraction.
type Unit struct {
	Path string
	Text string
}

// Load reads the file at path into a Unit.
func Load(path string) (Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, path, err)
	}
	return Unit{Path: path, Text: string(data)}, nil
}
