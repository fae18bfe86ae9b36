package main

import (
	"os"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// openFile wraps os.Open with the taxonomy's IOError, used by every
// subcommand that reads an image file directly (metrics, bench).
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, stegoerr.IOWrap(err, "open %s", path)
	}
	return f, nil
}
