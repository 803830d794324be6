//go:build !windows

package config

import (
	"os"

	"golang.org/x/term"
)

// colorSupported reports whether stream is a terminal able to show colors.
func colorSupported(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd())) && os.Getenv("TERM") != "dumb"
}
