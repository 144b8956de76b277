//go:build !linux

package logger

import "io"

// IsTerminal always reports false off Linux, so output is uncoloured.
func IsTerminal(io.Writer) bool {
	return false
}
