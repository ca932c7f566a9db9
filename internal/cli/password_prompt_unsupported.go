//go:build !windows && !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package cli

import "os"

func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	return readPromptLine(stdin)
}
