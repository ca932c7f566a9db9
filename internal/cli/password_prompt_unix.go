//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package cli

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// readPasswordNoEcho turns terminal echo off while reading one line. Piped
// input has no terminal state to change and is read as is.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	fd := int(stdin.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return readPromptLine(stdin)
	}
	originalTermios := *termios
	silentTermios := originalTermios
	silentTermios.Lflag &^= unix.ECHO

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &silentTermios); err != nil {
		return nil, err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, ioctlSetTermios, &originalTermios)
	}()

	return readPromptLine(stdin)
}
