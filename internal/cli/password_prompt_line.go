package cli

import (
	"errors"
	"io"
	"os"
	"strings"
)

// readPromptLine reads byte by byte so that a second prompt on the same
// stream still sees its own line.
func readPromptLine(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errors.New("stdin unavailable")
	}

	line := make([]byte, 0, 64)
	buffer := make([]byte, 1)
	for {
		n, err := stdin.Read(buffer)
		if n > 0 {
			if buffer[0] == '\n' {
				break
			}
			line = append(line, buffer[0])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(strings.TrimRight(string(line), "\r")), nil
}
