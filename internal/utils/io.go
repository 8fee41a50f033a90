package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadLine reads one line from r without its line ending. It is used for
// passwords piped on stdin, where no terminal is available.
func ReadLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, fmt.Errorf("stdin is empty")
	}
	return []byte(line), nil
}
