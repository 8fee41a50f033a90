package utils

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadPassword prompts for a password without echoing input. When stdin is
// not a terminal the first line of stdin is used, so scripts can pipe it in.
func ReadPassword(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ReadLine(os.Stdin)
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

// ReadNewPassword prompts twice and fails if the entries differ. Without a
// terminal there is nothing to confirm and a single line is read.
func ReadNewPassword(prompt, confirmPrompt string) ([]byte, error) {
	password, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	if !IsTerminal() {
		return password, nil
	}

	confirm, err := ReadPassword(confirmPrompt)
	if err != nil {
		return nil, err
	}
	defer Wipe(confirm)

	if !bytes.Equal(password, confirm) {
		Wipe(password)
		return nil, fmt.Errorf("passwords do not match")
	}
	return password, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Wipe zeroes b.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
