package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"github.com/cipherboard/cipherboard/internal/audit"
	"github.com/cipherboard/cipherboard/internal/configs"
	"github.com/spf13/cobra"
)

var (
	testRootOnce sync.Once
	testRoot     *cobra.Command
)

// rootForTest returns one root command carrying every command group.
func rootForTest() *cobra.Command {
	testRootOnce.Do(func() {
		testRoot = &cobra.Command{Use: "cipherboard"}
		testRoot.AddCommand(Commands()...)
	})
	return testRoot
}

// setupTestEnvironment points the user settings and data directory at
// temporary directories for one test.
func setupTestEnvironment(t *testing.T) {
	t.Helper()

	tempDir := t.TempDir()
	original := *configs.UserSettings
	configs.UserSettings.ConfigPath = filepath.Join(tempDir, "config")
	configs.UserSettings.DataPath = filepath.Join(tempDir, "data")
	t.Setenv(configs.EnvDataDir, "")
	t.Setenv(configs.EnvSessionTimeout, "")

	t.Cleanup(func() {
		*configs.UserSettings = original
		audit.SetPath("")
		ResetGlobalState()
	})
}

// runCommand executes the CLI with args, feeding stdin to the process and
// returning everything written to stdout and stderr.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	ResetGlobalState()

	stdinFile := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(stdinFile, []byte(stdin), 0600); err != nil {
		t.Fatalf("Failed to write stdin: %v", err)
	}
	in, err := os.Open(stdinFile)
	if err != nil {
		t.Fatalf("Failed to open stdin: %v", err)
	}
	defer in.Close()

	originalStdin := os.Stdin
	os.Stdin = in
	defer func() { os.Stdin = originalStdin }()

	root := rootForTest()
	root.SetArgs(args)
	return captureOutput(root.Execute)
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	reader, writer, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stdout = writer
	os.Stderr = writer

	outputChan := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, reader)
		outputChan <- buf.String()
	}()

	runErr := fn()

	writer.Close()
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-outputChan, runErr
}

var uuidPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// firstID returns the first UUID in output.
func firstID(t *testing.T, output string) string {
	t.Helper()
	id := uuidPattern.FindString(output)
	if id == "" {
		t.Fatalf("No ID found in output:\n%s", output)
	}
	return id
}
