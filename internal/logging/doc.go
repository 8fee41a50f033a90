// Package logger provides levelled logging for cipherboard commands.
//
// Output is prefixed and coloured with fatih/color. Logging never carries
// key material: log usernames, page IDs and error kinds, not keys,
// passwords or plaintext.
//
// # Verbosity Levels
//
//   - --verbose: shows info and warning messages
//   - --debug: shows everything, including errors as they are returned
//
// Without flags only WarnfAlways reaches the terminal; errors are reported
// by the command layer.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Resolved key chain for page %s", pageID)
//	return log.ErrorfAndReturn("failed to load session: %w", err)
//
// Commands create a logger in their PersistentPreRun and pass it to the
// workflows.
package logger
