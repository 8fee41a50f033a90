// Package utils provides shared helpers for the cipherboard CLI.
//
// # Terminal Utilities
//
//   - ReadPassword / ReadNewPassword: hidden password prompts, falling back
//     to one line of stdin when no terminal is attached
//   - IsTerminal: checks whether stdin is a terminal
//
// # Filesystem Utilities
//
//   - OSFileSystem: an absfs.FileSystem rooted at a directory on disk; the
//     local server store runs on it
//
// # String Utilities
//
//   - IsValidEmail, SplitUsernames, ShortID, SanitizeUsername
package utils
