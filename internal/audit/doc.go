// Package audit provides audit trail logging for cipherboard operations.
//
// Every user-facing operation (register, login, page creation, posts,
// invitations) is recorded with its outcome in a local audit log. Entries
// name users, pages, posts and invitations by identifier only; nothing
// secret is ever written.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<data dir>/audit.jsonl
//
// Call SetPath once at startup with the configured location.
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display. Malformed entries
// are silently skipped to handle partial writes.
package audit
