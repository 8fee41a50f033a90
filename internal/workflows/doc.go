// Package workflows provides high-level orchestration for cipherboard commands.
//
// Workflows coordinate the packages below them (secrets, session, server,
// audit, metrics) to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads passwords from the terminal
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Resolving keys through the session
//   - Encrypting and decrypting page content
//   - Calling the server
//   - Recording audit trail entries and metrics
//
// # Available Workflows
//
//   - Register, Login, Logout: account life cycle
//   - CreatePage, ListPages, ViewPage, Members: pages
//   - AddPost, DeletePost: posts
//   - InviteUsers, ListInvitations, AcceptInvitation, DeclineInvitation: sharing
//
// # Key Material
//
// No workflow keeps an unwrapped key past its own return. The master key
// is recovered from the session for each call and destroyed on every exit
// path, as is every resource key and private key.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. When an
// error means the key chain can no longer be trusted (ErrNoSession or
// ErrKeyChainBroken) the local session is cleared before returning, so the
// user must log in again:
//
//	result, err := workflows.ViewPage(ctx, client, opts)
//	if kerrors.RequiresReauth(err) {
//	    // Ask the user to log in
//	}
//
// Content fields that fail to decrypt do not fail the workflow; they come
// back as secrets.FieldResult values carrying the error.
package workflows
