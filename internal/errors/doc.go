// Package errors provides typed error values for cipherboard.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Crypto errors: envelope, cipher, key format and key chain failures
//     (ErrMalformedEnvelope, ErrDecryptionFailure, ErrKeyChainBroken, ErrNoSession)
//   - Account errors: registration and authentication (ErrUserExists, ErrAuthFailed)
//   - Page errors: pages, posts and membership (ErrPageNotFound, ErrNotMember)
//   - Invitation errors: pending invitations (ErrSelfInvite, ErrInviteNotFound)
//
// # Classification
//
// Classify maps any wrapped error onto a Kind. Expected failures such as a
// DecryptionFailure are ordinary values, not panics, and Kind.Retryable is
// false for every cryptographic kind. RequiresReauth tells the caller when
// derived state must be dropped and the user sent back to login:
//
//	view, err := workflows.ViewPage(ctx, opts)
//	if kerrors.RequiresReauth(err) {
//	    // session already cleared by the workflow; prompt for login
//	}
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("unwrapping membership for page %s: %w", pageID, errors.ErrKeyChainBroken)
package errors
