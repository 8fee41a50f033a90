package errors

import "errors"

// Cryptographic errors indicate failures in the key hierarchy or its primitives.
// None of them are retryable: repeating the operation with the same inputs
// cannot succeed.
var (
	// ErrMalformedEnvelope indicates an envelope string is not "hex(iv):hex(ciphertext)".
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrCipher indicates invalid cipher parameters, such as a key that is not 256 bits.
	ErrCipher = errors.New("invalid cipher parameters")

	// ErrDecryptionFailure indicates a ciphertext did not decrypt under the given key.
	ErrDecryptionFailure = errors.New("decryption failed")

	// ErrInvalidKeyFormat indicates armored key text could not be parsed as the requested kind.
	ErrInvalidKeyFormat = errors.New("invalid key format")

	// ErrUnwrapFailure indicates an asymmetric wrap was not addressed to this keypair.
	ErrUnwrapFailure = errors.New("invitation not valid for you")

	// ErrKeyChainBroken indicates a hop of the session → master → resource key chain failed.
	ErrKeyChainBroken = errors.New("key chain broken")

	// ErrNoSession indicates the session key material is missing or expired.
	ErrNoSession = errors.New("no active session")
)

// Account errors indicate issues with registration or authentication.
var (
	// ErrUserExists indicates the username is already registered.
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound indicates the specified user could not be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrAuthFailed indicates the username or password was wrong.
	ErrAuthFailed = errors.New("invalid username or password")

	// ErrInvalidInput indicates a request field was empty or malformed.
	ErrInvalidInput = errors.New("invalid input")
)

// Page errors indicate issues with pages, posts and membership.
var (
	// ErrPageNotFound indicates the page does not exist.
	ErrPageNotFound = errors.New("page not found")

	// ErrNotMember indicates the user is not a member of the page.
	ErrNotMember = errors.New("user is not a member of this page")

	// ErrAlreadyMember indicates the invitee already belongs to the page.
	ErrAlreadyMember = errors.New("user is already a member of this page")

	// ErrPostNotFound indicates the post does not exist on the page.
	ErrPostNotFound = errors.New("post not found")

	// ErrNotAuthor indicates the user tried to modify someone else's post.
	ErrNotAuthor = errors.New("only the author can modify this post")
)

// Invitation errors indicate issues with pending invitations.
var (
	// ErrSelfInvite indicates a user attempted to invite themselves.
	ErrSelfInvite = errors.New("cannot invite yourself")

	// ErrInviteNotFound indicates the invitation does not exist or is addressed to someone else.
	ErrInviteNotFound = errors.New("invitation not found")
)
