package errors

import "errors"

// Kind tags an error with the category the caller should react to.
type Kind string

const (
	KindNone              Kind = ""
	KindMalformedEnvelope Kind = "malformed_envelope"
	KindCipher            Kind = "cipher_error"
	KindDecryption        Kind = "decryption_failure"
	KindInvalidKeyFormat  Kind = "invalid_key_format"
	KindUnwrap            Kind = "unwrap_failure"
	KindKeyChainBroken    Kind = "key_chain_broken"
	KindNoSession         Kind = "no_session"
	KindRejected          Kind = "rejected"
	KindOther             Kind = "other"
)

// ordered so that composite errors classify by their outermost meaning:
// a broken chain wraps the DecryptionFailure that caused it.
var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrNoSession, KindNoSession},
	{ErrKeyChainBroken, KindKeyChainBroken},
	{ErrUnwrapFailure, KindUnwrap},
	{ErrInvalidKeyFormat, KindInvalidKeyFormat},
	{ErrMalformedEnvelope, KindMalformedEnvelope},
	{ErrCipher, KindCipher},
	{ErrDecryptionFailure, KindDecryption},
}

var rejections = []error{
	ErrUserExists, ErrUserNotFound, ErrAuthFailed, ErrInvalidInput,
	ErrPageNotFound, ErrNotMember, ErrAlreadyMember, ErrPostNotFound, ErrNotAuthor,
	ErrSelfInvite, ErrInviteNotFound,
}

// Classify returns the Kind of err, or KindNone for a nil error.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	for _, r := range rejections {
		if errors.Is(err, r) {
			return KindRejected
		}
	}
	return KindOther
}

// Retryable reports whether repeating the same operation could succeed.
// Cryptographic failures never are.
func (k Kind) Retryable() bool {
	return k == KindOther
}

// RequiresReauth reports whether the caller must drop all derived key
// material and establish a new session.
func RequiresReauth(err error) bool {
	switch Classify(err) {
	case KindNoSession, KindKeyChainBroken:
		return true
	}
	return false
}
