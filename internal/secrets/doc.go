// Package secrets implements cipherboard's key hierarchy.
//
// This package handles every cryptographic operation on the client: the
// envelope codec, the AES-CBC cipher, password key derivation, RSA-OAEP
// identity keypairs, and the wrap/unwrap steps that move a page's key
// between users without the server ever seeing it in the clear.
//
// # Key Hierarchy
//
// Keys are nested across four trust boundaries:
//
//  1. A password and a per-user salt derive the Master Key (PBKDF2, 100,000 iterations)
//  2. A per-login Session Key from the server wraps the Master Key for the session
//  3. Each page has a random Resource Key, wrapped under every member's Master Key
//  4. The Resource Key encrypts the page title, description and each post separately
//
// Invitations carry the Resource Key wrapped to the invitee's RSA public key.
// Accepting one re-wraps the key under the invitee's Master Key, after which
// access goes through the ordinary chain (ResolveResourceKey).
//
// # Envelopes
//
// Every symmetric ciphertext travels as an envelope string:
//
//	hex(iv) + ":" + hex(ciphertext)
//
// The IV is 16 random bytes generated per call, so encrypting the same
// plaintext twice under one key never produces the same envelope.
//
// # Transient Secrets
//
// Unwrapped keys are held in Secret values backed by memguard locked
// buffers. Whoever produces a Secret destroys it, normally with defer right
// after the error check; WithResourceKey and WithMasterKey do this for the
// caller. Nothing in this package caches an unwrapped key.
//
// # Errors
//
// Failures are sentinel values from internal/errors. A wrong key at any hop
// of the chain surfaces as ErrKeyChainBroken wrapping ErrDecryptionFailure,
// never as a plausible-looking wrong key.
package secrets
