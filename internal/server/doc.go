// Package server is the collaborator that stores and relays cipherboard data.
//
// The server is deliberately blind. It stores password verifier hashes,
// salts, public keys, wrapped private keys, membership and invitation wraps,
// and ciphertext, but never a master key, a resource key or any plaintext
// content. All encryption happens on the client in internal/secrets.
//
// # Sessions
//
// Login issues a fresh random 256-bit session key per login. The key is
// sealed under the server's database key before it is written to the store
// and is handed back to the client on every request through SessionKey.
// Sessions expire after a configurable timeout, after which SessionKey
// returns ErrNoSession and the client must log in again.
//
// # Access Checks
//
// Every page operation requires the caller to hold a membership of the
// page. Invitations are checked against the invitee's account: the user must
// exist, must not be the inviter and must not already be a member.
package server
