// Package store persists the server's records on an absfs.FileSystem.
//
// Every record is a small TOML file, laid out under the filesystem root as:
//
//	server.key                              base64 database key
//	users/<username>.toml                   account, salt, public key, wrapped private key
//	sessions/<token>.toml                   sealed session key and issue time
//	pages/<page-id>/page.toml               encrypted title and description
//	pages/<page-id>/members/<username>.toml membership wrap
//	pages/<page-id>/posts/<post-id>.toml    encrypted post
//	invites/<invite-id>.toml                invitation wrap
//
// The store never sees plaintext keys or content. It holds exactly what the
// server is allowed to hold: verifier hashes, salts, public keys and
// ciphertext.
//
// Lookups of missing records return the matching sentinel from
// internal/errors (ErrUserNotFound, ErrPageNotFound and so on), so callers
// can pass them straight through.
package store
