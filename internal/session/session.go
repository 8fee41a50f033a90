// Package session holds the client's state between commands.
//
// A Session is created only by Begin, at login, and removed only by End.
// It carries the master key wrapped under the server-issued session key,
// never the master key itself; every operation that needs key material
// receives the Session explicitly and resolves keys from it on demand.
//
// Sessions are replaced wholesale. Two logins from the same client race and
// the last writer wins.
package session

import (
	"fmt"
	"time"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
)

// Session is the client-side record of a login.
type Session struct {
	Username         string    `toml:"username"`
	Token            string    `toml:"token"`
	WrappedMasterKey string    `toml:"wrapped_master_key"`
	StartedAt        time.Time `toml:"started_at"`
}

// Require returns ErrNoSession unless every slot is filled.
func (s *Session) Require() error {
	if s == nil || s.Username == "" || s.Token == "" || s.WrappedMasterKey == "" {
		return kerrors.ErrNoSession
	}
	return nil
}

// MasterKey unwraps the master key with the session key the server handed
// out for this login. The caller must Destroy the result.
func (s *Session) MasterKey(sessionKey *secrets.Secret) (*secrets.Secret, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	return secrets.ResolveMasterKey(s.WrappedMasterKey, sessionKey)
}

// ResourceKey walks the full chain to a page's resource key. The caller
// must Destroy the result.
func (s *Session) ResourceKey(sessionKey *secrets.Secret, membershipWrap string) (*secrets.Secret, error) {
	if err := s.Require(); err != nil {
		return nil, err
	}
	return secrets.ResolveResourceKey(s.WrappedMasterKey, sessionKey, membershipWrap)
}

// Slots is client-local storage for the current session.
type Slots interface {
	// Load returns the stored session, or ErrNoSession if there is none.
	Load() (*Session, error)
	// Save replaces the stored session.
	Save(*Session) error
	// Clear removes the stored session. Clearing empty slots succeeds.
	Clear() error
}

// Begin starts a session: the master key is wrapped under the session key
// and the slots are replaced. Neither key is retained.
func Begin(slots Slots, username, token string, masterKey, sessionKey *secrets.Secret) (*Session, error) {
	wrapped, err := secrets.WrapMasterKey(sessionKey, masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap master key for session: %w", err)
	}

	sess := &Session{
		Username:         username,
		Token:            token,
		WrappedMasterKey: wrapped,
		StartedAt:        time.Now().UTC(),
	}
	if err := sess.Require(); err != nil {
		return nil, err
	}
	if err := slots.Save(sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return sess, nil
}

// End discards the session.
func End(slots Slots) error {
	if err := slots.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
