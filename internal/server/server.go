package server

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/store"
)

// DefaultSessionTimeout is how long a login stays valid.
const DefaultSessionTimeout = 30 * time.Minute

// Server answers client requests against a Store.
type Server struct {
	store          *store.Store
	databaseKey    *secrets.Secret
	sessionTimeout time.Duration
	now            func() time.Time
	compareHash    func(hash, verifier []byte) error
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTimeout sets how long a login stays valid. Non-positive values
// keep the default.
func WithSessionTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.sessionTimeout = d
		}
	}
}

// WithClock replaces the server's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// New returns a Server over st. The database key is loaded from the store,
// or generated and saved on first use.
func New(st *store.Store, opts ...Option) (*Server, error) {
	s := &Server{
		store:          st,
		sessionTimeout: DefaultSessionTimeout,
		now:            time.Now,
		compareHash:    bcrypt.CompareHashAndPassword,
	}
	for _, opt := range opts {
		opt(s)
	}

	key, err := loadDatabaseKey(st)
	if err != nil {
		return nil, err
	}
	s.databaseKey = key
	return s, nil
}

// Close releases the database key.
func (s *Server) Close() {
	s.databaseKey.Destroy()
}

func loadDatabaseKey(st *store.Store) (*secrets.Secret, error) {
	encoded, err := st.ServerKey()
	if err != nil {
		return nil, fmt.Errorf("failed to load database key: %w", err)
	}
	if encoded != "" {
		key, err := secrets.SecretFromBase64(encoded)
		if err != nil {
			return nil, fmt.Errorf("database key is corrupt: %w", err)
		}
		return key, nil
	}

	key := secrets.RandomSecret(secrets.KeySize)
	if err := st.SaveServerKey(key.Base64()); err != nil {
		key.Destroy()
		return nil, fmt.Errorf("failed to save database key: %w", err)
	}
	return key, nil
}

// authenticate returns the username behind a live session token.
func (s *Server) authenticate(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sess, err := s.liveSession(token)
	if err != nil {
		return "", err
	}
	return sess.Username, nil
}

func (s *Server) liveSession(token string) (*store.Session, error) {
	if token == "" {
		return nil, kerrors.ErrNoSession
	}
	sess, err := s.store.GetSession(token)
	if err != nil {
		return nil, err
	}
	if s.now().Sub(sess.IssuedAt) > s.sessionTimeout {
		if err := s.store.DeleteSession(token); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: session expired", kerrors.ErrNoSession)
	}
	return sess, nil
}

// requireMember returns the caller's membership of a page.
func (s *Server) requireMember(pageID, username string) (*store.Membership, error) {
	if _, err := s.store.GetPage(pageID); err != nil {
		return nil, err
	}
	return s.store.GetMembership(pageID, username)
}
