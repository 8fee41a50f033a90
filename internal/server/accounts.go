package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/store"
	"github.com/cipherboard/cipherboard/internal/utils"
)

var (
	unknownUserOnce sync.Once
	unknownUserHash []byte
)

// decoyHash is compared against when a login names an unknown user, so the
// answer takes as long as a wrong password does.
func decoyHash() []byte {
	unknownUserOnce.Do(func() {
		unknownUserHash, _ = bcrypt.GenerateFromPassword([]byte("cipherboard unknown user"), bcrypt.DefaultCost)
	})
	return unknownUserHash
}

// RegisterRequest carries everything the server keeps about a new account.
// None of it is secret in the clear: the private key arrives wrapped under
// the user's master key.
type RegisterRequest struct {
	Username          string
	Email             string
	Verifier          string
	PublicKey         string
	WrappedPrivateKey string
	Salt              string
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token             string
	SessionKey        string
	WrappedPrivateKey string
	Salt              string
	PublicKey         string
}

// Register creates an account. The verifier is stored only as a bcrypt hash.
func (s *Server) Register(ctx context.Context, req RegisterRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !store.ValidName(req.Username) {
		return fmt.Errorf("%w: username may contain letters, digits, '.', '_' and '-'", kerrors.ErrInvalidInput)
	}
	if req.Email != "" && !utils.IsValidEmail(req.Email) {
		return fmt.Errorf("%w: invalid email %q", kerrors.ErrInvalidInput, req.Email)
	}
	if req.Verifier == "" || req.Salt == "" || req.WrappedPrivateKey == "" {
		return fmt.Errorf("%w: verifier, salt and wrapped private key are required", kerrors.ErrInvalidInput)
	}
	if _, err := secrets.ImportPublicKey(req.PublicKey); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Verifier), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash verifier: %w", err)
	}

	return s.store.CreateUser(store.User{
		Username:          req.Username,
		Email:             req.Email,
		VerifierHash:      string(hash),
		Salt:              req.Salt,
		PublicKey:         req.PublicKey,
		WrappedPrivateKey: req.WrappedPrivateKey,
		CreatedAt:         s.now().UTC(),
	})
}

// Salt returns the user's key derivation salt.
func (s *Server) Salt(ctx context.Context, username string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	user, err := s.store.GetUser(username)
	if err != nil {
		return "", err
	}
	return user.Salt, nil
}

// Login checks the verifier and opens a session with a fresh session key.
// Unknown users and wrong verifiers both fail with ErrAuthFailed.
func (s *Server) Login(ctx context.Context, username, verifier string) (*LoginResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(username)
	if errors.Is(err, kerrors.ErrUserNotFound) {
		_ = s.compareHash(decoyHash(), []byte(verifier))
		return nil, kerrors.ErrAuthFailed
	}
	if err != nil {
		return nil, err
	}
	if err := s.compareHash([]byte(user.VerifierHash), []byte(verifier)); err != nil {
		return nil, kerrors.ErrAuthFailed
	}

	sessionKey := secrets.RandomSecret(secrets.KeySize)
	defer sessionKey.Destroy()

	encoded := sessionKey.Base64()
	sealed, err := secrets.EncryptString(s.databaseKey, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to seal session key: %w", err)
	}

	token := store.NewID()
	err = s.store.PutSession(store.Session{
		Token:     token,
		Username:  user.Username,
		SealedKey: sealed,
		IssuedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:             token,
		SessionKey:        encoded,
		WrappedPrivateKey: user.WrappedPrivateKey,
		Salt:              user.Salt,
		PublicKey:         user.PublicKey,
	}, nil
}

// SessionKey returns the base64 session key for a live session. Unknown and
// expired tokens fail with ErrNoSession.
func (s *Server) SessionKey(ctx context.Context, token string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sess, err := s.liveSession(token)
	if err != nil {
		return "", err
	}
	key, err := secrets.DecryptString(s.databaseKey, sess.SealedKey)
	if err != nil {
		return "", fmt.Errorf("%w: sealed session key unreadable: %w", kerrors.ErrNoSession, err)
	}
	return key, nil
}

// Logout ends a session. Logging out of an unknown session succeeds.
func (s *Server) Logout(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.DeleteSession(token)
}

// PublicKey returns a user's armored public key.
func (s *Server) PublicKey(ctx context.Context, username string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	user, err := s.store.GetUser(username)
	if err != nil {
		return "", err
	}
	return user.PublicKey, nil
}

// WrappedPrivateKey returns the caller's private key, still wrapped under
// their master key.
func (s *Server) WrappedPrivateKey(ctx context.Context, token string) (string, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	user, err := s.store.GetUser(username)
	if err != nil {
		return "", err
	}
	return user.WrappedPrivateKey, nil
}
