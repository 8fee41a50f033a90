package workflows

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/server"
	"github.com/cipherboard/cipherboard/internal/session"
)

// RegisterOptions configures the register workflow.
type RegisterOptions struct {
	Username string
	Email    string
	Password []byte
}

// RegisterResult contains the outcome of a registration.
type RegisterResult struct {
	Username  string
	PublicKey string
}

// Register creates an account. The password never leaves the client: the
// server receives a verifier, the salt, the public key and the private key
// wrapped under the password-derived master key.
func Register(ctx context.Context, c *Client, opts RegisterOptions) (*RegisterResult, error) {
	op := c.begin("register")
	op.entry.User = opts.Username

	result, err := register(ctx, c, opts)
	op.finish(err)
	return result, err
}

func register(ctx context.Context, c *Client, opts RegisterOptions) (*RegisterResult, error) {
	if len(opts.Password) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrInvalidInput)
	}
	password := string(opts.Password)

	salt, err := secrets.GenerateSalt()
	if err != nil {
		return nil, err
	}

	c.Logger.Debugf("Deriving master key")
	masterKey, err := secrets.DerivePasswordKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer masterKey.Destroy()

	c.Logger.Debugf("Generating RSA keypair")
	privateKey, err := secrets.GenerateKeypair()
	if err != nil {
		return nil, err
	}
	defer secrets.WipePrivateKey(privateKey)

	publicKey, err := secrets.ExportPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	wrappedPrivateKey, err := secrets.WrapPrivateKey(masterKey, privateKey)
	if err != nil {
		return nil, err
	}

	err = c.Server.Register(ctx, server.RegisterRequest{
		Username:          opts.Username,
		Email:             opts.Email,
		Verifier:          secrets.PasswordVerifier(password),
		PublicKey:         publicKey,
		WrappedPrivateKey: wrappedPrivateKey,
		Salt:              salt,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Infof("Registered %s", opts.Username)

	return &RegisterResult{Username: opts.Username, PublicKey: publicKey}, nil
}

// LoginOptions configures the login workflow.
type LoginOptions struct {
	Username string
	Password []byte
}

// LoginResult contains the outcome of a login.
type LoginResult struct {
	Username string
}

// Login authenticates and starts a session. Any previous session in the
// slots is replaced.
//
// Returns ErrAuthFailed for an unknown user or wrong password.
func Login(ctx context.Context, c *Client, opts LoginOptions) (*LoginResult, error) {
	op := c.begin("login")
	op.entry.User = opts.Username

	result, err := login(ctx, c, opts)
	op.finish(err)
	return result, err
}

func login(ctx context.Context, c *Client, opts LoginOptions) (*LoginResult, error) {
	if len(opts.Password) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrInvalidInput)
	}
	password := string(opts.Password)

	resp, err := c.Server.Login(ctx, opts.Username, secrets.PasswordVerifier(password))
	if err != nil {
		return nil, err
	}

	masterKey, err := secrets.DerivePasswordKey(password, resp.Salt)
	if err != nil {
		return nil, err
	}
	defer masterKey.Destroy()

	// A master key that cannot open the stored private key came from the
	// wrong password, whatever the server said about the verifier.
	privateKey, err := secrets.UnwrapPrivateKey(masterKey, resp.WrappedPrivateKey)
	if err != nil {
		c.Logger.Debugf("private key did not open: %v", err)
		if logoutErr := c.Server.Logout(ctx, resp.Token); logoutErr != nil {
			c.Logger.Warnf("could not close server session: %v", logoutErr)
		}
		return nil, fmt.Errorf("%w: stored private key does not open with this password", kerrors.ErrAuthFailed)
	}
	secrets.WipePrivateKey(privateKey)

	sessionKey, err := secrets.SecretFromBase64(resp.SessionKey)
	if err != nil {
		return nil, errors.Join(kerrors.ErrNoSession, err)
	}
	defer sessionKey.Destroy()

	if _, err := session.Begin(c.Slots, opts.Username, resp.Token, masterKey, sessionKey); err != nil {
		return nil, err
	}
	c.Logger.Infof("Logged in as %s", opts.Username)

	return &LoginResult{Username: opts.Username}, nil
}

// LogoutResult contains the outcome of a logout.
type LogoutResult struct {
	Username string
	// WasLoggedIn is false when there was no local session to end.
	WasLoggedIn bool
}

// Logout ends the session on the server and clears the local slots. The
// local session is cleared even if the server no longer knows the token.
func Logout(ctx context.Context, c *Client) (*LogoutResult, error) {
	op := c.begin("logout")

	result, err := logout(ctx, c, op)
	op.finish(err)
	return result, err
}

func logout(ctx context.Context, c *Client, op *operation) (*LogoutResult, error) {
	sess, err := c.Slots.Load()
	if err != nil {
		// An unreadable slot cannot name a server session, but it can
		// still be cleared.
		if !errors.Is(err, kerrors.ErrNoSession) {
			c.Logger.Warnf("discarding unreadable session: %v", err)
		}
		return &LogoutResult{}, session.End(c.Slots)
	}
	op.entry.User = sess.Username

	if err := c.Server.Logout(ctx, sess.Token); err != nil {
		c.Logger.Warnf("server logout failed: %v", err)
	}
	if err := session.End(c.Slots); err != nil {
		return nil, err
	}
	return &LogoutResult{Username: sess.Username, WasLoggedIn: true}, nil
}

// WhoAmI returns the username of the stored session without contacting
// the server.
func WhoAmI(c *Client) (string, error) {
	sess, err := c.Slots.Load()
	if err != nil {
		return "", err
	}
	if err := sess.Require(); err != nil {
		return "", err
	}
	return sess.Username, nil
}
