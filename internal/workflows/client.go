package workflows

import (
	"context"
	"errors"
	"time"

	"github.com/cipherboard/cipherboard/internal/audit"
	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	logger "github.com/cipherboard/cipherboard/internal/logging"
	"github.com/cipherboard/cipherboard/internal/metrics"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/server"
	"github.com/cipherboard/cipherboard/internal/session"
)

// Client is what every workflow talks to. Metrics may be nil.
type Client struct {
	Server  *server.Server
	Slots   session.Slots
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// operation tracks one workflow run for audit and metrics.
type operation struct {
	client *Client
	name   string
	start  time.Time
	entry  audit.Entry
}

func (c *Client) begin(name string) *operation {
	return &operation{client: c, name: name, start: time.Now()}
}

// finish records the outcome of the operation. A failure that invalidates
// the key chain also clears the local session.
func (op *operation) finish(err error) {
	c := op.client
	kind := kerrors.Classify(err)

	if c.Metrics != nil {
		c.Metrics.ObserveDuration(op.name, time.Since(op.start))
		c.Metrics.RecordCryptoOperation(op.name, err)
		switch kind {
		case kerrors.KindKeyChainBroken, kerrors.KindUnwrap, kerrors.KindDecryption, kerrors.KindNoSession:
			c.Metrics.RecordKeychainFailure(string(kind))
		}
	}

	if kerrors.RequiresReauth(err) {
		c.Logger.Debugf("%s: %v, clearing session", op.name, err)
		if clearErr := session.End(c.Slots); clearErr != nil {
			c.Logger.Warnf("could not clear session: %v", clearErr)
		}
	}

	op.entry.Operation = op.name
	op.entry.Outcome = audit.OutcomeOK
	if err != nil {
		op.entry.Outcome = audit.OutcomeFailed
		op.entry.ErrorKind = string(kind)
	}
	audit.Log(op.entry)
}

// active loads the current session and fetches its session key from the
// server. The caller must Destroy the key.
func (c *Client) active(ctx context.Context, op *operation) (*session.Session, *secrets.Secret, error) {
	sess, err := c.Slots.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := sess.Require(); err != nil {
		return nil, nil, err
	}
	op.entry.User = sess.Username

	encoded, err := c.Server.SessionKey(ctx, sess.Token)
	if err != nil {
		return nil, nil, err
	}
	sessionKey, err := secrets.SecretFromBase64(encoded)
	if err != nil {
		return nil, nil, errors.Join(kerrors.ErrNoSession, err)
	}
	return sess, sessionKey, nil
}

// withMasterKey runs fn with the master key of the active session.
func (c *Client) withMasterKey(ctx context.Context, op *operation, fn func(sess *session.Session, masterKey *secrets.Secret) error) error {
	sess, sessionKey, err := c.active(ctx, op)
	if err != nil {
		return err
	}
	defer sessionKey.Destroy()

	return secrets.WithMasterKey(sess.WrappedMasterKey, sessionKey, func(masterKey *secrets.Secret) error {
		return fn(sess, masterKey)
	})
}
