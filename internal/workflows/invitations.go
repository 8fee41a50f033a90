package workflows

import (
	"context"
	"crypto/rsa"
	"fmt"
	"sort"
	"time"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/session"
	"github.com/cipherboard/cipherboard/internal/store"
)

// InviteUsersOptions configures the invite workflow.
type InviteUsersOptions struct {
	PageID   string
	Invitees []string
}

// InviteOutcome is the result of inviting one user.
type InviteOutcome struct {
	Username string
	InviteID string
	Err      error
}

// InviteUsersResult contains one outcome per invitee, sorted by username.
type InviteUsersResult struct {
	PageID   string
	Outcomes []InviteOutcome
}

// Sent returns the number of invitations the server accepted.
func (r *InviteUsersResult) Sent() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// InviteUsers wraps a page's key to each invitee's public key and sends
// the invitations. Unknown users fail the call before anything is sent;
// after that each invitee succeeds or fails on its own, for example with
// ErrAlreadyMember.
func InviteUsers(ctx context.Context, c *Client, opts InviteUsersOptions) (*InviteUsersResult, error) {
	op := c.begin("invite")
	op.entry.PageID = opts.PageID
	if len(opts.Invitees) == 1 {
		op.entry.TargetUser = opts.Invitees[0]
	}

	result, err := inviteUsers(ctx, c, op, opts)
	if result != nil {
		op.entry.Count = result.Sent()
	}
	op.finish(err)
	return result, err
}

func inviteUsers(ctx context.Context, c *Client, op *operation, opts InviteUsersOptions) (*InviteUsersResult, error) {
	if len(opts.Invitees) == 0 {
		return nil, fmt.Errorf("%w: nobody to invite", kerrors.ErrInvalidInput)
	}

	sess, sessionKey, err := c.active(ctx, op)
	if err != nil {
		return nil, err
	}
	defer sessionKey.Destroy()

	view, err := c.Server.Page(ctx, sess.Token, opts.PageID)
	if err != nil {
		return nil, err
	}
	publicKeys, err := publicKeysFor(ctx, c, sess.Username, opts.Invitees)
	if err != nil {
		return nil, err
	}

	var wraps map[string]string
	err = secrets.WithResourceKey(sess.WrappedMasterKey, sessionKey, view.MembershipWrap, func(resourceKey *secrets.Secret) error {
		wraps, err = secrets.ShareWithAll(ctx, resourceKey, publicKeys)
		return err
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(wraps))
	for name := range wraps {
		names = append(names, name)
	}
	sort.Strings(names)

	result := &InviteUsersResult{PageID: opts.PageID}
	for _, name := range names {
		inviteID, err := c.Server.Invite(ctx, sess.Token, opts.PageID, name, wraps[name])
		if err != nil {
			c.Logger.Warnf("invite %s: %v", name, err)
		}
		result.Outcomes = append(result.Outcomes, InviteOutcome{Username: name, InviteID: inviteID, Err: err})
	}
	return result, nil
}

// InvitationView is one pending invitation with its page title decrypted.
type InvitationView struct {
	InviteID  string
	PageID    string
	InvitedBy string
	Title     secrets.FieldResult
	CreatedAt time.Time
}

// ListInvitationsResult contains the caller's pending invitations.
type ListInvitationsResult struct {
	Invitations []InvitationView
}

// ListInvitations lists invitations addressed to the caller. Each one is
// opened just long enough to decrypt its page title; an invitation that
// does not open is listed with the failure in its Title.
func ListInvitations(ctx context.Context, c *Client) (*ListInvitationsResult, error) {
	op := c.begin("list_invitations")

	result, err := listInvitations(ctx, c, op)
	if result != nil {
		op.entry.Count = len(result.Invitations)
	}
	op.finish(err)
	return result, err
}

func listInvitations(ctx context.Context, c *Client, op *operation) (*ListInvitationsResult, error) {
	result := &ListInvitationsResult{}
	err := c.withPrivateKey(ctx, op, func(sess *session.Session, _ *secrets.Secret, privateKey *rsa.PrivateKey) error {
		invitations, err := c.Server.Invitations(ctx, sess.Token)
		if err != nil {
			return err
		}
		for _, inv := range invitations {
			view := InvitationView{
				InviteID:  inv.ID,
				PageID:    inv.PageID,
				InvitedBy: inv.InvitedBy,
				CreatedAt: inv.CreatedAt,
				Title:     openInvitationTitle(privateKey, inv),
			}
			if !view.Title.OK() {
				c.Logger.Debugf("invitation %s: %v", inv.ID, view.Title.Err)
			}
			result.Invitations = append(result.Invitations, view)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func openInvitationTitle(privateKey *rsa.PrivateKey, inv store.Invitation) secrets.FieldResult {
	resourceKey, err := secrets.OpenInvitation(privateKey, inv.WrappedKey)
	if err != nil {
		return secrets.FieldResult{Err: err}
	}
	defer resourceKey.Destroy()
	return secrets.DecryptField(resourceKey, inv.EncryptedTitle)
}

// AcceptInvitationOptions configures the accept workflow.
type AcceptInvitationOptions struct {
	InviteID string
}

// AcceptInvitationResult contains the page that was joined.
type AcceptInvitationResult struct {
	PageID string
	Title  secrets.FieldResult
}

// AcceptInvitation opens an invitation with the caller's private key and
// re-wraps the page key under their master key, turning the invitation
// into an ordinary membership.
//
// Returns ErrUnwrapFailure if the invitation was not wrapped to this
// user's key, and ErrAlreadyMember if they already belong to the page.
func AcceptInvitation(ctx context.Context, c *Client, opts AcceptInvitationOptions) (*AcceptInvitationResult, error) {
	op := c.begin("accept_invitation")
	op.entry.InviteID = opts.InviteID

	result, err := acceptInvitation(ctx, c, op, opts)
	if result != nil {
		op.entry.PageID = result.PageID
	}
	op.finish(err)
	return result, err
}

func acceptInvitation(ctx context.Context, c *Client, op *operation, opts AcceptInvitationOptions) (*AcceptInvitationResult, error) {
	var result *AcceptInvitationResult
	err := c.withPrivateKey(ctx, op, func(sess *session.Session, masterKey *secrets.Secret, privateKey *rsa.PrivateKey) error {
		inv, err := findInvitation(ctx, c, sess, opts.InviteID)
		if err != nil {
			return err
		}

		membershipWrap, err := secrets.AcceptInvitation(privateKey, inv.WrappedKey, masterKey)
		if err != nil {
			return err
		}

		pageID, err := c.Server.AcceptInvitation(ctx, sess.Token, inv.ID, membershipWrap)
		if err != nil {
			return err
		}
		result = &AcceptInvitationResult{
			PageID: pageID,
			Title:  openField(masterKey, membershipWrap, inv.EncryptedTitle),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeclineInvitationOptions configures the decline workflow.
type DeclineInvitationOptions struct {
	InviteID string
}

// DeclineInvitation discards an invitation without opening it.
func DeclineInvitation(ctx context.Context, c *Client, opts DeclineInvitationOptions) error {
	op := c.begin("decline_invitation")
	op.entry.InviteID = opts.InviteID

	err := declineInvitation(ctx, c, op, opts)
	op.finish(err)
	return err
}

func declineInvitation(ctx context.Context, c *Client, op *operation, opts DeclineInvitationOptions) error {
	sess, err := c.Slots.Load()
	if err != nil {
		return err
	}
	op.entry.User = sess.Username
	return c.Server.DeclineInvitation(ctx, sess.Token, opts.InviteID)
}

func findInvitation(ctx context.Context, c *Client, sess *session.Session, inviteID string) (*store.Invitation, error) {
	invitations, err := c.Server.Invitations(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	for i := range invitations {
		if invitations[i].ID == inviteID {
			return &invitations[i], nil
		}
	}
	return nil, kerrors.ErrInviteNotFound
}

// withPrivateKey runs fn with the master key and the unwrapped RSA private
// key of the active session. Both are destroyed when fn returns.
func (c *Client) withPrivateKey(ctx context.Context, op *operation, fn func(sess *session.Session, masterKey *secrets.Secret, privateKey *rsa.PrivateKey) error) error {
	return c.withMasterKey(ctx, op, func(sess *session.Session, masterKey *secrets.Secret) error {
		wrapped, err := c.Server.WrappedPrivateKey(ctx, sess.Token)
		if err != nil {
			return err
		}
		privateKey, err := secrets.UnwrapPrivateKey(masterKey, wrapped)
		if err != nil {
			return fmt.Errorf("%w: master key does not open private key: %w", kerrors.ErrKeyChainBroken, err)
		}
		defer secrets.WipePrivateKey(privateKey)

		return fn(sess, masterKey, privateKey)
	})
}
