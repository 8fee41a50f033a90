package server

import (
	"context"
	"errors"
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/store"
)

// Invite offers a page to another user. The wrap is the page key encrypted
// to the invitee's public key; the server cannot open it. A second invite
// to the same user replaces the pending one.
func (s *Server) Invite(ctx context.Context, token, pageID, invitee, wrap string) (string, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	if wrap == "" {
		return "", fmt.Errorf("%w: empty invitation wrap", kerrors.ErrInvalidInput)
	}
	if _, err := s.requireMember(pageID, username); err != nil {
		return "", err
	}
	if err := s.checkInvitee(username, invitee); err != nil {
		return "", err
	}
	if _, err := s.store.GetMembership(pageID, invitee); err == nil {
		return "", kerrors.ErrAlreadyMember
	} else if !errors.Is(err, kerrors.ErrNotMember) {
		return "", err
	}

	page, err := s.store.GetPage(pageID)
	if err != nil {
		return "", err
	}

	inv := store.Invitation{
		ID:             store.NewID(),
		PageID:         pageID,
		Invitee:        invitee,
		InvitedBy:      username,
		WrappedKey:     wrap,
		EncryptedTitle: page.EncryptedTitle,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.PutInvitation(inv); err != nil {
		return "", err
	}
	return inv.ID, nil
}

// Invitations lists the invitations addressed to the caller.
func (s *Server) Invitations(ctx context.Context, token string) ([]store.Invitation, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store.InvitationsFor(username)
}

// AcceptInvitation turns an invitation into a membership using the wrap
// the invitee produced under their own master key. The invitation is
// consumed and the page ID returned.
func (s *Server) AcceptInvitation(ctx context.Context, token, inviteID, membershipWrap string) (string, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	if membershipWrap == "" {
		return "", fmt.Errorf("%w: empty membership wrap", kerrors.ErrInvalidInput)
	}

	inv, err := s.ownInvitation(inviteID, username)
	if err != nil {
		return "", err
	}

	if _, err := s.store.GetMembership(inv.PageID, username); err == nil {
		if err := s.store.DeleteInvitation(inv.ID); err != nil {
			return "", err
		}
		return "", kerrors.ErrAlreadyMember
	}

	err = s.store.PutMembership(store.Membership{
		PageID:     inv.PageID,
		Username:   username,
		WrappedKey: membershipWrap,
		JoinedAt:   s.now().UTC(),
	})
	if err != nil {
		return "", err
	}
	if err := s.store.DeleteInvitation(inv.ID); err != nil {
		return "", err
	}
	return inv.PageID, nil
}

// DeclineInvitation discards an invitation addressed to the caller.
func (s *Server) DeclineInvitation(ctx context.Context, token, inviteID string) error {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}
	inv, err := s.ownInvitation(inviteID, username)
	if err != nil {
		return err
	}
	return s.store.DeleteInvitation(inv.ID)
}

// ownInvitation loads an invitation and hides it from anyone but its invitee.
func (s *Server) ownInvitation(inviteID, username string) (*store.Invitation, error) {
	inv, err := s.store.GetInvitation(inviteID)
	if err != nil {
		return nil, err
	}
	if inv.Invitee != username {
		return nil, kerrors.ErrInviteNotFound
	}
	return inv, nil
}

func (s *Server) checkInvitee(inviter, invitee string) error {
	if invitee == inviter {
		return kerrors.ErrSelfInvite
	}
	if _, err := s.store.GetUser(invitee); err != nil {
		if errors.Is(err, kerrors.ErrUserNotFound) {
			return fmt.Errorf("%w: %s", kerrors.ErrUserNotFound, invitee)
		}
		return err
	}
	return nil
}
