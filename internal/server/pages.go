package server

import (
	"context"
	"fmt"
	"sort"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/store"
)

// CreatePageRequest creates a page and its initial invitations in one call.
// Invitations maps invitee usernames to their invitation wraps.
type CreatePageRequest struct {
	EncryptedTitle       string
	EncryptedDescription string
	CreatorWrap          string
	Invitations          map[string]string
}

// CreatePageResponse names the new page and the invitations it created.
type CreatePageResponse struct {
	PageID  string
	Invited []string
}

// PageView is what a member sees of a page: the ciphertext, their own
// membership wrap and the posts.
type PageView struct {
	Page           store.Page
	MembershipWrap string
	Posts          []store.Post
}

// CreatePage stores a new page with the caller as its first member. Every
// invitee is validated before anything is written.
func (s *Server) CreatePage(ctx context.Context, token string, req CreatePageRequest) (*CreatePageResponse, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if req.EncryptedTitle == "" || req.CreatorWrap == "" {
		return nil, fmt.Errorf("%w: a page needs a title and a creator wrap", kerrors.ErrInvalidInput)
	}

	invitees := make([]string, 0, len(req.Invitations))
	for invitee := range req.Invitations {
		if err := s.checkInvitee(username, invitee); err != nil {
			return nil, err
		}
		invitees = append(invitees, invitee)
	}
	sort.Strings(invitees)

	now := s.now().UTC()
	page := store.Page{
		ID:                   store.NewID(),
		Owner:                username,
		EncryptedTitle:       req.EncryptedTitle,
		EncryptedDescription: req.EncryptedDescription,
		CreatedAt:            now,
	}
	creator := store.Membership{Username: username, WrappedKey: req.CreatorWrap, JoinedAt: now}
	if err := s.store.CreatePage(page, creator); err != nil {
		return nil, err
	}

	for _, invitee := range invitees {
		err := s.store.PutInvitation(store.Invitation{
			ID:             store.NewID(),
			PageID:         page.ID,
			Invitee:        invitee,
			InvitedBy:      username,
			WrappedKey:     req.Invitations[invitee],
			EncryptedTitle: page.EncryptedTitle,
			CreatedAt:      now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to invite %s: %w", invitee, err)
		}
	}

	return &CreatePageResponse{PageID: page.ID, Invited: invitees}, nil
}

// Page returns a page to one of its members.
func (s *Server) Page(ctx context.Context, token, pageID string) (*PageView, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	page, err := s.store.GetPage(pageID)
	if err != nil {
		return nil, err
	}
	membership, err := s.store.GetMembership(pageID, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.Posts(pageID)
	if err != nil {
		return nil, err
	}

	return &PageView{Page: *page, MembershipWrap: membership.WrappedKey, Posts: posts}, nil
}

// Pages lists the caller's pages with their membership wraps. Posts are not
// included.
func (s *Server) Pages(ctx context.Context, token string) ([]PageView, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	pages, err := s.store.PagesFor(username)
	if err != nil {
		return nil, err
	}

	views := make([]PageView, 0, len(pages))
	for _, page := range pages {
		membership, err := s.store.GetMembership(page.ID, username)
		if err != nil {
			return nil, err
		}
		views = append(views, PageView{Page: page, MembershipWrap: membership.WrappedKey})
	}
	return views, nil
}

// Members lists the usernames of a page's members in join order.
func (s *Server) Members(ctx context.Context, token, pageID string) ([]string, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireMember(pageID, username); err != nil {
		return nil, err
	}

	memberships, err := s.store.Members(pageID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(memberships))
	for i, m := range memberships {
		names[i] = m.Username
	}
	return names, nil
}
