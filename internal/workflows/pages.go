package workflows

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
	"github.com/cipherboard/cipherboard/internal/server"
	"github.com/cipherboard/cipherboard/internal/session"
)

// CreatePageOptions configures the create-page workflow.
type CreatePageOptions struct {
	Title       string
	Description string
	// Invitees are invited in the same request. Unknown users fail the
	// whole creation before anything is stored.
	Invitees []string
}

// CreatePageResult contains the outcome of a page creation.
type CreatePageResult struct {
	PageID  string
	Invited []string
}

// CreatePage generates a fresh resource key for a page, encrypts its title
// and description under it and wraps it for the creator and every invitee.
func CreatePage(ctx context.Context, c *Client, opts CreatePageOptions) (*CreatePageResult, error) {
	op := c.begin("create_page")

	result, err := createPage(ctx, c, op, opts)
	if result != nil {
		op.entry.PageID = result.PageID
		op.entry.Count = len(result.Invited)
	}
	op.finish(err)
	return result, err
}

func createPage(ctx context.Context, c *Client, op *operation, opts CreatePageOptions) (*CreatePageResult, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("%w: a page needs a title", kerrors.ErrInvalidInput)
	}

	var result *CreatePageResult
	err := c.withMasterKey(ctx, op, func(sess *session.Session, masterKey *secrets.Secret) error {
		publicKeys, err := publicKeysFor(ctx, c, sess.Username, opts.Invitees)
		if err != nil {
			return err
		}

		resourceKey, creatorWrap, err := secrets.CreateResource(masterKey)
		if err != nil {
			return err
		}
		defer resourceKey.Destroy()

		title, err := secrets.EncryptField(resourceKey, opts.Title)
		if err != nil {
			return err
		}
		description, err := secrets.EncryptField(resourceKey, opts.Description)
		if err != nil {
			return err
		}

		c.Logger.Debugf("Wrapping page key for %d invitee(s)", len(publicKeys))
		invitations, err := secrets.ShareWithAll(ctx, resourceKey, publicKeys)
		if err != nil {
			return err
		}

		resp, err := c.Server.CreatePage(ctx, sess.Token, server.CreatePageRequest{
			EncryptedTitle:       title,
			EncryptedDescription: description,
			CreatorWrap:          creatorWrap,
			Invitations:          invitations,
		})
		if err != nil {
			return err
		}
		result = &CreatePageResult{PageID: resp.PageID, Invited: resp.Invited}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// publicKeysFor fetches and parses the public keys of the named users.
// Inviting yourself is rejected here, before any key is wrapped.
func publicKeysFor(ctx context.Context, c *Client, self string, usernames []string) (map[string]*rsa.PublicKey, error) {
	keys := make(map[string]*rsa.PublicKey, len(usernames))
	for _, name := range usernames {
		if name == self {
			return nil, kerrors.ErrSelfInvite
		}
		armored, err := c.Server.PublicKey(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, name)
		}
		pub, err := secrets.ImportPublicKey(armored)
		if err != nil {
			return nil, fmt.Errorf("public key of %s: %w", name, err)
		}
		keys[name] = pub
	}
	return keys, nil
}

// PageSummary is one decrypted entry of ListPages.
type PageSummary struct {
	PageID    string
	Owner     string
	Title     secrets.FieldResult
	CreatedAt time.Time
}

// ListPagesResult contains the caller's pages.
type ListPagesResult struct {
	Pages []PageSummary
}

// ListPages returns the caller's pages with decrypted titles. A page whose
// key or title cannot be decrypted is still listed, with the failure in
// its Title.
func ListPages(ctx context.Context, c *Client) (*ListPagesResult, error) {
	op := c.begin("list_pages")

	result, err := listPages(ctx, c, op)
	if result != nil {
		op.entry.Count = len(result.Pages)
	}
	op.finish(err)
	return result, err
}

func listPages(ctx context.Context, c *Client, op *operation) (*ListPagesResult, error) {
	result := &ListPagesResult{}
	err := c.withMasterKey(ctx, op, func(sess *session.Session, masterKey *secrets.Secret) error {
		views, err := c.Server.Pages(ctx, sess.Token)
		if err != nil {
			return err
		}

		for _, view := range views {
			summary := PageSummary{
				PageID:    view.Page.ID,
				Owner:     view.Page.Owner,
				CreatedAt: view.Page.CreatedAt,
			}
			summary.Title = openField(masterKey, view.MembershipWrap, view.Page.EncryptedTitle)
			if !summary.Title.OK() {
				c.Logger.Debugf("page %s: %v", view.Page.ID, summary.Title.Err)
			}
			result.Pages = append(result.Pages, summary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// openField resolves a page key and decrypts one field, reporting any
// failure in the result.
func openField(masterKey *secrets.Secret, membershipWrap, envelope string) secrets.FieldResult {
	resourceKey, err := secrets.OpenMembership(masterKey, membershipWrap)
	if err != nil {
		return secrets.FieldResult{Err: err}
	}
	defer resourceKey.Destroy()
	return secrets.DecryptField(resourceKey, envelope)
}

// ViewPageOptions configures the view-page workflow.
type ViewPageOptions struct {
	PageID string
}

// PostView is one decrypted post.
type PostView struct {
	PostID    string
	Author    string
	Message   secrets.FieldResult
	CreatedAt time.Time
}

// ViewPageResult is a decrypted page.
type ViewPageResult struct {
	PageID      string
	Owner       string
	Title       secrets.FieldResult
	Description secrets.FieldResult
	Posts       []PostView
}

// ViewPage decrypts a page and its posts. Fields are decrypted one by one,
// so a corrupted post is reported in place without hiding the rest.
//
// Returns ErrKeyChainBroken if the page key itself cannot be resolved.
func ViewPage(ctx context.Context, c *Client, opts ViewPageOptions) (*ViewPageResult, error) {
	op := c.begin("view_page")
	op.entry.PageID = opts.PageID

	result, err := viewPage(ctx, c, op, opts)
	if result != nil {
		op.entry.Count = len(result.Posts)
	}
	op.finish(err)
	return result, err
}

func viewPage(ctx context.Context, c *Client, op *operation, opts ViewPageOptions) (*ViewPageResult, error) {
	sess, sessionKey, err := c.active(ctx, op)
	if err != nil {
		return nil, err
	}
	defer sessionKey.Destroy()

	view, err := c.Server.Page(ctx, sess.Token, opts.PageID)
	if err != nil {
		return nil, err
	}

	result := &ViewPageResult{PageID: view.Page.ID, Owner: view.Page.Owner}
	err = secrets.WithResourceKey(sess.WrappedMasterKey, sessionKey, view.MembershipWrap, func(resourceKey *secrets.Secret) error {
		result.Title = secrets.DecryptField(resourceKey, view.Page.EncryptedTitle)
		result.Description = secrets.DecryptField(resourceKey, view.Page.EncryptedDescription)

		envelopes := make([]string, len(view.Posts))
		for i, post := range view.Posts {
			envelopes[i] = post.EncryptedMessage
		}
		for i, message := range secrets.DecryptFields(resourceKey, envelopes) {
			post := view.Posts[i]
			if !message.OK() {
				c.Logger.Debugf("post %s: %v", post.ID, message.Err)
			}
			result.Posts = append(result.Posts, PostView{
				PostID:    post.ID,
				Author:    post.Author,
				Message:   message,
				CreatedAt: post.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MembersOptions configures the members workflow.
type MembersOptions struct {
	PageID string
}

// MembersResult lists a page's members in join order.
type MembersResult struct {
	PageID  string
	Members []string
}

// Members lists who can read a page. No key material is involved, but the
// session must still be live.
func Members(ctx context.Context, c *Client, opts MembersOptions) (*MembersResult, error) {
	op := c.begin("members")
	op.entry.PageID = opts.PageID

	result, err := members(ctx, c, op, opts)
	if result != nil {
		op.entry.Count = len(result.Members)
	}
	op.finish(err)
	return result, err
}

func members(ctx context.Context, c *Client, op *operation, opts MembersOptions) (*MembersResult, error) {
	sess, err := c.Slots.Load()
	if err != nil {
		return nil, err
	}
	op.entry.User = sess.Username

	names, err := c.Server.Members(ctx, sess.Token, opts.PageID)
	if err != nil {
		return nil, err
	}
	return &MembersResult{PageID: opts.PageID, Members: names}, nil
}
