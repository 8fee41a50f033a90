package workflows

import (
	"context"
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
)

// AddPostOptions configures the add-post workflow.
type AddPostOptions struct {
	PageID  string
	Message string
}

// AddPostResult contains the outcome of posting.
type AddPostResult struct {
	PageID string
	PostID string
}

// AddPost encrypts a message under the page key and appends it to the page.
func AddPost(ctx context.Context, c *Client, opts AddPostOptions) (*AddPostResult, error) {
	op := c.begin("add_post")
	op.entry.PageID = opts.PageID

	result, err := addPost(ctx, c, op, opts)
	if result != nil {
		op.entry.PostID = result.PostID
	}
	op.finish(err)
	return result, err
}

func addPost(ctx context.Context, c *Client, op *operation, opts AddPostOptions) (*AddPostResult, error) {
	if opts.Message == "" {
		return nil, fmt.Errorf("%w: empty post", kerrors.ErrInvalidInput)
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

	var message string
	err = secrets.WithResourceKey(sess.WrappedMasterKey, sessionKey, view.MembershipWrap, func(resourceKey *secrets.Secret) error {
		message, err = secrets.EncryptField(resourceKey, opts.Message)
		return err
	})
	if err != nil {
		return nil, err
	}

	postID, err := c.Server.AddPost(ctx, sess.Token, opts.PageID, message)
	if err != nil {
		return nil, err
	}
	return &AddPostResult{PageID: opts.PageID, PostID: postID}, nil
}

// DeletePostOptions configures the delete-post workflow.
type DeletePostOptions struct {
	PageID string
	PostID string
}

// DeletePost removes one of the caller's own posts.
//
// Returns ErrNotAuthor if someone else wrote the post.
func DeletePost(ctx context.Context, c *Client, opts DeletePostOptions) error {
	op := c.begin("delete_post")
	op.entry.PageID = opts.PageID
	op.entry.PostID = opts.PostID

	err := deletePost(ctx, c, op, opts)
	op.finish(err)
	return err
}

func deletePost(ctx context.Context, c *Client, op *operation, opts DeletePostOptions) error {
	sess, err := c.Slots.Load()
	if err != nil {
		return err
	}
	op.entry.User = sess.Username
	return c.Server.DeletePost(ctx, sess.Token, opts.PageID, opts.PostID)
}
