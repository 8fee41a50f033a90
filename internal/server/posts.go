package server

import (
	"context"
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/store"
)

// AddPost appends an encrypted message to a page and returns the post ID.
func (s *Server) AddPost(ctx context.Context, token, pageID, encryptedMessage string) (string, error) {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	if encryptedMessage == "" {
		return "", fmt.Errorf("%w: empty post", kerrors.ErrInvalidInput)
	}
	if _, err := s.requireMember(pageID, username); err != nil {
		return "", err
	}

	post := store.Post{
		ID:               store.NewID(),
		PageID:           pageID,
		Author:           username,
		EncryptedMessage: encryptedMessage,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.store.PutPost(post); err != nil {
		return "", err
	}
	return post.ID, nil
}

// DeletePost removes a post. Only its author may delete it.
func (s *Server) DeletePost(ctx context.Context, token, pageID, postID string) error {
	username, err := s.authenticate(ctx, token)
	if err != nil {
		return err
	}
	if _, err := s.requireMember(pageID, username); err != nil {
		return err
	}

	post, err := s.store.GetPost(pageID, postID)
	if err != nil {
		return err
	}
	if post.Author != username {
		return kerrors.ErrNotAuthor
	}
	return s.store.DeletePost(pageID, postID)
}
