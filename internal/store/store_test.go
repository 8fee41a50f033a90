package store

import (
	"testing"
	"time"

	"github.com/absfs/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	fs, err := memfs.NewFS()
	require.NoError(t, err)

	s, err := Open(fs)
	require.NoError(t, err)
	return s
}

func TestStore_Users(t *testing.T) {
	s := newTestStore(t)

	alice := User{
		Username:          "alice",
		Email:             "alice@example.com",
		VerifierHash:      "$2a$10$hash",
		Salt:              "abc123",
		PublicKey:         "-----BEGIN PUBLIC KEY-----\n...\n-----END PUBLIC KEY-----\n",
		WrappedPrivateKey: "00:11",
		CreatedAt:         time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateUser(alice))

	got, err := s.GetUser("alice")
	require.NoError(t, err)
	assert.Equal(t, alice, *got)

	assert.ErrorIs(t, s.CreateUser(alice), kerrors.ErrUserExists)

	_, err = s.GetUser("bob")
	assert.ErrorIs(t, err, kerrors.ErrUserNotFound)
}

func TestStore_RejectsUnsafeNames(t *testing.T) {
	s := newTestStore(t)

	for _, name := range []string{"", "../etc", "a/b", ".hidden", "a..b"} {
		assert.ErrorIs(t, s.CreateUser(User{Username: name}), kerrors.ErrInvalidInput, "name %q", name)
		_, err := s.GetUser(name)
		assert.ErrorIs(t, err, kerrors.ErrUserNotFound, "name %q", name)
	}
}

func TestStore_Sessions(t *testing.T) {
	s := newTestStore(t)
	token := NewID()

	_, err := s.GetSession(token)
	assert.ErrorIs(t, err, kerrors.ErrNoSession)

	sess := Session{Token: token, Username: "alice", SealedKey: "aa:bb", IssuedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, s.PutSession(sess))

	got, err := s.GetSession(token)
	require.NoError(t, err)
	assert.Equal(t, sess, *got)

	require.NoError(t, s.DeleteSession(token))
	require.NoError(t, s.DeleteSession(token))
	_, err = s.GetSession(token)
	assert.ErrorIs(t, err, kerrors.ErrNoSession)
}

func TestStore_ServerKey(t *testing.T) {
	s := newTestStore(t)

	key, err := s.ServerKey()
	require.NoError(t, err)
	assert.Empty(t, key)

	require.NoError(t, s.SaveServerKey("c2VjcmV0"))
	key, err = s.ServerKey()
	require.NoError(t, err)
	assert.Equal(t, "c2VjcmV0", key)

	assert.Error(t, s.SaveServerKey("b3RoZXI="))
}

func TestStore_PagesAndMembers(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	first := Page{ID: NewID(), Owner: "alice", EncryptedTitle: "01:02", EncryptedDescription: "03:04", CreatedAt: now}
	second := Page{ID: NewID(), Owner: "bob", EncryptedTitle: "05:06", CreatedAt: now.Add(time.Minute)}

	require.NoError(t, s.CreatePage(first, Membership{Username: "alice", WrappedKey: "aa:01", JoinedAt: now}))
	require.NoError(t, s.CreatePage(second, Membership{Username: "bob", WrappedKey: "bb:01", JoinedAt: now}))

	got, err := s.GetPage(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *got)

	_, err = s.GetPage(NewID())
	assert.ErrorIs(t, err, kerrors.ErrPageNotFound)

	m, err := s.GetMembership(first.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, m.PageID)
	assert.Equal(t, "aa:01", m.WrappedKey)

	_, err = s.GetMembership(first.ID, "bob")
	assert.ErrorIs(t, err, kerrors.ErrNotMember)

	require.NoError(t, s.PutMembership(Membership{PageID: second.ID, Username: "alice", WrappedKey: "aa:02", JoinedAt: now.Add(time.Hour)}))
	assert.ErrorIs(t, s.PutMembership(Membership{PageID: NewID(), Username: "alice"}), kerrors.ErrPageNotFound)

	pages, err := s.PagesFor("alice")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, first.ID, pages[0].ID)
	assert.Equal(t, second.ID, pages[1].ID)

	pages, err = s.PagesFor("carol")
	require.NoError(t, err)
	assert.Empty(t, pages)

	members, err := s.Members(second.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[0].Username)
	assert.Equal(t, "alice", members[1].Username)
}

func TestStore_Posts(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	page := Page{ID: NewID(), Owner: "alice", CreatedAt: now}
	require.NoError(t, s.CreatePage(page, Membership{Username: "alice", JoinedAt: now}))

	older := Post{ID: NewID(), PageID: page.ID, Author: "alice", EncryptedMessage: "01:01", CreatedAt: now}
	newer := Post{ID: NewID(), PageID: page.ID, Author: "bob", EncryptedMessage: "02:02", CreatedAt: now.Add(time.Second)}
	require.NoError(t, s.PutPost(newer))
	require.NoError(t, s.PutPost(older))

	assert.ErrorIs(t, s.PutPost(Post{ID: NewID(), PageID: NewID()}), kerrors.ErrPageNotFound)

	posts, err := s.Posts(page.ID)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, older, posts[0])
	assert.Equal(t, newer, posts[1])

	got, err := s.GetPost(page.ID, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Author)

	require.NoError(t, s.DeletePost(page.ID, older.ID))
	assert.ErrorIs(t, s.DeletePost(page.ID, older.ID), kerrors.ErrPostNotFound)

	posts, err = s.Posts(page.ID)
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestStore_Invitations(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	pageID := NewID()

	first := Invitation{ID: NewID(), PageID: pageID, Invitee: "bob", InvitedBy: "alice", WrappedKey: "d3JhcA==", CreatedAt: now}
	require.NoError(t, s.PutInvitation(first))
	require.NoError(t, s.PutInvitation(Invitation{ID: NewID(), PageID: pageID, Invitee: "carol", InvitedBy: "alice", CreatedAt: now}))

	got, err := s.GetInvitation(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *got)

	// Re-inviting the same user to the same page replaces the pending invitation.
	again := Invitation{ID: NewID(), PageID: pageID, Invitee: "bob", InvitedBy: "alice", WrappedKey: "bmV3", CreatedAt: now.Add(time.Minute)}
	require.NoError(t, s.PutInvitation(again))

	forBob, err := s.InvitationsFor("bob")
	require.NoError(t, err)
	require.Len(t, forBob, 1)
	assert.Equal(t, again.ID, forBob[0].ID)

	_, err = s.GetInvitation(first.ID)
	assert.ErrorIs(t, err, kerrors.ErrInviteNotFound)

	require.NoError(t, s.DeleteInvitation(again.ID))
	forBob, err = s.InvitationsFor("bob")
	require.NoError(t, err)
	assert.Empty(t, forBob)
}
