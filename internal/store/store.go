package store

import (
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/absfs/absfs"
	"github.com/google/uuid"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

const (
	usersDir    = "/users"
	sessionsDir = "/sessions"
	pagesDir    = "/pages"
	invitesDir  = "/invites"
	serverKey   = "/server.key"

	recordExt = ".toml"
)

var validName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

// Store reads and writes records on a filesystem. It is safe for
// concurrent use; writers are serialised.
type Store struct {
	fs absfs.FileSystem
	mu sync.RWMutex
}

// Open prepares the directory layout on fs and returns a Store over it.
func Open(fs absfs.FileSystem) (*Store, error) {
	for _, dir := range []string{usersDir, sessionsDir, pagesDir, invitesDir} {
		if err := fs.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return &Store{fs: fs}, nil
}

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.New().String()
}

// ValidName reports whether s can be used as a username or record ID. It
// keeps names inside their directory.
func ValidName(s string) bool {
	return validName.MatchString(s) && !strings.Contains(s, "..")
}

func checkName(s string) error {
	if !ValidName(s) {
		return fmt.Errorf("%w: invalid name %q", kerrors.ErrInvalidInput, s)
	}
	return nil
}

// ServerKey returns the stored database key, or "" if none has been created.
func (s *Store) ServerKey() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ok, err := s.exists(serverKey)
	if err != nil || !ok {
		return "", err
	}
	f, err := s.fs.Open(serverKey)
	if err != nil {
		return "", fmt.Errorf("failed to open server key: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read server key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveServerKey stores the database key. An existing key is never replaced,
// because every sealed session depends on it.
func (s *Store) SaveServerKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.exists(serverKey)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("server key already exists")
	}

	f, err := s.fs.OpenFile(serverKey, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create server key: %w", err)
	}
	if _, err := f.WriteString(key + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("failed to write server key: %w", err)
	}
	return f.Close()
}

// CreateUser stores a new account. It fails with ErrUserExists if the
// username is taken.
func (s *Store) CreateUser(u User) error {
	if err := checkName(u.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name := userPath(u.Username)
	ok, err := s.exists(name)
	if err != nil {
		return err
	}
	if ok {
		return kerrors.ErrUserExists
	}
	return s.writeRecord(name, u)
}

// GetUser loads an account by username.
func (s *Store) GetUser(username string) (*User, error) {
	if !ValidName(username) {
		return nil, kerrors.ErrUserNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var u User
	if err := s.readRecord(userPath(username), &u, kerrors.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &u, nil
}

// PutSession creates or replaces a login session.
func (s *Store) PutSession(sess Session) error {
	if err := checkName(sess.Token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeRecord(sessionPath(sess.Token), sess)
}

// GetSession loads a session by token, or ErrNoSession.
func (s *Store) GetSession(token string) (*Session, error) {
	if !ValidName(token) {
		return nil, kerrors.ErrNoSession
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var sess Session
	if err := s.readRecord(sessionPath(token), &sess, kerrors.ErrNoSession); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session. Deleting an unknown session is not an error.
func (s *Store) DeleteSession(token string) error {
	if !ValidName(token) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeRecord(sessionPath(token))
}

// CreatePage stores a page together with its first membership, so a page
// never exists without someone able to read it.
func (s *Store) CreatePage(p Page, creator Membership) error {
	if err := checkName(p.ID); err != nil {
		return err
	}
	if err := checkName(creator.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRecord(pagePath(p.ID), p); err != nil {
		return err
	}
	creator.PageID = p.ID
	return s.writeRecord(memberPath(p.ID, creator.Username), creator)
}

// GetPage loads a page by ID.
func (s *Store) GetPage(id string) (*Page, error) {
	if !ValidName(id) {
		return nil, kerrors.ErrPageNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Page
	if err := s.readRecord(pagePath(id), &p, kerrors.ErrPageNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

// PagesFor returns the pages the user is a member of, oldest first.
func (s *Store) PagesFor(username string) ([]Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.list(pagesDir, false)
	if err != nil {
		return nil, err
	}

	var pages []Page
	for _, id := range ids {
		ok, err := s.exists(memberPath(id, username))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		var p Page
		if err := s.readRecord(pagePath(id), &p, kerrors.ErrPageNotFound); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].CreatedAt.Before(pages[j].CreatedAt)
	})
	return pages, nil
}

// PutMembership creates or replaces a user's membership of a page.
func (s *Store) PutMembership(m Membership) error {
	if err := checkName(m.PageID); err != nil {
		return err
	}
	if err := checkName(m.Username); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.exists(pagePath(m.PageID))
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.ErrPageNotFound
	}
	return s.writeRecord(memberPath(m.PageID, m.Username), m)
}

// GetMembership returns the user's membership, or ErrNotMember.
func (s *Store) GetMembership(pageID, username string) (*Membership, error) {
	if !ValidName(pageID) || !ValidName(username) {
		return nil, kerrors.ErrNotMember
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var m Membership
	if err := s.readRecord(memberPath(pageID, username), &m, kerrors.ErrNotMember); err != nil {
		return nil, err
	}
	return &m, nil
}

// Members lists a page's memberships ordered by join time.
func (s *Store) Members(pageID string) ([]Membership, error) {
	if !ValidName(pageID) {
		return nil, kerrors.ErrPageNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.list(path.Join(pagesDir, pageID, "members"), true)
	if err != nil {
		return nil, err
	}

	members := make([]Membership, 0, len(names))
	for _, name := range names {
		var m Membership
		if err := s.readRecord(memberPath(pageID, name), &m, kerrors.ErrNotMember); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}

// PutPost stores a post on an existing page.
func (s *Store) PutPost(p Post) error {
	if err := checkName(p.PageID); err != nil {
		return err
	}
	if err := checkName(p.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.exists(pagePath(p.PageID))
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.ErrPageNotFound
	}
	return s.writeRecord(postPath(p.PageID, p.ID), p)
}

// GetPost loads one post.
func (s *Store) GetPost(pageID, postID string) (*Post, error) {
	if !ValidName(pageID) || !ValidName(postID) {
		return nil, kerrors.ErrPostNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Post
	if err := s.readRecord(postPath(pageID, postID), &p, kerrors.ErrPostNotFound); err != nil {
		return nil, err
	}
	return &p, nil
}

// Posts lists a page's posts, oldest first.
func (s *Store) Posts(pageID string) ([]Post, error) {
	if !ValidName(pageID) {
		return nil, kerrors.ErrPageNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, err := s.list(path.Join(pagesDir, pageID, "posts"), true)
	if err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(ids))
	for _, id := range ids {
		var p Post
		if err := s.readRecord(postPath(pageID, id), &p, kerrors.ErrPostNotFound); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
	return posts, nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(pageID, postID string) error {
	if !ValidName(pageID) || !ValidName(postID) {
		return kerrors.ErrPostNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := s.exists(postPath(pageID, postID))
	if err != nil {
		return err
	}
	if !ok {
		return kerrors.ErrPostNotFound
	}
	return s.removeRecord(postPath(pageID, postID))
}

// PutInvitation stores an invitation. A pending invitation for the same
// page and invitee is replaced rather than duplicated.
func (s *Store) PutInvitation(inv Invitation) error {
	if err := checkName(inv.ID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.invitations()
	if err != nil {
		return err
	}
	for _, other := range existing {
		if other.PageID == inv.PageID && other.Invitee == inv.Invitee && other.ID != inv.ID {
			if err := s.removeRecord(invitePath(other.ID)); err != nil {
				return err
			}
		}
	}
	return s.writeRecord(invitePath(inv.ID), inv)
}

// GetInvitation loads an invitation by ID.
func (s *Store) GetInvitation(id string) (*Invitation, error) {
	if !ValidName(id) {
		return nil, kerrors.ErrInviteNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var inv Invitation
	if err := s.readRecord(invitePath(id), &inv, kerrors.ErrInviteNotFound); err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvitationsFor lists the pending invitations addressed to a user, oldest first.
func (s *Store) InvitationsFor(username string) ([]Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.invitations()
	if err != nil {
		return nil, err
	}

	var out []Invitation
	for _, inv := range all {
		if inv.Invitee == username {
			out = append(out, inv)
		}
	}
	return out, nil
}

// DeleteInvitation removes an invitation.
func (s *Store) DeleteInvitation(id string) error {
	if !ValidName(id) {
		return kerrors.ErrInviteNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeRecord(invitePath(id))
}

// invitations loads every invitation. Callers hold the lock.
func (s *Store) invitations() ([]Invitation, error) {
	ids, err := s.list(invitesDir, true)
	if err != nil {
		return nil, err
	}

	out := make([]Invitation, 0, len(ids))
	for _, id := range ids {
		var inv Invitation
		if err := s.readRecord(invitePath(id), &inv, kerrors.ErrInviteNotFound); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func userPath(username string) string {
	return path.Join(usersDir, username+recordExt)
}

func sessionPath(token string) string {
	return path.Join(sessionsDir, token+recordExt)
}

func pagePath(id string) string {
	return path.Join(pagesDir, id, "page"+recordExt)
}

func memberPath(pageID, username string) string {
	return path.Join(pagesDir, pageID, "members", username+recordExt)
}

func postPath(pageID, postID string) string {
	return path.Join(pagesDir, pageID, "posts", postID+recordExt)
}

func invitePath(id string) string {
	return path.Join(invitesDir, id+recordExt)
}
