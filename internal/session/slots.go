package session

import (
	"fmt"
	"os"
	"sync"

	"github.com/cipherboard/cipherboard/internal/configs"
	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// FileSlots keeps the session in a TOML file readable only by the user.
type FileSlots struct {
	Path string
}

// NewFileSlots returns slots backed by the file at path.
func NewFileSlots(path string) *FileSlots {
	return &FileSlots{Path: path}
}

func (f *FileSlots) Load() (*Session, error) {
	if _, err := os.Stat(f.Path); os.IsNotExist(err) {
		return nil, kerrors.ErrNoSession
	}

	var sess Session
	if err := configs.LoadTOML(f.Path, &sess); err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Require(); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (f *FileSlots) Save(sess *Session) error {
	return configs.SaveTOML(f.Path, sess)
}

func (f *FileSlots) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemorySlots keeps the session in process memory.
type MemorySlots struct {
	mu      sync.Mutex
	session *Session
}

func (m *MemorySlots) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, kerrors.ErrNoSession
	}
	sess := *m.session
	return &sess, nil
}

func (m *MemorySlots) Save(sess *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *sess
	m.session = &copied
	return nil
}

func (m *MemorySlots) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	return nil
}
