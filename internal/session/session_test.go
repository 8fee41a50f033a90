package session

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
	"github.com/cipherboard/cipherboard/internal/secrets"
)

func testSecret(t *testing.T) *secrets.Secret {
	t.Helper()
	key := secrets.RandomSecret(secrets.KeySize)
	t.Cleanup(key.Destroy)
	return key
}

func TestBegin_ResolvesMasterKey(t *testing.T) {
	slots := &MemorySlots{}
	masterKey := testSecret(t)
	sessionKey := testSecret(t)

	sess, err := Begin(slots, "alice", "token-1", masterKey, sessionKey)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	loaded, err := slots.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *sess {
		t.Errorf("loaded session differs from the one begun: %+v vs %+v", loaded, sess)
	}

	got, err := loaded.MasterKey(sessionKey)
	if err != nil {
		t.Fatalf("MasterKey failed: %v", err)
	}
	defer got.Destroy()
	if !bytes.Equal(got.Bytes(), masterKey.Bytes()) {
		t.Error("session resolved a different master key")
	}

	if _, err := loaded.MasterKey(testSecret(t)); !errors.Is(err, kerrors.ErrKeyChainBroken) {
		t.Errorf("expected ErrKeyChainBroken for another login's session key, got %v", err)
	}
}

func TestBegin_ReplacesWholesale(t *testing.T) {
	slots := &MemorySlots{}
	sessionKey := testSecret(t)

	if _, err := Begin(slots, "alice", "token-1", testSecret(t), sessionKey); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := Begin(slots, "bob", "token-2", testSecret(t), sessionKey); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	loaded, err := slots.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Username != "bob" || loaded.Token != "token-2" {
		t.Errorf("expected the last session to win, got %+v", loaded)
	}
}

func TestBegin_RequiresAllSlots(t *testing.T) {
	if _, err := Begin(&MemorySlots{}, "", "token", testSecret(t), testSecret(t)); !errors.Is(err, kerrors.ErrNoSession) {
		t.Errorf("expected ErrNoSession without a username, got %v", err)
	}
}

func TestEnd(t *testing.T) {
	slots := &MemorySlots{}
	if _, err := Begin(slots, "alice", "token-1", testSecret(t), testSecret(t)); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	if err := End(slots); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if err := End(slots); err != nil {
		t.Fatalf("second End failed: %v", err)
	}
	if _, err := slots.Load(); !errors.Is(err, kerrors.ErrNoSession) {
		t.Errorf("expected ErrNoSession after End, got %v", err)
	}
}

func TestSession_RequireAndResourceKey(t *testing.T) {
	var nilSession *Session
	if err := nilSession.Require(); !errors.Is(err, kerrors.ErrNoSession) {
		t.Errorf("expected ErrNoSession for nil session, got %v", err)
	}

	partial := &Session{Username: "alice", Token: "t"}
	if _, err := partial.ResourceKey(testSecret(t), "aa:bb"); !errors.Is(err, kerrors.ErrNoSession) {
		t.Errorf("expected ErrNoSession for missing wrapped key, got %v", err)
	}

	masterKey := testSecret(t)
	sessionKey := testSecret(t)
	resourceKey, wrap, err := secrets.CreateResource(masterKey)
	if err != nil {
		t.Fatalf("CreateResource failed: %v", err)
	}
	defer resourceKey.Destroy()

	sess, err := Begin(&MemorySlots{}, "alice", "t", masterKey, sessionKey)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	got, err := sess.ResourceKey(sessionKey, wrap)
	if err != nil {
		t.Fatalf("ResourceKey failed: %v", err)
	}
	defer got.Destroy()
	if !bytes.Equal(got.Bytes(), resourceKey.Bytes()) {
		t.Error("session resolved a different resource key")
	}
}

func TestFileSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cipherboard", "session.toml")
	slots := NewFileSlots(path)

	if _, err := slots.Load(); !errors.Is(err, kerrors.ErrNoSession) {
		t.Fatalf("expected ErrNoSession before login, got %v", err)
	}

	sess, err := Begin(slots, "alice", "token-1", testSecret(t), testSecret(t))
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, err := slots.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Username != sess.Username || loaded.Token != sess.Token || loaded.WrappedMasterKey != sess.WrappedMasterKey {
		t.Errorf("file round trip changed the session: %+v vs %+v", loaded, sess)
	}

	if err := End(slots); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file still present after End")
	}
}
