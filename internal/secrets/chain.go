package secrets

import (
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// ResolveMasterKey performs the first hop of the key chain: it unwraps the
// session-cached Master Key with the Session Key the server issued for this
// login.
func ResolveMasterKey(wrappedMasterKey string, sessionKey *Secret) (*Secret, error) {
	if wrappedMasterKey == "" || !sessionKey.Alive() {
		return nil, kerrors.ErrNoSession
	}

	masterKey, err := decryptKey(sessionKey, wrappedMasterKey)
	if err != nil {
		return nil, fmt.Errorf("%w: session key does not open master key: %w", kerrors.ErrKeyChainBroken, err)
	}
	return masterKey, nil
}

// ResolveResourceKey walks the whole chain, Session Key → Master Key →
// Resource Key. Each hop waits for the previous one because its output is
// the next hop's key. The intermediate Master Key is destroyed before
// returning, and no key is returned unless every hop succeeded.
//
// The caller owns the returned key and must Destroy it; it is never cached.
func ResolveResourceKey(wrappedMasterKey string, sessionKey *Secret, membershipWrap string) (*Secret, error) {
	masterKey, err := ResolveMasterKey(wrappedMasterKey, sessionKey)
	if err != nil {
		return nil, err
	}
	defer masterKey.Destroy()

	return OpenMembership(masterKey, membershipWrap)
}

// OpenMembership performs the second hop with an already resolved Master Key.
func OpenMembership(masterKey *Secret, membershipWrap string) (*Secret, error) {
	if membershipWrap == "" {
		return nil, fmt.Errorf("%w: no membership wrap", kerrors.ErrKeyChainBroken)
	}
	resourceKey, err := decryptKey(masterKey, membershipWrap)
	if err != nil {
		return nil, fmt.Errorf("%w: master key does not open resource key: %w", kerrors.ErrKeyChainBroken, err)
	}
	return resourceKey, nil
}

// WithResourceKey resolves the Resource Key, hands it to fn and destroys it
// on every exit path, including a panic in fn.
func WithResourceKey(wrappedMasterKey string, sessionKey *Secret, membershipWrap string, fn func(resourceKey *Secret) error) error {
	resourceKey, err := ResolveResourceKey(wrappedMasterKey, sessionKey, membershipWrap)
	if err != nil {
		return err
	}
	defer resourceKey.Destroy()

	return fn(resourceKey)
}

// WithMasterKey is WithResourceKey for the first hop only.
func WithMasterKey(wrappedMasterKey string, sessionKey *Secret, fn func(masterKey *Secret) error) error {
	masterKey, err := ResolveMasterKey(wrappedMasterKey, sessionKey)
	if err != nil {
		return err
	}
	defer masterKey.Destroy()

	return fn(masterKey)
}

// WrapMasterKey wraps a Master Key under the Session Key so it can sit in
// short-lived client storage for the rest of the session.
func WrapMasterKey(sessionKey, masterKey *Secret) (string, error) {
	return encryptKey(sessionKey, masterKey)
}
