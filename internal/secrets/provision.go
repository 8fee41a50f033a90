package secrets

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"sync"
)

// CreateResource generates a fresh Resource Key and wraps it under the
// creator's Master Key. The caller encrypts the initial content with the
// returned key and then destroys it.
func CreateResource(creatorMasterKey *Secret) (*Secret, string, error) {
	resourceKey := RandomSecret(KeySize)

	membershipWrap, err := encryptKey(creatorMasterKey, resourceKey)
	if err != nil {
		resourceKey.Destroy()
		return nil, "", fmt.Errorf("failed to wrap resource key for creator: %w", err)
	}
	return resourceKey, membershipWrap, nil
}

// WrapMembership wraps an existing Resource Key under a member's Master Key.
func WrapMembership(masterKey, resourceKey *Secret) (string, error) {
	return encryptKey(masterKey, resourceKey)
}

// ShareWith wraps the Resource Key for one invitee's public key. The result
// is base64 of the RSA-OAEP ciphertext of the key's base64 text.
func ShareWith(resourceKey *Secret, inviteePublicKey *rsa.PublicKey) (string, error) {
	if !resourceKey.Alive() {
		return "", fmt.Errorf("resource key is not available")
	}
	text := resourceKey.Base64Bytes()
	defer wipe(text)

	ciphertext, err := WrapSecret(inviteePublicKey, text)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// ShareWithAll wraps the Resource Key for every invitee concurrently.
// Completion order is irrelevant; the result maps each invitee to their
// Invitation Wrap. An empty invitee set is legal and returns an empty map.
// The first failure cancels the remaining wraps.
func ShareWithAll(ctx context.Context, resourceKey *Secret, invitees map[string]*rsa.PublicKey) (map[string]string, error) {
	wraps := make(map[string]string, len(invitees))
	if len(invitees) == 0 {
		return wraps, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
	)

	for name, pub := range invitees {
		wg.Add(1)
		go func(name string, pub *rsa.PublicKey) {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}
			wrap, err := ShareWith(resourceKey, pub)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to wrap resource key for %s: %w", name, err)
					cancel()
				}
				return
			}
			wraps[name] = wrap
		}(name, pub)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return wraps, nil
}
