package secrets

import (
	"crypto/rsa"
	"sync"
	"testing"
)

var (
	keypairOnce sync.Once
	keypairA    *rsa.PrivateKey
	keypairB    *rsa.PrivateKey
	keypairErr  error
)

// testKeypairs returns two distinct RSA keypairs shared across the package's
// tests, since generating 2048-bit keys is slow.
func testKeypairs(t *testing.T) (*rsa.PrivateKey, *rsa.PrivateKey) {
	t.Helper()

	keypairOnce.Do(func() {
		keypairA, keypairErr = GenerateKeypair()
		if keypairErr != nil {
			return
		}
		keypairB, keypairErr = GenerateKeypair()
	})
	if keypairErr != nil {
		t.Fatalf("Failed to generate RSA keypairs: %v", keypairErr)
	}
	return keypairA, keypairB
}

// testKey returns a fresh random 256-bit key destroyed at test cleanup.
func testKey(t *testing.T) *Secret {
	t.Helper()

	key := RandomSecret(KeySize)
	t.Cleanup(key.Destroy)
	return key
}
