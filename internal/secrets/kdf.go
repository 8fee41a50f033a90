package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// PBKDF2Iterations is the work factor for deriving a Master Key.
	PBKDF2Iterations = 100000

	// VerifierRounds is the number of SHA-256 applications in a password verifier.
	VerifierRounds = 10000

	// SaltLength is the number of characters in a generated salt.
	SaltLength = 16

	saltAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// DerivePasswordKey derives the 256-bit Master Key from a password and the
// user's salt with PBKDF2-HMAC-SHA256. The same inputs always produce the
// same key, so the key itself never has to be stored.
func DerivePasswordKey(password, salt string) (*Secret, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}
	if salt == "" {
		return nil, fmt.Errorf("salt cannot be empty")
	}
	return NewSecret(pbkdf2.Key([]byte(password), []byte(salt), PBKDF2Iterations, KeySize, sha256.New)), nil
}

// PasswordVerifier hashes a password with SHA-256 applied VerifierRounds
// times and returns the hex digest. It is what the server sees in place of
// the password and is unrelated to the Master Key derivation.
func PasswordVerifier(password string) string {
	digest := sha256.Sum256([]byte(password))
	for i := 1; i < VerifierRounds; i++ {
		digest = sha256.Sum256(digest[:])
	}
	return hex.EncodeToString(digest[:])
}

// GenerateSalt returns a random alphanumeric salt of SaltLength characters.
func GenerateSalt() (string, error) {
	out := make([]byte, SaltLength)
	max := big.NewInt(int64(len(saltAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate salt: %w", err)
		}
		out[i] = saltAlphabet[n.Int64()]
	}
	return string(out), nil
}
