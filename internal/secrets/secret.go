package secrets

import (
	"encoding/base64"
	"fmt"

	"github.com/awnumar/memguard"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// KeySize is the size in bytes of every symmetric key in the hierarchy.
const KeySize = 32

// Secret holds unwrapped key material in guarded memory. The zero value and a
// nil *Secret are both empty. Destroy must be called by whoever produced the
// Secret, normally with defer right after the error check.
type Secret struct {
	buf *memguard.LockedBuffer
}

// NewSecret moves b into guarded memory. The caller's slice is wiped.
func NewSecret(b []byte) *Secret {
	return &Secret{buf: memguard.NewBufferFromBytes(b)}
}

// RandomSecret returns n bytes from the system CSPRNG in guarded memory.
func RandomSecret(n int) *Secret {
	return &Secret{buf: memguard.NewBufferRandom(n)}
}

// SecretFromBase64 decodes a base64 key (the textual form keys take before
// being wrapped) into guarded memory.
func SecretFromBase64(s string) (*Secret, error) {
	return secretFromBase64Bytes([]byte(s))
}

// secretFromBase64Bytes is SecretFromBase64 for text that itself has to be
// wiped. The caller still owns text.
func secretFromBase64Bytes(text []byte) (*Secret, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(raw, text)
	if err != nil {
		memguard.WipeBytes(raw)
		return nil, fmt.Errorf("%w: key is not valid base64", kerrors.ErrCipher)
	}
	if n != KeySize {
		memguard.WipeBytes(raw)
		return nil, fmt.Errorf("%w: expected %d byte key, got %d", kerrors.ErrCipher, KeySize, n)
	}
	return NewSecret(raw[:n]), nil
}

// Bytes returns a read-only view of the secret. It must not be retained
// past Destroy.
func (s *Secret) Bytes() []byte {
	if s == nil || s.buf == nil {
		return nil
	}
	return s.buf.Bytes()
}

// Len returns the size of the secret in bytes.
func (s *Secret) Len() int {
	return len(s.Bytes())
}

// Alive reports whether the secret still holds key material.
func (s *Secret) Alive() bool {
	return s != nil && s.buf != nil && s.buf.IsAlive()
}

// Base64 serialises the key as an immutable string. Only keys that leave the
// process in this form, such as the session key handed to the client, should
// use it; wrapping goes through Base64Bytes.
func (s *Secret) Base64() string {
	return base64.StdEncoding.EncodeToString(s.Bytes())
}

// Base64Bytes serialises the key into a fresh slice the caller must wipe.
func (s *Secret) Base64Bytes() []byte {
	raw := s.Bytes()
	text := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(text, raw)
	return text
}

// Destroy wipes and releases the guarded memory. Safe to call more than once.
func (s *Secret) Destroy() {
	if s == nil || s.buf == nil {
		return
	}
	s.buf.Destroy()
}
