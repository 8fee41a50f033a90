package secrets

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// EnvelopeDelimiter separates the IV from the ciphertext in the wire form.
const EnvelopeDelimiter = ":"

// Envelope is one symmetric encryption: the IV it used and the resulting ciphertext.
type Envelope struct {
	IV         []byte
	Ciphertext []byte
}

// EncodeEnvelope returns hex(iv) + ":" + hex(ciphertext).
func EncodeEnvelope(iv, ciphertext []byte) string {
	return hex.EncodeToString(iv) + EnvelopeDelimiter + hex.EncodeToString(ciphertext)
}

// String returns the wire form of the envelope.
func (e Envelope) String() string {
	return EncodeEnvelope(e.IV, e.Ciphertext)
}

// Equal reports whether two envelopes carry the same IV and ciphertext.
func (e Envelope) Equal(other Envelope) bool {
	return bytes.Equal(e.IV, other.IV) && bytes.Equal(e.Ciphertext, other.Ciphertext)
}

// DecodeEnvelope parses the wire form, splitting on the first delimiter.
func DecodeEnvelope(s string) (Envelope, error) {
	ivHex, ctHex, found := strings.Cut(s, EnvelopeDelimiter)
	if !found {
		return Envelope{}, fmt.Errorf("%w: missing %q delimiter", kerrors.ErrMalformedEnvelope, EnvelopeDelimiter)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: iv is not valid hex", kerrors.ErrMalformedEnvelope)
	}
	ct, err := hex.DecodeString(ctHex)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: ciphertext is not valid hex", kerrors.ErrMalformedEnvelope)
	}

	return Envelope{IV: iv, Ciphertext: ct}, nil
}
