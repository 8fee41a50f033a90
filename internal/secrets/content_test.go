package secrets

import (
	"errors"
	"testing"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

func TestDecryptFields_IsolatesFailures(t *testing.T) {
	resourceKey := testKey(t)

	var envelopes []string
	for _, post := range []string{"first", "second", "third"} {
		envelope, err := EncryptField(resourceKey, post)
		if err != nil {
			t.Fatalf("EncryptField failed: %v", err)
		}
		envelopes = append(envelopes, envelope)
	}
	envelopes[1] = "corrupted"

	results := DecryptFields(resourceKey, envelopes)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	if !results[0].OK() || results[0].Display() != "first" {
		t.Errorf("expected first post, got %+v", results[0])
	}
	if results[1].OK() {
		t.Error("corrupted post should not decrypt")
	}
	if !errors.Is(results[1].Err, kerrors.ErrMalformedEnvelope) {
		t.Errorf("expected ErrMalformedEnvelope, got %v", results[1].Err)
	}
	if results[1].Display() != UndecryptablePlaceholder {
		t.Errorf("expected placeholder, got %q", results[1].Display())
	}
	if !results[2].OK() || results[2].Display() != "third" {
		t.Errorf("expected third post, got %+v", results[2])
	}
}

func TestEncryptField_Unicode(t *testing.T) {
	resourceKey := testKey(t)

	envelope, err := EncryptField(resourceKey, "héllo wörld ✓")
	if err != nil {
		t.Fatalf("EncryptField failed: %v", err)
	}
	if got := DecryptField(resourceKey, envelope); got.Plaintext != "héllo wörld ✓" {
		t.Errorf("unexpected plaintext %q", got.Plaintext)
	}
}
