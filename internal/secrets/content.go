package secrets

import "fmt"

// UndecryptablePlaceholder is shown in place of a field that failed to decrypt.
const UndecryptablePlaceholder = "[unable to decrypt]"

// FieldResult is the outcome of decrypting one content field.
type FieldResult struct {
	Plaintext string
	Err       error
}

// OK reports whether the field decrypted.
func (r FieldResult) OK() bool {
	return r.Err == nil
}

// Display returns the plaintext, or the placeholder if decryption failed.
func (r FieldResult) Display() string {
	if r.Err != nil {
		return UndecryptablePlaceholder
	}
	return r.Plaintext
}

// EncryptField encrypts one content field under the Resource Key.
func EncryptField(resourceKey *Secret, plaintext string) (string, error) {
	envelope, err := EncryptString(resourceKey, plaintext)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt field: %w", err)
	}
	return envelope, nil
}

// DecryptField decrypts one content field. Failures are returned in the
// result rather than aborting the caller's listing.
func DecryptField(resourceKey *Secret, envelope string) FieldResult {
	plaintext, err := DecryptString(resourceKey, envelope)
	if err != nil {
		return FieldResult{Err: err}
	}
	return FieldResult{Plaintext: plaintext}
}

// DecryptFields decrypts each envelope independently; one corrupted entry
// never affects the others.
func DecryptFields(resourceKey *Secret, envelopes []string) []FieldResult {
	results := make([]FieldResult, len(envelopes))
	for i, envelope := range envelopes {
		results[i] = DecryptField(resourceKey, envelope)
	}
	return results
}
