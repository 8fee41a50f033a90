package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// IVSize is the AES-CBC initialization vector size in bytes.
const IVSize = aes.BlockSize

// Encrypt encrypts plaintext under a 256-bit key with AES-CBC and PKCS#7
// padding, using a fresh random IV for every call.
func Encrypt(key *Secret, plaintext []byte) (Envelope, error) {
	block, err := newBlock(key)
	if err != nil {
		return Envelope{}, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return Envelope{}, fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	wipe(padded)

	return Envelope{IV: iv, Ciphertext: ciphertext}, nil
}

// Decrypt reverses Encrypt. A wrong key, corrupted ciphertext or tampering
// surfaces as ErrDecryptionFailure.
func Decrypt(key *Secret, env Envelope) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}

	if len(env.IV) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", kerrors.ErrDecryptionFailure, IVSize, len(env.IV))
	}
	if len(env.Ciphertext) == 0 || len(env.Ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext is not a whole number of blocks", kerrors.ErrDecryptionFailure)
	}

	padded := make([]byte, len(env.Ciphertext))
	cipher.NewCBCDecrypter(block, env.IV).CryptBlocks(padded, env.Ciphertext)

	plaintext, ok := pkcs7Unpad(padded, aes.BlockSize)
	if !ok {
		wipe(padded)
		return nil, fmt.Errorf("%w: bad padding", kerrors.ErrDecryptionFailure)
	}
	return plaintext, nil
}

// EncryptString encrypts text and returns the envelope wire form.
func EncryptString(key *Secret, text string) (string, error) {
	env, err := Encrypt(key, []byte(text))
	if err != nil {
		return "", err
	}
	return env.String(), nil
}

// DecryptString decodes an envelope string and decrypts it to text.
func DecryptString(key *Secret, envelope string) (string, error) {
	env, err := DecodeEnvelope(envelope)
	if err != nil {
		return "", err
	}
	plaintext, err := Decrypt(key, env)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// encryptKey wraps one key under another, serialising it as base64 text first.
func encryptKey(wrappingKey, key *Secret) (string, error) {
	text := key.Base64Bytes()
	defer wipe(text)

	env, err := Encrypt(wrappingKey, text)
	if err != nil {
		return "", err
	}
	return env.String(), nil
}

// decryptKey unwraps a key produced by encryptKey.
func decryptKey(wrappingKey *Secret, envelope string) (*Secret, error) {
	env, err := DecodeEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	text, err := Decrypt(wrappingKey, env)
	if err != nil {
		return nil, err
	}
	defer wipe(text)

	key, err := secretFromBase64Bytes(text)
	if err != nil {
		// A plaintext that is not a key means the wrong key happened to
		// produce valid padding.
		return nil, fmt.Errorf("%w: unwrapped value is not a key", kerrors.ErrDecryptionFailure)
	}
	return key, nil
}

func newBlock(key *Secret) (cipher.Block, error) {
	if key.Len() != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes, got %d", kerrors.ErrCipher, KeySize, key.Len())
	}
	block, err := aes.NewCipher(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCipher, err)
	}
	return block, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data)+n)
	copy(out, data)
	for i := len(data); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, false
	}
	pad := data[len(data)-n:]
	want := make([]byte, n)
	for i := range want {
		want[i] = byte(n)
	}
	if subtle.ConstantTimeCompare(pad, want) != 1 {
		return nil, false
	}
	return data[:len(data)-n], true
}

// wipe zeroes a plaintext buffer that is not held in guarded memory.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
