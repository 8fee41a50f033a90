package secrets

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"math/big"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// KeyKind names the PEM banner of an armored key.
type KeyKind string

const (
	// KindPublic is a PKIX-encoded RSA public key.
	KindPublic KeyKind = "PUBLIC KEY"
	// KindPrivate is a PKCS#8-encoded RSA private key.
	KindPrivate KeyKind = "PRIVATE KEY"
)

// RSAKeyBits is the modulus size of identity keypairs.
const RSAKeyBits = 2048

// GenerateKeypair creates a new RSA-OAEP identity keypair. Go always uses
// the public exponent 65537.
func GenerateKeypair() (*rsa.PrivateKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}
	return privateKey, nil
}

// ExportArmored encodes an RSA key as PEM text. The body is base64 wrapped
// at 64 columns between banners naming the key kind. The result of a
// private key is key material: the caller must wipe it.
func ExportArmored(key any) ([]byte, error) {
	var block *pem.Block
	switch k := key.(type) {
	case *rsa.PublicKey:
		der, err := x509.MarshalPKIXPublicKey(k)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal public key: %w", err)
		}
		block = &pem.Block{Type: string(KindPublic), Bytes: der}
	case *rsa.PrivateKey:
		der, err := x509.MarshalPKCS8PrivateKey(k)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal private key: %w", err)
		}
		defer wipe(der)
		block = &pem.Block{Type: string(KindPrivate), Bytes: der}
	default:
		return nil, fmt.Errorf("%w: unsupported key type %T", kerrors.ErrInvalidKeyFormat, key)
	}

	// Sized up front so the buffer never regrows and leaves stale copies.
	var buf bytes.Buffer
	buf.Grow(armoredLen(len(block.Bytes), block.Type))
	if err := pem.Encode(&buf, block); err != nil {
		wipe(buf.Bytes())
		return nil, fmt.Errorf("failed to encode %s: %w", block.Type, err)
	}
	return buf.Bytes(), nil
}

// ExportPublicKey is ExportArmored for the public half, which is not secret
// and travels as text.
func ExportPublicKey(pub *rsa.PublicKey) (string, error) {
	armored, err := ExportArmored(pub)
	if err != nil {
		return "", err
	}
	return string(armored), nil
}

func armoredLen(derLen int, blockType string) int {
	body := base64.StdEncoding.EncodedLen(derLen)
	lines := body/64 + 1
	return body + lines + 2*len(blockType) + 64
}

// ImportArmored parses PEM text of the requested kind, returning
// *rsa.PublicKey or *rsa.PrivateKey.
func ImportArmored(armored []byte, kind KeyKind) (any, error) {
	switch kind {
	case KindPublic:
		return ImportPublicKey(string(armored))
	case KindPrivate:
		return ImportPrivateKey(armored)
	}
	return nil, fmt.Errorf("%w: unknown key kind %q", kerrors.ErrInvalidKeyFormat, kind)
}

// ImportPublicKey parses an armored "PUBLIC KEY".
func ImportPublicKey(armored string) (*rsa.PublicKey, error) {
	der, err := decodeArmor([]byte(armored), KindPublic)
	if err != nil {
		return nil, err
	}
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyFormat, err)
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA public key", kerrors.ErrInvalidKeyFormat)
	}
	return rsaPub, nil
}

// ImportPrivateKey parses an armored "PRIVATE KEY". The caller owns armored
// and should wipe it.
func ImportPrivateKey(armored []byte) (*rsa.PrivateKey, error) {
	der, err := decodeArmor(armored, KindPrivate)
	if err != nil {
		return nil, err
	}
	defer wipe(der)

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidKeyFormat, err)
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA private key", kerrors.ErrInvalidKeyFormat)
	}
	return rsaKey, nil
}

func decodeArmor(armored []byte, kind KeyKind) ([]byte, error) {
	block, _ := pem.Decode(armored)
	if block == nil {
		return nil, fmt.Errorf("%w: failed to decode PEM block containing %s", kerrors.ErrInvalidKeyFormat, kind)
	}
	if block.Type != string(kind) {
		return nil, fmt.Errorf("%w: expected %q, found %q", kerrors.ErrInvalidKeyFormat, kind, block.Type)
	}
	return block.Bytes, nil
}

// WrapSecret encrypts a short secret to a public key with RSA-OAEP-SHA256.
func WrapSecret(publicKey *rsa.PublicKey, secret []byte) ([]byte, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("%w: nil public key", kerrors.ErrCipher)
	}
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, secret, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCipher, err)
	}
	return ciphertext, nil
}

// UnwrapSecret decrypts a WrapSecret ciphertext. Anything not produced for
// this keypair fails with ErrUnwrapFailure.
func UnwrapSecret(privateKey *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("%w: nil private key", kerrors.ErrUnwrapFailure)
	}
	secret, err := rsa.DecryptOAEP(sha256.New(), nil, privateKey, ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrUnwrapFailure
	}
	return secret, nil
}

// WipePrivateKey zeroes the private components of an RSA key once it is no
// longer needed.
func WipePrivateKey(privateKey *rsa.PrivateKey) {
	if privateKey == nil {
		return
	}
	zero := func(n *big.Int) {
		if n != nil {
			n.SetInt64(0)
		}
	}
	zero(privateKey.D)
	for _, p := range privateKey.Primes {
		zero(p)
	}
	zero(privateKey.Precomputed.Dp)
	zero(privateKey.Precomputed.Dq)
	zero(privateKey.Precomputed.Qinv)
}
