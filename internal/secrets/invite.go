package secrets

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"

	kerrors "github.com/cipherboard/cipherboard/internal/errors"
)

// OpenInvitation unwraps the Resource Key carried by an Invitation Wrap.
// It fails with ErrUnwrapFailure when the invitation was addressed to a
// different keypair. The caller must Destroy the returned key.
func OpenInvitation(invitePrivateKey *rsa.PrivateKey, invitationWrap string) (*Secret, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(invitationWrap)
	if err != nil {
		return nil, fmt.Errorf("%w: invitation wrap is not valid base64", kerrors.ErrUnwrapFailure)
	}

	text, err := UnwrapSecret(invitePrivateKey, ciphertext)
	if err != nil {
		return nil, err
	}
	defer wipe(text)

	resourceKey, err := secretFromBase64Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("%w: invitation does not carry a key", kerrors.ErrUnwrapFailure)
	}
	return resourceKey, nil
}

// AcceptInvitation converts a one-time Invitation Wrap into a Membership
// Wrap under the accepter's own Master Key, so later access goes through
// the ordinary key chain. The raw Resource Key does not outlive the call.
func AcceptInvitation(invitePrivateKey *rsa.PrivateKey, invitationWrap string, ownMasterKey *Secret) (string, error) {
	resourceKey, err := OpenInvitation(invitePrivateKey, invitationWrap)
	if err != nil {
		return "", err
	}
	defer resourceKey.Destroy()

	membershipWrap, err := encryptKey(ownMasterKey, resourceKey)
	if err != nil {
		return "", fmt.Errorf("failed to re-wrap resource key: %w", err)
	}
	return membershipWrap, nil
}

// WrapPrivateKey armors a private key and encrypts it under the Master Key,
// the only form in which the server ever stores it.
func WrapPrivateKey(masterKey *Secret, privateKey *rsa.PrivateKey) (string, error) {
	armored, err := ExportArmored(privateKey)
	if err != nil {
		return "", err
	}
	defer wipe(armored)

	env, err := Encrypt(masterKey, armored)
	if err != nil {
		return "", fmt.Errorf("failed to wrap private key: %w", err)
	}
	return env.String(), nil
}

// UnwrapPrivateKey reverses WrapPrivateKey. The caller should pass the
// result to WipePrivateKey when done.
func UnwrapPrivateKey(masterKey *Secret, wrappedPrivateKey string) (*rsa.PrivateKey, error) {
	env, err := DecodeEnvelope(wrappedPrivateKey)
	if err != nil {
		return nil, err
	}
	armored, err := Decrypt(masterKey, env)
	if err != nil {
		return nil, err
	}
	defer wipe(armored)

	privateKey, err := ImportPrivateKey(armored)
	if err != nil {
		return nil, err
	}
	return privateKey, nil
}
