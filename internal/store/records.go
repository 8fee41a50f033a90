package store

import "time"

// User is a registered account.
type User struct {
	Username          string    `toml:"username"`
	Email             string    `toml:"email"`
	VerifierHash      string    `toml:"verifier_hash"`
	Salt              string    `toml:"salt"`
	PublicKey         string    `toml:"public_key"`
	WrappedPrivateKey string    `toml:"wrapped_private_key"`
	CreatedAt         time.Time `toml:"created_at"`
}

// Session is a server-side login record. SealedKey is the session key
// encrypted under the database key.
type Session struct {
	Token     string    `toml:"token"`
	Username  string    `toml:"username"`
	SealedKey string    `toml:"sealed_key"`
	IssuedAt  time.Time `toml:"issued_at"`
}

// Page is a shared resource. Both text fields are envelopes under the
// page's resource key.
type Page struct {
	ID                   string    `toml:"id"`
	Owner                string    `toml:"owner"`
	EncryptedTitle       string    `toml:"encrypted_title"`
	EncryptedDescription string    `toml:"encrypted_description"`
	CreatedAt            time.Time `toml:"created_at"`
}

// Membership binds a user to a page through a wrap of the page key under
// the user's master key.
type Membership struct {
	PageID     string    `toml:"page_id"`
	Username   string    `toml:"username"`
	WrappedKey string    `toml:"wrapped_key"`
	JoinedAt   time.Time `toml:"joined_at"`
}

// Post is one encrypted message on a page.
type Post struct {
	ID               string    `toml:"id"`
	PageID           string    `toml:"page_id"`
	Author           string    `toml:"author"`
	EncryptedMessage string    `toml:"encrypted_message"`
	CreatedAt        time.Time `toml:"created_at"`
}

// Invitation is a pending offer of page access. WrappedKey is the page key
// wrapped to the invitee's public key.
type Invitation struct {
	ID             string    `toml:"id"`
	PageID         string    `toml:"page_id"`
	Invitee        string    `toml:"invitee"`
	InvitedBy      string    `toml:"invited_by"`
	WrappedKey     string    `toml:"wrapped_key"`
	EncryptedTitle string    `toml:"encrypted_title"`
	CreatedAt      time.Time `toml:"created_at"`
}
