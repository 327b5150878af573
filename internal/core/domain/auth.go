package domain

import "time"

// User is a registered account holder.
// PasswordHash is "salt:hex(sha256(password+salt))", never the raw password.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// APIKey grants long-lived programmatic access for one user.
type APIKey struct {
	// ID is a UUID identifying the key for listing and revocation.
	ID string `json:"id"`

	// Secret is the opaque key material presented by callers.
	Secret string `json:"secret"`

	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Token is a short-lived session credential.
// Tokens live in memory only and are never persisted.
type Token struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry.
func (t Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
