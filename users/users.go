package users

import "time"

// User is the durable record kept per authenticated user, keyed by email.
// RefreshToken holds the single currently valid refresh credential for the
// user; nil means the session has been revoked and any presented refresh
// credential must be rejected. TokenVersion increments on every rotation.
type User struct {
	Email        string    `json:"email"`
	Name         *string   `json:"name,omitempty"`
	RefreshToken *string   `json:"-"` // Never serialize the refresh credential
	TokenVersion int       `json:"token_version"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRefreshToken reports whether the record still holds a valid refresh
// credential.
func (u *User) HasRefreshToken() bool {
	return u.RefreshToken != nil && *u.RefreshToken != ""
}

// RefreshTokenMatches compares a presented refresh credential against the
// stored one. A nil stored token never matches.
func (u *User) RefreshTokenMatches(token string) bool {
	return u.HasRefreshToken() && *u.RefreshToken == token
}
