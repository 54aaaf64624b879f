package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// Repo is the user record store. Implementations must make Upsert and Rotate
// atomic per email so concurrent requests cannot tear a record.
type Repo interface {
	// Upsert creates the record if absent (TokenVersion 0), otherwise updates
	// the name. A non-nil refreshToken replaces the stored one; nil preserves
	// whatever is already stored.
	Upsert(ctx context.Context, email string, name *string, refreshToken *string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// Rotate swaps oldToken for newToken and increments TokenVersion. It
	// fails with ErrTokenMismatch unless the stored token equals oldToken at
	// the time of the swap, so exactly one of two concurrent rotations wins.
	Rotate(ctx context.Context, email, oldToken, newToken string) (*User, error)
	// ClearRefreshToken nulls the stored refresh credential, invalidating any
	// copies still held by clients.
	ClearRefreshToken(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}
