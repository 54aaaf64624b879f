// Package provider wraps the third-party identity provider's authorization
// and token endpoints behind a stateless exchange capability.
package provider

import (
	"context"
	"errors"
)

var (
	ErrExchangeFailed  = errors.New("provider exchange failed")
	ErrMissingIdentity = errors.New("identity claims missing email")
)

// Identity is the verified claim set extracted from a provider ID token.
type Identity struct {
	Email string
	Name  *string
}

// Exchanger performs the two exchanges the credential lifecycle needs. Both
// take the presented secret as an explicit parameter and hold no credential
// state between calls, so concurrent requests cannot interfere.
type Exchanger interface {
	// AuthCodeURL builds the consent URL, requesting offline access and
	// forcing consent so a refresh token is returned on first authorization.
	AuthCodeURL(state string) string
	// Exchange swaps an authorization code for verified identity claims and
	// the provider-issued refresh token (empty when the provider withholds
	// one on repeat consent).
	Exchange(ctx context.Context, code string) (*Identity, string, error)
	// Refresh swaps a refresh token for fresh verified identity claims.
	Refresh(ctx context.Context, refreshToken string) (*Identity, error)
}
