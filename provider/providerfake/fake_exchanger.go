package fakeexchanger

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-session-service/provider"
)

var _ provider.Exchanger = (*FakeExchanger)(nil)

type codeGrant struct {
	identity     provider.Identity
	refreshToken string
}

// FakeExchanger is an in-memory provider.Exchanger for tests. Authorization
// codes and refresh tokens are seeded explicitly; anything else fails the
// way the real provider would.
type FakeExchanger struct {
	codes         map[string]codeGrant
	refreshTokens map[string]provider.Identity
	lock          sync.RWMutex
}

func NewFakeExchanger() *FakeExchanger {
	return &FakeExchanger{
		codes:         make(map[string]codeGrant),
		refreshTokens: make(map[string]provider.Identity),
	}
}

// SeedCode registers an authorization code grant. An empty refreshToken
// mimics a provider that withholds the refresh token on repeat consent.
func (f *FakeExchanger) SeedCode(code string, identity provider.Identity, refreshToken string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.codes[code] = codeGrant{identity: identity, refreshToken: refreshToken}
	if refreshToken != "" {
		f.refreshTokens[refreshToken] = identity
	}
}

// SeedRefreshToken registers a refresh token the provider will accept.
func (f *FakeExchanger) SeedRefreshToken(refreshToken string, identity provider.Identity) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.refreshTokens[refreshToken] = identity
}

func (f *FakeExchanger) AuthCodeURL(state string) string {
	return "https://accounts.fake.example/o/oauth2/auth?state=" + state
}

func (f *FakeExchanger) Exchange(_ context.Context, code string) (*provider.Identity, string, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	grant, ok := f.codes[code]
	if !ok {
		return nil, "", provider.ErrExchangeFailed
	}
	if grant.identity.Email == "" {
		return nil, "", provider.ErrMissingIdentity
	}
	identity := grant.identity
	return &identity, grant.refreshToken, nil
}

func (f *FakeExchanger) Refresh(_ context.Context, refreshToken string) (*provider.Identity, error) {
	f.lock.RLock()
	defer f.lock.RUnlock()

	identity, ok := f.refreshTokens[refreshToken]
	if !ok {
		return nil, provider.ErrExchangeFailed
	}
	return &identity, nil
}
