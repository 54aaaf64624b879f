// Package auth implements the session credential state machine: how access
// and refresh credentials are minted, validated, rotated and revoked, and
// how the user record store stays consistent with client-held cookies.
package auth

import (
	"context"

	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/jrsteele09/go-session-service/internal/utils"
	"github.com/jrsteele09/go-session-service/provider"
	"github.com/jrsteele09/go-session-service/token"
	"github.com/jrsteele09/go-session-service/token/refresh"
	"github.com/jrsteele09/go-session-service/users"
	"github.com/pkg/errors"
)

// Repos holds all repository dependencies for the SessionService.
type Repos struct {
	Users users.Repo
}

// Credentials is the cookie-bound result of a successful issuer operation.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	TokenVersion int
}

// SessionService issues, refreshes, rotates and revokes session credentials.
type SessionService struct {
	repos     Repos
	exchanger provider.Exchanger
	tokens    *token.Manager
	config    config.OAuthConfig
}

// NewSessionService initializes a new SessionService with required dependencies.
func NewSessionService(
	repos Repos,
	exchanger provider.Exchanger,
	tokens *token.Manager,
	cfg config.OAuthConfig,
) (*SessionService, error) {
	if repos.Users == nil {
		return nil, errors.New("[NewSessionService] Users repo is required")
	}
	if exchanger == nil {
		return nil, errors.New("[NewSessionService] exchanger is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewSessionService] token manager is required")
	}

	return &SessionService{
		repos:     repos,
		exchanger: exchanger,
		tokens:    tokens,
		config:    cfg,
	}, nil
}

// LoginURL returns the provider consent URL the client should be redirected
// to. No side effects beyond the redirect itself.
func (ss *SessionService) LoginURL(state string) string {
	return ss.exchanger.AuthCodeURL(state)
}

// HandleCallback exchanges an authorization code for identity claims and a
// refresh credential, upserts the user record, and mints the full cookie
// credential set. When the provider withholds a refresh token on repeat
// consent, the previously stored one is preserved and reused.
func (ss *SessionService) HandleCallback(ctx context.Context, code string) (*Credentials, error) {
	if code == "" {
		return nil, MissingCodeErr
	}

	identity, refreshToken, err := ss.exchanger.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "[HandleCallback] exchange")
	}

	var storedToken *string
	if refreshToken != "" {
		storedToken = utils.Ptr(refreshToken)
	}

	user, err := ss.repos.Users.Upsert(ctx, identity.Email, identity.Name, storedToken)
	if err != nil {
		return nil, errors.Wrap(err, "[HandleCallback] users.Upsert")
	}

	if !user.HasRefreshToken() {
		return nil, NoRefreshTokenErr
	}

	accessToken, err := ss.tokens.Mint(user.Email, user.Name)
	if err != nil {
		return nil, errors.Wrap(err, "[HandleCallback] tokens.Mint")
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: *user.RefreshToken,
		TokenVersion: user.TokenVersion,
	}, nil
}

// Refresh exchanges the presented refresh credential for fresh identity
// claims and mints a new access credential. The refresh credential itself is
// unchanged; only Rotate replaces it. The presented credential is
// cross-checked against the stored record before it is accepted, so a
// rotated-away or revoked token fails here the same way it fails on Rotate.
func (ss *SessionService) Refresh(ctx context.Context, refreshCookie string) (*Credentials, error) {
	if refreshCookie == "" {
		return nil, MissingRefreshTokenErr
	}

	identity, err := ss.exchanger.Refresh(ctx, refreshCookie)
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] exchange")
	}

	user, err := ss.repos.Users.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] users.GetByEmail")
	}
	if !user.RefreshTokenMatches(refreshCookie) {
		return nil, users.ErrTokenMismatch
	}

	name := identity.Name
	if name == nil {
		name = user.Name
	}
	accessToken, err := ss.tokens.Mint(identity.Email, name)
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] tokens.Mint")
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: refreshCookie,
		TokenVersion: user.TokenVersion,
	}, nil
}

// Rotate replaces the current refresh credential with a locally generated
// high-entropy one and increments the token version. This is the only path
// that invalidates a previously issued refresh credential. The swap is a
// compare-and-swap in the record store, so of two concurrent rotations
// exactly one wins and the other observes a mismatch.
func (ss *SessionService) Rotate(ctx context.Context, accessCookie, refreshCookie string) (*Credentials, error) {
	claims, err := ss.tokens.Verify(accessCookie)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotate] tokens.Verify")
	}
	if refreshCookie == "" {
		return nil, MissingRefreshTokenErr
	}

	newToken, err := refresh.Generate(ss.config.GetRefreshTokenLength())
	if err != nil {
		return nil, errors.Wrap(err, "[Rotate] refresh.Generate")
	}

	user, err := ss.repos.Users.Rotate(ctx, claims.Email, refreshCookie, newToken)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotate] users.Rotate")
	}

	accessToken, err := ss.tokens.Mint(user.Email, user.Name)
	if err != nil {
		return nil, errors.Wrap(err, "[Rotate] tokens.Mint")
	}

	return &Credentials{
		AccessToken:  accessToken,
		RefreshToken: newToken,
		TokenVersion: user.TokenVersion,
	}, nil
}

// Logout revokes the stored refresh credential when the presented access
// credential still verifies. Revocation is best-effort: an invalid or
// missing credential is not an error, the caller clears cookies regardless.
func (ss *SessionService) Logout(ctx context.Context, accessCookie string) error {
	claims, err := ss.tokens.Verify(accessCookie)
	if err != nil {
		return nil
	}

	if err := ss.repos.Users.ClearRefreshToken(ctx, claims.Email); err != nil && err != users.ErrNotFound {
		return errors.Wrap(err, "[Logout] users.ClearRefreshToken")
	}
	return nil
}

// Me verifies the access credential and re-fetches the durable user record,
// for routes that need profile data rather than mint-time claims.
func (ss *SessionService) Me(ctx context.Context, accessCookie string) (*users.User, error) {
	claims, err := ss.tokens.Verify(accessCookie)
	if err != nil {
		return nil, errors.Wrap(err, "[Me] tokens.Verify")
	}

	user, err := ss.repos.Users.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, errors.Wrap(err, "[Me] users.GetByEmail")
	}
	return user, nil
}

// ClaimsFromAccessToken verifies the access credential and returns the
// claims embedded at mint time, without a store lookup.
func (ss *SessionService) ClaimsFromAccessToken(accessCookie string) (*token.Claims, error) {
	return ss.tokens.Verify(accessCookie)
}
