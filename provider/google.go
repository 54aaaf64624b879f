package provider

import (
	"context"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-session-service/internal/config"
	"github.com/jrsteele09/go-session-service/internal/utils"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

var _ Exchanger = (*GoogleExchanger)(nil)

// GoogleExchanger implements Exchanger against Google's OIDC endpoints. The
// oauth2.Config and verifier it holds are immutable after construction;
// per-request credentials travel through parameters only.
type GoogleExchanger struct {
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
	timeout      time.Duration
}

func NewGoogleExchanger(ctx context.Context, cfg config.Config) (*GoogleExchanger, error) {
	oidcProvider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewGoogleExchanger] oidc.NewProvider")
	}

	return &GoogleExchanger{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GetGoogleClientID(),
			ClientSecret: cfg.GetGoogleClientSecret(),
			Endpoint:     oidcProvider.Endpoint(),
			RedirectURL:  cfg.GetGoogleRedirectURI(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{
			ClientID: cfg.GetGoogleClientID(),
		}),
		timeout: cfg.GetProviderTimeout(),
	}, nil
}

func (g *GoogleExchanger) AuthCodeURL(state string) string {
	return g.oauth2Config.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

func (g *GoogleExchanger) Exchange(ctx context.Context, code string) (*Identity, string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	oauth2Token, err := g.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, "", errors.Wrap(ErrExchangeFailed, err.Error())
	}

	identity, err := g.verifiedIdentity(ctx, oauth2Token)
	if err != nil {
		return nil, "", err
	}
	return identity, oauth2Token.RefreshToken, nil
}

func (g *GoogleExchanger) Refresh(ctx context.Context, refreshToken string) (*Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	// TokenSource takes the refresh token as explicit input; no client
	// object holds credentials across requests.
	oauth2Token, err := g.oauth2Config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(ErrExchangeFailed, err.Error())
	}
	return g.verifiedIdentity(ctx, oauth2Token)
}

func (g *GoogleExchanger) verifiedIdentity(ctx context.Context, oauth2Token *oauth2.Token) (*Identity, error) {
	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return nil, errors.Wrap(ErrExchangeFailed, "no id_token in token response")
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(ErrExchangeFailed, err.Error())
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, errors.Wrap(ErrExchangeFailed, err.Error())
	}
	if claims.Email == "" {
		return nil, ErrMissingIdentity
	}

	identity := &Identity{Email: claims.Email}
	if claims.Name != "" {
		identity.Name = utils.Ptr(claims.Name)
	}
	return identity, nil
}
