package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/you/plumbsvc/domain"
)

// GoogleOAuthService handles the portal's Google sign-in round trip. Only the
// verified email leaves this service; account ownership is resolved against
// the CRM afterwards.
type GoogleOAuthService struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewGoogleOAuthService discovers the Google OIDC endpoints and builds the
// oauth2 config.
func NewGoogleOAuthService(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleOAuthService, error) {
	provider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("failed to discover google oidc provider: %w", err)
	}

	return &GoogleOAuthService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// NewGoogleOAuthServiceWithEndpoint builds the service against a known
// endpoint, skipping provider discovery. Discovery needs the network, so
// tests and offline tooling take this path.
func NewGoogleOAuthServiceWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, verifier *oidc.IDTokenVerifier) *GoogleOAuthService {
	return &GoogleOAuthService{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
		verifier: verifier,
	}
}

// AuthURL returns the consent page URL carrying the state nonce. The nonce is
// stored in the session cookie and compared on callback.
func (g *GoogleOAuthService) AuthURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

// Exchange redeems the authorization code and returns the verified email.
func (g *GoogleOAuthService) Exchange(ctx context.Context, code string) (string, error) {
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return "", domain.ErrTokenInvalid
	}

	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", domain.ErrTokenInvalid
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("failed to parse id token claims: %w", err)
	}
	if claims.Email == "" || !claims.EmailVerified {
		return "", domain.ErrTokenInvalid
	}

	return claims.Email, nil
}
