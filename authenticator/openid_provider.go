package authenticator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// OpenIDProvider signs VNeID operators in through the organisation's OpenID
// Connect issuer. It only establishes who the operator is: whether that
// identity may administer citizen records is decided by the admin allow-list,
// which sees an empty email for identities without a verified address.
type OpenIDProvider struct {
	verifier *oidc.IDTokenVerifier
	oauth    oauth2.Config
}

// OpenIDConfig locates the issuer and the dashboard's client registration.
type OpenIDConfig struct {
	Domain       string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

func (c OpenIDConfig) validate() error {
	switch {
	case c.Domain == "":
		return errors.New("domain is required")
	case c.ClientID == "":
		return errors.New("client ID is required")
	case c.ClientSecret == "":
		return errors.New("client secret is required")
	case c.CallbackURL == "":
		return errors.New("callback URL is required")
	}
	return nil
}

// issuerURL accepts either a bare host or a full https URL.
func (c OpenIDConfig) issuerURL() string {
	issuer := strings.TrimSuffix(c.Domain, "/")
	if !strings.HasPrefix(issuer, "https://") && !strings.HasPrefix(issuer, "http://") {
		issuer = "https://" + issuer
	}
	return issuer + "/"
}

// NewOpenIDProvider runs issuer discovery and asks for the email scope, since
// the admin allow-list is keyed on the operator's email.
func NewOpenIDProvider(ctx context.Context, cfg OpenIDConfig) (*OpenIDProvider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	issuer, err := oidc.NewProvider(ctx, cfg.issuerURL())
	if err != nil {
		return nil, fmt.Errorf("failed to discover OpenID issuer %s: %w", cfg.Domain, err)
	}

	return &OpenIDProvider{
		verifier: issuer.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     issuer.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}

func (p *OpenIDProvider) GetAuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *OpenIDProvider) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	tok, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		IDToken:      idToken,
		Expiry:       tok.Expiry.Unix(),
	}, nil
}

// GetClaims verifies the ID token. Only signature, audience or expiry
// failures are errors; a token without a usable email yields claims with no
// email, which the admin allow-list then refuses.
func (p *OpenIDProvider) GetClaims(ctx context.Context, token *Token) (Claims, error) {
	if token == nil || token.IDToken == "" {
		return nil, errors.New("no id_token in token")
	}

	idToken, err := p.verifier.Verify(ctx, token.IDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id_token: %w", err)
	}

	var raw Claims
	if err := idToken.Claims(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode claims: %w", err)
	}
	return operatorClaims(raw), nil
}

// operatorClaims keeps the email only when the issuer has not marked it
// unverified. Issuers that omit email_verified are trusted.
func operatorClaims(raw Claims) Claims {
	claims := Claims{}
	for k, v := range raw {
		claims[k] = v
	}
	if verified, ok := raw["email_verified"].(bool); ok && !verified {
		delete(claims, "email")
	}
	if email := strings.TrimSpace(claims.Email()); email != "" {
		claims["email"] = strings.ToLower(email)
	} else {
		delete(claims, "email")
	}
	return claims
}
