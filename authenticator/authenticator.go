package authenticator

import (
	"context"

	"github.com/vneid/admin-dashboard/config"
)

// Token represents an authentication token
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       int64
}

// Claims represents user claims from the ID token
type Claims map[string]interface{}

// Email returns the email claim, or "" when absent.
func (c Claims) Email() string {
	email, _ := c["email"].(string)
	return email
}

// Subject returns the sub claim, or "" when absent.
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// Provider interface abstracts OAuth provider operations
type Provider interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	GetClaims(ctx context.Context, token *Token) (Claims, error)
}

// New returns the provider selected by cfg: the dev provider when auth is
// disabled, OpenID Connect otherwise.
func New(ctx context.Context, cfg config.Config) (Provider, error) {
	if cfg.Admin.AuthDisabled {
		return NewDevProvider(cfg.Admin.DevEmail), nil
	}
	p, err := NewOpenIDProvider(ctx, OpenIDConfig{
		Domain:       cfg.OIDC.Domain,
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		CallbackURL:  cfg.OIDC.CallbackURL,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
