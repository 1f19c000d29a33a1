// Package identity obtains bearer identity tokens for service-to-service calls
// to the backend.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// Provider returns a bearer token for the backend audience.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Invalidator is implemented by providers that hold tokens between calls.
type Invalidator interface {
	Invalidate()
}

// expiringProvider reports the expiry alongside the token when the source
// knows it.
type expiringProvider interface {
	tokenWithExpiry(ctx context.Context) (string, time.Time, error)
}

// Google mints Google-signed ID tokens for an audience. Every call performs a
// fresh exchange; wrap it in a Cache to reuse tokens until they expire.
type Google struct {
	audience string
	opts     []option.ClientOption
}

// NewGoogle builds a provider for audience. credentialsFile may be empty to
// use Application Default Credentials.
func NewGoogle(audience, credentialsFile string) *Google {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return &Google{audience: audience, opts: opts}
}

// Audience returns the audience tokens are minted for.
func (g *Google) Audience() string { return g.audience }

func (g *Google) Token(ctx context.Context) (string, error) {
	tok, _, err := g.tokenWithExpiry(ctx)
	return tok, err
}

func (g *Google) tokenWithExpiry(ctx context.Context) (string, time.Time, error) {
	src, err := idtoken.NewTokenSource(ctx, g.audience, g.opts...)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("idtoken source for %q: %w", g.audience, err)
	}
	tok, exp, err := TokenSource{Source: src}.tokenWithExpiry(ctx)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("fetch id token for %q: %w", g.audience, err)
	}
	return tok, exp, nil
}

// TokenSource adapts an oauth2.TokenSource. The token's Expiry, when set,
// is what a Cache uses for its lifetime.
type TokenSource struct {
	Source oauth2.TokenSource
}

func (ts TokenSource) Token(ctx context.Context) (string, error) {
	tok, _, err := ts.tokenWithExpiry(ctx)
	return tok, err
}

func (ts TokenSource) tokenWithExpiry(context.Context) (string, time.Time, error) {
	tok, err := ts.Source.Token()
	if err != nil {
		return "", time.Time{}, err
	}
	if tok.AccessToken == "" {
		return "", time.Time{}, errors.New("token source returned an empty token")
	}
	return tok.AccessToken, tok.Expiry, nil
}
