package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultRefreshSkew is how long before expiry a cached token is refreshed.
const DefaultRefreshSkew = 60 * time.Second

// Cache reuses tokens from the wrapped provider until shortly before they
// expire. Tokens whose expiry cannot be determined are never cached.
type Cache struct {
	next     Provider
	audience string
	skew     time.Duration
	store    *cache.Cache
	sf       singleflight.Group
}

// NewCache wraps next; audience is the cache key.
func NewCache(next Provider, audience string) *Cache {
	return &Cache{
		next:     next,
		audience: audience,
		skew:     DefaultRefreshSkew,
		store:    cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (c *Cache) Token(ctx context.Context) (string, error) {
	if v, ok := c.store.Get(c.audience); ok {
		return v.(string), nil
	}

	v, err, _ := c.sf.Do(c.audience, func() (interface{}, error) {
		if v, ok := c.store.Get(c.audience); ok {
			return v, nil
		}

		tok, exp, err := c.fetch(ctx)
		if err != nil {
			return "", err
		}

		ttl := time.Until(exp) - c.skew
		if exp.IsZero() || ttl <= 0 {
			log.Debug().Str("audience", c.audience).Msg("identity token not cacheable")
			return tok, nil
		}
		c.store.Set(c.audience, tok, ttl)
		log.Debug().Str("audience", c.audience).Dur("ttl", ttl).Msg("identity token cached")
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate drops the cached token so the next call fetches a new one.
func (c *Cache) Invalidate() {
	c.store.Delete(c.audience)
}

func (c *Cache) fetch(ctx context.Context) (string, time.Time, error) {
	if ep, ok := c.next.(expiringProvider); ok {
		tok, exp, err := ep.tokenWithExpiry(ctx)
		if err != nil {
			return "", time.Time{}, err
		}
		if exp.IsZero() {
			exp = expiryOf(tok)
		}
		return tok, exp, nil
	}
	tok, err := c.next.Token(ctx)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, expiryOf(tok), nil
}

// expiryOf reads the exp claim without verifying the signature; the token
// came from a trusted issuer and only its lifetime matters here.
func expiryOf(tok string) time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
