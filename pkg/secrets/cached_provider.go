package secrets

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// CachedProvider wraps another provider and serves each secret from memory
// after the first successful read. Lookups that fail are not cached.
type CachedProvider struct {
	inner Provider
	cache *cache.Cache
}

func NewCachedProvider(inner Provider) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (p *CachedProvider) Get(ctx context.Context, name string) (string, error) {
	if v, found := p.cache.Get(name); found {
		return v.(string), nil
	}

	value, err := p.inner.Get(ctx, name)
	if err != nil {
		return "", err
	}

	p.cache.Set(name, value, cache.NoExpiration)
	return value, nil
}
