package storage

import (
	"context"
	"io"
	"time"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/cache"
)

// ExistsTTL is how long an existence answer is cached.
const ExistsTTL = 10 * time.Minute

// ExistsCachePrefix prefixes the cache keys written by CachedStore.
const ExistsCachePrefix = "media:exists:"

// CachedStore remembers Exists answers in the cache. Save and Delete
// invalidate the entry so a cached answer never differs from the store.
type CachedStore struct {
	Store
	cache *cache.Store
	ttl   time.Duration
}

// WithExistenceCache wraps s; a nil or disabled cache makes it a pass-through.
func WithExistenceCache(s Store, c *cache.Store) *CachedStore {
	return &CachedStore{Store: s, cache: c, ttl: ExistsTTL}
}

func (s *CachedStore) Exists(ctx context.Context, key string) (bool, error) {
	if v, ok := s.cache.Get(ctx, key); ok {
		return v == "1", nil
	}
	exists, err := s.Store.Exists(ctx, key)
	if err != nil {
		return false, err
	}
	val := "0"
	if exists {
		val = "1"
	}
	s.cache.Set(ctx, key, val, s.ttl)
	return exists, nil
}

func (s *CachedStore) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	err := s.Store.Save(ctx, key, r, size, contentType)
	s.cache.Delete(ctx, key)
	return err
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	err := s.Store.Delete(ctx, key)
	s.cache.Delete(ctx, key)
	return err
}
