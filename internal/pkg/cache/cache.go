package cache

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	fiberredis "github.com/gofiber/storage/redis"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PhotoAlbums/internal/pkg/env"
)

var client *redis.Client

// SetupCache initializes the connection to the Redis compatible cache server.
// The cache is optional: a failed ping is logged and Enabled reports false.
func SetupCache() {
	if !env.GetEnvBool("CACHE_ENABLED", false) {
		log.Info("[Cache] Cache disabled")
		return
	}

	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	c := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0, // use default DB
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	pong, err := c.Ping(ctx).Result()
	if err != nil {
		log.Warnf("[Cache] Could not connect to cache: %v", err)
		_ = c.Close()
		return
	}
	log.Infof("[Cache] Successfully connected to cache: %s", pong)
	client = c
}

// GetClient returns the Redis client instance or nil when the cache is disabled.
func GetClient() *redis.Client {
	return client
}

// Enabled reports whether a cache connection is available.
func Enabled() bool {
	return client != nil
}

// Store is a string cache backed by Redis. A Store without client is a no-op
// that always misses, so callers never need to branch on cache availability.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// NewStore creates a Store using the given client and key prefix.
func NewStore(rdb *redis.Client, prefix string) *Store {
	return &Store{rdb: rdb, prefix: prefix}
}

// Get returns the cached value and whether it was found.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	if s == nil || s.rdb == nil {
		return "", false
	}
	val, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Debugf("[Cache] get %s failed: %v", key, err)
		}
		return "", false
	}
	return val, true
}

// Set stores value for ttl. Errors are logged, caching is best-effort.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if s == nil || s.rdb == nil {
		return
	}
	if err := s.rdb.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		log.Debugf("[Cache] set %s failed: %v", key, err)
	}
}

// Delete removes key from the cache.
func (s *Store) Delete(ctx context.Context, key string) {
	if s == nil || s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, s.prefix+key).Err(); err != nil {
		log.Debugf("[Cache] delete %s failed: %v", key, err)
	}
}

// FiberStorage returns a fiber.Storage on the cache server using database,
// or nil when the cache is disabled so middlewares fall back to memory.
func FiberStorage(database int) fiber.Storage {
	if client == nil {
		return nil
	}
	opts := client.Options()
	host, portStr, err := net.SplitHostPort(opts.Addr)
	if err != nil {
		log.Warnf("[Cache] Invalid cache address %q: %v", opts.Addr, err)
		return nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warnf("[Cache] Invalid cache port %q: %v", portStr, err)
		return nil
	}

	return fiberredis.New(fiberredis.Config{
		Host:     host,
		Port:     port,
		Password: opts.Password,
		Database: database,
		Reset:    false,
	})
}
