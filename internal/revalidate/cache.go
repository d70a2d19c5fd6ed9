// Package revalidate caches rendered route data and drops it when the underlying rows change.
package revalidate

import (
	"context"
	"strconv"
	"time"

	"github.com/ridwanfathin/invoice-dashboard/internal/config"
)

// RouteCache stores page data per route path and query string.
// Every path carries a generation that Revalidate advances; a value computed
// under an older generation is never served.
type RouteCache interface {
	// Generation returns the current generation of a path. Read it before loading the data to cache.
	Generation(ctx context.Context, path string) (int64, error)
	// Get returns the cached value for a path and raw query
	Get(ctx context.Context, path, query string) ([]byte, bool, error)
	// Set stores a value loaded under generation; it is dropped if the path was revalidated since
	Set(ctx context.Context, path, query string, generation int64, value []byte) error
	// Revalidate advances the generation of a path and drops every cached variant of it
	Revalidate(ctx context.Context, path string) error
	// Close releases the resources held by the cache
	Close() error
}

const (
	defaultTTL  = 5 * time.Minute
	defaultSize = 256
)

// New builds the route cache selected by the configuration: Redis when a URL is set, in-memory otherwise
func New(cfg *config.Config) (RouteCache, error) {
	if cfg.RedisURL != "" {
		return NewRedisCache(cfg.RedisURL, cfg.RouteCacheTTL)
	}
	return NewMemoryCache(cfg.RouteCacheSize, cfg.RouteCacheTTL), nil
}

// routeKey joins path, generation and query; '|' cannot appear in a request path
func routeKey(path string, generation int64, query string) string {
	return pathPrefix(path) + strconv.FormatInt(generation, 10) + "|" + query
}

// pathPrefix is shared by every key of a path, whatever its generation
func pathPrefix(path string) string {
	return path + "|"
}
