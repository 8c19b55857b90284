package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

// ResultCache memoizes final search results per rounded coordinate, mode and radius
type ResultCache struct {
	cache domain.CacheRepository
	ttl   time.Duration
}

// NewResultCache wraps a cache repository; a zero ttl keeps entries until restart
func NewResultCache(cache domain.CacheRepository, ttl time.Duration) *ResultCache {
	return &ResultCache{cache: cache, ttl: ttl}
}

// CacheKey builds the deterministic key "<mode>_<lat>_<lng>_<radius>" with
// coordinates rounded to 4 decimals. Lawyer keys carry the specialization, or "all".
func CacheKey(mode domain.SearchMode, origin domain.Coordinate, radius int, specialization string) string {
	key := fmt.Sprintf("%s_%.4f_%.4f_%d", mode, origin.Lat, origin.Lng, radius)
	if mode == domain.ModeLawyer {
		if specialization == "" {
			specialization = "all"
		}
		key += "_" + specialization
	}
	return key
}

// Get returns the cached result for key or domain.ErrCacheMiss
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.SearchResult, error) {
	var result domain.SearchResult
	if err := c.cache.Get(ctx, key, &result); err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[Locator] Cache read for %s failed: %v", key, err)
		}
		return nil, domain.ErrCacheMiss
	}
	return &result, nil
}

// Set stores a finished result. Failures are logged, never returned.
func (c *ResultCache) Set(ctx context.Context, key string, result *domain.SearchResult) {
	if err := c.cache.Set(ctx, key, result, c.ttl); err != nil {
		log.Printf("[Locator] Cache write for %s failed: %v", key, err)
	}
}
