package backend

import (
	"context"
	stderrors "errors"
	"time"

	"gigdial/internal/common/database"
	"gigdial/internal/common/logger"
	"gigdial/internal/models"
)

const gigListCacheKey = "gigdial:gigs:all"

// GigSource yields the current gig list.
type GigSource interface {
	Gigs(ctx context.Context) ([]models.Gig, error)
}

// GigLister is the backend call behind a CachedGigSource.
type GigLister interface {
	ListGigs(ctx context.Context) ([]models.Gig, error)
}

// CachedGigSource reads GET /api/gigs through a Redis cache. Cache failures
// degrade to a direct fetch; they are never surfaced to callers.
type CachedGigSource struct {
	lister GigLister
	cache  *database.RedisClient
	ttl    time.Duration
	log    logger.Logger
}

func NewCachedGigSource(lister GigLister, cache *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedGigSource {
	return &CachedGigSource{lister: lister, cache: cache, ttl: ttl, log: log}
}

// Gigs returns the cached list, fetching and caching it on a miss.
func (s *CachedGigSource) Gigs(ctx context.Context) ([]models.Gig, error) {
	if s.cache != nil {
		var cached []models.Gig
		err := s.cache.GetJSON(ctx, gigListCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !stderrors.Is(err, database.ErrCacheMiss) {
			s.log.Warn("gig cache read failed", map[string]interface{}{"error": err})
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches the list from the backend and overwrites the cache.
func (s *CachedGigSource) Refresh(ctx context.Context) ([]models.Gig, error) {
	gigs, err := s.lister.ListGigs(ctx)
	if err != nil {
		return nil, err
	}
	if gigs == nil {
		gigs = []models.Gig{}
	}
	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, gigListCacheKey, gigs, s.ttl); err != nil {
			s.log.Warn("gig cache write failed", map[string]interface{}{"error": err})
		}
	}
	return gigs, nil
}
