package news

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"ThinkWhy/internal/cache"
)

// Service validates queries and caches provider results for a short time
type Service struct {
	searcher Searcher
	cache    *cache.TTL[[]Article]
	logger   *slog.Logger
}

// NewService wraps searcher with a result cache of the given ttl
func NewService(searcher Searcher, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		searcher: searcher,
		cache:    cache.NewTTL[[]Article](ttl),
		logger:   logger,
	}
}

func cacheKey(q Query) string {
	return cache.Key(q.Text(), q.Region, q.TimeLimit, strconv.Itoa(q.MaxResults))
}

// Search runs q. Provider failures are logged and returned with no results.
func (s *Service) Search(ctx context.Context, q Query) ([]Article, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(q)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.Info("news cache hit", "key", key[:16])
		return cached, nil
	}

	articles, err := s.searcher.Search(ctx, q)
	if err != nil {
		s.logger.Error("news search failed", "query", q.Text(), "error", err)
		return nil, fmt.Errorf("error fetching news: %w", err)
	}
	s.cache.Put(key, articles)
	return articles, nil
}
