package redis

import (
	"context"
	"errors"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/stats"
	"github.com/pantheon-trivia/pantheon-hub/pkg/circuitbreaker"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE
// Implements query.StatsCache and command.CacheInvalidator. All calls run
// through a circuit breaker: when Redis misbehaves, reads report a miss and
// the query side recomputes from Postgres instead of waiting on timeouts.
// ══════════════════════════════════════════════════════════════════════════════

// StatsCache caches the aggregated per-player stats behind the leaderboard.
type StatsCache struct {
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewStatsCache creates a StatsCache over the given cache client.
func NewStatsCache(cache *Cache, log *logger.Logger) *StatsCache {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("stats_cache"))

	cfg := circuitbreaker.DefaultConfig("redis-stats")
	cfg.OnStateChange = func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	}

	return &StatsCache{
		cache:   cache,
		breaker: circuitbreaker.New(cfg),
		log:     log,
	}
}

// GetStats returns the cached aggregation pass, ok=false on miss.
// An open circuit counts as a miss, not an error.
func (s *StatsCache) GetStats(ctx context.Context) ([]stats.PlayerStats, bool, error) {
	var cached []stats.PlayerStats
	found := false

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		err := s.cache.Get(ctx, StatsKey(), &cached)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return cached, found, nil
}

// SetStats stores an aggregation pass with a staleness-bounding TTL.
func (s *StatsCache) SetStats(ctx context.Context, playerStats []stats.PlayerStats) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.Set(ctx, StatsKey(), playerStats, TTLStatsCache)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// InvalidateLeaderboard drops the cached stats. Called after every result
// write so the next read recomputes. An open circuit is not an error here
// either: the TTL bounds how stale a lost invalidation can leave the cache.
func (s *StatsCache) InvalidateLeaderboard(ctx context.Context) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.Delete(ctx, StatsKey())
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		s.log.Warn("cache invalidation skipped, circuit open")
		return nil
	}
	return err
}
