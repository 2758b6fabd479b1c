// Package query contains read operations following the CQRS pattern.
// Queries never modify state; each is a self-contained use case with its
// own request/response types. Every leaderboard read recomputes the
// aggregates from the full raw result set — there is no incremental state,
// only an optional write-invalidated cache in front of the recompute.
package query

import (
	"context"
	"time"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/stats"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Fetches the raw result set, aggregates it per player, and shapes it for
// display: name filter, minimum games filter, sort key, pagination.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains the leaderboard display parameters.
type GetLeaderboardQuery struct {
	// NameFilter is a case-insensitive substring filter; empty matches all.
	NameFilter string

	// MinGames is the inclusive lower bound on games played.
	MinGames int

	// SortBy is "average" or "total"; anything else falls back to average.
	SortBy string

	// Page is the 1-indexed page number.
	Page int

	// PageSize is rows per page; 0 means the default of 25.
	PageSize int
}

// GetLeaderboardResult contains one display-ready leaderboard page plus the
// headline numbers for the landing page cards.
type GetLeaderboardResult struct {
	stats.Page

	// Overview holds the headline numbers over the whole (unfiltered) set.
	Overview stats.Overview `json:"overview"`

	// GeneratedAt is when this aggregation pass ran.
	GeneratedAt time.Time `json:"generated_at"`

	// FromCache reports whether the aggregates came from the cache.
	FromCache bool `json:"-"`
}

// StatsCache is the optional read-side cache for aggregated stats. A miss
// or failure is never an error to the caller; the handler recomputes.
type StatsCache interface {
	// GetStats returns the cached aggregation pass, ok=false on miss.
	GetStats(ctx context.Context) (cached []stats.PlayerStats, ok bool, err error)

	// SetStats stores an aggregation pass.
	SetStats(ctx context.Context, stats []stats.PlayerStats) error
}

// GetLeaderboardHandler handles leaderboard reads.
type GetLeaderboardHandler struct {
	resultRepo result.Repository
	cache      StatsCache
	log        *logger.Logger
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
// cache may be nil when caching is disabled.
func NewGetLeaderboardHandler(resultRepo result.Repository, cache StatsCache, log *logger.Logger) *GetLeaderboardHandler {
	if log == nil {
		log = logger.Default()
	}
	return &GetLeaderboardHandler{
		resultRepo: resultRepo,
		cache:      cache,
		log:        log.With(logger.Component("get_leaderboard")),
	}
}

// Handle runs a full aggregation pass (or takes the cached one) and applies
// the ranking view. Filtering, sorting, and pagination always run fresh, so
// two callers with different filters can share one aggregation pass.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	aggregated, fromCache, err := h.aggregated(ctx)
	if err != nil {
		return nil, err
	}

	page := stats.View(aggregated, stats.Query{
		NameFilter: q.NameFilter,
		MinGames:   q.MinGames,
		SortBy:     stats.SortKey(q.SortBy),
		Page:       q.Page,
		PageSize:   q.PageSize,
	})

	return &GetLeaderboardResult{
		Page:        page,
		Overview:    stats.Summarize(aggregated),
		GeneratedAt: time.Now().UTC(),
		FromCache:   fromCache,
	}, nil
}

// aggregated returns the per-player stats, from cache when possible.
func (h *GetLeaderboardHandler) aggregated(ctx context.Context) ([]stats.PlayerStats, bool, error) {
	if h.cache != nil {
		cached, ok, err := h.cache.GetStats(ctx)
		if err != nil {
			h.log.Warn("stats cache read failed, recomputing", logger.Err(err))
		} else if ok {
			return cached, true, nil
		}
	}

	rows, err := h.resultRepo.ListAllWithPlayers(ctx)
	if err != nil {
		return nil, false, shared.WrapError("query", "GetLeaderboard", shared.ErrStorage, "failed to load results", err)
	}

	aggregated := stats.AggregateJoined(rows)

	if h.cache != nil {
		if err := h.cache.SetStats(ctx, aggregated); err != nil {
			h.log.Warn("stats cache write failed", logger.Err(err))
		}
	}

	return aggregated, false, nil
}
