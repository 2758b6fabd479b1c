package query

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/stats"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeResultRepo struct {
	rows    []result.WithPlayer
	listErr error

	listCalls int
}

func (f *fakeResultRepo) Insert(_ context.Context, _ *result.Result) error { return nil }

func (f *fakeResultRepo) DeleteByID(_ context.Context, _ string) error { return nil }

func (f *fakeResultRepo) ListAllWithPlayers(_ context.Context) ([]result.WithPlayer, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.rows, nil
}

func (f *fakeResultRepo) ListByDate(_ context.Context, date result.QuizDate) ([]result.WithPlayer, error) {
	var out []result.WithPlayer
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].QuizDate.Equal(date) {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeResultRepo) ListByPlayer(_ context.Context, playerID string) ([]*result.Result, error) {
	var out []*result.Result
	for i := range f.rows {
		if f.rows[i].PlayerID == playerID {
			out = append(out, &f.rows[i].Result)
		}
	}
	return out, nil
}

type fakeStatsCache struct {
	stats []stats.PlayerStats
	has   bool
	err   error

	sets int
}

func (f *fakeStatsCache) GetStats(_ context.Context) ([]stats.PlayerStats, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.stats, f.has, nil
}

func (f *fakeStatsCache) SetStats(_ context.Context, s []stats.PlayerStats) error {
	f.stats = s
	f.has = true
	f.sets++
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func row(playerID, name string, day, score int) result.WithPlayer {
	return result.WithPlayer{
		Result: result.Result{
			ID:       playerID + "-" + name,
			PlayerID: playerID,
			QuizDate: result.NewQuizDate(2026, time.January, day),
			Score:    result.Score(score),
		},
		PlayerName: name,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestGetLeaderboard_AggregatesAndRanks(t *testing.T) {
	repo := &fakeResultRepo{rows: []result.WithPlayer{
		{Result: result.Result{ID: "r1", PlayerID: "p1", QuizDate: result.NewQuizDate(2026, time.January, 1), Score: 32}, PlayerName: "Hercules"},
		{Result: result.Result{ID: "r2", PlayerID: "p1", QuizDate: result.NewQuizDate(2026, time.January, 8), Score: 28}, PlayerName: "Hercules"},
		{Result: result.Result{ID: "r3", PlayerID: "p2", QuizDate: result.NewQuizDate(2026, time.January, 8), Score: 38}, PlayerName: "Athena"},
	}}
	h := NewGetLeaderboardHandler(repo, nil, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err)
	require.Len(t, res.Entries, 2)

	// Default sort is average descending: Athena (38) over Hercules (30).
	assert.Equal(t, "Athena", res.Entries[0].Name)
	assert.Equal(t, 1, res.Entries[0].Rank)
	assert.Equal(t, stats.BadgeCrown, res.Entries[0].Badge)
	assert.Equal(t, "Hercules", res.Entries[1].Name)
	assert.Equal(t, 60, res.Entries[1].TotalScore)
	assert.InDelta(t, 30.0, res.Entries[1].AverageScore, 1e-9)

	assert.Equal(t, 2, res.Overview.PlayerCount)
	assert.Equal(t, 3, res.Overview.GamesPlayed)
	assert.Equal(t, 60, res.Overview.TopTotalScore)
	assert.False(t, res.FromCache)
	assert.False(t, res.GeneratedAt.IsZero())
}

func TestGetLeaderboard_FiltersApplyToFreshAggregates(t *testing.T) {
	repo := &fakeResultRepo{rows: []result.WithPlayer{
		row("p1", "Hercules", 1, 30),
		row("p2", "Hermes", 1, 35),
		row("p3", "Zeus", 1, 40),
	}}
	h := NewGetLeaderboardHandler(repo, nil, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{NameFilter: "her"})

	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalMatches)

	// The overview always covers the whole set, not the filtered view.
	assert.Equal(t, 3, res.Overview.PlayerCount)
}

func TestGetLeaderboard_EmptyStore(t *testing.T) {
	h := NewGetLeaderboardHandler(&fakeResultRepo{}, nil, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err)
	assert.Empty(t, res.Entries)
	assert.Zero(t, res.Overview.PlayerCount)
}

func TestGetLeaderboard_CacheHitSkipsRecompute(t *testing.T) {
	repo := &fakeResultRepo{}
	cache := &fakeStatsCache{
		stats: []stats.PlayerStats{
			{PlayerID: "p1", Name: "Zeus", TotalScore: 40, GamesPlayed: 1, AverageScore: 40},
		},
		has: true,
	}
	h := NewGetLeaderboardHandler(repo, cache, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Zero(t, repo.listCalls, "cache hit must not touch the store")
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Zeus", res.Entries[0].Name)
}

func TestGetLeaderboard_CacheMissRecomputesAndStores(t *testing.T) {
	repo := &fakeResultRepo{rows: []result.WithPlayer{row("p1", "Zeus", 1, 40)}}
	cache := &fakeStatsCache{}
	h := NewGetLeaderboardHandler(repo, cache, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets, "recomputed stats are written back")
}

func TestGetLeaderboard_CacheFailureFallsBackToStore(t *testing.T) {
	repo := &fakeResultRepo{rows: []result.WithPlayer{row("p1", "Zeus", 1, 40)}}
	cache := &fakeStatsCache{err: errors.New("redis down")}
	h := NewGetLeaderboardHandler(repo, cache, quietLogger())

	res, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.NoError(t, err, "a broken cache must never fail a read")
	assert.False(t, res.FromCache)
	require.Len(t, res.Entries, 1)
}

func TestGetLeaderboard_StoreFailureIsStorageError(t *testing.T) {
	repo := &fakeResultRepo{listErr: errors.New("connection refused")}
	h := NewGetLeaderboardHandler(repo, nil, quietLogger())

	_, err := h.Handle(context.Background(), GetLeaderboardQuery{})

	require.Error(t, err)
	assert.True(t, shared.IsStorage(err))
}
