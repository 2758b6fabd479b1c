package command

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
	"github.com/pantheon-trivia/pantheon-hub/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakePlayerRepo struct {
	players []*player.Player
}

func (f *fakePlayerRepo) FindByName(_ context.Context, name string) (*player.Player, error) {
	for _, p := range f.players {
		if p.NameMatches(name) {
			return p, nil
		}
	}
	return nil, shared.ErrPlayerNotFound
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id string) (*player.Player, error) {
	for _, p := range f.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, shared.ErrPlayerNotFound
}

func (f *fakePlayerRepo) Create(_ context.Context, p *player.Player) error {
	key := player.NameKey(p.Name)
	for _, existing := range f.players {
		if player.NameKey(existing.Name) == key {
			return shared.ErrPlayerAlreadyExists
		}
	}
	f.players = append(f.players, p)
	return nil
}

func (f *fakePlayerRepo) ListNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.players))
	for _, p := range f.players {
		names = append(names, p.Name)
	}
	return names, nil
}

type fakeResultRepo struct {
	inserted []*result.Result

	// failOnInsert makes Insert fail once the given count is reached.
	failOnInsert int
	insertErr    error
}

func (f *fakeResultRepo) Insert(_ context.Context, r *result.Result) error {
	if f.insertErr != nil && len(f.inserted) >= f.failOnInsert {
		return f.insertErr
	}
	f.inserted = append(f.inserted, r)
	return nil
}

func (f *fakeResultRepo) DeleteByID(_ context.Context, id string) error {
	for i, r := range f.inserted {
		if r.ID == id {
			f.inserted = append(f.inserted[:i], f.inserted[i+1:]...)
			return nil
		}
	}
	return shared.ErrResultNotFound
}

func (f *fakeResultRepo) ListAllWithPlayers(_ context.Context) ([]result.WithPlayer, error) {
	return nil, nil
}

func (f *fakeResultRepo) ListByDate(_ context.Context, _ result.QuizDate) ([]result.WithPlayer, error) {
	return nil, nil
}

func (f *fakeResultRepo) ListByPlayer(_ context.Context, _ string) ([]*result.Result, error) {
	return nil, nil
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) InvalidateLeaderboard(_ context.Context) error {
	f.calls++
	return nil
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func testDate() result.QuizDate {
	return result.NewQuizDate(2026, time.March, 14)
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestSubmitResults_SavesAllEntries(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	cache := &fakeInvalidator{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, cache, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries: []Entry{
			{Name: "Hercules", RawScore: "32"},
			{Name: "Athena", RawScore: "38"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, out.SavedCount())
	assert.Nil(t, out.Failed)
	assert.Len(t, resultRepo.inserted, 2)
	assert.Len(t, playerRepo.players, 2)
	assert.Equal(t, 1, cache.calls)
}

func TestSubmitResults_ReusesExistingPlayers(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())
	ctx := context.Background()

	_, err := h.Handle(ctx, SubmitResultsCommand{
		QuizDate: testDate(),
		Entries:  []Entry{{Name: "Hercules", RawScore: "32"}},
	})
	require.NoError(t, err)

	_, err = h.Handle(ctx, SubmitResultsCommand{
		QuizDate: result.NewQuizDate(2026, time.March, 21),
		Entries:  []Entry{{Name: "hercules", RawScore: "28"}},
	})
	require.NoError(t, err)

	require.Len(t, playerRepo.players, 1, "same name must resolve to one player")
	require.Len(t, resultRepo.inserted, 2)
	assert.Equal(t, resultRepo.inserted[0].PlayerID, resultRepo.inserted[1].PlayerID)
}

func TestSubmitResults_InvalidScoreNamesThePlayer(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries:  []Entry{{Name: "Zeus", RawScore: "41"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Zeus", "error must name the player")
	assert.True(t, shared.IsValidation(err))

	// The bad entry must leave no trace: no player, no result.
	assert.Empty(t, playerRepo.players)
	assert.Empty(t, resultRepo.inserted)
	require.NotNil(t, out.Failed)
	assert.Equal(t, 0, out.Failed.Index)
	assert.Equal(t, "Zeus", out.Failed.Name)
}

func TestSubmitResults_ScoreBoundaries(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries: []Entry{
			{Name: "Zeus", RawScore: "0"},
			{Name: "Hera", RawScore: "40"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.SavedCount())

	for _, raw := range []string{"-1", "41", "abc"} {
		_, err := h.Handle(context.Background(), SubmitResultsCommand{
			QuizDate: testDate(),
			Entries:  []Entry{{Name: "Apollo", RawScore: raw}},
		})
		assert.Error(t, err, "score %q must be rejected", raw)
	}
	assert.Len(t, resultRepo.inserted, 2, "rejected scores must not persist")
}

func TestSubmitResults_BlankNameWithScoreIsAnError(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())

	_, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries:  []Entry{{Name: "   ", RawScore: "25"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestSubmitResults_FullyBlankRowsAreSkipped(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries: []Entry{
			{Name: "Hercules", RawScore: "32"},
			{Name: "", RawScore: ""},
			{Name: "  ", RawScore: " "},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, out.SavedCount())
	assert.Equal(t, 2, out.Skipped)
}

func TestSubmitResults_AbortKeepsEarlierSaves(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	cache := &fakeInvalidator{}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, cache, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries: []Entry{
			{Name: "Hercules", RawScore: "32"},
			{Name: "Athena", RawScore: "38"},
			{Name: "Zeus", RawScore: "oops"},
			{Name: "Hermes", RawScore: "30"},
		},
	})

	require.Error(t, err)

	// Batches are not atomic: the first two rows stay saved, and nothing
	// after the failing row is processed.
	assert.Equal(t, 2, out.SavedCount())
	assert.Len(t, resultRepo.inserted, 2)
	require.NotNil(t, out.Failed)
	assert.Equal(t, 2, out.Failed.Index)
	assert.Equal(t, "Zeus", out.Failed.Name)

	// Committed rows mean the cached view is stale.
	assert.Equal(t, 1, cache.calls)
}

func TestSubmitResults_StorageFailureAbortsBatch(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{
		failOnInsert: 1,
		insertErr:    errors.New("connection reset"),
	}
	h := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries: []Entry{
			{Name: "Hercules", RawScore: "32"},
			{Name: "Athena", RawScore: "38"},
		},
	})

	require.Error(t, err)
	assert.True(t, shared.IsStorage(err))
	assert.Equal(t, 1, out.SavedCount())
	require.NotNil(t, out.Failed)
	assert.Equal(t, 1, out.Failed.Index)
}

func TestSubmitResults_MissingDateIsRejected(t *testing.T) {
	h := NewSubmitResultsHandler(player.NewDirectory(&fakePlayerRepo{}), &fakeResultRepo{}, nil, quietLogger())

	out, err := h.Handle(context.Background(), SubmitResultsCommand{
		Entries: []Entry{{Name: "Hercules", RawScore: "32"}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
	assert.Zero(t, out.SavedCount())
}

func TestSubmitResults_NoCacheInvalidationWhenNothingSaved(t *testing.T) {
	cache := &fakeInvalidator{}
	h := NewSubmitResultsHandler(player.NewDirectory(&fakePlayerRepo{}), &fakeResultRepo{}, cache, quietLogger())

	_, err := h.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries:  []Entry{{Name: "", RawScore: ""}},
	})

	require.NoError(t, err)
	assert.Zero(t, cache.calls)
}
