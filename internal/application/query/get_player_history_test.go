package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/result"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

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

func TestGetPlayerHistory_ReturnsTimeline(t *testing.T) {
	playerRepo := &fakePlayerRepo{players: []*player.Player{{ID: "p1", Name: "Hercules"}}}
	resultRepo := &fakeResultRepo{rows: []result.WithPlayer{
		row("p1", "Hercules", 1, 32),
		row("p1", "Hercules", 8, 28),
		row("p2", "Athena", 8, 38),
	}}
	h := NewGetPlayerHistoryHandler(playerRepo, resultRepo)

	res, err := h.Handle(context.Background(), GetPlayerHistoryQuery{PlayerID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, "Hercules", res.Name)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "2026-01-01", res.Points[0].QuizDate)
	assert.Equal(t, 32, res.Points[0].Score)
	assert.Equal(t, 28, res.Points[1].Score)
}

func TestGetPlayerHistory_UnknownPlayer(t *testing.T) {
	h := NewGetPlayerHistoryHandler(&fakePlayerRepo{}, &fakeResultRepo{})

	_, err := h.Handle(context.Background(), GetPlayerHistoryQuery{PlayerID: "ghost"})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestGetPlayerHistory_NoResultsIsEmptyNotError(t *testing.T) {
	playerRepo := &fakePlayerRepo{players: []*player.Player{{ID: "p1", Name: "Hercules"}}}
	h := NewGetPlayerHistoryHandler(playerRepo, &fakeResultRepo{})

	res, err := h.Handle(context.Background(), GetPlayerHistoryQuery{PlayerID: "p1"})

	require.NoError(t, err)
	assert.Empty(t, res.Points)
}

func TestGetRecentResults_NewestFirstForDate(t *testing.T) {
	resultRepo := &fakeResultRepo{rows: []result.WithPlayer{
		row("p1", "Hercules", 8, 32),
		row("p2", "Athena", 8, 38),
		row("p3", "Zeus", 1, 40),
	}}
	h := NewGetRecentResultsHandler(resultRepo)

	res, err := h.Handle(context.Background(), GetRecentResultsQuery{
		QuizDate: result.NewQuizDate(2026, time.January, 8),
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-01-08", res.QuizDate)
	require.Len(t, res.Results, 2)

	// The fake returns rows in reverse insertion order, mimicking the
	// store's created_at DESC listing.
	assert.Equal(t, "Athena", res.Results[0].PlayerName)
	assert.Equal(t, "Hercules", res.Results[1].PlayerName)
}

func TestGetRecentResults_RequiresDate(t *testing.T) {
	h := NewGetRecentResultsHandler(&fakeResultRepo{})

	_, err := h.Handle(context.Background(), GetRecentResultsQuery{})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestSuggestPlayers(t *testing.T) {
	playerRepo := &fakePlayerRepo{players: []*player.Player{
		{ID: "p1", Name: "Hercules"},
		{ID: "p2", Name: "Hermes"},
		{ID: "p3", Name: "Athena"},
	}}
	h := NewSuggestPlayersHandler(player.NewDirectory(playerRepo))

	res, err := h.Handle(context.Background(), SuggestPlayersQuery{Prefix: "her"})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hercules", "Hermes"}, res.Names)
}
