package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/player"
	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

func TestDeleteResult_RemovesTheResult(t *testing.T) {
	playerRepo := &fakePlayerRepo{}
	resultRepo := &fakeResultRepo{}
	cache := &fakeInvalidator{}

	submit := NewSubmitResultsHandler(player.NewDirectory(playerRepo), resultRepo, nil, quietLogger())
	out, err := submit.Handle(context.Background(), SubmitResultsCommand{
		QuizDate: testDate(),
		Entries:  []Entry{{Name: "Hercules", RawScore: "32"}},
	})
	require.NoError(t, err)
	resultID := out.Saved[0].ResultID

	h := NewDeleteResultHandler(resultRepo, cache, quietLogger())
	err = h.Handle(context.Background(), DeleteResultCommand{ResultID: resultID})

	require.NoError(t, err)
	assert.Empty(t, resultRepo.inserted)
	assert.Equal(t, 1, cache.calls)
}

func TestDeleteResult_UnknownIDIsNotFound(t *testing.T) {
	cache := &fakeInvalidator{}
	h := NewDeleteResultHandler(&fakeResultRepo{}, cache, quietLogger())

	err := h.Handle(context.Background(), DeleteResultCommand{ResultID: "nope"})

	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Zero(t, cache.calls, "nothing changed, nothing to invalidate")
}

func TestDeleteResult_EmptyIDIsRejected(t *testing.T) {
	h := NewDeleteResultHandler(&fakeResultRepo{}, nil, quietLogger())

	err := h.Handle(context.Background(), DeleteResultCommand{})

	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}
