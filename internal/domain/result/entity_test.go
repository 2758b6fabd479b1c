package result

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

func TestParseScore_AcceptsFullRange(t *testing.T) {
	for _, raw := range []string{"0", "1", "20", "39", "40"} {
		score, err := ParseScore(raw)
		require.NoError(t, err, "score %s should be valid", raw)
		assert.True(t, score.IsValid())
	}
}

func TestParseScore_RejectsOutOfRange(t *testing.T) {
	_, err := ParseScore("-1")
	assert.ErrorIs(t, err, shared.ErrScoreOutOfRange)

	_, err = ParseScore("41")
	assert.ErrorIs(t, err, shared.ErrScoreOutOfRange)

	_, err = ParseScore("100")
	assert.ErrorIs(t, err, shared.ErrScoreOutOfRange)
}

func TestParseScore_RejectsNonNumeric(t *testing.T) {
	for _, raw := range []string{"", "abc", "12.5", "1e2", " 12"} {
		_, err := ParseScore(raw)
		assert.ErrorIs(t, err, shared.ErrScoreNotANumber, "input %q", raw)
	}
}

func TestParseQuizDate(t *testing.T) {
	date, err := ParseQuizDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", date.String())
	assert.Equal(t, time.UTC, date.Time().Location())
	assert.Equal(t, 0, date.Time().Hour())
}

func TestParseQuizDate_RejectsBadFormat(t *testing.T) {
	for _, raw := range []string{"", "14-03-2026", "2026/03/14", "2026-13-01", "yesterday"} {
		_, err := ParseQuizDate(raw)
		assert.Error(t, err, "input %q", raw)
		assert.True(t, shared.IsValidation(err), "input %q should fail validation", raw)
	}
}

func TestQuizDate_Comparisons(t *testing.T) {
	a := NewQuizDate(2026, time.March, 14)
	b := QuizDateOf(time.Date(2026, time.March, 14, 23, 59, 0, 0, time.UTC))
	c := NewQuizDate(2026, time.March, 15)

	assert.True(t, a.Equal(b), "time of day must not matter")
	assert.True(t, a.Before(c))
	assert.False(t, c.Before(a))
	assert.False(t, a.IsZero())
	assert.True(t, QuizDate{}.IsZero())
}

func TestNew_PopulatesIdentityAndTimestamps(t *testing.T) {
	date := NewQuizDate(2026, time.March, 14)

	r := New("player-1", date, 32)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "player-1", r.PlayerID)
	assert.True(t, r.QuizDate.Equal(date))
	assert.Equal(t, Score(32), r.Score)
	assert.False(t, r.CreatedAt.IsZero())

	other := New("player-1", date, 32)
	assert.NotEqual(t, r.ID, other.ID, "each result gets its own identity")
}
