// Package result contains the scored-event domain of Pantheon Trivia Hub.
// A result is one scored trivia night for one player on one calendar date.
// Results are appended by the operator and occasionally deleted to fix
// entry mistakes; they are never updated in place.
package result

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pantheon-trivia/pantheon-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Score bounds for a quiz night. A team answers 40 questions, one point each.
const (
	MinScore = 0
	MaxScore = 40
)

// Score is the number of points earned on one quiz night.
type Score int

// IsValid reports whether the score lies in the inclusive [MinScore, MaxScore] range.
func (s Score) IsValid() bool {
	return s >= MinScore && s <= MaxScore
}

// ParseScore parses a raw operator-typed score. It rejects anything that is
// not an integer and anything outside the valid range. The range is enforced
// here because the database schema deliberately carries no CHECK constraint.
func ParseScore(raw string) (Score, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, shared.ErrScoreNotANumber
	}
	s := Score(n)
	if !s.IsValid() {
		return 0, shared.ErrScoreOutOfRange
	}
	return s, nil
}

// QuizDate is a calendar date with no time component.
// Internally it is a time.Time pinned to midnight UTC.
type QuizDate struct {
	t time.Time
}

// QuizDateLayout is the wire format for quiz dates.
const QuizDateLayout = "2006-01-02"

// NewQuizDate builds a QuizDate from year, month, and day.
func NewQuizDate(year int, month time.Month, day int) QuizDate {
	return QuizDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// QuizDateOf truncates a time to its calendar date.
func QuizDateOf(t time.Time) QuizDate {
	return NewQuizDate(t.Year(), t.Month(), t.Day())
}

// ParseQuizDate parses a "YYYY-MM-DD" string.
func ParseQuizDate(raw string) (QuizDate, error) {
	t, err := time.Parse(QuizDateLayout, raw)
	if err != nil {
		return QuizDate{}, shared.WrapError("result", "ParseQuizDate", shared.ErrInvalidFormat, "quiz date must be YYYY-MM-DD", err)
	}
	return QuizDateOf(t), nil
}

// Time returns the underlying midnight-UTC time, for storage drivers.
func (d QuizDate) Time() time.Time {
	return d.t
}

// String formats the date as "YYYY-MM-DD".
func (d QuizDate) String() string {
	return d.t.Format(QuizDateLayout)
}

// Equal reports whether two quiz dates are the same calendar date.
func (d QuizDate) Equal(other QuizDate) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d falls before other.
func (d QuizDate) Before(other QuizDate) bool {
	return d.t.Before(other.t)
}

// IsZero reports whether the date is unset.
func (d QuizDate) IsZero() bool {
	return d.t.IsZero()
}

// ══════════════════════════════════════════════════════════════════════════════
// RESULT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Result is a single scored event for one player.
// Multiple results may exist for the same player on the same date; a player
// who plays in two teams on one night legitimately gets two rows.
type Result struct {
	// ID is the stable identifier (UUID string).
	ID string

	// PlayerID is the owning player's identity.
	PlayerID string

	// QuizDate is the calendar date of the quiz night.
	QuizDate QuizDate

	// Score is the validated score in [MinScore, MaxScore].
	Score Score

	// CreatedAt is when the row was entered, used for "newest first" listings.
	CreatedAt time.Time
}

// New creates a new Result for the given player, date, and score.
func New(playerID string, date QuizDate, score Score) *Result {
	return &Result{
		ID:        uuid.New().String(),
		PlayerID:  playerID,
		QuizDate:  date,
		Score:     score,
		CreatedAt: time.Now().UTC(),
	}
}

// WithPlayer is a result joined with its owning player's name,
// the shape the store returns for listings and aggregation.
type WithPlayer struct {
	Result
	PlayerName string
}
